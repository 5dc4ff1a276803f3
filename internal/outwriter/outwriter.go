// Package outwriter renders reports, rankings and conclusion tables as text,
// CSV, JSON or Parquet.
package outwriter

import (
	"errors"
	"fmt"
	"io"

	"github.com/psymap/psymap/core/algo"
	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/schema"
)

// ErrParquetUnsupported is returned for outputs that have no flat row shape.
var ErrParquetUnsupported = errors.New("parquet output is only available for final and ranking")

// CategoryChart is the chart series of one category.
type CategoryChart struct {
	Category schema.CategoryCode `json:"category"`
	Series   schema.ChartSeries  `json:"series"`
}

// styledLabel colors a conclusion label by its scheme when colors are on.
// Labels outside the scheme print plain.
func styledLabel(cfg *contract.Config, text string, scheme schema.ConclusionScheme) string {
	if !cfg.UseColors {
		return text
	}
	style, err := algo.DisplayStyleFor(text, scheme)
	if err != nil {
		return text
	}
	return contract.GetColorLabel(text, style)
}

// schemeForScope picks the conclusion scheme of a ranking scope.
func schemeForScope(scope schema.RankScope) schema.ConclusionScheme {
	switch scope {
	case schema.RankPotensi:
		return schema.PotensialScheme
	case schema.RankKompetensi:
		return schema.GapScheme
	default:
		return schema.FinalScheme
	}
}

// unsupportedParquet wraps ErrParquetUnsupported with the name of the output.
func unsupportedParquet(what string) error {
	return fmt.Errorf("%w (requested for %s)", ErrParquetUnsupported, what)
}

// writeFooter prints the closing timing line under text tables.
func writeFooter(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format+"\n", args...)
	return err
}
