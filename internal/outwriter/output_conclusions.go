package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/schema"
)

// schemeTitles are the display headings of the conclusion tables.
var schemeTitles = map[schema.ConclusionScheme]string{
	schema.GapScheme:        "📐 Gap conclusion",
	schema.PotensialScheme:  "🌱 Potensial mapping",
	schema.CompetencyScheme: "🧭 Competency bands",
	schema.FinalScheme:      "🏁 Final assessment",
}

// WriteConclusions outputs the static conclusion tables.
// This is a static display that does not read rating data.
func WriteConclusions(rows []schema.ConclusionTableRow, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeConclusionsCSV(w, rows)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return unsupportedParquet("conclusions")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeConclusionsText(w, rows, cfg)
		}, "Wrote text")
	}
}

// writeConclusionsText prints one table per scheme, in the order the rows arrive.
func writeConclusionsText(w io.Writer, rows []schema.ConclusionTableRow, cfg *contract.Config) error {
	var groups [][]schema.ConclusionTableRow
	for _, r := range rows {
		if n := len(groups); n > 0 && groups[n-1][0].Scheme == r.Scheme {
			groups[n-1] = append(groups[n-1], r)
			continue
		}
		groups = append(groups, []schema.ConclusionTableRow{r})
	}

	for i, group := range groups {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		title, ok := schemeTitles[group[0].Scheme]
		if !ok {
			title = string(group[0].Scheme)
		}
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Code", "Conclusion", "Rule", "Notes"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignLeft
		})
		var data [][]string
		for _, r := range group {
			text := r.Text
			if cfg.UseColors {
				text = contract.GetColorLabel(r.Text, r.Style)
			}
			notes := r.Description
			if r.Mapped != "" {
				notes = "→ " + r.Mapped
			}
			data = append(data, []string{string(r.Code), text, r.Rule, notes})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}

func writeConclusionsCSV(w io.Writer, rows []schema.ConclusionTableRow) error {
	header := []string{"scheme", "code", "text", "rule", "mapped", "description", "style"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{string(r.Scheme), string(r.Code), r.Text, r.Rule, r.Mapped, r.Description, string(r.Style)}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
