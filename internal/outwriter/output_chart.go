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

// chartTableFixedWidth is the width of the numeric chart columns.
const chartTableFixedWidth = 40

// chartsJSON is the JSON shape of the chart output.
type chartsJSON struct {
	Participant schema.Participant `json:"participant"`
	Charts      []CategoryChart    `json:"charts"`
}

// WriteCharts outputs chart series of one participant.
func WriteCharts(participant schema.Participant, charts []CategoryChart, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, chartsJSON{Participant: participant, Charts: charts})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeChartsCSV(w, charts, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return unsupportedParquet("chart")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeChartsText(w, participant, charts, cfg, fmtFloat)
		}, "Wrote table")
	}
}

func writeChartsText(w io.Writer, participant schema.Participant, charts []CategoryChart, cfg *contract.Config, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "📊 %s (%s)\n", participant.Name, participant.TestNumber); err != nil {
		return err
	}
	nameWidth := GetMaxTableNameWidth(cfg, chartTableFixedWidth)

	for _, c := range charts {
		if _, err := fmt.Fprintf(w, "\n%s\n", c.Category); err != nil {
			return err
		}
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Aspect", "Standard", "Adj Standard", "Individual"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		var data [][]string
		for i, label := range c.Series.Labels {
			data = append(data, []string{
				contract.TruncateName(label, nameWidth),
				fmtFloat(c.Series.OriginalStandard[i]),
				fmtFloat(c.Series.Standard[i]),
				fmtFloat(c.Series.Individual[i]),
			})
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

func writeChartsCSV(w io.Writer, charts []CategoryChart, fmtFloat func(float64) string) error {
	header := []string{"category", "label", "original_standard", "standard", "individual"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, c := range charts {
			for i, label := range c.Series.Labels {
				rec := []string{
					string(c.Category),
					label,
					fmtFloat(c.Series.OriginalStandard[i]),
					fmtFloat(c.Series.Standard[i]),
					fmtFloat(c.Series.Individual[i]),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// summaryJSON is the JSON shape of the competency summary.
type summaryJSON struct {
	Participant schema.Participant            `json:"participant"`
	Rows        []schema.CompetencySummaryRow `json:"rows"`
}

// WriteSummary outputs the five-band competency summary of one participant.
func WriteSummary(participant schema.Participant, rows []schema.CompetencySummaryRow, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summaryJSON{Participant: participant, Rows: rows})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryCSV(w, rows, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return unsupportedParquet("summary")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryText(w, participant, rows, cfg, fmtFloat)
		}, "Wrote table")
	}
}

func writeSummaryText(w io.Writer, participant schema.Participant, rows []schema.CompetencySummaryRow, cfg *contract.Config, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "🧭 Competency summary of %s (%s)\n", participant.Name, participant.TestNumber); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Aspect", "Gap", "Band", "Description"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	var data [][]string
	for _, r := range rows {
		band := r.Band
		if cfg.UseColors {
			band = contract.GetColorLabel(r.Band, r.Color)
		}
		data = append(data, []string{r.AspectName, fmtFloat(r.Gap), band, r.Description})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeSummaryCSV(w io.Writer, rows []schema.CompetencySummaryRow, fmtFloat func(float64) string) error {
	header := []string{"aspect_code", "aspect_name", "gap", "band", "description", "color"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			if err := cw.Write([]string{r.AspectCode, r.AspectName, fmtFloat(r.Gap), r.Band, r.Description, string(r.Color)}); err != nil {
				return err
			}
		}
		return nil
	})
}
