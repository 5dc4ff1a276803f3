package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/internal/parquet"
	"github.com/psymap/psymap/schema"
)

// aspectTableFixedWidth is the width of every aspect table column except the name.
const aspectTableFixedWidth = 80

// WriteReport outputs a participant report, dispatching based on the output format configured.
func WriteReport(report *schema.ParticipantReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, report, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return unsupportedParquet("report")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(w, report, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// writeReportHeader prints the participant line shared by text outputs.
func writeReportHeader(w io.Writer, report *schema.ParticipantReport) error {
	p := report.Participant
	_, err := fmt.Fprintf(w, "👤 %s (%s) | template %s | event %s | tolerance %d%%\n",
		p.Name, p.TestNumber, report.TemplateCode, p.EventCode, report.Tolerance)
	return err
}

// writeReportText prints one aspect table per category, then the final assessment.
func writeReportText(w io.Writer, report *schema.ParticipantReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if err := writeReportHeader(w, report); err != nil {
		return err
	}
	nameWidth := GetMaxTableNameWidth(cfg, aspectTableFixedWidth)

	for _, c := range report.Categories {
		if _, err := fmt.Fprintf(w, "\n%s (%s)\n", c.Name, c.Code); err != nil {
			return err
		}
		table := tablewriter.NewWriter(w)
		table.Header([]string{"Aspect", "Weight", "Std", "Adj Std", "Rating", "Gap", "%", "Conclusion"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})

		var data [][]string
		for _, a := range c.Aspects {
			name := a.Name
			if a.RatedSubAspectCount < a.SubAspectCount {
				name = fmt.Sprintf("%s [%d/%d]", name, a.RatedSubAspectCount, a.SubAspectCount)
			}
			data = append(data, []string{
				contract.TruncateName(name, nameWidth),
				fmtFloat(a.WeightPercentage),
				fmtFloat(a.OriginalStandardRating),
				fmtFloat(a.StandardRating),
				fmtFloat(a.IndividualRating),
				fmtFloat(a.GapRating),
				strconv.Itoa(a.PercentageScore),
				styledLabel(cfg, a.ConclusionText, schema.GapScheme),
			})
		}
		data = append(data, []string{
			"Total",
			"",
			fmtFloat(c.TotalOriginalStandardRating),
			fmtFloat(c.TotalStandardRating),
			fmtFloat(c.TotalIndividualRating),
			fmtFloat(c.TotalGapRating),
			"",
			styledLabel(cfg, c.OverallConclusion.Text, schema.GapScheme),
		})
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Score: standard %s, adjusted %s, individual %s\n",
			fmtFloat(c.TotalOriginalStandardScore), fmtFloat(c.TotalStandardScore), fmtFloat(c.TotalIndividualScore)); err != nil {
			return err
		}
	}

	for _, u := range report.Unavailable {
		if _, err := fmt.Fprintf(w, "\n⚠️  %s not computed: %s\n", u.Code, u.Reason); err != nil {
			return err
		}
	}

	if f := report.Final; f != nil {
		if _, err := fmt.Fprintf(w, "\nFinal: %s%% achievement, %s\n",
			fmtFloat(f.AchievementPercentage), styledLabel(cfg, f.FinalConclusion.Text, schema.FinalScheme)); err != nil {
			return err
		}
	}
	return writeFooter(w, "Report computed in %v. Data backend: %s", duration, cfg.DataBackend)
}

// writeReportCSV writes one row per aspect.
func writeReportCSV(w io.Writer, report *schema.ParticipantReport, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"participant_id",
		"participant_name",
		"category",
		"aspect_code",
		"aspect_name",
		"weight_percentage",
		"original_standard_rating",
		"standard_rating",
		"individual_rating",
		"original_standard_score",
		"standard_score",
		"individual_score",
		"gap_rating",
		"gap_score",
		"percentage_score",
		"conclusion_code",
		"conclusion",
		"standard_source",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, c := range report.Categories {
			for _, a := range c.Aspects {
				rec := []string{
					fmt.Sprintf(intFmt, report.Participant.ID),
					report.Participant.Name,
					string(c.Code),
					a.Code,
					a.Name,
					fmtFloat(a.WeightPercentage),
					fmtFloat(a.OriginalStandardRating),
					fmtFloat(a.StandardRating),
					fmtFloat(a.IndividualRating),
					fmtFloat(a.OriginalStandardScore),
					fmtFloat(a.StandardScore),
					fmtFloat(a.IndividualScore),
					fmtFloat(a.GapRating),
					fmtFloat(a.GapScore),
					fmt.Sprintf(intFmt, a.PercentageScore),
					string(a.ConclusionCode),
					a.ConclusionText,
					string(a.StandardSource),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// finalJSON is the JSON shape of a single final assessment.
type finalJSON struct {
	Participant  schema.Participant  `json:"participant"`
	TemplateCode string              `json:"template_code"`
	Tolerance    int                 `json:"tolerance"`
	Final        *schema.FinalResult `json:"final"`
}

// WriteFinal outputs the final assessment of one participant.
func WriteFinal(report *schema.ParticipantReport, cfg *contract.Config, duration time.Duration) error {
	if report.Final == nil {
		return fmt.Errorf("%w: participant %d has no final assessment", schema.ErrMissingData, report.Participant.ID)
	}
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, finalJSON{
				Participant:  report.Participant,
				TemplateCode: report.TemplateCode,
				Tolerance:    report.Tolerance,
				Final:        report.Final,
			})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFinalRowsCSV(w, []schema.FinalRow{schema.NewFinalRow(0, report)}, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetRows(cfg.OutputFile, parquet.ConvertFinalRows([]schema.FinalRow{schema.NewFinalRow(0, report)}))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFinalText(w, report, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// writeFinalText prints the weighted category breakdown.
func writeFinalText(w io.Writer, report *schema.ParticipantReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if err := writeReportHeader(w, report); err != nil {
		return err
	}
	f := report.Final

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Category", "Weight", "Standard", "Adj Standard", "Individual", "Gap"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, c := range []schema.CategoryResult{f.Potensi, f.Kompetensi} {
		data = append(data, []string{
			c.Name,
			fmtFloat(c.CategoryWeight),
			fmtFloat(c.WeightedOriginalStandardScore),
			fmtFloat(c.WeightedStandardScore),
			fmtFloat(c.WeightedIndividualScore),
			fmtFloat(c.WeightedGapScore),
		})
	}
	data = append(data, []string{
		"Total",
		"",
		fmtFloat(f.TotalOriginalStandardScore),
		fmtFloat(f.TotalStandardScore),
		fmtFloat(f.TotalIndividualScore),
		fmtFloat(f.TotalGapScore),
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Achievement: %s%% | Conclusion: %s | Gap: %s\n",
		fmtFloat(f.AchievementPercentage),
		styledLabel(cfg, f.FinalConclusion.Text, schema.FinalScheme),
		styledLabel(cfg, f.GapConclusion.Text, schema.GapScheme)); err != nil {
		return err
	}
	return writeFooter(w, "Final assessment computed in %v. Data backend: %s", duration, cfg.DataBackend)
}

// WriteFinalRows outputs the final assessments of a cohort, best first.
func WriteFinalRows(rows []schema.FinalRow, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFinalRowsCSV(w, rows, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetRows(cfg.OutputFile, parquet.ConvertFinalRows(rows))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFinalRowsText(w, rows, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

func writeFinalRowsText(w io.Writer, rows []schema.FinalRow, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Participant", "Potensi", "Kompetensi", "Standard", "Individual", "Achievement", "Conclusion"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg, aspectTableFixedWidth)
	var data [][]string
	for _, r := range rows {
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			contract.TruncateName(r.ParticipantName, nameWidth),
			fmtFloat(r.PotensiIndividual),
			fmtFloat(r.KompetensiIndividual),
			fmtFloat(r.TotalStandardScore),
			fmtFloat(r.TotalIndividualScore),
			fmtFloat(r.AchievementPercentage) + "%",
			styledLabel(cfg, r.FinalConclusion, schema.FinalScheme),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return writeFooter(w, "Showing %d final assessments. Computed in %v", len(rows), duration)
}

func writeFinalRowsCSV(w io.Writer, rows []schema.FinalRow, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"participant_id",
		"participant_name",
		"potensi_individual_score",
		"kompetensi_individual_score",
		"total_standard_score",
		"total_individual_score",
		"achievement_percentage",
		"final_code",
		"final_conclusion",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				strconv.Itoa(r.Rank),
				strconv.FormatInt(r.ParticipantID, 10),
				r.ParticipantName,
				fmtFloat(r.PotensiIndividual),
				fmtFloat(r.KompetensiIndividual),
				fmtFloat(r.TotalStandardScore),
				fmtFloat(r.TotalIndividualScore),
				fmtFloat(r.AchievementPercentage),
				r.FinalCode,
				r.FinalConclusion,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
