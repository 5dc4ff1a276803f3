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

// rankingTableFixedWidth is the width of every ranking column except the name.
const rankingTableFixedWidth = 45

// WriteRanking outputs a cohort ranking, dispatching based on the output format configured.
func WriteRanking(ranking *schema.RankingResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, ranking)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingCSV(w, ranking, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetRows(cfg.OutputFile, parquet.ConvertRanking(*ranking))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingText(w, ranking, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

func writeRankingText(w io.Writer, ranking *schema.RankingResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "🏆 Ranking %s / position %d | scope %s | tolerance %d%%\n",
		ranking.EventCode, ranking.PositionFormationID, ranking.Scope, ranking.Tolerance); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "ID", "Participant", "Score", "Conclusion"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	scheme := schemeForScope(ranking.Scope)
	nameWidth := GetMaxTableNameWidth(cfg, rankingTableFixedWidth)
	var data [][]string
	for _, e := range ranking.Entries {
		data = append(data, []string{
			strconv.Itoa(e.Rank),
			strconv.FormatInt(e.ParticipantID, 10),
			contract.TruncateName(e.ParticipantName, nameWidth),
			fmtFloat(e.Score),
			styledLabel(cfg, e.Conclusion.Text, scheme),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, s := range ranking.Skipped {
		if _, err := fmt.Fprintf(w, "⏭️  skipped %s (%d): %s\n", s.ParticipantName, s.ParticipantID, s.Reason); err != nil {
			return err
		}
	}
	return writeFooter(w, "Showing %d ranked participants. Computed in %v", len(ranking.Entries), duration)
}

func writeRankingCSV(w io.Writer, ranking *schema.RankingResult, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"participant_id",
		"participant_name",
		"score",
		"conclusion_code",
		"conclusion",
		"scope",
		"tolerance",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range ranking.Entries {
			rec := []string{
				strconv.Itoa(e.Rank),
				strconv.FormatInt(e.ParticipantID, 10),
				e.ParticipantName,
				fmtFloat(e.Score),
				string(e.Conclusion.Code),
				e.Conclusion.Text,
				string(ranking.Scope),
				strconv.Itoa(ranking.Tolerance),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
