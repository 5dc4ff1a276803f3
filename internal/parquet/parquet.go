// Package parquet provides data structures and functions for exporting psymap
// report data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/psymap/psymap/schema"
)

// ReportRun represents a single recorded report run with metadata.
// This struct maps to the psymap_report_runs database table.
type ReportRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// ReportKind names the command that produced the run (final, ranking)
	ReportKind string `parquet:"report_kind,snappy,dict"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalParticipants is the number of participants recorded in this run
	TotalParticipants int32 `parquet:"total_participants,snappy"`

	// ConfigParams contains the JSON-encoded scoring parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ParticipantResult is the final assessment of one participant within a run.
// This struct maps to the psymap_participant_results database table.
type ParticipantResult struct {
	RunID                     int64     `parquet:"run_id,snappy"`
	ParticipantID             int64     `parquet:"participant_id,snappy"`
	ParticipantName           string    `parquet:"participant_name,snappy"`
	AnalysisTime              time.Time `parquet:"analysis_time,snappy"`
	Tolerance                 int32     `parquet:"tolerance,snappy"`
	PotensiStandardScore      float64   `parquet:"potensi_standard_score,snappy"`
	PotensiIndividualScore    float64   `parquet:"potensi_individual_score,snappy"`
	KompetensiStandardScore   float64   `parquet:"kompetensi_standard_score,snappy"`
	KompetensiIndividualScore float64   `parquet:"kompetensi_individual_score,snappy"`
	TotalStandardScore        float64   `parquet:"total_standard_score,snappy"`
	TotalIndividualScore      float64   `parquet:"total_individual_score,snappy"`
	AchievementPercentage     float64   `parquet:"achievement_percentage,snappy"`
	FinalCode                 string    `parquet:"final_code,snappy,dict"`

	// RankPosition is NULL for runs that did not rank the cohort
	RankPosition *int32 `parquet:"rank_position,optional,snappy"`
}

// RankingRow is one entry of a cohort ranking.
type RankingRow struct {
	EventCode           string  `parquet:"event_code,snappy,dict"`
	PositionFormationID int64   `parquet:"position_formation_id,snappy"`
	Scope               string  `parquet:"scope,snappy,dict"`
	Tolerance           int32   `parquet:"tolerance,snappy"`
	Rank                int32   `parquet:"rank,snappy"`
	ParticipantID       int64   `parquet:"participant_id,snappy"`
	ParticipantName     string  `parquet:"participant_name,snappy"`
	Score               float64 `parquet:"score,snappy"`
	ConclusionCode      string  `parquet:"conclusion_code,snappy,dict"`
	Conclusion          string  `parquet:"conclusion,snappy,dict"`
}

// FinalAssessment is a flattened final result of one participant.
type FinalAssessment struct {
	Rank                  int32   `parquet:"rank,snappy"`
	ParticipantID         int64   `parquet:"participant_id,snappy"`
	ParticipantName       string  `parquet:"participant_name,snappy"`
	PotensiIndividual     float64 `parquet:"potensi_individual_score,snappy"`
	KompetensiIndividual  float64 `parquet:"kompetensi_individual_score,snappy"`
	TotalStandardScore    float64 `parquet:"total_standard_score,snappy"`
	TotalIndividualScore  float64 `parquet:"total_individual_score,snappy"`
	AchievementPercentage float64 `parquet:"achievement_percentage,snappy"`
	FinalCode             string  `parquet:"final_code,snappy,dict"`
	FinalConclusion       string  `parquet:"final_conclusion,snappy,dict"`
}

// Write encodes rows with a schema inferred from T's struct tags.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile creates outputPath and writes rows to it.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteReportRunsParquet writes report runs to a Parquet file.
func WriteReportRunsParquet(data []ReportRun, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteParticipantResultsParquet writes participant results to a Parquet file.
func WriteParticipantResultsParquet(data []ParticipantResult, outputPath string) error {
	return WriteFile(data, outputPath)
}

// ConvertReportRunRecords converts history rows for Parquet export.
func ConvertReportRunRecords(records []schema.ReportRunRecord) []ReportRun {
	result := make([]ReportRun, len(records))
	for i, record := range records {
		result[i] = ReportRun{
			RunID:             record.RunID,
			ReportKind:        record.ReportKind,
			StartTime:         record.StartTime,
			EndTime:           record.EndTime,
			RunDurationMs:     record.RunDurationMs,
			TotalParticipants: record.TotalParticipants,
			ConfigParams:      record.ConfigParams,
		}
	}
	return result
}

// ConvertParticipantResultRecords converts history rows for Parquet export.
func ConvertParticipantResultRecords(records []schema.ParticipantResultRecord) []ParticipantResult {
	result := make([]ParticipantResult, len(records))
	for i, r := range records {
		result[i] = ParticipantResult{
			RunID:                     r.RunID,
			ParticipantID:             r.ParticipantID,
			ParticipantName:           r.ParticipantName,
			AnalysisTime:              r.AnalysisTime,
			Tolerance:                 r.Tolerance,
			PotensiStandardScore:      r.PotensiStandardScore,
			PotensiIndividualScore:    r.PotensiIndividualScore,
			KompetensiStandardScore:   r.KompetensiStandardScore,
			KompetensiIndividualScore: r.KompetensiIndividualScore,
			TotalStandardScore:        r.TotalStandardScore,
			TotalIndividualScore:      r.TotalIndividualScore,
			AchievementPercentage:     r.AchievementPercentage,
			FinalCode:                 r.FinalCode,
			RankPosition:              r.RankPosition,
		}
	}
	return result
}

// ConvertRanking flattens a ranking result.
func ConvertRanking(ranking schema.RankingResult) []RankingRow {
	rows := make([]RankingRow, len(ranking.Entries))
	for i, e := range ranking.Entries {
		rows[i] = RankingRow{
			EventCode:           ranking.EventCode,
			PositionFormationID: ranking.PositionFormationID,
			Scope:               string(ranking.Scope),
			Tolerance:           int32(ranking.Tolerance),
			Rank:                int32(e.Rank),
			ParticipantID:       e.ParticipantID,
			ParticipantName:     e.ParticipantName,
			Score:               e.Score,
			ConclusionCode:      string(e.Conclusion.Code),
			Conclusion:          e.Conclusion.Text,
		}
	}
	return rows
}

// ConvertFinalRows converts tabular final rows.
func ConvertFinalRows(rows []schema.FinalRow) []FinalAssessment {
	out := make([]FinalAssessment, len(rows))
	for i, r := range rows {
		out[i] = FinalAssessment{
			Rank:                  int32(r.Rank),
			ParticipantID:         r.ParticipantID,
			ParticipantName:       r.ParticipantName,
			PotensiIndividual:     r.PotensiIndividual,
			KompetensiIndividual:  r.KompetensiIndividual,
			TotalStandardScore:    r.TotalStandardScore,
			TotalIndividualScore:  r.TotalIndividualScore,
			AchievementPercentage: r.AchievementPercentage,
			FinalCode:             r.FinalCode,
			FinalConclusion:       r.FinalConclusion,
		}
	}
	return out
}
