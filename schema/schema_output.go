package schema

import "time"

// ConclusionTableRow is one entry of a static conclusion table for display.
type ConclusionTableRow struct {
	Scheme      ConclusionScheme `json:"scheme"`
	Code        ConclusionCode   `json:"code,omitempty"`
	Text        string           `json:"text"`
	Rule        string           `json:"rule"`
	Mapped      string           `json:"mapped,omitempty"`
	Description string           `json:"description,omitempty"`
	Style       StyleTag         `json:"style"`
}

// FinalRow flattens a participant's final result for tabular output.
type FinalRow struct {
	Rank                  int     `json:"rank"`
	ParticipantID         int64   `json:"participant_id"`
	ParticipantName       string  `json:"participant_name"`
	PotensiIndividual     float64 `json:"potensi_individual_score"`
	KompetensiIndividual  float64 `json:"kompetensi_individual_score"`
	TotalStandardScore    float64 `json:"total_standard_score"`
	TotalIndividualScore  float64 `json:"total_individual_score"`
	AchievementPercentage float64 `json:"achievement_percentage"`
	FinalCode             string  `json:"final_code"`
	FinalConclusion       string  `json:"final_conclusion"`
}

// NewFinalRow flattens a report that has a final result.
func NewFinalRow(rank int, report *ParticipantReport) FinalRow {
	row := FinalRow{
		Rank:            rank,
		ParticipantID:   report.Participant.ID,
		ParticipantName: report.Participant.Name,
	}
	if f := report.Final; f != nil {
		row.PotensiIndividual = f.Potensi.WeightedIndividualScore
		row.KompetensiIndividual = f.Kompetensi.WeightedIndividualScore
		row.TotalStandardScore = f.TotalOriginalStandardScore
		row.TotalIndividualScore = f.TotalIndividualScore
		row.AchievementPercentage = f.AchievementPercentage
		row.FinalCode = string(f.FinalConclusion.Code)
		row.FinalConclusion = f.FinalConclusion.Text
	}
	return row
}

// NewParticipantResultRecord converts a computed report into a history row.
// A zero rank is stored as NULL.
func NewParticipantResultRecord(runID int64, report *ParticipantReport, rank int, at time.Time) ParticipantResultRecord {
	rec := ParticipantResultRecord{
		RunID:           runID,
		ParticipantID:   report.Participant.ID,
		ParticipantName: report.Participant.Name,
		AnalysisTime:    at,
		Tolerance:       int32(report.Tolerance),
	}
	if f := report.Final; f != nil {
		rec.PotensiStandardScore = f.Potensi.WeightedOriginalStandardScore
		rec.PotensiIndividualScore = f.Potensi.WeightedIndividualScore
		rec.KompetensiStandardScore = f.Kompetensi.WeightedOriginalStandardScore
		rec.KompetensiIndividualScore = f.Kompetensi.WeightedIndividualScore
		rec.TotalStandardScore = f.TotalOriginalStandardScore
		rec.TotalIndividualScore = f.TotalIndividualScore
		rec.AchievementPercentage = f.AchievementPercentage
		rec.FinalCode = string(f.FinalConclusion.Code)
	}
	if rank > 0 {
		r := int32(rank)
		rec.RankPosition = &r
	}
	return rec
}
