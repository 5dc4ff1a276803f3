package schema

import "time"

// Conclusion is a coded conclusion label.
type Conclusion struct {
	Code ConclusionCode `json:"code"`
	Text string         `json:"text"`
}

// GapEvaluation is the outcome of comparing an individual value against the
// original and tolerance-adjusted standard.
type GapEvaluation struct {
	OriginalGap float64 `json:"original_gap"`
	AdjustedGap float64 `json:"adjusted_gap"`
	Conclusion
}

// AspectResult is the computed view of one aspect for one participant.
type AspectResult struct {
	Code                   string         `json:"code"`
	Name                   string         `json:"name"`
	CategoryCode           CategoryCode   `json:"category_code"`
	WeightPercentage       float64        `json:"weight_percentage"`
	OriginalStandardRating float64        `json:"original_standard_rating"`
	StandardRating         float64        `json:"standard_rating"`
	IndividualRating       float64        `json:"individual_rating"`
	OriginalStandardScore  float64        `json:"original_standard_score"`
	StandardScore          float64        `json:"standard_score"`
	IndividualScore        float64        `json:"individual_score"`
	OriginalGapRating      float64        `json:"original_gap_rating"`
	GapRating              float64        `json:"gap_rating"`
	OriginalGapScore       float64        `json:"original_gap_score"`
	GapScore               float64        `json:"gap_score"`
	PercentageScore        int            `json:"percentage_score"`
	ConclusionCode         ConclusionCode `json:"conclusion_code"`
	ConclusionText         string         `json:"conclusion_text"`
	SubAspectCount         int            `json:"sub_aspect_count"`
	RatedSubAspectCount    int            `json:"rated_sub_aspect_count"`
	StandardSource         StandardSource `json:"standard_source"`
}

// CategoryResult aggregates the aspect results of one category.
// Totals are straight sums; the Weighted fields stay zero until the final
// assessment applies the category weight.
type CategoryResult struct {
	Code                        CategoryCode   `json:"code"`
	Name                        string         `json:"name"`
	Aspects                     []AspectResult `json:"aspects"`
	TotalOriginalStandardRating float64        `json:"total_original_standard_rating"`
	TotalStandardRating         float64        `json:"total_standard_rating"`
	TotalIndividualRating       float64        `json:"total_individual_rating"`
	TotalOriginalStandardScore  float64        `json:"total_original_standard_score"`
	TotalStandardScore          float64        `json:"total_standard_score"`
	TotalIndividualScore        float64        `json:"total_individual_score"`
	TotalOriginalGapRating      float64        `json:"total_original_gap_rating"`
	TotalGapRating              float64        `json:"total_gap_rating"`
	TotalOriginalGapScore       float64        `json:"total_original_gap_score"`
	TotalGapScore               float64        `json:"total_gap_score"`
	OverallConclusion           Conclusion     `json:"overall_conclusion"`

	CategoryWeight                float64 `json:"category_weight"`
	WeightedOriginalStandardScore float64 `json:"weighted_original_standard_score"`
	WeightedStandardScore         float64 `json:"weighted_standard_score"`
	WeightedIndividualScore       float64 `json:"weighted_individual_score"`
	WeightedGapScore              float64 `json:"weighted_gap_score"`
}

// FinalResult combines the Potensi and Kompetensi categories.
type FinalResult struct {
	Potensi                    CategoryResult `json:"potensi"`
	Kompetensi                 CategoryResult `json:"kompetensi"`
	TotalOriginalStandardScore float64        `json:"total_original_standard_score"`
	TotalStandardScore         float64        `json:"total_standard_score"`
	TotalIndividualScore       float64        `json:"total_individual_score"`
	TotalOriginalGapScore      float64        `json:"total_original_gap_score"`
	TotalGapScore              float64        `json:"total_gap_score"`
	AchievementPercentage      float64        `json:"achievement_percentage"`
	FinalConclusion            Conclusion     `json:"final_conclusion"`
	GapConclusion              Conclusion     `json:"gap_conclusion"`
}

// RankEntry is one participant's position within a cohort.
type RankEntry struct {
	ParticipantID   int64      `json:"participant_id"`
	ParticipantName string     `json:"participant_name"`
	Score           float64    `json:"score"`
	Rank            int        `json:"rank"`
	Conclusion      Conclusion `json:"conclusion"`
}

// SkippedParticipant is a cohort member left out of a ranking.
type SkippedParticipant struct {
	ParticipantID   int64  `json:"participant_id"`
	ParticipantName string `json:"participant_name"`
	Reason          string `json:"reason"`
}

// RankingResult is the ordered ranking of a cohort.
type RankingResult struct {
	EventCode           string               `json:"event_code"`
	PositionFormationID int64                `json:"position_formation_id"`
	Scope               RankScope            `json:"scope"`
	Tolerance           int                  `json:"tolerance"`
	Entries             []RankEntry          `json:"entries"`
	Skipped             []SkippedParticipant `json:"skipped,omitempty"`
}

// ChartSeries holds index-aligned arrays for chart renderers.
type ChartSeries struct {
	Labels           []string  `json:"labels"`
	OriginalStandard []float64 `json:"original_standard"`
	Standard         []float64 `json:"standard"`
	Individual       []float64 `json:"individual"`
}

// CompetencySummaryRow is one aspect labelled with the five-band scheme.
type CompetencySummaryRow struct {
	AspectCode  string   `json:"aspect_code"`
	AspectName  string   `json:"aspect_name"`
	Gap         float64  `json:"gap"`
	Band        string   `json:"band"`
	Description string   `json:"description"`
	Color       StyleTag `json:"color"`
}

// UnavailableCategory records a category that could not be computed.
type UnavailableCategory struct {
	Code   CategoryCode `json:"code"`
	Reason string       `json:"reason"`
}

// ParticipantReport is the full computed view of one participant.
type ParticipantReport struct {
	Participant  Participant           `json:"participant"`
	TemplateCode string                `json:"template_code"`
	Tolerance    int                   `json:"tolerance"`
	Categories   []CategoryResult      `json:"categories"`
	Unavailable  []UnavailableCategory `json:"unavailable,omitempty"`
	Final        *FinalResult          `json:"final,omitempty"`
	ComputedAt   time.Time             `json:"computed_at"`
}

// Category returns the computed category with the given code.
func (r *ParticipantReport) Category(code CategoryCode) (CategoryResult, bool) {
	for _, c := range r.Categories {
		if c.Code == code {
			return c, true
		}
	}
	return CategoryResult{}, false
}
