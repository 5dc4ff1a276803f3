package algo

import "github.com/psymap/psymap/schema"

// FlattenChart turns aspect results into index-aligned rating series for
// radar or bar charts. Labels fall back to the aspect code when unnamed.
func FlattenChart(aspects []schema.AspectResult) schema.ChartSeries {
	s := schema.ChartSeries{
		Labels:           make([]string, len(aspects)),
		OriginalStandard: make([]float64, len(aspects)),
		Standard:         make([]float64, len(aspects)),
		Individual:       make([]float64, len(aspects)),
	}
	for i, a := range aspects {
		label := a.Name
		if label == "" {
			label = a.Code
		}
		s.Labels[i] = label
		s.OriginalStandard[i] = a.OriginalStandardRating
		s.Standard[i] = a.StandardRating
		s.Individual[i] = a.IndividualRating
	}
	return s
}

// SummarizeCompetency labels every aspect with the five-band scheme using
// the tolerance-adjusted rating gap.
func SummarizeCompetency(aspects []schema.AspectResult) []schema.CompetencySummaryRow {
	rows := make([]schema.CompetencySummaryRow, 0, len(aspects))
	for _, a := range aspects {
		b := CompetencyBand(a.GapRating)
		rows = append(rows, schema.CompetencySummaryRow{
			AspectCode:  a.Code,
			AspectName:  a.Name,
			Gap:         a.GapRating,
			Band:        b.Text,
			Description: b.Description,
			Color:       b.Style,
		})
	}
	return rows
}
