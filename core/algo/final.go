package algo

import (
	"math"

	"github.com/psymap/psymap/schema"
)

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AchievementPercentage is individual / standard * 100 rounded to two
// decimals, or 0 when the standard is 0.
func AchievementPercentage(individual, standard float64) float64 {
	if standard == 0 {
		return 0
	}
	return Round2(individual / standard * 100)
}

// ApplyCategoryWeight fills the weighted fields of a category result.
func ApplyCategoryWeight(c schema.CategoryResult, weightPercentage float64) schema.CategoryResult {
	f := weightPercentage / 100
	c.CategoryWeight = weightPercentage
	c.WeightedOriginalStandardScore = c.TotalOriginalStandardScore * f
	c.WeightedStandardScore = c.TotalStandardScore * f
	c.WeightedIndividualScore = c.TotalIndividualScore * f
	c.WeightedGapScore = c.WeightedIndividualScore - c.WeightedStandardScore
	return c
}

// ComputeFinal combines both categories. This is the only place category
// weights are applied; inputs must be unweighted category sums.
//
// The achievement percentage is measured against the weighted original
// (0% tolerance) standard. The tolerance-adjusted total is reported in
// TotalStandardScore and drives the gap conclusion.
func ComputeFinal(potensi, kompetensi schema.CategoryResult, potensiWeight, kompetensiWeight float64) schema.FinalResult {
	p := ApplyCategoryWeight(potensi, potensiWeight)
	k := ApplyCategoryWeight(kompetensi, kompetensiWeight)

	res := schema.FinalResult{
		Potensi:                    p,
		Kompetensi:                 k,
		TotalOriginalStandardScore: p.WeightedOriginalStandardScore + k.WeightedOriginalStandardScore,
		TotalStandardScore:         p.WeightedStandardScore + k.WeightedStandardScore,
		TotalIndividualScore:       p.WeightedIndividualScore + k.WeightedIndividualScore,
	}
	eval := Evaluate(res.TotalIndividualScore, res.TotalOriginalStandardScore, res.TotalStandardScore)
	res.TotalOriginalGapScore = eval.OriginalGap
	res.TotalGapScore = eval.AdjustedGap
	res.GapConclusion = eval.Conclusion
	res.AchievementPercentage = AchievementPercentage(res.TotalIndividualScore, res.TotalOriginalStandardScore)
	res.FinalConclusion = FinalBand(res.AchievementPercentage)
	return res
}
