package algo

import "github.com/psymap/psymap/schema"

// Evaluate compares an individual value with the original and the adjusted
// standard. Gaps are always individual minus standard.
func Evaluate(individual, originalStandard, adjustedStandard float64) schema.GapEvaluation {
	originalGap := individual - originalStandard
	adjustedGap := individual - adjustedStandard
	return schema.GapEvaluation{
		OriginalGap: originalGap,
		AdjustedGap: adjustedGap,
		Conclusion:  GapConclusion(originalGap, adjustedGap),
	}
}
