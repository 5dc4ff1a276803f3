package algo

import (
	"fmt"

	"github.com/psymap/psymap/schema"
)

// ComputeCategory sums aspect results into a category total and evaluates the
// category gap on score sums. No category weight is applied here.
func ComputeCategory(category schema.Category, aspects []schema.AspectResult) (schema.CategoryResult, error) {
	if len(aspects) == 0 {
		return schema.CategoryResult{}, fmt.Errorf("%w: category %s has no aspect results", schema.ErrMissingData, category.Code)
	}

	res := schema.CategoryResult{
		Code:           category.Code,
		Name:           category.Name,
		Aspects:        append([]schema.AspectResult(nil), aspects...),
		CategoryWeight: category.WeightPercentage,
	}
	for _, a := range aspects {
		res.TotalOriginalStandardRating += a.OriginalStandardRating
		res.TotalStandardRating += a.StandardRating
		res.TotalIndividualRating += a.IndividualRating
		res.TotalOriginalStandardScore += a.OriginalStandardScore
		res.TotalStandardScore += a.StandardScore
		res.TotalIndividualScore += a.IndividualScore
	}
	res.TotalOriginalGapRating = res.TotalIndividualRating - res.TotalOriginalStandardRating
	res.TotalGapRating = res.TotalIndividualRating - res.TotalStandardRating

	eval := Evaluate(res.TotalIndividualScore, res.TotalOriginalStandardScore, res.TotalStandardScore)
	res.TotalOriginalGapScore = eval.OriginalGap
	res.TotalGapScore = eval.AdjustedGap
	res.OverallConclusion = eval.Conclusion
	return res, nil
}
