package algo

import (
	"fmt"
	"math"

	"github.com/psymap/psymap/schema"
)

// RatingPercentage is the whole-scale percentage: individual rating / 5 * 100, rounded.
func RatingPercentage(individualRating float64) int {
	return int(math.Round(individualRating / schema.MaxRating * 100))
}

// ScorePercentage is individual score / adjusted standard score * 100, rounded.
// A zero standard score yields 0.
func ScorePercentage(individualScore, adjustedStandardScore float64) int {
	if adjustedStandardScore == 0 {
		return 0
	}
	return int(math.Round(individualScore / adjustedStandardScore * 100))
}

// ComputeAspect rolls the ratings of one aspect up to an AspectResult.
//
// With sub-aspects, the standard is the mean of every sub-aspect standard in
// the template and the individual rating is the mean of the sub-aspects the
// participant was rated on. Without sub-aspects both come from the aspect-level
// record. Absent ratings are reported as schema.ErrMissingData.
func ComputeAspect(category schema.CategoryCode, aspect schema.Aspect, ratings schema.RatingSet, params schema.ScoringParams) (schema.AspectResult, error) {
	if err := ValidateTolerance(params.TolerancePercentage); err != nil {
		return schema.AspectResult{}, err
	}

	var (
		originalStandard float64
		adjustedStandard float64
		individual       float64
		rated            int
		source           = schema.ToleranceSource
	)

	if n := len(aspect.SubAspects); n > 0 {
		var stdSum, adjSum, indSum float64
		for _, sa := range aspect.SubAspects {
			stdSum += sa.StandardRating
			if v, ok := params.Custom.SubAspectOverride(sa.Code); ok {
				adjSum += v
				source = schema.CustomSource
			} else {
				adjSum += Adjust(sa.StandardRating, params.TolerancePercentage)
			}
			if rec, ok := ratings.SubAspectRating(sa.Code); ok {
				indSum += rec.IndividualRating
				rated++
			}
		}
		if rated == 0 {
			return schema.AspectResult{}, fmt.Errorf("%w: participant %d has no sub-aspect ratings for aspect %s",
				schema.ErrMissingData, ratings.ParticipantID, aspect.Code)
		}
		originalStandard = stdSum / float64(n)
		adjustedStandard = adjSum / float64(n)
		individual = indSum / float64(rated)
	} else {
		rec, ok := ratings.AspectRating(aspect.Code)
		if !ok {
			return schema.AspectResult{}, fmt.Errorf("%w: participant %d has no rating for aspect %s",
				schema.ErrMissingData, ratings.ParticipantID, aspect.Code)
		}
		originalStandard = rec.StandardRating
		adjustedStandard = Adjust(rec.StandardRating, params.TolerancePercentage)
		individual = rec.IndividualRating
	}

	// An aspect-level override replaces the adjusted standard wholesale.
	if v, ok := params.Custom.AspectOverride(aspect.Code); ok {
		adjustedStandard = v
		source = schema.CustomSource
	}

	w := aspect.WeightPercentage
	res := schema.AspectResult{
		Code:                   aspect.Code,
		Name:                   aspect.Name,
		CategoryCode:           category,
		WeightPercentage:       w,
		OriginalStandardRating: originalStandard,
		StandardRating:         adjustedStandard,
		IndividualRating:       individual,
		OriginalStandardScore:  originalStandard * w,
		StandardScore:          adjustedStandard * w,
		IndividualScore:        individual * w,
		SubAspectCount:         len(aspect.SubAspects),
		RatedSubAspectCount:    rated,
		StandardSource:         source,
	}
	res.OriginalGapRating = res.IndividualRating - res.OriginalStandardRating
	res.GapRating = res.IndividualRating - res.StandardRating
	res.OriginalGapScore = res.IndividualScore - res.OriginalStandardScore
	res.GapScore = res.IndividualScore - res.StandardScore

	var eval schema.GapEvaluation
	if params.Unit == schema.ScoreUnit {
		eval = Evaluate(res.IndividualScore, res.OriginalStandardScore, res.StandardScore)
	} else {
		eval = Evaluate(res.IndividualRating, res.OriginalStandardRating, res.StandardRating)
	}
	res.ConclusionCode = eval.Code
	res.ConclusionText = eval.Text

	if params.Percentage == schema.ScorePercentage {
		res.PercentageScore = ScorePercentage(res.IndividualScore, res.StandardScore)
	} else {
		res.PercentageScore = RatingPercentage(res.IndividualRating)
	}
	return res, nil
}
