package core

import (
	"errors"
	"time"

	"github.com/psymap/psymap/core/algo"
	"github.com/psymap/psymap/schema"
)

// BuildReport computes every category of a template for one participant.
//
// A category with a missing rating is listed in Unavailable instead of being
// computed from partial data. The final assessment is only present when both
// Potensi and Kompetensi were computed; weights resolves the category weights.
func BuildReport(
	participant schema.Participant,
	tmpl *schema.Template,
	ratings schema.RatingSet,
	params schema.ScoringParams,
	weights schema.CategoryWeights,
	at time.Time,
) (*schema.ParticipantReport, error) {
	if err := algo.ValidateTolerance(params.TolerancePercentage); err != nil {
		return nil, err
	}

	report := &schema.ParticipantReport{
		Participant:  participant,
		TemplateCode: tmpl.Code,
		Tolerance:    params.TolerancePercentage,
		Categories:   make([]schema.CategoryResult, 0, len(tmpl.Categories)),
		ComputedAt:   at,
	}

	for _, category := range tmpl.Categories {
		result, err := computeCategory(category, ratings, params)
		if errors.Is(err, schema.ErrMissingData) {
			report.Unavailable = append(report.Unavailable, schema.UnavailableCategory{
				Code:   category.Code,
				Reason: err.Error(),
			})
			continue
		}
		if err != nil {
			return nil, err
		}
		report.Categories = append(report.Categories, result)
	}

	potensi, okP := report.Category(schema.PotensiCategory)
	kompetensi, okK := report.Category(schema.KompetensiCategory)
	if okP && okK {
		wP := weights.Resolve(schema.PotensiCategory, potensi.CategoryWeight)
		wK := weights.Resolve(schema.KompetensiCategory, kompetensi.CategoryWeight)
		final := algo.ComputeFinal(potensi, kompetensi, wP, wK)
		report.Final = &final
	}
	return report, nil
}

// computeCategory aggregates every aspect of one category. The first missing
// aspect aborts the category.
func computeCategory(category schema.Category, ratings schema.RatingSet, params schema.ScoringParams) (schema.CategoryResult, error) {
	aspects := make([]schema.AspectResult, 0, len(category.Aspects))
	for _, aspect := range category.Aspects {
		res, err := algo.ComputeAspect(category.Code, aspect, ratings, params)
		if err != nil {
			return schema.CategoryResult{}, err
		}
		aspects = append(aspects, res)
	}
	return algo.ComputeCategory(category, aspects)
}
