// Package schema has configs, models and constants for all parts of psymap.
package schema

// Template identifies a rubric version and owns an ordered set of categories.
type Template struct {
	ID         int64      `json:"id" yaml:"id" validate:"required"`
	Code       string     `json:"code" yaml:"code" validate:"required"`
	Name       string     `json:"name" yaml:"name"`
	Categories []Category `json:"categories" yaml:"categories" validate:"required,min=1,dive"`
}

// Category is a top-level rubric branch such as Potensi or Kompetensi.
type Category struct {
	ID               int64        `json:"id" yaml:"id"`
	Code             CategoryCode `json:"code" yaml:"code" validate:"required"`
	Name             string       `json:"name" yaml:"name"`
	WeightPercentage float64      `json:"weight_percentage" yaml:"weight_percentage" validate:"gte=0,lte=100"`
	Aspects          []Aspect     `json:"aspects" yaml:"aspects" validate:"dive"`
}

// Aspect belongs to a category. StandardRating is only used when the aspect has no sub-aspects.
type Aspect struct {
	ID               int64       `json:"id" yaml:"id"`
	Code             string      `json:"code" yaml:"code" validate:"required"`
	Name             string      `json:"name" yaml:"name"`
	WeightPercentage float64     `json:"weight_percentage" yaml:"weight_percentage" validate:"gte=0,lte=100"`
	StandardRating   float64     `json:"standard_rating" yaml:"standard_rating" validate:"gte=0,lte=5"`
	SubAspects       []SubAspect `json:"sub_aspects,omitempty" yaml:"sub_aspects" validate:"dive"`
}

// SubAspect is the finest rubric level.
type SubAspect struct {
	ID             int64   `json:"id" yaml:"id"`
	Code           string  `json:"code" yaml:"code" validate:"required"`
	Name           string  `json:"name" yaml:"name"`
	StandardRating float64 `json:"standard_rating" yaml:"standard_rating" validate:"gte=0,lte=5"`
}

// Participant is an assessed person within an event and position formation.
type Participant struct {
	ID                  int64  `json:"id" yaml:"id" validate:"required"`
	Name                string `json:"name" yaml:"name" validate:"required"`
	TestNumber          string `json:"test_number,omitempty" yaml:"test_number"`
	EventCode           string `json:"event_code" yaml:"event_code"`
	PositionFormationID int64  `json:"position_formation_id" yaml:"position_formation_id"`
	TemplateID          int64  `json:"template_id" yaml:"template_id" validate:"required"`
}

// RatingRecord holds the standard and individual rating of one participant
// for one aspect or sub-aspect.
type RatingRecord struct {
	StandardRating   float64 `json:"standard_rating" yaml:"standard_rating" validate:"gte=0,lte=5"`
	IndividualRating float64 `json:"individual_rating" yaml:"individual_rating" validate:"gte=0,lte=5"`
}

// RatingSet is every rating record of a participant, keyed by aspect code
// and sub-aspect code respectively.
type RatingSet struct {
	ParticipantID int64                   `json:"participant_id" yaml:"participant_id"`
	Aspects       map[string]RatingRecord `json:"aspects" yaml:"aspects" validate:"dive"`
	SubAspects    map[string]RatingRecord `json:"sub_aspects" yaml:"sub_aspects" validate:"dive"`
}

// FindCategory returns the category with the given code.
func (t *Template) FindCategory(code CategoryCode) (Category, bool) {
	for _, c := range t.Categories {
		if c.Code == code {
			return c, true
		}
	}
	return Category{}, false
}

// AspectRating returns the aspect-level record for code.
func (r RatingSet) AspectRating(code string) (RatingRecord, bool) {
	rec, ok := r.Aspects[code]
	return rec, ok
}

// SubAspectRating returns the sub-aspect record for code.
func (r RatingSet) SubAspectRating(code string) (RatingRecord, bool) {
	rec, ok := r.SubAspects[code]
	return rec, ok
}
