package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// CustomStandard is a set of pre-adjusted standard ratings that replace the
// tolerance computation for the fields it names.
type CustomStandard struct {
	Code       string             `json:"code" yaml:"code" validate:"required"`
	Name       string             `json:"name" yaml:"name"`
	Version    string             `json:"version" yaml:"version"`
	Aspects    map[string]float64 `json:"aspects" yaml:"aspects" validate:"dive,gte=0,lte=5"`
	SubAspects map[string]float64 `json:"sub_aspects" yaml:"sub_aspects" validate:"dive,gte=0,lte=5"`
}

// AspectOverride returns the custom adjusted standard for an aspect.
func (c *CustomStandard) AspectOverride(code string) (float64, bool) {
	if c == nil {
		return 0, false
	}
	v, ok := c.Aspects[code]
	return v, ok
}

// SubAspectOverride returns the custom adjusted standard for a sub-aspect.
func (c *CustomStandard) SubAspectOverride(code string) (float64, bool) {
	if c == nil {
		return 0, false
	}
	v, ok := c.SubAspects[code]
	return v, ok
}

// Fingerprint returns a stable digest of the override values.
func (c *CustomStandard) Fingerprint() string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	writeSorted := func(prefix string, m map[string]float64) {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s:%s=%g;", prefix, k, m[k])
		}
	}
	b.WriteString(c.Code + "@" + c.Version + ";")
	writeSorted("a", c.Aspects)
	writeSorted("s", c.SubAspects)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}

// ScoringParams are the explicit inputs of every engine computation.
type ScoringParams struct {
	TolerancePercentage int             `json:"tolerance_percentage"`
	Custom              *CustomStandard `json:"custom,omitempty"`
	StandardVersion     string          `json:"standard_version,omitempty"`
	Percentage          PercentageMode  `json:"percentage"`
	Unit                GapUnit         `json:"unit"`
}

// DefaultScoringParams returns the parameters used when the caller has no preference.
func DefaultScoringParams() ScoringParams {
	return ScoringParams{
		TolerancePercentage: DefaultTolerance,
		Percentage:          RatingPercentage,
		Unit:                RatingUnit,
	}
}

// StandardKey identifies the active standard: the caller's version plus the
// custom override digest when one is selected.
func (p ScoringParams) StandardKey() string {
	if p.Custom == nil {
		return p.StandardVersion
	}
	return p.StandardVersion + "+" + p.Custom.Fingerprint()
}

// CategoryWeights overrides template category weights for the final assessment.
type CategoryWeights struct {
	Potensi    *float64 `json:"potensi,omitempty"`
	Kompetensi *float64 `json:"kompetensi,omitempty"`
}

// Resolve returns the override for a category, or the template weight.
func (w CategoryWeights) Resolve(code CategoryCode, templateWeight float64) float64 {
	switch code {
	case PotensiCategory:
		if w.Potensi != nil {
			return *w.Potensi
		}
	case KompetensiCategory:
		if w.Kompetensi != nil {
			return *w.Kompetensi
		}
	}
	return templateWeight
}
