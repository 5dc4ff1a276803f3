package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTemplate() *Template {
	return &Template{
		ID:   1,
		Code: "STAFF",
		Categories: []Category{
			{
				Code:             PotensiCategory,
				WeightPercentage: 40,
				Aspects: []Aspect{
					{Code: "kecerdasan", WeightPercentage: 30, SubAspects: []SubAspect{
						{Code: "logika", StandardRating: 3},
						{Code: "verbal", StandardRating: 4},
					}},
				},
			},
			{
				Code:             KompetensiCategory,
				WeightPercentage: 60,
				Aspects: []Aspect{
					{Code: "integritas", WeightPercentage: 20, StandardRating: 3},
				},
			},
		},
	}
}

func TestValidateTemplate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, ValidateTemplate(sampleTemplate()))
	})

	t.Run("rating out of scale", func(t *testing.T) {
		tpl := sampleTemplate()
		tpl.Categories[0].Aspects[0].SubAspects[0].StandardRating = 7
		err := ValidateTemplate(tpl)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidTemplate))
		assert.Contains(t, err.Error(), "StandardRating")
	})

	t.Run("duplicate aspect code", func(t *testing.T) {
		tpl := sampleTemplate()
		tpl.Categories[1].Aspects[0].Code = "kecerdasan"
		err := ValidateTemplate(tpl)
		require.ErrorIs(t, err, ErrInvalidTemplate)
		assert.Contains(t, err.Error(), "duplicate aspect")
	})

	t.Run("no categories", func(t *testing.T) {
		tpl := sampleTemplate()
		tpl.Categories = nil
		assert.ErrorIs(t, ValidateTemplate(tpl), ErrInvalidTemplate)
	})
}

func TestFindCategory(t *testing.T) {
	tpl := sampleTemplate()
	c, ok := tpl.FindCategory(KompetensiCategory)
	require.True(t, ok)
	assert.Equal(t, 60.0, c.WeightPercentage)

	_, ok = tpl.FindCategory("unknown")
	assert.False(t, ok)
}

func TestCustomStandard(t *testing.T) {
	var nilStd *CustomStandard
	_, ok := nilStd.AspectOverride("x")
	assert.False(t, ok)
	assert.Empty(t, nilStd.Fingerprint())

	std := &CustomStandard{Code: "C1", Aspects: map[string]float64{"a": 3}, SubAspects: map[string]float64{"b": 2.5}}
	v, ok := std.SubAspectOverride("b")
	require.True(t, ok)
	assert.Equal(t, 2.5, v)

	same := &CustomStandard{Code: "C1", Aspects: map[string]float64{"a": 3}, SubAspects: map[string]float64{"b": 2.5}}
	assert.Equal(t, std.Fingerprint(), same.Fingerprint())

	same.SubAspects["b"] = 2.4
	assert.NotEqual(t, std.Fingerprint(), same.Fingerprint())

	assert.NoError(t, ValidateCustomStandard(std))
	std.Aspects["a"] = 9
	assert.Error(t, ValidateCustomStandard(std))
}

func TestStandardKey(t *testing.T) {
	p := DefaultScoringParams()
	p.StandardVersion = "v2"
	assert.Equal(t, "v2", p.StandardKey())

	p.Custom = &CustomStandard{Code: "C"}
	assert.Contains(t, p.StandardKey(), "v2+")
}

func TestNewParticipantResultRecord(t *testing.T) {
	report := &ParticipantReport{
		Participant: Participant{ID: 7, Name: "EKA"},
		Tolerance:   10,
		Final: &FinalResult{
			TotalOriginalStandardScore: 313.43,
			TotalIndividualScore:       300.91,
			AchievementPercentage:      96.01,
			FinalConclusion:            Conclusion{Code: FinalMeetsCode, Text: FinalMeetsText},
		},
	}
	at := time.Unix(1700000000, 0)

	rec := NewParticipantResultRecord(3, report, 0, at)
	assert.Nil(t, rec.RankPosition)
	assert.Equal(t, "MS", rec.FinalCode)
	assert.Equal(t, int32(10), rec.Tolerance)

	rec = NewParticipantResultRecord(3, report, 2, at)
	require.NotNil(t, rec.RankPosition)
	assert.Equal(t, int32(2), *rec.RankPosition)

	row := NewFinalRow(1, report)
	assert.Equal(t, 96.01, row.AchievementPercentage)
	assert.Equal(t, "MEMENUHI STANDARD", row.FinalConclusion)
}
