package algo

import (
	"math"
	"testing"

	"github.com/psymap/psymap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateGapSign(t *testing.T) {
	e := Evaluate(3, 5, 5)
	assert.Equal(t, -2.0, e.OriginalGap)
	assert.Equal(t, -2.0, e.AdjustedGap)
	assert.Equal(t, schema.BelowStandardText, e.Text)

	e = Evaluate(5, 3, 2)
	assert.Equal(t, 2.0, e.OriginalGap)
	assert.Equal(t, 3.0, e.AdjustedGap)
}

func TestEvaluateThreeState(t *testing.T) {
	tests := []struct {
		name                         string
		individual, original, adjust float64
		expectedText                 string
		expectedCode                 schema.ConclusionCode
	}{
		{"original gap zero is above", 5, 5, 4.5, schema.AboveStandardText, schema.AboveStandardCode},
		{"adjusted gap negative is below", 4, 5, 4.5, schema.BelowStandardText, schema.BelowStandardCode},
		{"adjusted gap zero meets", 4.5, 5, 4.5, schema.MeetsStandardText, schema.MeetsStandardCode},
		{"adjusted gap positive meets", 4.6, 5, 4.5, schema.MeetsStandardText, schema.MeetsStandardCode},
		{"clearly above", 4, 3, 2.7, schema.AboveStandardText, schema.AboveStandardCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Evaluate(tt.individual, tt.original, tt.adjust)
			assert.Equal(t, tt.expectedText, e.Text)
			assert.Equal(t, tt.expectedCode, e.Code)
			assert.Equal(t, GapConclusion(e.OriginalGap, e.AdjustedGap), e.Conclusion)
		})
	}
}

func TestCompetencyBand(t *testing.T) {
	tests := []struct {
		gap      float64
		expected string
	}{
		{2, schema.VeryCompetentBandText},
		{1, schema.VeryCompetentBandText},
		{0.99, schema.CompetentBandText},
		{0, schema.CompetentBandText},
		{-0.01, schema.FairlyCompetentBandText},
		{-0.5, schema.FairlyCompetentBandText},
		{-0.51, schema.LessCompetentBandText},
		{-1, schema.LessCompetentBandText},
		{-1.01, schema.NotCompetentBandText},
		{-4, schema.NotCompetentBandText},
	}
	for _, tt := range tests {
		b := CompetencyBand(tt.gap)
		assert.Equal(t, tt.expected, b.Text, "gap %v", tt.gap)
		assert.NotEmpty(t, b.Description)
		assert.NotEmpty(t, b.Style)
	}
	assert.Equal(t, schema.NotCompetentBandText, CompetencyBand(math.NaN()).Text)
}

func TestCompetencyBandsIsCopy(t *testing.T) {
	bands := CompetencyBands()
	require.Len(t, bands, 5)
	bands[0].Text = "changed"
	assert.Equal(t, schema.VeryCompetentBandText, CompetencyBands()[0].Text)
}

func TestFinalBand(t *testing.T) {
	tests := []struct {
		achievement float64
		code        schema.ConclusionCode
		text        string
	}{
		{150, schema.FinalVeryCompetentCode, schema.FinalVeryCompetentText},
		{120, schema.FinalVeryCompetentCode, schema.FinalVeryCompetentText},
		{119.99, schema.FinalCompetentCode, schema.FinalCompetentText},
		{100, schema.FinalCompetentCode, schema.FinalCompetentText},
		{99.99, schema.FinalMeetsCode, schema.FinalMeetsText},
		{96.01, schema.FinalMeetsCode, schema.FinalMeetsText},
		{80, schema.FinalMeetsCode, schema.FinalMeetsText},
		{79.99, schema.FinalBelowCode, schema.FinalBelowText},
		{0, schema.FinalBelowCode, schema.FinalBelowText},
	}
	for _, tt := range tests {
		c := FinalBand(tt.achievement)
		assert.Equal(t, tt.code, c.Code, "achievement %v", tt.achievement)
		assert.Equal(t, tt.text, c.Text, "achievement %v", tt.achievement)
	}
}

func TestPotensialConclusion(t *testing.T) {
	tests := map[string]string{
		schema.AboveStandardText: schema.VeryPotentialText,
		schema.MeetsStandardText: schema.PotentialWithNotesText,
		schema.BelowStandardText: schema.LessPotentialText,
	}
	for in, expected := range tests {
		c, err := PotensialConclusion(in)
		require.NoError(t, err)
		assert.Equal(t, expected, c.Text)
	}

	_, err := PotensialConclusion("Luar Biasa")
	assert.ErrorIs(t, err, schema.ErrUnmappedConclusion)
}

func TestDisplayStyleFor(t *testing.T) {
	style, err := DisplayStyleFor(schema.AboveStandardText, schema.GapScheme)
	require.NoError(t, err)
	assert.Equal(t, schema.SuccessStyle, style)

	style, err = DisplayStyleFor(schema.LessPotentialText, schema.PotensialScheme)
	require.NoError(t, err)
	assert.Equal(t, schema.DangerStyle, style)

	style, err = DisplayStyleFor(schema.FinalMeetsText, schema.FinalScheme)
	require.NoError(t, err)
	assert.Equal(t, schema.WarningStyle, style)

	style, err = DisplayStyleFor(schema.NotCompetentBandText, schema.CompetencyScheme)
	require.NoError(t, err)
	assert.Equal(t, schema.CriticalStyle, style)

	_, err = DisplayStyleFor(schema.VeryPotentialText, schema.GapScheme)
	assert.ErrorIs(t, err, schema.ErrUnmappedConclusion)

	_, err = DisplayStyleFor(schema.AboveStandardText, "colour")
	assert.ErrorIs(t, err, schema.ErrUnmappedConclusion)
}

func TestConclusionTables(t *testing.T) {
	rows := ConclusionTables()
	counts := map[schema.ConclusionScheme]int{}
	for _, r := range rows {
		counts[r.Scheme]++
		assert.NotEmpty(t, r.Style, "%s %s", r.Scheme, r.Text)
		assert.NotEmpty(t, r.Rule)
	}
	assert.Equal(t, 3, counts[schema.GapScheme])
	assert.Equal(t, 3, counts[schema.PotensialScheme])
	assert.Equal(t, 5, counts[schema.CompetencyScheme])
	assert.Equal(t, 4, counts[schema.FinalScheme])

	assert.Equal(t, "achievement % >= 120", rows[len(rows)-4].Rule)
	assert.Equal(t, "achievement % < 80", rows[len(rows)-1].Rule)
	assert.Equal(t, schema.VeryPotentialText, rows[0].Mapped)
}
