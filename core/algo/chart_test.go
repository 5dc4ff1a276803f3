package algo

import (
	"testing"

	"github.com/psymap/psymap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenChart(t *testing.T) {
	aspects := []schema.AspectResult{
		{Code: "a1", Name: "Kecerdasan", OriginalStandardRating: 3.5, StandardRating: 3.15, IndividualRating: 4},
		{Code: "a2", OriginalStandardRating: 3, StandardRating: 2.7, IndividualRating: 2.5},
	}
	s := FlattenChart(aspects)

	require.Len(t, s.Labels, 2)
	assert.Equal(t, []string{"Kecerdasan", "a2"}, s.Labels)
	assert.Equal(t, []float64{3.5, 3}, s.OriginalStandard)
	assert.Equal(t, []float64{3.15, 2.7}, s.Standard)
	assert.Equal(t, []float64{4, 2.5}, s.Individual)

	empty := FlattenChart(nil)
	assert.Empty(t, empty.Labels)
	assert.Len(t, empty.Individual, 0)
}

func TestSummarizeCompetency(t *testing.T) {
	rows := SummarizeCompetency([]schema.AspectResult{
		{Code: "a1", GapRating: 1.2},
		{Code: "a2", GapRating: -0.7},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, schema.VeryCompetentBandText, rows[0].Band)
	assert.Equal(t, schema.LessCompetentBandText, rows[1].Band)
	assert.Equal(t, schema.DangerStyle, rows[1].Color)
}
