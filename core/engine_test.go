package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/psymap/psymap/internal/iocache"
	"github.com/psymap/psymap/internal/ratingstore"
	"github.com/psymap/psymap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEngineReport_EndToEnd(t *testing.T) {
	engine := NewEngine(newFixtureStore(t), WithClock(func() time.Time { return fixedNow }))

	report, err := engine.Report(context.Background(), ekaID, 0, defaultParams())
	require.NoError(t, err)

	assert.Equal(t, "EKA FEBRIYANI", report.Participant.Name)
	assert.Equal(t, "MANAGERIAL", report.TemplateCode)
	assert.Equal(t, 10, report.Tolerance)
	assert.Equal(t, fixedNow, report.ComputedAt)
	assert.Empty(t, report.Unavailable)

	potensi, ok := report.Category(schema.PotensiCategory)
	require.True(t, ok)
	assert.InDelta(t, 325.0, potensi.TotalOriginalStandardScore, 1e-9)
	assert.InDelta(t, 292.5, potensi.TotalStandardScore, 1e-9)
	assert.InDelta(t, 358.333, potensi.TotalIndividualScore, 0.001)
	assert.Equal(t, schema.AboveStandardCode, potensi.OverallConclusion.Code)
	assert.Zero(t, potensi.WeightedIndividualScore, "category results stay unweighted")

	kecerdasan := potensi.Aspects[0]
	assert.Equal(t, "kecerdasan", kecerdasan.Code)
	assert.InDelta(t, 3.5, kecerdasan.OriginalStandardRating, 1e-9)
	assert.InDelta(t, 3.15, kecerdasan.StandardRating, 1e-9)
	assert.Equal(t, 6, kecerdasan.RatedSubAspectCount)

	kompetensi, ok := report.Category(schema.KompetensiCategory)
	require.True(t, ok)
	assert.InDelta(t, 300.0, kompetensi.TotalOriginalStandardScore, 1e-9)
	assert.InDelta(t, 270.0, kompetensi.TotalStandardScore, 1e-9)
	assert.InDelta(t, 350.0, kompetensi.TotalIndividualScore, 1e-9)

	require.NotNil(t, report.Final)
	f := report.Final
	assert.InDelta(t, 310.0, f.TotalOriginalStandardScore, 1e-9)
	assert.InDelta(t, 279.0, f.TotalStandardScore, 1e-9)
	assert.InDelta(t, 353.333, f.TotalIndividualScore, 0.001)
	assert.Equal(t, 113.98, f.AchievementPercentage)
	assert.Equal(t, schema.FinalCompetentCode, f.FinalConclusion.Code)
	assert.InDelta(t, 0.4*potensi.TotalIndividualScore+0.6*kompetensi.TotalIndividualScore, f.TotalIndividualScore, 1e-9)
}

func TestEngineReport_MissingSubAspectIsExcluded(t *testing.T) {
	engine := NewEngine(newFixtureStore(t))

	report, err := engine.Report(context.Background(), adiID, 0, defaultParams())
	require.NoError(t, err)

	potensi, ok := report.Category(schema.PotensiCategory)
	require.True(t, ok)
	kecerdasan := potensi.Aspects[0]
	assert.Equal(t, 6, kecerdasan.SubAspectCount)
	assert.Equal(t, 5, kecerdasan.RatedSubAspectCount)
	assert.InDelta(t, 3.4, kecerdasan.IndividualRating, 1e-9)
	assert.InDelta(t, 3.5, kecerdasan.OriginalStandardRating, 1e-9)
	assert.Equal(t, 115.48, report.Final.AchievementPercentage)
}

func TestEngineReport_MissingAspectMakesCategoryUnavailable(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(newFixtureStore(t))

	report, err := engine.Report(ctx, budiID, 0, defaultParams())
	require.NoError(t, err)
	require.Len(t, report.Unavailable, 1)
	assert.Equal(t, schema.KompetensiCategory, report.Unavailable[0].Code)
	assert.Contains(t, report.Unavailable[0].Reason, "kerjasama")
	assert.Nil(t, report.Final)

	_, ok := report.Category(schema.PotensiCategory)
	assert.True(t, ok)

	_, err = engine.Final(ctx, budiID, 0, defaultParams())
	assert.ErrorIs(t, err, schema.ErrMissingData)
}

func TestEngineReport_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid tolerance is rejected before any read", func(t *testing.T) {
		reader := &ratingstore.MockRatingReader{}
		engine := NewEngine(reader)
		for _, tol := range []int{-1, 101} {
			params := defaultParams()
			params.TolerancePercentage = tol
			_, err := engine.Report(ctx, ekaID, 0, params)
			assert.ErrorIs(t, err, schema.ErrInvalidTolerance)
		}
		reader.AssertExpectations(t)
	})

	t.Run("unknown participant", func(t *testing.T) {
		engine := NewEngine(newFixtureStore(t))
		_, err := engine.Report(ctx, 99, 0, defaultParams())
		assert.ErrorIs(t, err, schema.ErrParticipantNotFound)
	})

	t.Run("unknown template", func(t *testing.T) {
		engine := NewEngine(newFixtureStore(t))
		_, err := engine.Report(ctx, ekaID, 42, defaultParams())
		assert.ErrorIs(t, err, schema.ErrTemplateNotFound)
	})

	t.Run("rating read failure", func(t *testing.T) {
		store := newFixtureStore(t)
		tmpl, err := store.GetTemplate(ctx, 1)
		require.NoError(t, err)
		p, err := store.GetParticipant(ctx, ekaID)
		require.NoError(t, err)

		reader := &ratingstore.MockRatingReader{}
		reader.On("GetParticipant", mock.Anything, ekaID).Return(p, nil)
		reader.On("GetTemplate", mock.Anything, int64(1)).Return(tmpl, nil)
		reader.On("GetRatings", mock.Anything, ekaID, int64(1)).Return(schema.RatingSet{}, errors.New("connection reset"))

		_, err = NewEngine(reader).Report(ctx, ekaID, 0, defaultParams())
		assert.ErrorContains(t, err, "connection reset")
		reader.AssertExpectations(t)
	})
}

func TestEngineReport_ToleranceAndOverrides(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(newFixtureStore(t))

	t.Run("zero tolerance keeps the original standard", func(t *testing.T) {
		params := defaultParams()
		params.TolerancePercentage = 0
		report, err := engine.Report(ctx, ekaID, 0, params)
		require.NoError(t, err)
		for _, c := range report.Categories {
			assert.Equal(t, c.TotalOriginalStandardScore, c.TotalStandardScore)
		}
	})

	t.Run("custom override replaces only its field", func(t *testing.T) {
		params := defaultParams()
		params.Custom = &schema.CustomStandard{Code: "MANAGERIAL-2025", Aspects: map[string]float64{"integritas": 2.0}}
		report, err := engine.Report(ctx, ekaID, 0, params)
		require.NoError(t, err)

		kompetensi, _ := report.Category(schema.KompetensiCategory)
		integritas, kerjasama := kompetensi.Aspects[0], kompetensi.Aspects[1]
		assert.Equal(t, 2.0, integritas.StandardRating)
		assert.Equal(t, 3.0, integritas.OriginalStandardRating)
		assert.Equal(t, schema.CustomSource, integritas.StandardSource)
		assert.InDelta(t, 2.7, kerjasama.StandardRating, 1e-9)
		assert.Equal(t, schema.ToleranceSource, kerjasama.StandardSource)
	})

	t.Run("weight override applies to the final only", func(t *testing.T) {
		half := 50.0
		weighted := NewEngine(newFixtureStore(t), WithWeights(schema.CategoryWeights{Potensi: &half, Kompetensi: &half}))
		report, err := weighted.Report(ctx, ekaID, 0, defaultParams())
		require.NoError(t, err)

		assert.InDelta(t, 312.5, report.Final.TotalOriginalStandardScore, 1e-9)
		assert.Equal(t, 50.0, report.Final.Potensi.CategoryWeight)
		assert.Equal(t, 113.33, report.Final.AchievementPercentage)

		potensi, _ := report.Category(schema.PotensiCategory)
		assert.Equal(t, 40.0, potensi.CategoryWeight)
	})
}

func TestEngineReport_Memo(t *testing.T) {
	ctx := context.Background()
	reader := &countingReader{RatingReader: newFixtureStore(t)}
	engine := NewEngine(reader)

	first, err := engine.Report(ctx, ekaID, 0, defaultParams())
	require.NoError(t, err)
	second, err := engine.Report(ctx, ekaID, 0, defaultParams())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), reader.ratings.Load())

	// A different tolerance is a different entry
	params := defaultParams()
	params.TolerancePercentage = 20
	_, err = engine.Report(ctx, ekaID, 0, params)
	require.NoError(t, err)
	assert.Equal(t, int32(2), reader.ratings.Load())
	assert.Equal(t, 2, engine.Memo().Len())

	engine.Invalidate(ekaID)
	assert.Equal(t, 0, engine.Memo().Len())
	third, err := engine.Report(ctx, ekaID, 0, defaultParams())
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, first.Final.TotalIndividualScore, third.Final.TotalIndividualScore)

	engine.InvalidateAll()
	assert.Equal(t, 0, engine.Memo().Len())
}

func TestEngineReport_PersistentCache(t *testing.T) {
	ctx := context.Background()

	var stored []byte
	miss := &iocache.MockCacheStore{}
	miss.On("Get", mock.Anything).Return(nil, 0, int64(0), errors.New("not found"))
	miss.On("Set", mock.Anything, mock.Anything, currentCacheVersion, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).([]byte) }).
		Return(nil).Once()

	computed, err := NewEngine(newFixtureStore(t), WithCacheStore(miss)).Report(ctx, ekaID, 0, defaultParams())
	require.NoError(t, err)
	miss.AssertExpectations(t)
	require.NotEmpty(t, stored)

	hit := &iocache.MockCacheStore{}
	hit.On("Get", mock.Anything).Return(stored, currentCacheVersion, time.Now().Unix(), nil)
	reader := &countingReader{RatingReader: newFixtureStore(t)}

	cached, err := NewEngine(reader, WithCacheStore(hit)).Report(ctx, ekaID, 0, defaultParams())
	require.NoError(t, err)
	assert.Equal(t, int32(0), reader.templates.Load())
	assert.Equal(t, int32(0), reader.ratings.Load())
	require.NotNil(t, cached.Final)
	assert.InDelta(t, computed.Final.TotalIndividualScore, cached.Final.TotalIndividualScore, 1e-9)
	hit.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEngineChart(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(newFixtureStore(t))

	series, err := engine.Chart(ctx, ekaID, 0, schema.PotensiCategory, defaultParams())
	require.NoError(t, err)
	assert.Equal(t, []string{"Kecerdasan", "Sikap Kerja"}, series.Labels)
	assert.InDeltaSlice(t, []float64{3.5, 3}, series.OriginalStandard, 1e-9)
	assert.InDeltaSlice(t, []float64{3.15, 2.7}, series.Standard, 1e-9)
	assert.InDeltaSlice(t, []float64{22.0 / 6, 3.5}, series.Individual, 1e-9)

	_, err = engine.Chart(ctx, ekaID, 0, schema.CategoryCode("leadership"), defaultParams())
	assert.ErrorIs(t, err, schema.ErrUnknownCategory)

	_, err = engine.Chart(ctx, budiID, 0, schema.KompetensiCategory, defaultParams())
	assert.ErrorIs(t, err, schema.ErrMissingData)
}

func TestEngineCompetencySummary(t *testing.T) {
	engine := NewEngine(newFixtureStore(t))

	rows, err := engine.CompetencySummary(context.Background(), ekaID, 0, defaultParams())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "integritas", rows[0].AspectCode)
	assert.InDelta(t, 1.3, rows[0].Gap, 1e-9)
	assert.Equal(t, schema.VeryCompetentBandText, rows[0].Band)
	assert.Equal(t, schema.SuccessStyle, rows[0].Color)

	assert.Equal(t, "kerjasama", rows[1].AspectCode)
	assert.Equal(t, schema.CompetentBandText, rows[1].Band)
}

func TestEngineReport_Idempotent(t *testing.T) {
	ctx := context.Background()
	clock := WithClock(func() time.Time { return fixedNow })

	a, err := NewEngine(newFixtureStore(t), clock).Report(ctx, adiID, 0, defaultParams())
	require.NoError(t, err)
	b, err := NewEngine(newFixtureStore(t), clock).Report(ctx, adiID, 0, defaultParams())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
