package ratingstore

import (
	"context"
	"testing"

	"github.com/psymap/psymap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureStore(t *testing.T) *MemoryStore {
	t.Helper()
	store, err := OpenFile(fixturePath)
	require.NoError(t, err)
	return store
}

func TestMemoryStore_Lookups(t *testing.T) {
	ctx := context.Background()
	store := newFixtureStore(t)

	tmpl, err := store.GetTemplate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "MANAGERIAL", tmpl.Code)

	_, err = store.GetTemplate(ctx, 99)
	assert.ErrorIs(t, err, schema.ErrTemplateNotFound)

	p, err := store.GetParticipant(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "EKA FEBRIYANI", p.Name)
	assert.Equal(t, "EV-2025", p.EventCode)

	_, err = store.GetParticipant(ctx, 99)
	assert.ErrorIs(t, err, schema.ErrParticipantNotFound)

	assert.NoError(t, store.Close())
}

func TestMemoryStore_GetRatings(t *testing.T) {
	ctx := context.Background()
	store := newFixtureStore(t)

	t.Run("full set", func(t *testing.T) {
		set, err := store.GetRatings(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), set.ParticipantID)
		assert.Len(t, set.SubAspects, 8)
		assert.Len(t, set.Aspects, 2)
	})

	t.Run("partial set", func(t *testing.T) {
		set, err := store.GetRatings(ctx, 3, 1)
		require.NoError(t, err)
		_, ok := set.AspectRating("kerjasama")
		assert.False(t, ok)
		_, ok = set.AspectRating("integritas")
		assert.True(t, ok)
	})

	t.Run("participant without records", func(t *testing.T) {
		set, err := store.GetRatings(ctx, 42, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(42), set.ParticipantID)
		assert.Empty(t, set.Aspects)
		assert.Empty(t, set.SubAspects)
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := store.GetRatings(ctx, 1, 99)
		assert.ErrorIs(t, err, schema.ErrTemplateNotFound)
	})
}

func TestMemoryStore_FiltersForeignCodes(t *testing.T) {
	ds := loadFixture(t)
	ds.Ratings[0].Aspects["leadership"] = schema.RatingRecord{StandardRating: 3, IndividualRating: 5}

	store, err := NewMemoryStore(ds)
	require.NoError(t, err)

	set, err := store.GetRatings(context.Background(), 1, 1)
	require.NoError(t, err)
	_, ok := set.AspectRating("leadership")
	assert.False(t, ok)
}

func TestMemoryStore_Cohort(t *testing.T) {
	ctx := context.Background()
	store := newFixtureStore(t)

	cohort, err := store.GetCohort(ctx, "EV-2025", 10)
	require.NoError(t, err)
	require.Len(t, cohort, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{cohort[0].ID, cohort[1].ID, cohort[2].ID})

	empty, err := store.GetCohort(ctx, "EV-1999", 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	sets, err := store.GetCohortRatings(ctx, 1, []int64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, sets, 3)
	assert.Len(t, sets[2].SubAspects, 7)

	_, err = store.GetCohortRatings(ctx, 99, []int64{1})
	assert.ErrorIs(t, err, schema.ErrTemplateNotFound)
}

func TestMemoryStore_Fingerprint(t *testing.T) {
	ctx := context.Background()
	a := newFixtureStore(t)
	b := newFixtureStore(t)

	fa, err := a.Fingerprint(ctx)
	require.NoError(t, err)
	fb, err := b.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Len(t, fa, 32)
	assert.Equal(t, fa, fb)

	ds := loadFixture(t)
	ds.Ratings[0].Aspects["integritas"] = schema.RatingRecord{StandardRating: 3, IndividualRating: 5}
	changed, err := NewMemoryStore(ds)
	require.NoError(t, err)
	fc, err := changed.Fingerprint(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	src, err := Open(ctx, schema.FileData, fixturePath)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, src)

	src, err = Open(ctx, "", fixturePath)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, src)

	src, err = Open(ctx, schema.SQLiteData, ":memory:")
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, src)
	assert.NoError(t, src.Close())

	_, err = Open(ctx, schema.DataBackend("oracle"), "x")
	assert.ErrorContains(t, err, "unsupported data backend")
}
