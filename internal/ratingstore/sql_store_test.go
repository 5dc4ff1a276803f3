package ratingstore

import (
	"context"
	"testing"

	"github.com/psymap/psymap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T, ds *Dataset) *SQLStore {
	t.Helper()
	ctx := context.Background()
	store, err := OpenSQL(ctx, schema.SQLiteData, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.EnsureSchema(ctx))
	if ds != nil {
		require.NoError(t, store.Import(ctx, ds))
	}
	return store
}

func TestSQLStore_MatchesMemoryStore(t *testing.T) {
	ctx := context.Background()
	mem := newFixtureStore(t)
	db := newSQLiteStore(t, loadFixture(t))

	want, err := mem.GetTemplate(ctx, 1)
	require.NoError(t, err)
	got, err := db.GetTemplate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	for _, id := range []int64{1, 2, 3, 4} {
		wantP, err := mem.GetParticipant(ctx, id)
		require.NoError(t, err)
		gotP, err := db.GetParticipant(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, wantP, gotP)

		wantR, err := mem.GetRatings(ctx, id, 1)
		require.NoError(t, err)
		gotR, err := db.GetRatings(ctx, id, 1)
		require.NoError(t, err)
		assert.Equal(t, wantR, gotR, "ratings of participant %d", id)
	}

	wantC, err := mem.GetCohort(ctx, "EV-2025", 10)
	require.NoError(t, err)
	gotC, err := db.GetCohort(ctx, "EV-2025", 10)
	require.NoError(t, err)
	assert.Equal(t, wantC, gotC)
}

func TestSQLStore_NotFound(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteStore(t, loadFixture(t))

	_, err := db.GetTemplate(ctx, 99)
	assert.ErrorIs(t, err, schema.ErrTemplateNotFound)

	_, err = db.GetParticipant(ctx, 99)
	assert.ErrorIs(t, err, schema.ErrParticipantNotFound)

	cohort, err := db.GetCohort(ctx, "EV-1999", 1)
	require.NoError(t, err)
	assert.Empty(t, cohort)

	set, err := db.GetRatings(ctx, 99, 1)
	require.NoError(t, err)
	assert.Empty(t, set.Aspects)
	assert.Empty(t, set.SubAspects)
}

func TestSQLStore_CohortRatingsBatches(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteStore(t, loadFixture(t))

	ids := make([]int64, 0, maxBatchSize+10)
	for i := int64(1); i <= maxBatchSize+10; i++ {
		ids = append(ids, i)
	}
	sets, err := db.GetCohortRatings(ctx, 1, ids)
	require.NoError(t, err)
	assert.Len(t, sets, len(ids))
	assert.Len(t, sets[1].SubAspects, 8)
	assert.Len(t, sets[4].Aspects, 2)
	assert.Empty(t, sets[maxBatchSize+5].Aspects)
}

func TestSQLStore_ImportAssignsIDs(t *testing.T) {
	ctx := context.Background()
	ds, err := LoadDataset("testdata/small.json")
	require.NoError(t, err)
	db := newSQLiteStore(t, ds)

	tmpl, err := db.GetTemplate(ctx, 7)
	require.NoError(t, err)
	require.Len(t, tmpl.Categories, 2)
	assert.Equal(t, schema.PotensiCategory, tmpl.Categories[0].Code)
	assert.NotZero(t, tmpl.Categories[0].ID)
	assert.NotEqual(t, tmpl.Categories[0].ID, tmpl.Categories[1].ID)

	set, err := db.GetRatings(ctx, 9, 7)
	require.NoError(t, err)
	assert.Equal(t, schema.RatingRecord{StandardRating: 3, IndividualRating: 2}, set.Aspects["komunikasi"])
}

func TestSQLStore_ImportRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteStore(t, nil)

	ds := loadFixture(t)
	ds.Participants[0].TemplateID = 99
	assert.Error(t, db.Import(ctx, ds))

	// Nothing was written
	_, err := db.GetTemplate(ctx, 1)
	assert.ErrorIs(t, err, schema.ErrTemplateNotFound)
}

func TestSQLStore_ImportUnknownRatingCode(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteStore(t, nil)

	ds := loadFixture(t)
	ds.Ratings[0].Aspects["leadership"] = schema.RatingRecord{StandardRating: 3, IndividualRating: 3}
	err := db.Import(ctx, ds)
	assert.ErrorContains(t, err, `unknown code "leadership"`)

	_, err = db.GetParticipant(ctx, 1)
	assert.ErrorIs(t, err, schema.ErrParticipantNotFound)
}

func TestSQLStore_ClearDataAndReimport(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteStore(t, loadFixture(t))

	before, err := db.Fingerprint(ctx)
	require.NoError(t, err)

	require.NoError(t, db.ClearData(ctx))
	_, err = db.GetParticipant(ctx, 1)
	assert.ErrorIs(t, err, schema.ErrParticipantNotFound)

	empty, err := db.Fingerprint(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, before, empty)

	require.NoError(t, db.Import(ctx, loadFixture(t)))
	after, err := db.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSQLStore_FingerprintTracksRatings(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteStore(t, loadFixture(t))

	before, err := db.Fingerprint(ctx)
	require.NoError(t, err)

	_, err = db.db.ExecContext(ctx, `UPDATE aspect_ratings SET individual_rating = 1 WHERE participant_id = 1 AND aspect_id = 201`)
	require.NoError(t, err)

	after, err := db.Fingerprint(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestSQLStore_Rebind(t *testing.T) {
	pg := &SQLStore{backend: schema.PostgreSQLData}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b IN ($2, $3)", pg.rebind("SELECT * FROM t WHERE a = ? AND b IN (?, ?)"))

	my := &SQLStore{backend: schema.MySQLData}
	assert.Equal(t, "SELECT ? FROM t", my.rebind("SELECT ? FROM t"))
}

func TestOpenSQL_Unsupported(t *testing.T) {
	_, err := OpenSQL(context.Background(), schema.FileData, "x")
	assert.ErrorContains(t, err, "unsupported data backend")
}
