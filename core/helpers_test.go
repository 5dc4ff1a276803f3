package core

import (
	"context"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/internal/ratingstore"
	"github.com/psymap/psymap/schema"
	"github.com/stretchr/testify/require"
)

const fixturePath = "testdata/dataset.yaml"

// Participant IDs of the fixture dataset.
const (
	ekaID   int64 = 1
	adiID   int64 = 2
	budiID  int64 = 3
	citraID int64 = 4
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func loadFixture(t *testing.T) *ratingstore.Dataset {
	t.Helper()
	ds, err := ratingstore.LoadDataset(fixturePath)
	require.NoError(t, err)
	return ds
}

func newFixtureStore(t *testing.T) *ratingstore.MemoryStore {
	t.Helper()
	store, err := ratingstore.NewMemoryStore(loadFixture(t))
	require.NoError(t, err)
	return store
}

func defaultParams() schema.ScoringParams {
	return schema.DefaultScoringParams()
}

// countingReader counts the reads that reach the wrapped reader.
type countingReader struct {
	contract.RatingReader
	templates    atomic.Int32
	ratings      atomic.Int32
	cohortBatch  atomic.Int32
	reverseOrder bool
}

func (c *countingReader) GetTemplate(ctx context.Context, id int64) (*schema.Template, error) {
	c.templates.Add(1)
	return c.RatingReader.GetTemplate(ctx, id)
}

func (c *countingReader) GetRatings(ctx context.Context, participantID, templateID int64) (schema.RatingSet, error) {
	c.ratings.Add(1)
	return c.RatingReader.GetRatings(ctx, participantID, templateID)
}

func (c *countingReader) GetCohort(ctx context.Context, eventCode string, positionID int64) ([]schema.Participant, error) {
	cohort, err := c.RatingReader.GetCohort(ctx, eventCode, positionID)
	if c.reverseOrder {
		slices.Reverse(cohort)
	}
	return cohort, err
}

func (c *countingReader) GetCohortRatings(ctx context.Context, templateID int64, ids []int64) (map[int64]schema.RatingSet, error) {
	c.cohortBatch.Add(1)
	return c.RatingReader.GetCohortRatings(ctx, templateID, ids)
}
