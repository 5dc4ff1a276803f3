// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/psymap/psymap/schema"
)

// RatingReader defines the read-only access the engine needs to templates,
// participants and their rating records.
// This allows the engine to be tested without a real data source.
type RatingReader interface {
	// GetTemplate returns the full rubric tree of a template.
	GetTemplate(ctx context.Context, templateID int64) (*schema.Template, error)

	// GetParticipant returns a single participant.
	GetParticipant(ctx context.Context, participantID int64) (*schema.Participant, error)

	// GetRatings returns every rating record of a participant under a template.
	GetRatings(ctx context.Context, participantID, templateID int64) (schema.RatingSet, error)

	// GetCohort returns the participants sharing an event and position formation.
	GetCohort(ctx context.Context, eventCode string, positionFormationID int64) ([]schema.Participant, error)

	// GetCohortRatings returns the rating sets of many participants in one batch read.
	GetCohortRatings(ctx context.Context, templateID int64, participantIDs []int64) (map[int64]schema.RatingSet, error)

	// Fingerprint returns a digest that changes whenever the underlying data changes.
	Fingerprint(ctx context.Context) (string, error)
}

// RatingSource is a RatingReader that owns a closable resource.
type RatingSource interface {
	RatingReader
	Close() error
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResultStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking report runs and storing participant results.
type HistoryStore interface {
	// BeginRun creates a new report run and returns its unique ID
	BeginRun(kind string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the report run with completion data
	EndRun(runID int64, endTime time.Time, totalParticipants int) error

	// RecordParticipantResult stores the final result of one participant
	RecordParticipantResult(record schema.ParticipantResultRecord) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every stored report run
	GetAllRuns() ([]schema.ReportRunRecord, error)

	// GetAllParticipantResults returns every stored participant result
	GetAllParticipantResults() ([]schema.ParticipantResultRecord, error)

	// Close closes the underlying connection
	Close() error
}
