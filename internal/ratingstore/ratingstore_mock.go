package ratingstore

import (
	"context"

	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/schema"
	"github.com/stretchr/testify/mock"
)

// MockRatingReader is a mock implementation of RatingReader for testing.
type MockRatingReader struct {
	mock.Mock
}

var _ contract.RatingReader = &MockRatingReader{} // Compile-time check

// GetTemplate implements the RatingReader interface.
func (m *MockRatingReader) GetTemplate(ctx context.Context, templateID int64) (*schema.Template, error) {
	args := m.Called(ctx, templateID)
	t, _ := args.Get(0).(*schema.Template)
	return t, args.Error(1)
}

// GetParticipant implements the RatingReader interface.
func (m *MockRatingReader) GetParticipant(ctx context.Context, participantID int64) (*schema.Participant, error) {
	args := m.Called(ctx, participantID)
	p, _ := args.Get(0).(*schema.Participant)
	return p, args.Error(1)
}

// GetRatings implements the RatingReader interface.
func (m *MockRatingReader) GetRatings(ctx context.Context, participantID, templateID int64) (schema.RatingSet, error) {
	args := m.Called(ctx, participantID, templateID)
	return args.Get(0).(schema.RatingSet), args.Error(1)
}

// GetCohort implements the RatingReader interface.
func (m *MockRatingReader) GetCohort(ctx context.Context, eventCode string, positionFormationID int64) ([]schema.Participant, error) {
	args := m.Called(ctx, eventCode, positionFormationID)
	cohort, _ := args.Get(0).([]schema.Participant)
	return cohort, args.Error(1)
}

// GetCohortRatings implements the RatingReader interface.
func (m *MockRatingReader) GetCohortRatings(ctx context.Context, templateID int64, participantIDs []int64) (map[int64]schema.RatingSet, error) {
	args := m.Called(ctx, templateID, participantIDs)
	sets, _ := args.Get(0).(map[int64]schema.RatingSet)
	return sets, args.Error(1)
}

// Fingerprint implements the RatingReader interface.
func (m *MockRatingReader) Fingerprint(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
