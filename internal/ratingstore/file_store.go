package ratingstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/schema"
	"gopkg.in/yaml.v3"
)

// MemoryStore serves a validated dataset from memory. It is immutable after
// construction, so every read sees the same snapshot.
type MemoryStore struct {
	templates    map[int64]schema.Template
	participants map[int64]schema.Participant
	ratings      map[int64]schema.RatingSet
	fingerprint  string
}

var _ contract.RatingSource = &MemoryStore{} // Compile-time check

// OpenFile loads a YAML or JSON dataset file.
func OpenFile(path string) (*MemoryStore, error) {
	ds, err := LoadDataset(path)
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(ds)
}

// NewMemoryStore validates ds and indexes it for lookups.
func NewMemoryStore(ds *Dataset) (*MemoryStore, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	encoded, err := yaml.Marshal(ds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode dataset: %w", err)
	}

	s := &MemoryStore{
		templates:    make(map[int64]schema.Template, len(ds.Templates)),
		participants: make(map[int64]schema.Participant, len(ds.Participants)),
		ratings:      make(map[int64]schema.RatingSet, len(ds.Ratings)),
		fingerprint:  digest(encoded),
	}
	for _, t := range ds.Templates {
		s.templates[t.ID] = t
	}
	for _, p := range ds.Participants {
		s.participants[p.ID] = p
	}
	for _, r := range ds.Ratings {
		s.ratings[r.ParticipantID] = r
	}
	return s, nil
}

// GetTemplate returns a template. The returned tree must not be modified.
func (s *MemoryStore) GetTemplate(_ context.Context, templateID int64) (*schema.Template, error) {
	t, ok := s.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", schema.ErrTemplateNotFound, templateID)
	}
	return &t, nil
}

// GetParticipant returns a participant.
func (s *MemoryStore) GetParticipant(_ context.Context, participantID int64) (*schema.Participant, error) {
	p, ok := s.participants[participantID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", schema.ErrParticipantNotFound, participantID)
	}
	return &p, nil
}

// GetRatings returns the records of a participant that belong to the template.
// A participant without records yields an empty set.
func (s *MemoryStore) GetRatings(_ context.Context, participantID, templateID int64) (schema.RatingSet, error) {
	t, ok := s.templates[templateID]
	if !ok {
		return schema.RatingSet{}, fmt.Errorf("%w: %d", schema.ErrTemplateNotFound, templateID)
	}
	return filterRatings(s.ratings[participantID], participantID, &t), nil
}

// GetCohort returns the participants of an event and position formation ordered by ID.
func (s *MemoryStore) GetCohort(_ context.Context, eventCode string, positionFormationID int64) ([]schema.Participant, error) {
	cohort := make([]schema.Participant, 0)
	for _, p := range s.participants {
		if p.EventCode == eventCode && p.PositionFormationID == positionFormationID {
			cohort = append(cohort, p)
		}
	}
	slices.SortFunc(cohort, func(a, b schema.Participant) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return cohort, nil
}

// GetCohortRatings returns one rating set per requested participant.
func (s *MemoryStore) GetCohortRatings(_ context.Context, templateID int64, participantIDs []int64) (map[int64]schema.RatingSet, error) {
	t, ok := s.templates[templateID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", schema.ErrTemplateNotFound, templateID)
	}
	out := make(map[int64]schema.RatingSet, len(participantIDs))
	for _, id := range participantIDs {
		out[id] = filterRatings(s.ratings[id], id, &t)
	}
	return out, nil
}

// Fingerprint returns a digest of the whole dataset.
func (s *MemoryStore) Fingerprint(context.Context) (string, error) {
	return s.fingerprint, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// filterRatings keeps only the records whose codes exist in the template.
func filterRatings(set schema.RatingSet, participantID int64, t *schema.Template) schema.RatingSet {
	out := schema.RatingSet{
		ParticipantID: participantID,
		Aspects:       make(map[string]schema.RatingRecord),
		SubAspects:    make(map[string]schema.RatingRecord),
	}
	for _, c := range t.Categories {
		for _, a := range c.Aspects {
			if rec, ok := set.Aspects[a.Code]; ok {
				out.Aspects[a.Code] = rec
			}
			for _, sa := range a.SubAspects {
				if rec, ok := set.SubAspects[sa.Code]; ok {
					out.SubAspects[sa.Code] = rec
				}
			}
		}
	}
	return out
}
