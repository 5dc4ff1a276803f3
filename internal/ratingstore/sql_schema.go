package ratingstore

import (
	"context"
	"fmt"

	"github.com/psymap/psymap/schema"
)

// schemaStatements create the rating tables. The column types are accepted by
// SQLite, MySQL and PostgreSQL alike.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS templates (
		id BIGINT PRIMARY KEY,
		code VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT PRIMARY KEY,
		template_id BIGINT NOT NULL,
		code VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		weight_percentage DOUBLE PRECISION NOT NULL,
		sort_order INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS aspects (
		id BIGINT PRIMARY KEY,
		category_id BIGINT NOT NULL,
		code VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		weight_percentage DOUBLE PRECISION NOT NULL,
		standard_rating DOUBLE PRECISION NOT NULL,
		sort_order INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sub_aspects (
		id BIGINT PRIMARY KEY,
		aspect_id BIGINT NOT NULL,
		code VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		standard_rating DOUBLE PRECISION NOT NULL,
		sort_order INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS participants (
		id BIGINT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		test_number VARCHAR(64) NOT NULL,
		event_code VARCHAR(64) NOT NULL,
		position_formation_id BIGINT NOT NULL,
		template_id BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS aspect_ratings (
		participant_id BIGINT NOT NULL,
		aspect_id BIGINT NOT NULL,
		standard_rating DOUBLE PRECISION NOT NULL,
		individual_rating DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (participant_id, aspect_id)
	)`,
	`CREATE TABLE IF NOT EXISTS sub_aspect_ratings (
		participant_id BIGINT NOT NULL,
		sub_aspect_id BIGINT NOT NULL,
		standard_rating DOUBLE PRECISION NOT NULL,
		individual_rating DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (participant_id, sub_aspect_id)
	)`,
}

// EnsureSchema creates the rating tables when they are missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create rating schema: %w", err)
		}
	}
	return nil
}

// Import writes a validated dataset in one transaction. Template nodes
// without an ID are numbered after the largest ID in the dataset.
func (s *SQLStore) Import(ctx context.Context, ds *Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, s.rebind(query), args...)
		return err
	}

	nextID := newIDAllocator(ds)
	// Per template, codes resolve to row IDs for the rating tables
	aspectIDs := make(map[int64]map[string]int64)
	subAspectIDs := make(map[int64]map[string]int64)

	for _, t := range ds.Templates {
		if err := exec(`INSERT INTO templates (id, code, name) VALUES (?, ?, ?)`, t.ID, t.Code, t.Name); err != nil {
			return fmt.Errorf("failed to insert template %s: %w", t.Code, err)
		}
		aspectIDs[t.ID] = make(map[string]int64)
		subAspectIDs[t.ID] = make(map[string]int64)

		for ci, c := range t.Categories {
			categoryID := nextID(c.ID)
			if err := exec(`INSERT INTO categories (id, template_id, code, name, weight_percentage, sort_order) VALUES (?, ?, ?, ?, ?, ?)`,
				categoryID, t.ID, string(c.Code), c.Name, c.WeightPercentage, ci); err != nil {
				return fmt.Errorf("failed to insert category %s: %w", c.Code, err)
			}
			for ai, a := range c.Aspects {
				aspectID := nextID(a.ID)
				aspectIDs[t.ID][a.Code] = aspectID
				if err := exec(`INSERT INTO aspects (id, category_id, code, name, weight_percentage, standard_rating, sort_order) VALUES (?, ?, ?, ?, ?, ?, ?)`,
					aspectID, categoryID, a.Code, a.Name, a.WeightPercentage, a.StandardRating, ai); err != nil {
					return fmt.Errorf("failed to insert aspect %s: %w", a.Code, err)
				}
				for si, sa := range a.SubAspects {
					subID := nextID(sa.ID)
					subAspectIDs[t.ID][sa.Code] = subID
					if err := exec(`INSERT INTO sub_aspects (id, aspect_id, code, name, standard_rating, sort_order) VALUES (?, ?, ?, ?, ?, ?)`,
						subID, aspectID, sa.Code, sa.Name, sa.StandardRating, si); err != nil {
						return fmt.Errorf("failed to insert sub-aspect %s: %w", sa.Code, err)
					}
				}
			}
		}
	}

	templateOf := make(map[int64]int64, len(ds.Participants))
	for _, p := range ds.Participants {
		templateOf[p.ID] = p.TemplateID
		if err := exec(`INSERT INTO participants (id, name, test_number, event_code, position_formation_id, template_id) VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.TestNumber, p.EventCode, p.PositionFormationID, p.TemplateID); err != nil {
			return fmt.Errorf("failed to insert participant %d: %w", p.ID, err)
		}
	}

	for _, r := range ds.Ratings {
		tid := templateOf[r.ParticipantID]
		if err := insertRatings(exec, "aspect_ratings", "aspect_id", r.ParticipantID, r.Aspects, aspectIDs[tid]); err != nil {
			return err
		}
		if err := insertRatings(exec, "sub_aspect_ratings", "sub_aspect_id", r.ParticipantID, r.SubAspects, subAspectIDs[tid]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

func insertRatings(exec func(string, ...any) error, table, column string, participantID int64, records map[string]schema.RatingRecord, ids map[string]int64) error {
	query := fmt.Sprintf(`INSERT INTO %s (participant_id, %s, standard_rating, individual_rating) VALUES (?, ?, ?, ?)`, table, column)
	for code, rec := range records {
		id, ok := ids[code]
		if !ok {
			return fmt.Errorf("participant %d has a rating for unknown code %q", participantID, code)
		}
		if err := exec(query, participantID, id, rec.StandardRating, rec.IndividualRating); err != nil {
			return fmt.Errorf("failed to insert %s for participant %d: %w", table, participantID, err)
		}
	}
	return nil
}

// newIDAllocator keeps explicit IDs and numbers the rest above the largest one.
func newIDAllocator(ds *Dataset) func(int64) int64 {
	var maxID int64
	for _, t := range ds.Templates {
		for _, c := range t.Categories {
			maxID = max(maxID, c.ID)
			for _, a := range c.Aspects {
				maxID = max(maxID, a.ID)
				for _, sa := range a.SubAspects {
					maxID = max(maxID, sa.ID)
				}
			}
		}
	}
	return func(id int64) int64 {
		if id != 0 {
			return id
		}
		maxID++
		return maxID
	}
}

// ClearData deletes every rating row so a dataset can be imported again.
func (s *SQLStore) ClearData(ctx context.Context) error {
	for _, table := range []string{"sub_aspect_ratings", "aspect_ratings", "participants", "sub_aspects", "aspects", "categories", "templates"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
