package ratingstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/schema"
	_ "modernc.org/sqlite" // SQLite driver
)

// maxBatchSize bounds the number of bind parameters in one IN list.
const maxBatchSize = 500

// SQLStore reads rating data from the relational schema created by EnsureSchema.
type SQLStore struct {
	db      *sql.DB
	backend schema.DataBackend
}

var _ contract.RatingSource = &SQLStore{} // Compile-time check

// OpenSQL connects to a rating database.
func OpenSQL(ctx context.Context, backend schema.DataBackend, dsn string) (*SQLStore, error) {
	var driverName string
	switch backend {
	case schema.SQLiteData:
		driverName = "sqlite"
	case schema.MySQLData:
		driverName = "mysql"
	case schema.PostgreSQLData:
		driverName = "pgx"
	default:
		return nil, fmt.Errorf("unsupported data backend: %s", backend)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s rating database: %w", backend, err)
	}
	if backend == schema.SQLiteData {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s rating database: %w", backend, err)
	}
	return NewSQLStore(db, backend), nil
}

// NewSQLStore wraps an open connection pool.
func NewSQLStore(db *sql.DB, backend schema.DataBackend) *SQLStore {
	return &SQLStore{db: db, backend: backend}
}

// Close closes the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders into the $n form PostgreSQL expects.
func (s *SQLStore) rebind(query string) string {
	if s.backend != schema.PostgreSQLData {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// GetTemplate assembles the rubric tree of a template in display order.
func (s *SQLStore) GetTemplate(ctx context.Context, templateID int64) (*schema.Template, error) {
	t := schema.Template{}
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, code, name FROM templates WHERE id = ?`), templateID).
		Scan(&t.ID, &t.Code, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", schema.ErrTemplateNotFound, templateID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query template %d: %w", templateID, err)
	}

	categoryIdx := make(map[int64]int)
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT id, code, name, weight_percentage FROM categories
		WHERE template_id = ? ORDER BY sort_order, id`), templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	err = scanRows(rows, func(rows *sql.Rows) error {
		var c schema.Category
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.WeightPercentage); err != nil {
			return err
		}
		categoryIdx[c.ID] = len(t.Categories)
		t.Categories = append(t.Categories, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	type aspectPos struct{ category, aspect int }
	aspectIdx := make(map[int64]aspectPos)
	rows, err = s.db.QueryContext(ctx, s.rebind(`SELECT a.id, a.category_id, a.code, a.name, a.weight_percentage, a.standard_rating
		FROM aspects a JOIN categories c ON c.id = a.category_id
		WHERE c.template_id = ? ORDER BY a.sort_order, a.id`), templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query aspects: %w", err)
	}
	err = scanRows(rows, func(rows *sql.Rows) error {
		var (
			a          schema.Aspect
			categoryID int64
		)
		if err := rows.Scan(&a.ID, &categoryID, &a.Code, &a.Name, &a.WeightPercentage, &a.StandardRating); err != nil {
			return err
		}
		ci := categoryIdx[categoryID]
		aspectIdx[a.ID] = aspectPos{ci, len(t.Categories[ci].Aspects)}
		t.Categories[ci].Aspects = append(t.Categories[ci].Aspects, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read aspects: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, s.rebind(`SELECT s.id, s.aspect_id, s.code, s.name, s.standard_rating
		FROM sub_aspects s JOIN aspects a ON a.id = s.aspect_id JOIN categories c ON c.id = a.category_id
		WHERE c.template_id = ? ORDER BY s.sort_order, s.id`), templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sub-aspects: %w", err)
	}
	err = scanRows(rows, func(rows *sql.Rows) error {
		var (
			sa       schema.SubAspect
			aspectID int64
		)
		if err := rows.Scan(&sa.ID, &aspectID, &sa.Code, &sa.Name, &sa.StandardRating); err != nil {
			return err
		}
		pos := aspectIdx[aspectID]
		a := &t.Categories[pos.category].Aspects[pos.aspect]
		a.SubAspects = append(a.SubAspects, sa)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read sub-aspects: %w", err)
	}

	if err := schema.ValidateTemplate(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

const participantColumns = `id, name, test_number, event_code, position_formation_id, template_id`

func scanParticipant(row interface{ Scan(...any) error }) (schema.Participant, error) {
	var p schema.Participant
	err := row.Scan(&p.ID, &p.Name, &p.TestNumber, &p.EventCode, &p.PositionFormationID, &p.TemplateID)
	return p, err
}

// GetParticipant returns a participant.
func (s *SQLStore) GetParticipant(ctx context.Context, participantID int64) (*schema.Participant, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+participantColumns+` FROM participants WHERE id = ?`), participantID)
	p, err := scanParticipant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", schema.ErrParticipantNotFound, participantID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query participant %d: %w", participantID, err)
	}
	return &p, nil
}

// GetCohort returns the participants of an event and position formation ordered by ID.
func (s *SQLStore) GetCohort(ctx context.Context, eventCode string, positionFormationID int64) ([]schema.Participant, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+participantColumns+` FROM participants
		WHERE event_code = ? AND position_formation_id = ? ORDER BY id`), eventCode, positionFormationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cohort: %w", err)
	}
	cohort := make([]schema.Participant, 0)
	err = scanRows(rows, func(rows *sql.Rows) error {
		p, err := scanParticipant(rows)
		if err != nil {
			return err
		}
		cohort = append(cohort, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read cohort: %w", err)
	}
	return cohort, nil
}

// GetRatings returns every record of a participant under a template.
func (s *SQLStore) GetRatings(ctx context.Context, participantID, templateID int64) (schema.RatingSet, error) {
	sets, err := s.GetCohortRatings(ctx, templateID, []int64{participantID})
	if err != nil {
		return schema.RatingSet{}, err
	}
	return sets[participantID], nil
}

// GetCohortRatings reads the records of many participants with one query per
// rating table and batch.
func (s *SQLStore) GetCohortRatings(ctx context.Context, templateID int64, participantIDs []int64) (map[int64]schema.RatingSet, error) {
	out := make(map[int64]schema.RatingSet, len(participantIDs))
	for _, id := range participantIDs {
		out[id] = schema.RatingSet{
			ParticipantID: id,
			Aspects:       make(map[string]schema.RatingRecord),
			SubAspects:    make(map[string]schema.RatingRecord),
		}
	}

	for start := 0; start < len(participantIDs); start += maxBatchSize {
		batch := participantIDs[start:min(start+maxBatchSize, len(participantIDs))]
		args := make([]any, 0, len(batch)+1)
		args = append(args, templateID)
		for _, id := range batch {
			args = append(args, id)
		}
		in := strings.TrimSuffix(strings.Repeat("?, ", len(batch)), ", ")

		aspectQuery := `SELECT r.participant_id, a.code, r.standard_rating, r.individual_rating
			FROM aspect_ratings r
			JOIN aspects a ON a.id = r.aspect_id
			JOIN categories c ON c.id = a.category_id
			WHERE c.template_id = ? AND r.participant_id IN (` + in + `)`
		if err := s.collectRatings(ctx, aspectQuery, args, out, false); err != nil {
			return nil, fmt.Errorf("failed to read aspect ratings: %w", err)
		}

		subQuery := `SELECT r.participant_id, s.code, r.standard_rating, r.individual_rating
			FROM sub_aspect_ratings r
			JOIN sub_aspects s ON s.id = r.sub_aspect_id
			JOIN aspects a ON a.id = s.aspect_id
			JOIN categories c ON c.id = a.category_id
			WHERE c.template_id = ? AND r.participant_id IN (` + in + `)`
		if err := s.collectRatings(ctx, subQuery, args, out, true); err != nil {
			return nil, fmt.Errorf("failed to read sub-aspect ratings: %w", err)
		}
	}
	return out, nil
}

func (s *SQLStore) collectRatings(ctx context.Context, query string, args []any, out map[int64]schema.RatingSet, sub bool) error {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return err
	}
	return scanRows(rows, func(rows *sql.Rows) error {
		var (
			participantID int64
			code          string
			rec           schema.RatingRecord
		)
		if err := rows.Scan(&participantID, &code, &rec.StandardRating, &rec.IndividualRating); err != nil {
			return err
		}
		if sub {
			out[participantID].SubAspects[code] = rec
		} else {
			out[participantID].Aspects[code] = rec
		}
		return nil
	})
}

// Fingerprint summarizes row counts and rating sums so that edits to
// templates, participants or ratings change the digest.
func (s *SQLStore) Fingerprint(ctx context.Context) (string, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM templates),
		(SELECT COUNT(*) FROM participants),
		(SELECT COALESCE(SUM(weight_percentage), 0) FROM categories),
		(SELECT COALESCE(SUM(weight_percentage + standard_rating), 0) FROM aspects),
		(SELECT COALESCE(SUM(standard_rating), 0) FROM sub_aspects),
		(SELECT COUNT(*) FROM aspect_ratings),
		(SELECT COALESCE(SUM(standard_rating + individual_rating), 0) FROM aspect_ratings),
		(SELECT COUNT(*) FROM sub_aspect_ratings),
		(SELECT COALESCE(SUM(standard_rating + individual_rating), 0) FROM sub_aspect_ratings)`

	var (
		templates, participants, aspectRatings, subRatings int64
		categoryWeights, aspectSums, subStandards          float64
		aspectRatingSum, subRatingSum                      float64
	)
	err := s.db.QueryRowContext(ctx, query).Scan(&templates, &participants, &categoryWeights, &aspectSums,
		&subStandards, &aspectRatings, &aspectRatingSum, &subRatings, &subRatingSum)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint rating data: %w", err)
	}
	summary := fmt.Sprintf("%d:%d:%g:%g:%g:%d:%g:%d:%g", templates, participants, categoryWeights, aspectSums,
		subStandards, aspectRatings, aspectRatingSum, subRatings, subRatingSum)
	return digest([]byte(summary)), nil
}

// scanRows applies fn to every row and closes rows.
func scanRows(rows *sql.Rows, fn func(*sql.Rows) error) error {
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
