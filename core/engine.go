package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/psymap/psymap/core/algo"
	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/schema"
)

// Engine reads rating data through a RatingReader and turns it into reports,
// final assessments and rankings. Results are memoized per process and,
// when a cache store is configured, persisted across runs.
type Engine struct {
	reader  contract.RatingReader
	store   contract.CacheStore
	memo    *ResultMemo
	weights schema.CategoryWeights
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithCacheStore persists computed reports in store.
func WithCacheStore(store contract.CacheStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithWeights overrides the template category weights of the final assessment.
func WithWeights(weights schema.CategoryWeights) Option {
	return func(e *Engine) { e.weights = weights }
}

// WithMemo shares a memo between engines.
func WithMemo(memo *ResultMemo) Option {
	return func(e *Engine) { e.memo = memo }
}

// WithClock sets the time source used for ComputedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine over reader.
func NewEngine(reader contract.RatingReader, opts ...Option) *Engine {
	e := &Engine{reader: reader, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.memo == nil {
		e.memo = NewResultMemo()
	}
	return e
}

// Memo returns the memo used by the engine.
func (e *Engine) Memo() *ResultMemo {
	return e.memo
}

// Participant looks up one participant in the rating source.
func (e *Engine) Participant(ctx context.Context, participantID int64) (*schema.Participant, error) {
	return e.reader.GetParticipant(ctx, participantID)
}

// Invalidate forgets the memoized reports of one participant, e.g. after
// their ratings were edited.
func (e *Engine) Invalidate(participantID int64) {
	e.memo.Invalidate(participantID)
}

// InvalidateAll forgets every memoized report. Call it when the tolerance
// policy or the active standard changes.
func (e *Engine) InvalidateAll() {
	e.memo.InvalidateAll()
}

// Report computes the full report of a participant. A zero templateID selects
// the participant's own template. The returned report is shared with the memo
// and must not be modified.
func (e *Engine) Report(ctx context.Context, participantID, templateID int64, params schema.ScoringParams) (*schema.ParticipantReport, error) {
	if err := algo.ValidateTolerance(params.TolerancePercentage); err != nil {
		return nil, err
	}

	participant, err := e.reader.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if templateID == 0 {
		templateID = participant.TemplateID
	}

	key := MemoKeyFor(participantID, templateID, params, e.weights)
	if report, ok := e.memo.Get(key); ok {
		return report, nil
	}

	var cacheKey string
	if e.store != nil {
		if fingerprint, err := e.reader.Fingerprint(ctx); err == nil {
			cacheKey = generateCacheKey(key, fingerprint)
			if report := checkCacheHit(e.store, cacheKey); report != nil {
				e.memo.Put(key, report)
				return report, nil
			}
		}
	}

	tmpl, err := e.reader.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	ratings, err := e.reader.GetRatings(ctx, participantID, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to read ratings of participant %d: %w", participantID, err)
	}

	report, err := BuildReport(*participant, tmpl, ratings, params, e.weights, e.now())
	if err != nil {
		return nil, err
	}

	e.memo.Put(key, report)
	if cacheKey != "" {
		storeReport(e.store, cacheKey, report)
	}
	return report, nil
}

// Final returns the final assessment of a participant. It fails with
// schema.ErrMissingData when either category could not be computed.
func (e *Engine) Final(ctx context.Context, participantID, templateID int64, params schema.ScoringParams) (*schema.ParticipantReport, error) {
	report, err := e.Report(ctx, participantID, templateID, params)
	if err != nil {
		return nil, err
	}
	if report.Final == nil {
		return nil, fmt.Errorf("%w: participant %d has no final assessment: %s",
			schema.ErrMissingData, participantID, unavailableReason(report))
	}
	return report, nil
}

// Chart flattens one category of a participant report into chart series.
func (e *Engine) Chart(ctx context.Context, participantID, templateID int64, category schema.CategoryCode, params schema.ScoringParams) (schema.ChartSeries, error) {
	result, err := e.category(ctx, participantID, templateID, category, params)
	if err != nil {
		return schema.ChartSeries{}, err
	}
	return algo.FlattenChart(result.Aspects), nil
}

// CompetencySummary labels every Kompetensi aspect of a participant with the
// five-band scheme.
func (e *Engine) CompetencySummary(ctx context.Context, participantID, templateID int64, params schema.ScoringParams) ([]schema.CompetencySummaryRow, error) {
	result, err := e.category(ctx, participantID, templateID, schema.KompetensiCategory, params)
	if err != nil {
		return nil, err
	}
	return algo.SummarizeCompetency(result.Aspects), nil
}

func (e *Engine) category(ctx context.Context, participantID, templateID int64, code schema.CategoryCode, params schema.ScoringParams) (schema.CategoryResult, error) {
	report, err := e.Report(ctx, participantID, templateID, params)
	if err != nil {
		return schema.CategoryResult{}, err
	}
	if result, ok := report.Category(code); ok {
		return result, nil
	}
	for _, u := range report.Unavailable {
		if u.Code == code {
			return schema.CategoryResult{}, fmt.Errorf("%w: %s", schema.ErrMissingData, u.Reason)
		}
	}
	return schema.CategoryResult{}, fmt.Errorf("%w: %q is not part of template %s", schema.ErrUnknownCategory, code, report.TemplateCode)
}

// unavailableReason joins the reasons of every uncomputed category.
func unavailableReason(report *schema.ParticipantReport) string {
	if len(report.Unavailable) == 0 {
		return "template lacks potensi or kompetensi"
	}
	reasons := make([]string, len(report.Unavailable))
	for i, u := range report.Unavailable {
		reasons[i] = u.Reason
	}
	return strings.Join(reasons, "; ")
}
