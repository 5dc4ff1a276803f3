package core

import (
	"fmt"
	"sync"

	"github.com/psymap/psymap/schema"
)

// MemoKey identifies one computed report. Every input that changes the
// numbers is part of the key.
type MemoKey struct {
	ParticipantID int64
	TemplateID    int64
	Tolerance     int
	StandardKey   string
	Percentage    schema.PercentageMode
	Unit          schema.GapUnit
	Weights       string
}

// MemoKeyFor builds the key of a participant report.
func MemoKeyFor(participantID, templateID int64, params schema.ScoringParams, weights schema.CategoryWeights) MemoKey {
	return MemoKey{
		ParticipantID: participantID,
		TemplateID:    templateID,
		Tolerance:     params.TolerancePercentage,
		StandardKey:   params.StandardKey(),
		Percentage:    params.Percentage,
		Unit:          params.Unit,
		Weights:       weightsKey(weights),
	}
}

func weightsKey(w schema.CategoryWeights) string {
	format := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%g", *v)
	}
	return format(w.Potensi) + "/" + format(w.Kompetensi)
}

// ResultMemo holds computed reports for the lifetime of a process.
// Entries never expire on their own: callers invalidate them when ratings,
// tolerance or the active standard change.
type ResultMemo struct {
	mu      sync.RWMutex
	entries map[MemoKey]*schema.ParticipantReport
}

// NewResultMemo returns an empty memo.
func NewResultMemo() *ResultMemo {
	return &ResultMemo{entries: make(map[MemoKey]*schema.ParticipantReport)}
}

// Get returns the memoized report for key.
func (m *ResultMemo) Get(key MemoKey) (*schema.ParticipantReport, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.entries[key]
	return r, ok
}

// Put stores a report.
func (m *ResultMemo) Put(key MemoKey, report *schema.ParticipantReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = report
}

// Invalidate drops every entry of one participant.
func (m *ResultMemo) Invalidate(participantID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if k.ParticipantID == participantID {
			delete(m.entries, k)
		}
	}
}

// InvalidateAll drops every entry.
func (m *ResultMemo) InvalidateAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
}

// Len returns the number of memoized reports.
func (m *ResultMemo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
