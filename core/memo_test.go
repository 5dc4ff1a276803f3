package core

import (
	"sync"
	"testing"

	"github.com/psymap/psymap/schema"
	"github.com/stretchr/testify/assert"
)

func TestMemoKeyFor(t *testing.T) {
	params := defaultParams()
	base := MemoKeyFor(ekaID, 1, params, schema.CategoryWeights{})
	assert.Equal(t, "-/-", base.Weights)
	assert.Equal(t, base, MemoKeyFor(ekaID, 1, params, schema.CategoryWeights{}))

	tol := params
	tol.TolerancePercentage = 0
	assert.NotEqual(t, base, MemoKeyFor(ekaID, 1, tol, schema.CategoryWeights{}))

	custom := params
	custom.Custom = &schema.CustomStandard{Code: "MGR-2026", Aspects: map[string]float64{"integritas": 2}}
	assert.NotEqual(t, base, MemoKeyFor(ekaID, 1, custom, schema.CategoryWeights{}))

	p, k := 50.0, 50.0
	weighted := MemoKeyFor(ekaID, 1, params, schema.CategoryWeights{Potensi: &p, Kompetensi: &k})
	assert.Equal(t, "50/50", weighted.Weights)

	assert.NotEqual(t, base, MemoKeyFor(adiID, 1, params, schema.CategoryWeights{}))
}

func TestResultMemo(t *testing.T) {
	memo := NewResultMemo()
	params := defaultParams()
	ekaKey := MemoKeyFor(ekaID, 1, params, schema.CategoryWeights{})
	adiKey := MemoKeyFor(adiID, 1, params, schema.CategoryWeights{})

	_, ok := memo.Get(ekaKey)
	assert.False(t, ok)

	report := &schema.ParticipantReport{Participant: schema.Participant{ID: ekaID}}
	memo.Put(ekaKey, report)
	memo.Put(adiKey, &schema.ParticipantReport{Participant: schema.Participant{ID: adiID}})

	got, ok := memo.Get(ekaKey)
	assert.True(t, ok)
	assert.Same(t, report, got)
	assert.Equal(t, 2, memo.Len())

	memo.Invalidate(ekaID)
	_, ok = memo.Get(ekaKey)
	assert.False(t, ok)
	assert.Equal(t, 1, memo.Len())

	memo.InvalidateAll()
	assert.Equal(t, 0, memo.Len())
}

func TestResultMemo_Concurrent(t *testing.T) {
	memo := NewResultMemo()
	params := defaultParams()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			key := MemoKeyFor(id, 1, params, schema.CategoryWeights{})
			memo.Put(key, &schema.ParticipantReport{Participant: schema.Participant{ID: id}})
			_, _ = memo.Get(key)
			if id%10 == 0 {
				memo.Invalidate(id)
			}
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, 45, memo.Len())
}
