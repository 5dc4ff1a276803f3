package algo

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/psymap/psymap/schema"
)

// FuzzAdjust fuzzes the tolerance adjustment with random values and tolerances.
func FuzzAdjust(f *testing.F) {
	seeds := []struct {
		value     float64
		tolerance int
	}{
		{3, 10},
		{4.5, 0},
		{0, 100},
		{5, -1},
		{350, 101},
	}
	for _, seed := range seeds {
		f.Add(seed.value, seed.tolerance)
	}

	f.Fuzz(func(t *testing.T, value float64, tolerance int) {
		adjusted, err := AdjustChecked(value, tolerance)
		if tolerance < schema.MinTolerance || tolerance > schema.MaxTolerance {
			if err == nil {
				t.Fatalf("tolerance %d accepted", tolerance)
			}
			return
		}
		if err != nil {
			t.Fatalf("tolerance %d rejected: %v", tolerance, err)
		}
		if value >= 0 && value < 1e300 && adjusted > value {
			t.Fatalf("adjusted %v above %v at tolerance %d", adjusted, value, tolerance)
		}
	})
}

// FuzzGapConclusion checks that every gap pair maps to a label with a style
// and a potensial counterpart.
func FuzzGapConclusion(f *testing.F) {
	f.Add(0.0, 0.0)
	f.Add(-0.3, 0.05)
	f.Add(-1.0, -0.7)
	f.Add(math.NaN(), 1.0)

	f.Fuzz(func(t *testing.T, originalGap, adjustedGap float64) {
		c := GapConclusion(originalGap, adjustedGap)
		if _, err := DisplayStyleFor(c.Text, schema.GapScheme); err != nil {
			t.Fatalf("no style for %q: %v", c.Text, err)
		}
		if _, err := PotensialConclusion(c.Text); err != nil {
			t.Fatalf("no potensial label for %q: %v", c.Text, err)
		}
	})
}

// FuzzRankScores fuzzes the ranking with random score lists.
func FuzzRankScores(f *testing.F) {
	seeds := []string{
		"[358,353.33,353.33]",
		"[0,0,0]",
		"[100]",
		"[]",
		"[1,2,3,4]",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, scoresJSON string) {
		var entries []schema.RankEntry
		if scoresJSON != "" && scoresJSON[0] == '[' && scoresJSON[len(scoresJSON)-1] == ']' {
			inner := scoresJSON[1 : len(scoresJSON)-1]
			if inner != "" {
				for p := range strings.SplitSeq(inner, ",") {
					if v, err := strconv.ParseFloat(strings.TrimSpace(p), 64); err == nil && !math.IsNaN(v) {
						id := int64(len(entries) + 1)
						entries = append(entries, schema.RankEntry{ParticipantID: id, ParticipantName: strconv.FormatInt(id, 10), Score: v})
					}
				}
			}
		}

		ranked := RankScores(entries)
		if len(ranked) != len(entries) {
			t.Fatalf("ranked %d of %d entries", len(ranked), len(entries))
		}
		for i := 1; i < len(ranked); i++ {
			if ranked[i].Score > ranked[i-1].Score+0.001 {
				t.Fatalf("entry %d scores above its predecessor", i)
			}
			if ranked[i].Rank < ranked[i-1].Rank {
				t.Fatalf("rank decreases at %d", i)
			}
		}
	})
}
