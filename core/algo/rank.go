package algo

import (
	"cmp"
	"slices"
	"strings"

	"github.com/psymap/psymap/schema"
)

// RankScores orders entries by score descending and assigns 1-based ranks.
//
// Scores within schema.ScoreEpsilon of the first score of a run count as
// ties and are ordered by participant name ascending, then by ID. The input
// slice is not modified.
func RankScores(entries []schema.RankEntry) []schema.RankEntry {
	if len(entries) == 0 {
		return []schema.RankEntry{}
	}
	out := slices.Clone(entries)
	slices.SortFunc(out, func(a, b schema.RankEntry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return byName(a, b)
	})

	for start := 0; start < len(out); {
		top := out[start].Score
		end := start + 1
		for end < len(out) && top-out[end].Score <= schema.ScoreEpsilon {
			end++
		}
		if end-start > 1 {
			slices.SortFunc(out[start:end], byName)
		}
		start = end
	}

	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func byName(a, b schema.RankEntry) int {
	if c := strings.Compare(a.ParticipantName, b.ParticipantName); c != 0 {
		return c
	}
	return cmp.Compare(a.ParticipantID, b.ParticipantID)
}

// FindRank returns the ranked entry of a participant.
func FindRank(ranked []schema.RankEntry, participantID int64) (schema.RankEntry, bool) {
	for _, e := range ranked {
		if e.ParticipantID == participantID {
			return e, true
		}
	}
	return schema.RankEntry{}, false
}

// TopN returns the first limit entries. A limit <= 0 keeps everything.
func TopN(ranked []schema.RankEntry, limit int) []schema.RankEntry {
	if limit <= 0 || len(ranked) <= limit {
		return ranked
	}
	return ranked[:limit]
}
