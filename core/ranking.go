package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/psymap/psymap/core/algo"
	"github.com/psymap/psymap/schema"
)

// CohortReports computes the report of every participant sharing an event
// and position formation. All members are scored under one template (the
// first member's when templateID is zero) from a single batch read; members
// assessed under another template are skipped.
func (e *Engine) CohortReports(ctx context.Context, eventCode string, positionFormationID, templateID int64, params schema.ScoringParams) ([]*schema.ParticipantReport, []schema.SkippedParticipant, error) {
	if err := algo.ValidateTolerance(params.TolerancePercentage); err != nil {
		return nil, nil, err
	}

	cohort, err := e.reader.GetCohort(ctx, eventCode, positionFormationID)
	if err != nil {
		return nil, nil, err
	}
	if len(cohort) == 0 {
		return nil, nil, nil
	}
	if templateID == 0 {
		templateID = cohort[0].TemplateID
	}
	tmpl, err := e.reader.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, nil, err
	}

	var (
		skipped []schema.SkippedParticipant
		reports = make(map[int64]*schema.ParticipantReport, len(cohort))
		misses  []int64
	)
	for _, p := range cohort {
		if p.TemplateID != templateID {
			skipped = append(skipped, schema.SkippedParticipant{
				ParticipantID:   p.ID,
				ParticipantName: p.Name,
				Reason:          fmt.Sprintf("assessed under template %d", p.TemplateID),
			})
			continue
		}
		if report, ok := e.memo.Get(MemoKeyFor(p.ID, templateID, params, e.weights)); ok {
			reports[p.ID] = report
			continue
		}
		misses = append(misses, p.ID)
	}

	if len(misses) > 0 {
		sets, err := e.reader.GetCohortRatings(ctx, templateID, misses)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read cohort ratings: %w", err)
		}
		at := e.now()
		for _, p := range cohort {
			set, ok := sets[p.ID]
			if !ok || reports[p.ID] != nil || p.TemplateID != templateID {
				continue
			}
			report, err := BuildReport(p, tmpl, set, params, e.weights, at)
			if err != nil {
				return nil, nil, err
			}
			e.memo.Put(MemoKeyFor(p.ID, templateID, params, e.weights), report)
			reports[p.ID] = report
		}
	}

	ordered := make([]*schema.ParticipantReport, 0, len(reports))
	for _, p := range cohort {
		if r, ok := reports[p.ID]; ok {
			ordered = append(ordered, r)
		}
	}
	return ordered, skipped, nil
}

// Rank orders a cohort by the score of scope: a category total individual
// score, or the final total individual score. Participants without that
// score are listed as skipped. An empty cohort yields an empty ranking.
func (e *Engine) Rank(ctx context.Context, eventCode string, positionFormationID, templateID int64, scope schema.RankScope, params schema.ScoringParams) (*schema.RankingResult, error) {
	if _, ok := schema.ValidRankScopes[scope]; !ok {
		return nil, fmt.Errorf("invalid ranking scope %q", scope)
	}
	reports, skipped, err := e.CohortReports(ctx, eventCode, positionFormationID, templateID, params)
	if err != nil {
		return nil, err
	}

	entries := make([]schema.RankEntry, 0, len(reports))
	for _, r := range reports {
		entry, reason, err := rankEntryFor(r, scope)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			skipped = append(skipped, schema.SkippedParticipant{
				ParticipantID:   r.Participant.ID,
				ParticipantName: r.Participant.Name,
				Reason:          reason,
			})
			continue
		}
		entries = append(entries, entry)
	}

	return &schema.RankingResult{
		EventCode:           eventCode,
		PositionFormationID: positionFormationID,
		Scope:               scope,
		Tolerance:           params.TolerancePercentage,
		Entries:             algo.RankScores(entries),
		Skipped:             skipped,
	}, nil
}

// RankOf returns the ranked entry of a participant within their own cohort.
// An unknown participant or one left out of the ranking is reported with
// false, not an error.
func (e *Engine) RankOf(ctx context.Context, participantID, templateID int64, scope schema.RankScope, params schema.ScoringParams) (schema.RankEntry, bool, error) {
	p, err := e.reader.GetParticipant(ctx, participantID)
	if errors.Is(err, schema.ErrParticipantNotFound) {
		return schema.RankEntry{}, false, nil
	}
	if err != nil {
		return schema.RankEntry{}, false, err
	}
	ranking, err := e.Rank(ctx, p.EventCode, p.PositionFormationID, templateID, scope, params)
	if err != nil {
		return schema.RankEntry{}, false, err
	}
	entry, ok := algo.FindRank(ranking.Entries, participantID)
	return entry, ok, nil
}

// rankEntryFor extracts the ranked score of a report. A non-empty reason
// means the report has no score for scope.
func rankEntryFor(r *schema.ParticipantReport, scope schema.RankScope) (schema.RankEntry, string, error) {
	entry := schema.RankEntry{
		ParticipantID:   r.Participant.ID,
		ParticipantName: r.Participant.Name,
	}
	if scope == schema.RankAll {
		if r.Final == nil {
			return entry, "no final assessment: " + unavailableReason(r), nil
		}
		entry.Score = r.Final.TotalIndividualScore
		entry.Conclusion = r.Final.FinalConclusion
		return entry, "", nil
	}

	code := schema.CategoryCode(scope)
	c, ok := r.Category(code)
	if !ok {
		return entry, fmt.Sprintf("%s not computed", code), nil
	}
	entry.Score = c.TotalIndividualScore
	entry.Conclusion = c.OverallConclusion
	if code == schema.PotensiCategory {
		mapped, err := algo.PotensialConclusion(c.OverallConclusion.Text)
		if err != nil {
			return entry, "", err
		}
		entry.Conclusion = mapped
	}
	return entry, "", nil
}

// FinalRows ranks reports by final score and flattens them. Reports without
// a final assessment are left out.
func FinalRows(reports []*schema.ParticipantReport) []schema.FinalRow {
	byID := make(map[int64]*schema.ParticipantReport, len(reports))
	entries := make([]schema.RankEntry, 0, len(reports))
	for _, r := range reports {
		entry, reason, _ := rankEntryFor(r, schema.RankAll)
		if reason != "" {
			continue
		}
		byID[r.Participant.ID] = r
		entries = append(entries, entry)
	}

	ranked := algo.RankScores(entries)
	rows := make([]schema.FinalRow, len(ranked))
	for i, e := range ranked {
		rows[i] = schema.NewFinalRow(e.Rank, byID[e.ParticipantID])
	}
	return rows
}
