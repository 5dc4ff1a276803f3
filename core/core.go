// Package core has core logic for reports, final assessments and rankings.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/psymap/psymap/core/algo"
	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/internal/outwriter"
	"github.com/psymap/psymap/internal/ratingstore"
	"github.com/psymap/psymap/schema"
)

// ExecutorFunc defines the function signature for executing different report modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// errParticipantRequired is returned by per-participant commands run without one.
var errParticipantRequired = errors.New("a participant ID is required")

// errCohortRequired is returned by cohort commands run without --event and --position.
var errCohortRequired = errors.New("--event and --position are required")

// OpenEngine connects to the configured rating source and wires the result
// cache. The returned func releases the source.
func OpenEngine(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*Engine, func(), error) {
	src, err := ratingstore.Open(ctx, cfg.DataBackend, cfg.DataSource)
	if err != nil {
		return nil, nil, err
	}
	opts := []Option{WithWeights(cfg.Weights)}
	if mgr != nil {
		if store := mgr.GetResultStore(); store != nil {
			opts = append(opts, WithCacheStore(store))
		}
	}
	return NewEngine(src, opts...), func() { _ = src.Close() }, nil
}

// ExecuteReport computes and prints the full report of one participant.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.ParticipantID == 0 {
		return errParticipantRequired
	}
	start := time.Now()
	engine, release, err := OpenEngine(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	defer release()

	report, err := engine.Report(ctx, cfg.ParticipantID, cfg.TemplateID, cfg.Params)
	if err != nil {
		return err
	}
	return outwriter.WriteReport(report, cfg, time.Since(start))
}

// ExecuteFinal prints final assessments. With a participant it prints that
// participant's breakdown; otherwise it ranks the cohort of --event and
// --position by final score. Every run is recorded in the report history.
func ExecuteFinal(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	engine, release, err := OpenEngine(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	defer release()

	if cfg.ParticipantID != 0 {
		report, err := engine.Final(ctx, cfg.ParticipantID, cfg.TemplateID, cfg.Params)
		if err != nil {
			return err
		}
		recordRun(historyFromManager(mgr), "final", cfg, start, []*schema.ParticipantReport{report}, nil)
		return outwriter.WriteFinal(report, cfg, time.Since(start))
	}

	if cfg.EventCode == "" || cfg.PositionFormationID == 0 {
		return errCohortRequired
	}
	reports, _, err := engine.CohortReports(ctx, cfg.EventCode, cfg.PositionFormationID, cfg.TemplateID, cfg.Params)
	if err != nil {
		return err
	}
	rows := FinalRows(reports)
	ranks := make(map[int64]int, len(rows))
	for _, row := range rows {
		ranks[row.ParticipantID] = row.Rank
	}
	recordRun(historyFromManager(mgr), "final", cfg, start, reports, ranks)

	rows = rows[:min(len(rows), limitOrAll(cfg.ResultLimit, len(rows)))]
	return outwriter.WriteFinalRows(rows, cfg, time.Since(start))
}

// ExecuteRanking ranks a cohort by the configured scope. With a participant
// the cohort is the participant's own.
func ExecuteRanking(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	engine, release, err := OpenEngine(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	defer release()

	eventCode, positionID := cfg.EventCode, cfg.PositionFormationID
	if cfg.ParticipantID != 0 {
		p, err := engine.Participant(ctx, cfg.ParticipantID)
		if err != nil {
			return err
		}
		eventCode, positionID = p.EventCode, p.PositionFormationID
	}
	if eventCode == "" || positionID == 0 {
		return errCohortRequired
	}

	ranking, err := engine.Rank(ctx, eventCode, positionID, cfg.TemplateID, cfg.Scope, cfg.Params)
	if err != nil {
		return err
	}

	if cfg.Scope == schema.RankAll {
		reports, _, err := engine.CohortReports(ctx, eventCode, positionID, cfg.TemplateID, cfg.Params)
		if err != nil {
			return err
		}
		ranks := make(map[int64]int, len(ranking.Entries))
		for _, e := range ranking.Entries {
			ranks[e.ParticipantID] = e.Rank
		}
		recordRun(historyFromManager(mgr), "ranking", cfg, start, reports, ranks)
	}

	ranking.Entries = algo.TopN(ranking.Entries, cfg.ResultLimit)
	return outwriter.WriteRanking(ranking, cfg, time.Since(start))
}

// ExecuteChart prints the chart series of one participant. The "all" scope
// prints every computed category.
func ExecuteChart(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.ParticipantID == 0 {
		return errParticipantRequired
	}
	engine, release, err := OpenEngine(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	defer release()

	report, err := engine.Report(ctx, cfg.ParticipantID, cfg.TemplateID, cfg.Params)
	if err != nil {
		return err
	}

	var charts []outwriter.CategoryChart
	if cfg.Scope == schema.RankAll {
		for _, c := range report.Categories {
			charts = append(charts, outwriter.CategoryChart{Category: c.Code, Series: algo.FlattenChart(c.Aspects)})
		}
	} else {
		code := schema.CategoryCode(cfg.Scope)
		series, err := engine.Chart(ctx, cfg.ParticipantID, cfg.TemplateID, code, cfg.Params)
		if err != nil {
			return err
		}
		charts = append(charts, outwriter.CategoryChart{Category: code, Series: series})
	}
	return outwriter.WriteCharts(report.Participant, charts, cfg)
}

// ExecuteSummary prints the five-band competency summary of one participant.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.ParticipantID == 0 {
		return errParticipantRequired
	}
	engine, release, err := OpenEngine(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	defer release()

	rows, err := engine.CompetencySummary(ctx, cfg.ParticipantID, cfg.TemplateID, cfg.Params)
	if err != nil {
		return err
	}
	participant, err := engine.Participant(ctx, cfg.ParticipantID)
	if err != nil {
		return err
	}
	return outwriter.WriteSummary(*participant, rows, cfg)
}

// ExecuteConclusions prints every static conclusion table. It reads no rating data.
func ExecuteConclusions(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.WriteConclusions(algo.ConclusionTables(), cfg)
}

// limitOrAll turns a zero limit into n.
func limitOrAll(limit, n int) int {
	if limit <= 0 {
		return n
	}
	return limit
}
