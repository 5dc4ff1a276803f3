package core

import (
	"time"

	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/schema"
)

// historyFromManager returns the configured history store, if any.
func historyFromManager(mgr contract.CacheManager) contract.HistoryStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetHistoryStore()
}

// runConfigParams is the JSON document stored with every report run.
func runConfigParams(cfg *contract.Config) map[string]any {
	params := map[string]any{
		"tolerance":        cfg.Params.TolerancePercentage,
		"standard_version": cfg.Params.StandardKey(),
		"percentage":       string(cfg.Params.Percentage),
		"unit":             string(cfg.Params.Unit),
		"data_backend":     string(cfg.DataBackend),
	}
	if cfg.TemplateID != 0 {
		params["template_id"] = cfg.TemplateID
	}
	if cfg.EventCode != "" {
		params["event_code"] = cfg.EventCode
		params["position_formation_id"] = cfg.PositionFormationID
		params["scope"] = string(cfg.Scope)
	}
	if cfg.ParticipantID != 0 {
		params["participant_id"] = cfg.ParticipantID
	}
	if cfg.Weights.Potensi != nil {
		params["weight_potensi"] = *cfg.Weights.Potensi
	}
	if cfg.Weights.Kompetensi != nil {
		params["weight_kompetensi"] = *cfg.Weights.Kompetensi
	}
	return params
}

// recordRun stores one report run and the final result of every report in
// it. ranks maps participant IDs to their rank; unranked runs pass nil.
// Tracking failures are reported as warnings and never fail the command.
func recordRun(history contract.HistoryStore, kind string, cfg *contract.Config, start time.Time, reports []*schema.ParticipantReport, ranks map[int64]int) {
	if history == nil {
		return
	}

	runID, err := history.BeginRun(kind, start, runConfigParams(cfg))
	if err != nil {
		contract.LogWarn("Report history initialization failed", err)
		return
	}
	if runID <= 0 {
		return
	}

	recorded := 0
	for _, r := range reports {
		if r.Final == nil {
			continue
		}
		rec := schema.NewParticipantResultRecord(runID, r, ranks[r.Participant.ID], r.ComputedAt)
		if err := history.RecordParticipantResult(rec); err != nil {
			contract.LogWarn("Report history failed for participant", err)
			continue
		}
		recorded++
	}

	if err := history.EndRun(runID, time.Now(), recorded); err != nil {
		contract.LogWarn("Failed to finalize report history", err)
	}
}
