package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/psymap/psymap/core"
	"github.com/psymap/psymap/core/algo"
	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	engine  *core.Engine
}

// params returns the scoring parameters of a request. The tolerance argument
// overrides the configured one; validation happens in the engine.
func (h *toolHandler) params(request mcp.CallToolRequest) schema.ScoringParams {
	params := h.baseCfg.Params
	if _, ok := request.GetArguments()["tolerance"]; ok {
		params.TolerancePercentage = request.GetInt("tolerance", params.TolerancePercentage)
	}
	return params
}

// participantID reads the required participant_id argument.
func participantID(request mcp.CallToolRequest) (int64, error) {
	id := int64(request.GetInt("participant_id", 0))
	if id <= 0 {
		return 0, fmt.Errorf("participant_id must be a positive integer")
	}
	return id, nil
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetParticipantReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := participantID(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	templateID := int64(request.GetInt("template_id", int(h.baseCfg.TemplateID)))

	report, err := h.engine.Report(ctx, id, templateID, h.params(request))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return jsonResult(report), nil
}

func (h *toolHandler) handleGetFinalAssessment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := participantID(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	templateID := int64(request.GetInt("template_id", int(h.baseCfg.TemplateID)))

	report, err := h.engine.Final(ctx, id, templateID, h.params(request))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("final assessment failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"participant": report.Participant,
		"tolerance":   report.Tolerance,
		"final":       report.Final,
	}), nil
}

func (h *toolHandler) handleGetRanking(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eventCode := request.GetString("event_code", h.baseCfg.EventCode)
	positionID := int64(request.GetInt("position_id", int(h.baseCfg.PositionFormationID)))
	if id := int64(request.GetInt("participant_id", 0)); id > 0 {
		p, err := h.engine.Participant(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
		}
		eventCode, positionID = p.EventCode, p.PositionFormationID
	}
	if eventCode == "" || positionID <= 0 {
		return mcp.NewToolResultError("event_code and position_id are required"), nil
	}

	scope := schema.RankScope(request.GetString("category", string(schema.RankAll)))
	ranking, err := h.engine.Rank(ctx, eventCode, positionID, h.baseCfg.TemplateID, scope, h.params(request))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		ranking.Entries = algo.TopN(ranking.Entries, l)
	}
	return jsonResult(ranking), nil
}

func (h *toolHandler) handleGetCompetencySummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := participantID(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rows, err := h.engine.CompetencySummary(ctx, id, h.baseCfg.TemplateID, h.params(request))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("competency summary failed: %v", err)), nil
	}
	return jsonResult(rows), nil
}

func (h *toolHandler) handleGetConclusionTables(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(algo.ConclusionTables()), nil
}
