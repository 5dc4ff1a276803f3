// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/psymap/psymap/core"
	"github.com/psymap/psymap/internal/contract"
)

// NewMCPServer initializes and configures the psymap MCP server without starting it.
// Every tool shares engine, so reports memoized by one call serve the next.
func NewMCPServer(baseCfg *contract.Config, engine *core.Engine) *server.MCPServer {
	s := server.NewMCPServer(
		"Psymap Assessment Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		engine:  engine,
	}

	// --- 1. Tool: get_participant_report ---
	s.AddTool(mcp.NewTool("get_participant_report",
		mcp.WithDescription("Compute the aspect, category and final assessment report of one participant."),
		mcp.WithNumber("participant_id", mcp.Description("The participant ID."), mcp.Required()),
		mcp.WithNumber("template_id", mcp.Description("Assessment template (defaults to the participant's own).")),
		mcp.WithNumber("tolerance", mcp.Description("Tolerance percentage between 0 and 100.")),
	), h.handleGetParticipantReport)

	// --- 2. Tool: get_final_assessment ---
	s.AddTool(mcp.NewTool("get_final_assessment",
		mcp.WithDescription("Compute the weighted final assessment and achievement percentage of one participant."),
		mcp.WithNumber("participant_id", mcp.Description("The participant ID."), mcp.Required()),
		mcp.WithNumber("template_id", mcp.Description("Assessment template.")),
		mcp.WithNumber("tolerance", mcp.Description("Tolerance percentage between 0 and 100.")),
	), h.handleGetFinalAssessment)

	// --- 3. Tool: get_ranking ---
	s.AddTool(mcp.NewTool("get_ranking",
		mcp.WithDescription("Rank the participants of one event and position formation. Pass participant_id to rank that participant's cohort."),
		mcp.WithString("event_code", mcp.Description("Event code of the cohort.")),
		mcp.WithNumber("position_id", mcp.Description("Position formation ID of the cohort.")),
		mcp.WithNumber("participant_id", mcp.Description("Rank the cohort of this participant instead.")),
		mcp.WithString("category", mcp.Description("Score to rank by. Defaults to 'all'."), mcp.Enum("all", "potensi", "kompetensi")),
		mcp.WithNumber("tolerance", mcp.Description("Tolerance percentage between 0 and 100.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of entries returned.")),
	), h.handleGetRanking)

	// --- 4. Tool: get_competency_summary ---
	s.AddTool(mcp.NewTool("get_competency_summary",
		mcp.WithDescription("Label every kompetensi aspect of one participant with the five-band competency scheme."),
		mcp.WithNumber("participant_id", mcp.Description("The participant ID."), mcp.Required()),
		mcp.WithNumber("tolerance", mcp.Description("Tolerance percentage between 0 and 100.")),
	), h.handleGetCompetencySummary)

	// --- 5. Tool: get_conclusion_tables ---
	s.AddTool(mcp.NewTool("get_conclusion_tables",
		mcp.WithDescription("List the static conclusion tables: gap, potensial, competency bands and final bands."),
	), h.handleGetConclusionTables)

	return s
}

// StartMCPServer opens the rating source and serves the psymap tools over stdio.
func StartMCPServer(ctx context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	engine, release, err := core.OpenEngine(ctx, baseCfg, mgr)
	if err != nil {
		return err
	}
	defer release()
	return server.ServeStdio(NewMCPServer(baseCfg, engine))
}
