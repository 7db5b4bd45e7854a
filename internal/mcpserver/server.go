// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the daily digest and archive tools for LLM integration via
// stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/apperr"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/archive"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/feed"
)

// Server wraps the MCP server with digest and archive tools.
type Server struct {
	mcp *server.MCPServer
	svc *feed.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *feed.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"AdTech Intelligence",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_daily_digest",
		mcp.WithDescription("Get the latest published daily digest summary: "+
			"key signals, must reads, learnings, momentum, and watchlist."),
	), s.getDailyDigest)

	s.mcp.AddTool(mcp.NewTool("list_key_signals",
		mcp.WithDescription("List the highest-priority signals from the latest digest."),
	), s.listKeySignals)

	s.mcp.AddTool(mcp.NewTool("get_watchlist",
		mcp.WithDescription("Get the watchlist-company activity aggregation from the latest digest."),
	), s.getWatchlist)

	s.mcp.AddTool(mcp.NewTool("search_archive",
		mcp.WithDescription("Full-text search through the archive of historically "+
			"high-priority items (titles, rationale, signal types)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Max results (default 20)")),
	), s.searchArchive)

	s.mcp.AddTool(mcp.NewTool("list_archive",
		mcp.WithDescription("List archived items, newest-highest-priority first, with optional filters."),
		mcp.WithNumber("min_score", mcp.Description("Minimum priority score")),
		mcp.WithString("signal_type", mcp.Description("Filter by signal type (e.g. financial, competitive)")),
		mcp.WithString("source", mcp.Description("Filter by source key")),
		mcp.WithNumber("limit", mcp.Description("Max results (default 100)")),
	), s.listArchive)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getDailyDigest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := s.svc.Digest(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrNoDigest) {
			return mcp.NewToolResultError("no digest published yet"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listKeySignals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	signals, err := s.svc.KeySignals(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrNoDigest) {
			return mcp.NewToolResultError("no digest published yet"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(signals) == 0 {
		return mcp.NewToolResultText("no key signals in the current digest"), nil
	}
	out, _ := json.MarshalIndent(signals, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getWatchlist(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := s.svc.Watchlist(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrNoDigest) {
			return mcp.NewToolResultError("no digest published yet"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(rows) == 0 {
		return mcp.NewToolResultText("no watchlist activity in the current digest"), nil
	}
	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchArchive(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", 20)

	results, err := s.svc.SearchArchive(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no archived items match %q", query)), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listArchive(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := archive.Filter{
		MinScore:   req.GetInt("min_score", 0),
		SignalType: req.GetString("signal_type", ""),
		Source:     req.GetString("source", ""),
		Limit:      req.GetInt("limit", 0),
	}

	entries, err := s.svc.Archive(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("archive is empty for this filter"), nil
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
