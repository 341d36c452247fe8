// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the benchgrid MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Benchgrid Report Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: build_sections ---
	s.AddTool(mcp.NewTool("build_sections",
		mcp.WithDescription("Group, order and scale Fortio benchmark reports into chart sections."),
		mcp.WithString("source", mcp.Description("File path or http(s) URL of the report collection.")),
		mcp.WithString("group_by", mcp.Description("Label used to partition reports. Defaults to 'run'."), mcp.Enum("run", "profile", "protocol", "build")),
		mcp.WithString("scale", mcp.Description("Scale domain sharing across sections. Defaults to 'absolute'."), mcp.Enum("absolute", "relative")),
		mcp.WithString("row_order", mcp.Description("Row ordering within a section."), mcp.Enum("kind-name", "name")),
		mcp.WithString("axis", mcp.Description("Which sections show their axis under absolute scaling."), mcp.Enum("every", "first")),
	), h.handleBuildSections)

	// --- 2. Tool: resolve_scale ---
	s.AddTool(mcp.NewTool("resolve_scale",
		mcp.WithDescription("Resolve the latency and request scale domain of a report collection or one of its groups."),
		mcp.WithString("source", mcp.Description("File path or http(s) URL of the report collection.")),
		mcp.WithString("group_by", mcp.Description("Grouping used to find the group."), mcp.Enum("run", "profile", "protocol", "build")),
		mcp.WithString("group", mcp.Description("Section title to narrow the domain to. All reports when empty.")),
	), h.handleResolveScale)

	return s
}

// StartMCPServer starts the benchgrid MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
