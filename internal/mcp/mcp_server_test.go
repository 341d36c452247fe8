package mcp_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/benchgrid/internal/contract"
	mcp_internal "github.com/huangsam/benchgrid/internal/mcp"
	"github.com/huangsam/benchgrid/internal/outwriter"
	"github.com/huangsam/benchgrid/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixturePath = filepath.Join("..", "..", "core", "ingest", "testdata", "reports.json")

func newTestServer() *server.MCPServer {
	baseCfg := &contract.Config{
		Source:       fixturePath,
		Grouping:     schema.ByRun,
		Scaling:      schema.AbsoluteScale,
		RowOrder:     schema.KindThenName,
		Axis:         schema.EveryAxis,
		RowHeight:    schema.DefaultRowHeight,
		Timeout:      time.Second,
		CacheBackend: schema.NoneBackend,
	}
	// No cache manager: every call reads the fixture directly
	var mgr contract.CacheManager
	return mcp_internal.NewMCPServer(baseCfg, mgr)
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "The first content item should be text")
	return text.Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"build_sections invalid group_by", "build_sections", map[string]any{"group_by": "weekday"}, "invalid group_by 'weekday'"},
		{"build_sections invalid scale", "build_sections", map[string]any{"scale": "log"}, "invalid scale 'log'"},
		{"build_sections invalid row_order", "build_sections", map[string]any{"row_order": "kind"}, "invalid row_order 'kind'"},
		{"build_sections invalid axis", "build_sections", map[string]any{"axis": "last"}, "invalid axis 'last'"},
		{"resolve_scale invalid group_by", "resolve_scale", map[string]any{"group_by": "weekday"}, "invalid group_by"},
		{"resolve_scale unknown group", "resolve_scale", map[string]any{"group": "weekly"}, "no section titled 'weekly'"},
		{"build_sections missing source", "build_sections", map[string]any{"source": filepath.Join("testdata", "missing.json")}, "build failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, s, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(t, res), tt.want)
		})
	}
}

func TestMCPServerBuildSections(t *testing.T) {
	s := newTestServer()

	res := callTool(t, s, "build_sections", map[string]any{"group_by": "PROFILE", "scale": "relative"})
	require.False(t, res.IsError, resultText(t, res))

	var sections []outwriter.SectionOutput
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &sections))
	require.Len(t, sections, 2)
	assert.Equal(t, "baseline", sections[0].Title, "the baseline section comes first")
	assert.Equal(t, "envoy", sections[1].Title)
	assert.InDelta(t, 0.0009, sections[0].Scale.MaxLatency, 1e-12)
	assert.InDelta(t, 0.009, sections[1].Scale.MaxLatency, 1e-12)
}

func TestMCPServerResolveScale(t *testing.T) {
	s := newTestServer()

	t.Run("all reports", func(t *testing.T) {
		res := callTool(t, s, "resolve_scale", map[string]any{})
		require.False(t, res.IsError, resultText(t, res))

		var payload struct {
			Group string             `json:"group"`
			Scale schema.ScaleDomain `json:"scale"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
		assert.Empty(t, payload.Group)
		assert.True(t, payload.Scale.ShowAxis)
		assert.Equal(t, int64(10), payload.Scale.MaxRequests)
	})

	t.Run("one group", func(t *testing.T) {
		res := callTool(t, s, "resolve_scale", map[string]any{"group_by": "profile", "group": "baseline"})
		require.False(t, res.IsError, resultText(t, res))

		var payload struct {
			Grouping string             `json:"grouping"`
			Scale    schema.ScaleDomain `json:"scale"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
		assert.Equal(t, "profile", payload.Grouping)
		assert.Equal(t, int64(4), payload.Scale.MaxRequests)
		assert.InDelta(t, 0.0009, payload.Scale.MaxLatency, 1e-12)
	})
}
