package mcp

import (
	"math"
	"testing"

	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONResult(t *testing.T) {
	t.Run("encodable", func(t *testing.T) {
		res := jsonResult(scaleResult{Source: "reports.json", Scale: schema.ScaleDomain{MaxRequests: 4}})
		require.False(t, res.IsError)
		text, ok := res.Content[0].(mcp.TextContent)
		require.True(t, ok)
		assert.Contains(t, text.Text, `"max_requests": 4`)
	})

	t.Run("unencodable", func(t *testing.T) {
		res := jsonResult(scaleResult{Scale: schema.ScaleDomain{MaxLatency: math.NaN()}})
		require.True(t, res.IsError)
		text, ok := res.Content[0].(mcp.TextContent)
		require.True(t, ok)
		assert.Contains(t, text.Text, "failed to encode result")
	})
}

func TestApplyStrategyArgs(t *testing.T) {
	cfg := &contract.Config{Source: "a.json", Grouping: schema.ByRun, Scaling: schema.AbsoluteScale, RowOrder: schema.KindThenName, Axis: schema.EveryAxis}
	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]any{"source": "b.json", "group_by": "Profile", "axis": "first"}

	require.NoError(t, applyStrategyArgs(cfg, request))
	assert.Equal(t, "b.json", cfg.Source)
	assert.Equal(t, schema.ByProfile, cfg.Grouping)
	assert.Equal(t, schema.AbsoluteScale, cfg.Scaling)
	assert.Equal(t, schema.FirstAxis, cfg.Axis)

	request.Params.Arguments = map[string]any{"row_order": "kind"}
	assert.EqualError(t, applyStrategyArgs(cfg, request), "invalid row_order 'kind'")
}
