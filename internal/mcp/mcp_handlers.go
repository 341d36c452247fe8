package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/benchgrid/core"
	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/internal/outwriter"
	"github.com/huangsam/benchgrid/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// scaleResult is the resolve_scale payload.
type scaleResult struct {
	Source   string             `json:"source"`
	Grouping string             `json:"grouping,omitempty"`
	Group    string             `json:"group,omitempty"`
	Scale    schema.ScaleDomain `json:"scale"`
}

func (h *toolHandler) handleBuildSections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyStrategyArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	sections, err := core.GetSections(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v", err)), nil
	}

	return jsonResult(outwriter.ToSectionOutputs(sections, false)), nil
}

func (h *toolHandler) handleResolveScale(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyStrategyArgs(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	group := request.GetString("group", "")

	domain, err := core.GetScale(ctx, cfg, h.mgr, group)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scale resolution failed: %v", err)), nil
	}

	result := scaleResult{Source: cfg.Source, Group: group, Scale: domain}
	if group != "" {
		result.Grouping = string(cfg.Grouping)
	}
	return jsonResult(result), nil
}

// jsonResult encodes v as indented JSON text, or returns a tool error if it cannot be encoded.
func jsonResult(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

// applyStrategyArgs overrides cfg with the source and strategy arguments present in request.
func applyStrategyArgs(cfg *contract.Config, request mcp.CallToolRequest) error {
	if s := request.GetString("source", ""); s != "" {
		cfg.Source = s
	}
	st, err := core.StrategyFor(cfg).Override(func(key string) string {
		return request.GetString(key, "")
	})
	if err != nil {
		return err
	}
	cfg.Grouping, cfg.Scaling, cfg.RowOrder, cfg.Axis = st.Grouping, st.Scaling, st.RowOrder, st.Axis
	return nil
}
