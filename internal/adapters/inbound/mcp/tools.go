package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerTools registers all bhce2gw MCP tools on the given server.
func registerTools(s *server.MCPServer, e *env) {
	// 1. bhce_collect
	s.AddTool(
		mcplib.NewTool("bhce_collect",
			mcplib.WithDescription("Queries BloodHound CE and returns the per-domain aggregate as JSON"),
			mcplib.WithBoolean("write",
				mcplib.Description("Also overwrite the local output artifact with the result"),
			),
		),
		handleCollect(e),
	)

	// 2. bhce_get_domain
	s.AddTool(
		mcplib.NewTool("bhce_get_domain",
			mcplib.WithDescription("Returns one domain summary from the last written output artifact"),
			mcplib.WithString("name",
				mcplib.Required(),
				mcplib.Description("Domain name as reported by BloodHound (e.g. CORP.LOCAL)"),
			),
		),
		handleGetDomain(e),
	)
}

func handleCollect(e *env) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		bh := e.cfg.BloodHound
		report, err := e.newCollect(bh).Collect(ctx, bh)
		if err != nil {
			return errorResult(fmt.Sprintf("collect failed: %v", err)), nil
		}

		if request.GetBool("write", false) {
			if err := e.store.Save(e.outputPath, report); err != nil {
				return errorResult(fmt.Sprintf("writing %s: %v", e.outputPath, err)), nil
			}
		}
		return jsonResult(report)
	}
}

func handleGetDomain(e *env) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		report, err := e.store.Load(e.outputPath)
		if errors.Is(err, os.ErrNotExist) {
			return errorResult(fmt.Sprintf("no output at %s; run bhce_collect with write=true first", e.outputPath)), nil
		}
		if err != nil {
			return errorResult(fmt.Sprintf("reading output: %v", err)), nil
		}

		d, ok := report.FindDomain(name)
		if !ok {
			return errorResult(fmt.Sprintf("domain %q not found in %s", name, e.outputPath)), nil
		}
		return jsonResult(d)
	}
}

// jsonResult marshals v to indented JSON and returns it as text content.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns an error content result.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
