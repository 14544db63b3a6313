package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const outputURI = "bhce2gw://output"

// registerResources registers all bhce2gw MCP resources on the given server.
func registerResources(s *server.MCPServer, e *env) {
	// 1. bhce2gw://output - the written artifact
	s.AddResource(
		mcplib.NewResource(
			outputURI,
			"Aggregate Output",
			mcplib.WithResourceDescription("Per-domain BloodHound aggregate from the last run"),
			mcplib.WithMIMEType("application/json"),
		),
		handleOutputResource(e),
	)

	// 2. bhce2gw://domains/{name} - one domain of the artifact
	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"bhce2gw://domains/{name}",
			"Domain Summary",
			mcplib.WithTemplateDescription("Summary of a single domain from the last run"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleDomainResource(e),
	)
}

func handleOutputResource(e *env) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := os.ReadFile(e.outputPath)
		if err != nil {
			return nil, fmt.Errorf("reading output: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      outputURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleDomainResource(e *env) server.ResourceTemplateHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		name := templateArg(request.Params.Arguments["name"])
		if name == "" {
			return nil, fmt.Errorf("domain name is required")
		}

		report, err := e.store.Load(e.outputPath)
		if err != nil {
			return nil, fmt.Errorf("reading output: %w", err)
		}
		d, ok := report.FindDomain(name)
		if !ok {
			return nil, fmt.Errorf("domain %q not found", name)
		}

		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling domain: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

// templateArg unwraps a URI template variable, which the server may deliver
// as a string or as a single-element list.
func templateArg(v any) string {
	switch a := v.(type) {
	case string:
		return a
	case []string:
		if len(a) > 0 {
			return a[0]
		}
	}
	return ""
}
