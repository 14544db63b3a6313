package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/openkraft/bhce2gw/internal/adapters/outbound/output"
	"github.com/openkraft/bhce2gw/internal/application"
	"github.com/openkraft/bhce2gw/internal/domain"
)

// Version is reported to MCP clients during initialization.
const Version = "0.1.0"

// CollectFactory builds a CollectService for one collection. A fresh service
// per call keeps concurrent tool calls from sharing a BloodHound session.
type CollectFactory func(domain.BloodHoundConfig) *application.CollectService

// env is what every tool and resource handler needs.
type env struct {
	cfg        domain.Config
	outputPath string
	newCollect CollectFactory
	store      *output.Store
	logger     zerolog.Logger
}

// NewBHCE2GWMCPServer creates a new MCP server with all bhce2gw tools and
// resources registered. outputPath is the aggregate artifact that tools read
// and optionally write. logger must not write to stdout.
func NewBHCE2GWMCPServer(cfg domain.Config, outputPath string, newCollect CollectFactory, logger zerolog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"bhce2gw",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	e := &env{cfg: cfg, outputPath: outputPath, newCollect: newCollect, store: output.New(), logger: logger}
	registerTools(s, e)
	registerResources(s, e)

	return s
}
