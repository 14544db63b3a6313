package cli

import (
	mcpadapter "github.com/openkraft/bhce2gw/internal/adapters/inbound/mcp"
	"github.com/openkraft/bhce2gw/internal/adapters/outbound/output"
	"github.com/openkraft/bhce2gw/internal/application"
	"github.com/openkraft/bhce2gw/internal/domain"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the bhce2gw MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(root))
	return cmd
}

func newMCPServeCmd(root *rootOptions) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start bhce2gw MCP server (stdio)",
		Long:  "Start the bhce2gw MCP server using stdio transport. This lets AI assistants run collections and read per-domain summaries.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.setup(cmd)
			if err != nil {
				return err
			}
			newCollect := func(bh domain.BloodHoundConfig) *application.CollectService {
				return newCollectService(bh, logger)
			}
			s := mcpadapter.NewBHCE2GWMCPServer(cfg, outputPath, newCollect, logger)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", output.DefaultPath, "Aggregate JSON file read and written by the tools")

	return cmd
}
