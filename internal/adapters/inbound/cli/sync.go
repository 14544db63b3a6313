package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/bhce2gw/internal/adapters/outbound/output"
	"github.com/openkraft/bhce2gw/internal/adapters/outbound/tui"
	"github.com/openkraft/bhce2gw/internal/application"
	"github.com/openkraft/bhce2gw/internal/domain"
)

type syncOptions struct {
	output string
	strict bool
	json   bool
}

func (o *syncOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", output.DefaultPath, "Path of the aggregate JSON file")
	cmd.Flags().BoolVar(&o.strict, "strict", false, "Exit non-zero when publishing to Ghostwriter fails")
	cmd.Flags().BoolVar(&o.json, "json", false, "Print the aggregate as JSON instead of the summary")
}

func newSyncCmd(root *rootOptions) *cobra.Command {
	opts := &syncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Collect from BloodHound, write the aggregate and publish it",
		Long: "Log in to BloodHound CE, summarise every domain, write the aggregate to --output and store it " +
			"in the configured Ghostwriter report field. A failed publish is logged but only fails the " +
			"command with --strict.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, root, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runSync(cmd *cobra.Command, root *rootOptions, opts *syncOptions) error {
	cfg, logger, err := root.setup(cmd)
	if err != nil {
		return err
	}

	svc := application.NewSyncService(
		newCollectService(cfg.BloodHound, logger),
		output.New(),
		newPublishService(cfg, logger),
		logger,
	)

	result, err := svc.Sync(cmd.Context(), cfg, opts.output)
	if err != nil {
		return err
	}

	if err := renderResult(cmd, result, cfg.Ghostwriter, opts.json); err != nil {
		return err
	}
	if opts.strict && result.PublishErr != nil {
		return result.PublishErr
	}
	return nil
}

func renderResult(cmd *cobra.Command, result *application.SyncResult, gw domain.GhostwriterConfig, jsonOutput bool) error {
	if jsonOutput {
		return renderJSON(cmd, result.Report)
	}
	fmt.Fprint(cmd.OutOrStdout(), tui.RenderSummary(result.Report, result.OutputPath))
	fmt.Fprint(cmd.OutOrStdout(), tui.RenderPublish(gw.ReportID, gw.FieldName, result.PublishErr))
	return nil
}

// renderJSON prints report in the same layout as the written artifact.
func renderJSON(cmd *cobra.Command, report *domain.AggregateReport) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}
