package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/bhce2gw/internal/adapters/outbound/output"
	"github.com/openkraft/bhce2gw/internal/adapters/outbound/tui"
)

func newCollectCmd(root *rootOptions) *cobra.Command {
	var (
		outputPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect from BloodHound and write the aggregate without publishing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.setup(cmd)
			if err != nil {
				return err
			}

			report, err := newCollectService(cfg.BloodHound, logger).Collect(cmd.Context(), cfg.BloodHound)
			if err != nil {
				return err
			}
			if err := output.New().Save(outputPath, report); err != nil {
				return fmt.Errorf("writing %s: %w", outputPath, err)
			}
			logger.Info().Str("path", outputPath).Int("domains", len(report.Domains)).Msg("Wrote aggregate")

			if jsonOutput {
				return renderJSON(cmd, report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderSummary(report, outputPath))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", output.DefaultPath, "Path of the aggregate JSON file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the aggregate as JSON instead of the summary")

	return cmd
}
