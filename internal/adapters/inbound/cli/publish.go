package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/bhce2gw/internal/adapters/outbound/output"
	"github.com/openkraft/bhce2gw/internal/adapters/outbound/tui"
	"github.com/openkraft/bhce2gw/internal/application"
)

func newPublishCmd(root *rootOptions) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a previously written aggregate to Ghostwriter",
		Long:  "Read the aggregate from --output and store it in the configured Ghostwriter report field without querying BloodHound.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.setup(cmd)
			if err != nil {
				return err
			}

			svc := application.NewSyncService(nil, output.New(), newPublishService(cfg, logger), logger)
			result, err := svc.Republish(cmd.Context(), cfg.Ghostwriter, outputPath)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderPublish(cfg.Ghostwriter.ReportID, cfg.Ghostwriter.FieldName, result.PublishErr))
			if result.PublishErr != nil {
				return result.PublishErr
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", output.DefaultPath, "Path of the aggregate JSON file to publish")

	return cmd
}
