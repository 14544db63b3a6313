package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/openkraft/bhce2gw/internal/adapters/outbound/config"
	"github.com/openkraft/bhce2gw/internal/domain"
	"github.com/openkraft/bhce2gw/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	syncOpts := &syncOptions{}

	cmd := &cobra.Command{
		Use:   "bhce2gw",
		Short: "Push BloodHound CE domain statistics into Ghostwriter",
		Long: "bhce2gw collects per-domain statistics from a BloodHound Community Edition instance, " +
			"writes them to a local JSON file and stores them in an extra field of a Ghostwriter report. " +
			"Without a subcommand it runs sync.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, opts, syncOpts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Configuration file (.ini, .yaml or .yml)")
	pf.StringVar(&opts.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&opts.logFormat, "log-format", logging.FormatConsole, "Log format (console or json)")
	syncOpts.bind(cmd)

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newSyncCmd(opts))
	cmd.AddCommand(newCollectCmd(opts))
	cmd.AddCommand(newPublishCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the root command until it finishes or the process is
// interrupted, printing any error to stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

// setup builds the run logger on stderr and loads the configuration.
func (o *rootOptions) setup(cmd *cobra.Command) (domain.Config, zerolog.Logger, error) {
	logger, err := logging.New(cmd.ErrOrStderr(), o.logLevel, o.logFormat)
	if err != nil {
		return domain.Config{}, logger, err
	}
	logger = logging.WithRun(logger)

	cfg, err := config.New().Load(o.configPath)
	if err != nil {
		return domain.Config{}, logger, fmt.Errorf("loading config %s: %w", o.configPath, err)
	}
	logger.Debug().Str("config", o.configPath).Msg("Loaded configuration")
	return cfg, logger, nil
}
