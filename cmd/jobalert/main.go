// Command jobalert runs the job aggregation API, the alert sweep and the
// operator tooling around them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"job-scraping/internal/config"
	"job-scraping/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli carries what every subcommand needs once the root has loaded it.
type cli struct {
	configPath string
	cfg        config.Config
	log        *zap.Logger
}

func main() {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "jobalert",
		Short:         "Job posting aggregation and alerting",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			c.cfg = cfg
			c.log = log.With(zap.String("app", cfg.App.AppName))
			cmd.SetContext(logger.WithLogger(cmd.Context(), c.log))
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "optional YAML config file; environment variables override it")

	rootCmd.AddCommand(
		serveCommand(c),
		sweepCommand(c),
		searchCommand(c),
		migrateCommand(c),
		tokenCommand(c),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
