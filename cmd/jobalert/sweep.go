package main

import (
	"fmt"

	"job-scraping/internal/app"

	"github.com/spf13/cobra"
)

func sweepCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate every stored alert once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := app.NewContainer(c.cfg, c.log)
			if err != nil {
				return fmt.Errorf("init container: %w", err)
			}
			defer func() { _ = container.Close() }()

			report, err := container.Sweeper.CheckAllAlerts(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "alerts=%d evaluated=%d notified=%d failed=%d\n",
				report.Alerts, report.Evaluated, report.Notified, report.Failed)
			return nil
		},
	}
}
