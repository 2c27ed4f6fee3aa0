package main

import (
	"fmt"

	"job-scraping/internal/app"

	"github.com/spf13/cobra"
)

func serveCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API, websocket feed and scheduled alert sweeps",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := app.NewContainer(c.cfg, c.log)
			if err != nil {
				return fmt.Errorf("init container: %w", err)
			}
			defer func() {
				if err := container.Close(); err != nil {
					c.log.Sugar().Warnw("cleanup failed", "error", err)
				}
			}()

			return app.New(container).Run(cmd.Context())
		},
	}
}
