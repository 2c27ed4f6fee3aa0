package main

import (
	"context"
	"fmt"
	"time"

	jobscraping "job-scraping"
	"job-scraping/internal/database/migration"
	dbpostgres "job-scraping/internal/database/postgres"
	"job-scraping/internal/database/seeder"

	"github.com/spf13/cobra"
)

func migrateCommand(c *cli) *cobra.Command {
	var seedUsers []string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and optionally seed users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			users := make([]seeder.SeedUser, 0, len(seedUsers))
			for _, s := range seedUsers {
				u, err := seeder.ParseSeedUser(s)
				if err != nil {
					return err
				}
				users = append(users, u)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			db, err := dbpostgres.Connect(ctx, c.cfg.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer func() { _ = db.Close() }()

			r := migration.Runner{FS: jobscraping.Migrations, Dir: jobscraping.MigrationsDir, Logger: c.log.Named("migrate")}
			if err := r.Run(ctx, db.SQLDB()); err != nil {
				return err
			}
			if err := seeder.VerifySchema(ctx, db); err != nil {
				return err
			}

			if len(users) > 0 {
				if err := (seeder.Runner{Seeders: []seeder.Seeder{seeder.UsersSeeder{Users: users}}, Logger: c.log.Named("seed")}).Run(ctx, db); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d user(s)\n", len(users))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&seedUsers, "seed-user", nil, "create a user, as username:email (repeatable)")
	return cmd
}
