package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	dbpostgres "job-scraping/internal/database/postgres"
	"job-scraping/internal/pkg/jwt"
	"job-scraping/internal/repository"

	"github.com/spf13/cobra"
)

// tokenCommand mints an access token for an existing user. This is the only
// place tokens are issued.
func tokenCommand(c *cli) *cobra.Command {
	var (
		email string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			db, err := dbpostgres.Connect(ctx, c.cfg.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer func() { _ = db.Close() }()

			u, err := repository.NewPostgresUserRepository(db).GetByEmail(ctx, strings.TrimSpace(email))
			if err != nil {
				return fmt.Errorf("find user %q: %w", email, err)
			}

			if ttl <= 0 {
				ttl = c.cfg.JWT.AccessExpiresIn
			}
			signed, err := jwt.NewHMACService(c.cfg.JWT.Secret, ttl).GenerateAccessToken(u.ID, u.Email)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user the token is for")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime; defaults to JWT_ACCESS_EXPIRES_IN")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
