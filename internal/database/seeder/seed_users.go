package seeder

import (
	"context"
	"fmt"
	"strings"

	"job-scraping/internal/database"
)

type SeedUser struct {
	Username string
	Email    string
}

// ParseSeedUser reads "username:email".
func ParseSeedUser(s string) (SeedUser, error) {
	name, email, ok := strings.Cut(strings.TrimSpace(s), ":")
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if !ok || name == "" || !strings.Contains(email, "@") {
		return SeedUser{}, fmt.Errorf("invalid seed user %q, want username:email", s)
	}
	return SeedUser{Username: name, Email: email}, nil
}

// UsersSeeder inserts accounts that do not exist yet. Existing usernames or
// emails are left as they are.
type UsersSeeder struct {
	Users []SeedUser
}

func (UsersSeeder) Name() string { return "users" }

func (s UsersSeeder) Run(ctx context.Context, db database.DB) error {
	if len(s.Users) == 0 {
		return nil
	}
	if err := EnsureTableColumns(ctx, db, "users", "id", "username", "email", "created_at"); err != nil {
		return err
	}

	return database.InTx(ctx, db, func(tx database.Tx) error {
		for _, u := range s.Users {
			if _, err := tx.Exec(ctx,
				`INSERT INTO users (id, username, email) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT DO NOTHING`,
				u.Username, u.Email,
			); err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
		}
		return nil
	})
}
