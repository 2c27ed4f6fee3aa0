package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("EMAIL_ADDRESS", "alerts@example.com")
	t.Setenv("EMAIL_PASSWORD", "app-password")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 50, cfg.Scraper.MaxJobsPerSource)
	require.Equal(t, 3, cfg.Scraper.RetryAttempts)
	require.Equal(t, 2*time.Second, cfg.Scraper.RetryDelay)
	require.Equal(t, "India", cfg.Scraper.DefaultLocation)
	require.Len(t, cfg.Scraper.UserAgents, 3)
	require.Equal(t, "@every 1h", cfg.Scheduler.Spec)
	require.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	require.Equal(t, 465, cfg.SMTP.Port)
	require.Equal(t, "₹", cfg.Salary.CurrencySymbol)
	require.Empty(t, cfg.Scraper.DiagnosticsDir)
	require.LessOrEqual(t, cfg.Scraper.RetryBudget(cfg.Scraper.RenderTimeout), cfg.Scraper.AdapterTimeout)
	require.LessOrEqual(t, cfg.Scraper.RetryBudget(cfg.Scraper.RequestTimeout), cfg.Scraper.AdapterTimeout)
}

func TestLoad_RejectsAdapterTimeoutShorterThanRetries(t *testing.T) {
	setRequired(t)
	t.Setenv("SCRAPER_RENDER_TIMEOUT", "45s")

	_, err := Load("")
	require.ErrorIs(t, err, errInvalidConfig)
	require.Contains(t, err.Error(), "SCRAPER_RENDER_TIMEOUT")

	t.Setenv("SCRAPER_RENDER_TIMEOUT", "25s")
	t.Setenv("SCRAPER_REQUEST_TIMEOUT", "40s")
	_, err = Load("")
	require.ErrorIs(t, err, errInvalidConfig)
	require.Contains(t, err.Error(), "SCRAPER_REQUEST_TIMEOUT")
}

func TestRetryBudget(t *testing.T) {
	c := ScraperConfig{RetryAttempts: 3, RetryDelay: 2 * time.Second}
	require.Equal(t, 79*time.Second, c.RetryBudget(25*time.Second))
	require.Equal(t, time.Duration(0), ScraperConfig{}.RetryBudget(time.Second))
}

func TestLoad_CredentialsHaveNoFallback(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("EMAIL_ADDRESS", "")
	t.Setenv("EMAIL_PASSWORD", "")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SCRAPER_USER_AGENTS", "ua-one|ua-two")
	t.Setenv("SCHEDULER_WORKERS", "8")
	t.Setenv("SCRAPER_DIAGNOSTICS_DIR", "/tmp/diag")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, []string{"ua-one", "ua-two"}, cfg.Scraper.UserAgents)
	require.Equal(t, 8, cfg.Scheduler.Workers)
	require.Equal(t, "/tmp/diag", cfg.Scraper.DiagnosticsDir)
}

func TestLoad_YAMLFile(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("scraper:\n  defaultLocation: Bangalore\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Bangalore", cfg.Scraper.DefaultLocation)
}

func TestValidate_RejectsNonPositive(t *testing.T) {
	setRequired(t)
	t.Setenv("SCRAPER_RETRY_ATTEMPTS", "0")

	_, err := Load("")
	require.ErrorIs(t, err, errInvalidConfig)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{DBHost: " db ", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "jobs", DBSSLMode: "disable"}
	require.Equal(t, "host=db port=5432 user=u password=p dbname=jobs sslmode=disable", c.DSN())
}
