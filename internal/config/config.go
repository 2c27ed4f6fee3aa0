package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Salary    SalaryConfig    `yaml:"salary"`
}

type AppConfig struct {
	AppName     string `env:"APP_NAME" env-default:"job-scraping" yaml:"name"`
	Environment string `env:"APP_ENV" env-default:"development" yaml:"environment"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"" yaml:"logLevel"`
}

type HTTPConfig struct {
	Port            string        `env:"HTTP_PORT" env-default:"8080" yaml:"port"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"shutdownTimeout"`
	MetricsPath     string        `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
}

type DatabaseConfig struct {
	DBHost     string `env:"DB_HOST" env-default:"localhost" yaml:"host"`
	DBPort     string `env:"DB_PORT" env-default:"5432" yaml:"port"`
	DBName     string `env:"DB_NAME" env-default:"jobs" yaml:"name"`
	DBUser     string `env:"DB_USER" env-default:"postgres" yaml:"user"`
	DBPassword string `env:"DB_PASSWORD" yaml:"password"`
	DBSSLMode  string `env:"DB_SSL_MODE" env-default:"disable" yaml:"sslMode"`

	ConnectTimeout        time.Duration `env:"DB_CONNECT_TIMEOUT" env-default:"5s" yaml:"connectTimeout"`
	PoolMaxConns          int32         `env:"DB_POOL_MAX_CONNS" env-default:"10" yaml:"poolMaxConns"`
	PoolMinConns          int32         `env:"DB_POOL_MIN_CONNS" env-default:"0" yaml:"poolMinConns"`
	PoolMaxConnLifetime   time.Duration `env:"DB_POOL_MAX_CONN_LIFETIME" env-default:"30m" yaml:"poolMaxConnLifetime"`
	PoolMaxConnIdleTime   time.Duration `env:"DB_POOL_MAX_CONN_IDLE_TIME" env-default:"5m" yaml:"poolMaxConnIdleTime"`
	PoolHealthCheckPeriod time.Duration `env:"DB_POOL_HEALTH_CHECK_PERIOD" env-default:"1m" yaml:"poolHealthCheckPeriod"`
}

// DSN renders the keyword/value connection string pgx expects.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		strings.TrimSpace(c.DBHost),
		strings.TrimSpace(c.DBPort),
		strings.TrimSpace(c.DBUser),
		c.DBPassword,
		strings.TrimSpace(c.DBName),
		strings.TrimSpace(c.DBSSLMode),
	)
}

type RedisConfig struct {
	Host     string        `env:"REDIS_HOST" env-default:"localhost" yaml:"host"`
	Port     string        `env:"REDIS_PORT" env-default:"6379" yaml:"port"`
	Password string        `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int           `env:"REDIS_DB" env-default:"0" yaml:"db"`
	TTL      time.Duration `env:"REDIS_TTL" env-default:"10m" yaml:"ttl"`
}

func (c RedisConfig) Addr() string {
	return strings.TrimSpace(c.Host) + ":" + strings.TrimSpace(c.Port)
}

type JWTConfig struct {
	Secret          string        `env:"JWT_SECRET" env-required:"true" yaml:"secret"`
	AccessExpiresIn time.Duration `env:"JWT_ACCESS_EXPIRES_IN" env-default:"24h" yaml:"accessExpiresIn"`
}

// SMTPConfig holds the outbound mail account. Username and Password have no
// defaults; a missing credential fails Load.
type SMTPConfig struct {
	Host     string        `env:"SMTP_HOST" env-default:"smtp.gmail.com" yaml:"host"`
	Port     int           `env:"SMTP_PORT" env-default:"465" yaml:"port"`
	Username string        `env:"EMAIL_ADDRESS" env-required:"true" yaml:"username"`
	Password string        `env:"EMAIL_PASSWORD" env-required:"true" yaml:"password"`
	FromName string        `env:"EMAIL_FROM_NAME" env-default:"Job Search Assistant" yaml:"fromName"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT" env-default:"30s" yaml:"timeout"`
}

type ScraperConfig struct {
	MaxJobsPerSource  int           `env:"SCRAPER_MAX_JOBS_PER_SOURCE" env-default:"50" yaml:"maxJobsPerSource"`
	RetryAttempts     int           `env:"SCRAPER_RETRY_ATTEMPTS" env-default:"3" yaml:"retryAttempts"`
	RetryDelay        time.Duration `env:"SCRAPER_RETRY_DELAY" env-default:"2s" yaml:"retryDelay"`
	AdapterTimeout    time.Duration `env:"SCRAPER_ADAPTER_TIMEOUT" env-default:"90s" yaml:"adapterTimeout"`
	DefaultLocation   string        `env:"SCRAPER_DEFAULT_LOCATION" env-default:"India" yaml:"defaultLocation"`
	RenderSettle      time.Duration `env:"SCRAPER_RENDER_SETTLE" env-default:"5s" yaml:"renderSettle"`
	RenderTimeout     time.Duration `env:"SCRAPER_RENDER_TIMEOUT" env-default:"25s" yaml:"renderTimeout"`
	RequestTimeout    time.Duration `env:"SCRAPER_REQUEST_TIMEOUT" env-default:"20s" yaml:"requestTimeout"`
	ScrollSettle      time.Duration `env:"SCRAPER_SCROLL_SETTLE" env-default:"2s" yaml:"scrollSettle"`
	RequestsPerSecond float64       `env:"SCRAPER_REQUESTS_PER_SECOND" env-default:"0" yaml:"requestsPerSecond"`
	LinkedInBaseURL   string        `env:"SCRAPER_LINKEDIN_BASE_URL" env-default:"https://www.linkedin.com" yaml:"linkedinBaseURL"`
	TimesJobsBaseURL  string        `env:"SCRAPER_TIMESJOBS_BASE_URL" env-default:"https://www.timesjobs.com" yaml:"timesjobsBaseURL"`
	DiagnosticsDir    string        `env:"SCRAPER_DIAGNOSTICS_DIR" env-default:"" yaml:"diagnosticsDir"`
	CacheTTL          time.Duration `env:"AGGREGATE_CACHE_TTL" env-default:"0s" yaml:"cacheTTL"`
	UserAgents        []string      `env:"SCRAPER_USER_AGENTS" env-separator:"|" yaml:"userAgents" env-default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36|Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36|Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"`
}

// RetryBudget is the worst-case time a source spends when every attempt runs
// for perAttempt.
func (c ScraperConfig) RetryBudget(perAttempt time.Duration) time.Duration {
	if c.RetryAttempts <= 0 {
		return 0
	}
	n := time.Duration(c.RetryAttempts)
	return n*perAttempt + (n-1)*c.RetryDelay
}

type SchedulerConfig struct {
	Enabled bool   `env:"SCHEDULER_ENABLED" env-default:"true" yaml:"enabled"`
	Spec    string `env:"SCHEDULER_SPEC" env-default:"@every 1h" yaml:"spec"`
	Workers int    `env:"SCHEDULER_WORKERS" env-default:"4" yaml:"workers"`
	// EvaluationsPerSecond paces alert evaluations during a sweep; each one
	// runs a full search against every source. 0 disables pacing.
	EvaluationsPerSecond float64       `env:"SCHEDULER_EVALUATIONS_PER_SECOND" env-default:"0.5" yaml:"evaluationsPerSecond"`
	SweepTimeout         time.Duration `env:"SCHEDULER_SWEEP_TIMEOUT" env-default:"50m" yaml:"sweepTimeout"`
	LockTTL              time.Duration `env:"SCHEDULER_LOCK_TTL" env-default:"55m" yaml:"lockTTL"`
}

type SalaryConfig struct {
	CurrencySymbol string `env:"CURRENCY_SYMBOL" env-default:"₹" yaml:"currencySymbol"`
}

var errInvalidConfig = errors.New("invalid configuration")

// Load reads path (YAML) when given, then the environment, which wins.
func Load(path string) (Config, error) {
	var cfg Config
	var err error
	if strings.TrimSpace(path) != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("could not read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []string
	if c.Scraper.MaxJobsPerSource <= 0 {
		problems = append(problems, "SCRAPER_MAX_JOBS_PER_SOURCE must be positive")
	}
	if c.Scraper.RetryAttempts <= 0 {
		problems = append(problems, "SCRAPER_RETRY_ATTEMPTS must be positive")
	}
	if c.Scraper.AdapterTimeout > 0 {
		if c.Scraper.RetryBudget(c.Scraper.RenderTimeout) > c.Scraper.AdapterTimeout {
			problems = append(problems, "SCRAPER_ADAPTER_TIMEOUT must cover every render attempt (SCRAPER_RETRY_ATTEMPTS x SCRAPER_RENDER_TIMEOUT plus retry delays)")
		}
		if c.Scraper.RetryBudget(c.Scraper.RequestTimeout) > c.Scraper.AdapterTimeout {
			problems = append(problems, "SCRAPER_ADAPTER_TIMEOUT must cover every request attempt (SCRAPER_RETRY_ATTEMPTS x SCRAPER_REQUEST_TIMEOUT plus retry delays)")
		}
	}
	if len(c.Scraper.UserAgents) == 0 {
		problems = append(problems, "SCRAPER_USER_AGENTS must not be empty")
	}
	if c.Scheduler.EvaluationsPerSecond < 0 {
		problems = append(problems, "SCHEDULER_EVALUATIONS_PER_SECOND must not be negative")
	}
	if c.Scheduler.Workers <= 0 {
		problems = append(problems, "SCHEDULER_WORKERS must be positive")
	}
	if strings.TrimSpace(c.SMTP.Username) == "" || strings.TrimSpace(c.SMTP.Password) == "" {
		problems = append(problems, "EMAIL_ADDRESS and EMAIL_PASSWORD are required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", errInvalidConfig, strings.Join(problems, ", "))
	}
	return nil
}
