package app

import (
	"context"
	"errors"
	"time"

	"job-scraping/internal/config"
	"job-scraping/internal/database"
	dbpostgres "job-scraping/internal/database/postgres"
	"job-scraping/internal/infrastructure/cache"
	"job-scraping/internal/infrastructure/mail"
	"job-scraping/internal/notification"
	"job-scraping/internal/pkg/jwt"
	"job-scraping/internal/pkg/logger"
	"job-scraping/internal/pkg/metrics"
	"job-scraping/internal/repository"
	"job-scraping/internal/salary"
	"job-scraping/internal/scheduler"
	"job-scraping/internal/scraper"
	"job-scraping/internal/service"
	"job-scraping/internal/usecase"
	"job-scraping/internal/ws"

	"go.uber.org/zap"
)

// Container owns every long-lived dependency of the process.
type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      database.DB
	Cache   *cache.Redis
	Metrics *metrics.Metrics
	Tokens  jwt.Service
	Hub     *ws.Hub

	Users     *repository.PostgresUserRepository
	Alerts    *repository.PostgresAlertRepository
	SavedJobs *repository.PostgresSavedJobRepository
	History   *repository.PostgresSearchHistoryRepository

	Aggregator service.Aggregator
	Dispatcher *notification.Dispatcher

	Search     *usecase.Search
	AlertUC    *usecase.Alerts
	SavedJobUC *usecase.SavedJobs
	Sweeper    *scheduler.Sweeper
	Scheduler  *scheduler.Scheduler
}

func NewContainer(cfg config.Config, log *zap.Logger) (*Container, error) {
	log = logger.OrNop(log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:  cfg,
		Logger:  log,
		DB:      db,
		Cache:   cache.NewRedis(cfg.Redis, log.Named("cache")),
		Metrics: metrics.New(),
		Tokens:  jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.AccessExpiresIn),
		Hub:     ws.NewHub(log.Named("ws")),

		Users:     repository.NewPostgresUserRepository(db),
		Alerts:    repository.NewPostgresAlertRepository(db),
		SavedJobs: repository.NewPostgresSavedJobRepository(db),
		History:   repository.NewPostgresSearchHistoryRepository(db),
	}

	c.Aggregator = service.NewAggregator(
		cfg.Scraper,
		salary.NewNormalizer(cfg.Salary.CurrencySymbol),
		NewAdapters(cfg.Scraper, log),
		log.Named("aggregator"),
		service.WithResultCache(c.Cache, cfg.Scraper.CacheTTL),
		service.WithMetrics(c.Metrics),
	)

	sender := mail.NewSMTPSender(cfg.SMTP, log.Named("mail"))
	c.Dispatcher = notification.NewDispatcher(sender, c.SavedJobs, c.Metrics, log.Named("notification"))

	c.Search = usecase.NewSearchUsecase(usecase.SearchDeps{
		Aggregator: c.Aggregator,
		Users:      c.Users,
		Alerts:     c.Alerts,
		History:    c.History,
		Notifier:   c.Dispatcher,
		Events:     ws.NewPublisher(c.Hub),
		Metrics:    c.Metrics,
		Logger:     log.Named("search"),
	})
	c.AlertUC = usecase.NewAlertUsecase(c.Alerts, log.Named("alerts"))
	c.SavedJobUC = usecase.NewSavedJobUsecase(c.SavedJobs, c.Users, c.Dispatcher, log.Named("saved_jobs"))

	c.Sweeper = scheduler.NewSweeper(cfg.Scheduler, c.Alerts, c.Search, c.Cache, c.Metrics, log.Named("sweep"))
	c.Scheduler = scheduler.New(cfg.Scheduler.Spec, c.Sweeper, log.Named("scheduler"))

	return c, nil
}

// NewAdapters returns the sources in merge priority order.
func NewAdapters(cfg config.ScraperConfig, log *zap.Logger) []scraper.Adapter {
	log = logger.OrNop(log)
	dumper := scraper.NewDumper(cfg.DiagnosticsDir, log.Named("diagnostics"))
	return []scraper.Adapter{
		scraper.NewLinkedInAdapter(cfg, log.Named("linkedin")),
		scraper.NewTimesJobsAdapter(cfg, scraper.NewChromeLauncher(), dumper, log.Named("timesjobs")),
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
