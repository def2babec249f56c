// Package app assembles the repositories, notifier and use cases selected by configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"cpaptracker-service/internal/domain/repository"
	"cpaptracker-service/internal/infrastructure/config"
	"cpaptracker-service/internal/infrastructure/oauth"
	"cpaptracker-service/internal/infrastructure/persistence"
	"cpaptracker-service/internal/interface/notifier"
	gormRepo "cpaptracker-service/internal/interface/repository"
	"cpaptracker-service/internal/interface/repository/memory"
	"cpaptracker-service/internal/usecase"
	"cpaptracker-service/pkg/logger"
	"cpaptracker-service/pkg/metrics"
	"cpaptracker-service/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App holds the wired service components
type App struct {
	Config   *config.Config
	Logger   logger.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Tracker  *usecase.PartTracker
	Sweep    *usecase.ReminderSweep
	Exporter *usecase.InventoryExporter
	History  repository.NotificationRepository

	now     func() time.Time
	closers []func(context.Context) error
}

type stores struct {
	parts     repository.PartRepository
	equipment repository.EquipmentRepository
	ledger    repository.ReplacementRepository
	snapshots repository.SnapshotRepository
	history   repository.NotificationRepository
}

// New connects the configured storage and builds the use cases
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   log,
		Registry: prometheus.NewRegistry(),
		now:      time.Now,
	}
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = metrics.NewMetrics(cfg.MetricsNamespace, a.Registry)

	s, err := a.openStores(ctx)
	if err != nil {
		a.Close(context.Background())
		return nil, err
	}
	a.History = s.history

	n, err := a.newNotifier(ctx)
	if err != nil {
		a.Close(context.Background())
		return nil, err
	}

	a.Tracker = usecase.NewPartTracker(s.parts, s.equipment, s.ledger, s.snapshots, log)
	a.Sweep = usecase.NewReminderSweep(s.snapshots, n, s.history, a.Metrics, cfg.ReminderWindowDays, log)
	a.Exporter = usecase.NewInventoryExporter(a.Tracker, log)

	if cfg.SeedCatalog {
		if err := a.seed(ctx); err != nil {
			a.Close(context.Background())
			return nil, err
		}
	}

	return a, nil
}

// Today returns the current calendar date in the configured time zone
func (a *App) Today() time.Time {
	return utils.Today(a.now(), a.Config.Location)
}

// Close releases database connections
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.Logger.Error("Failed to close resource", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) openStores(ctx context.Context) (*stores, error) {
	var s *stores

	switch a.Config.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		s = &stores{store, store, store, store, store}
		a.Logger.Warn("Using in-memory storage, data is lost on exit")

	case config.StoragePostgres:
		opts := persistence.DefaultPostgresOptions
		opts.LogLevel = a.Config.LogLevel
		db, err := persistence.NewPostgresDB(a.Config.PostgresURI, opts, a.Logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
		if err := gormRepo.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		s = &stores{
			parts:     gormRepo.NewGormPartRepository(db),
			equipment: gormRepo.NewGormEquipmentRepository(db),
			ledger:    gormRepo.NewGormReplacementRepository(db),
			snapshots: gormRepo.NewGormSnapshotRepository(db),
		}

	default:
		return nil, fmt.Errorf("unsupported storage %q", a.Config.Storage)
	}

	if a.Config.MongoURI != "" {
		a.Logger.Info("Connecting to MongoDB")
		db, err := persistence.NewMongoDatabase(ctx, persistence.MongoOptions{
			URI:            a.Config.MongoURI,
			Username:       a.Config.MongoUser,
			Password:       a.Config.MongoPassword,
			Database:       a.Config.MongoDB,
			AppName:        "cpaptracker-service",
			ConnectTimeout: a.Config.MongoConnectTimeout,
		}, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		a.closers = append(a.closers, db.Client().Disconnect)

		history, err := gormRepo.NewMongoNotificationRepository(ctx, db, a.Config.MongoCollection)
		if err != nil {
			return nil, err
		}
		s.history = history
	}

	return s, nil
}

func (a *App) newNotifier(ctx context.Context) (repository.Notifier, error) {
	if !a.Config.GmailEnabled() {
		a.Logger.Info("Email delivery not configured, reminders will be logged")
		return notifier.NewLogNotifier(a.Logger), nil
	}

	gmailOAuth := oauth.NewGmailOAuth(oauth.Credentials{
		ClientID:     a.Config.GmailClientID,
		ClientSecret: a.Config.GmailClientSecret,
		RefreshToken: a.Config.GmailRefreshToken,
		RedirectURL:  a.Config.GmailRedirectURL,
	}, a.Logger)
	n, err := notifier.NewGmailNotifier(ctx, gmailOAuth.GetTokenSource(ctx), a.Config.NotifyEmailFrom, a.Config.NotifyEmailTo, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail notifier: %w", err)
	}
	return n, nil
}

// seed fills an empty catalog and gives every default part a baseline schedule
func (a *App) seed(ctx context.Context) error {
	today := a.Today()
	seeded, err := a.Tracker.SeedDefaultCatalog(ctx, today)
	if err != nil {
		return err
	}
	if !seeded {
		return nil
	}
	_, err = a.Tracker.InitializeAllParts(ctx, today)
	return err
}
