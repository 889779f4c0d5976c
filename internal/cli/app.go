package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/assign"
	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/observability"
	"github.com/spec-kit/triage-service/internal/persistence"
	"github.com/spec-kit/triage-service/internal/repository"
	"github.com/spec-kit/triage-service/internal/service"
	"github.com/spec-kit/triage-service/internal/source"
	"github.com/spec-kit/triage-service/internal/storage"
	"github.com/spec-kit/triage-service/internal/triage"
	"github.com/spec-kit/triage-service/internal/worker"
)

// pipeline bundles the wired service graph shared by serve, run, and
// reprocess. Postgres and Redis degrade to disabled when unreachable, so
// construction only fails on a broken local environment.
type pipeline struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *observability.Metrics
	postgres *persistence.Postgres
	redis    *persistence.Redis
	triage   *service.TriageService
}

func buildPipeline(ctx context.Context) (*pipeline, error) {
	cfg := config.Load(cfgPath)

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	for _, warning := range cfg.Warnings {
		logger.Warn("config warning", zap.String("detail", warning))
	}

	metrics := observability.NewMetrics()

	postgres := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if pool := postgres.PoolHandle(); pool != nil {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			postgres.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	redisClient := persistence.NewRedis(cfg.Redis, logger)

	snapshots, err := storage.NewFileStore(cfg.DataStorage, logger)
	if err != nil {
		redisClient.Close()
		postgres.Close()
		return nil, fmt.Errorf("init snapshot store: %w", err)
	}

	var archive repository.ArchiveRepository
	if pool := postgres.PoolHandle(); pool != nil {
		archive = repository.NewArchiveRepository(pool)
	}

	var sources []source.Source
	var serviceNow *source.ServiceNowSource
	var jira *source.JiraSource
	if cfg.ServiceNow.Enabled {
		serviceNow = source.NewServiceNowSource(cfg.ServiceNow, logger)
		sources = append(sources, serviceNow)
	}
	if cfg.Jira.Enabled {
		jira = source.NewJiraSource(cfg.Jira, logger)
		sources = append(sources, jira)
	}

	dispatcher := events.NewInMemoryDispatcher()

	triageService := service.NewTriageService(service.TriageDependencies{
		Config:      cfg,
		Classifier:  triage.FromConfig(cfg, logger, metrics),
		Scorer:      assign.NewScorer(cfg.Roster(), logger),
		Sources:     sources,
		Mock:        source.NewMockSource(cfg.Mock),
		ServiceNow:  serviceNow,
		Jira:        jira,
		Snapshots:   snapshots,
		ReassignLog: storage.NewReassignLog(cfg.DataStorage.LogDirectory),
		Archive:     archive,
		Cache:       repository.NewBatchCache(redisClient.ClientHandle(), cfg.Redis.CacheTTL()),
		Dispatcher:  dispatcher,
		Logger:      logger,
		Metrics:     metrics,
	})

	worker.StartObservers(
		service.NewNotificationService(dispatcher, logger),
		service.NewAuditService(storage.NewActionLog(cfg.DataStorage.LogDirectory), logger),
		dispatcher,
	)

	return &pipeline{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		postgres: postgres,
		redis:    redisClient,
		triage:   triageService,
	}, nil
}

func (p *pipeline) Close() {
	p.redis.Close()
	p.postgres.Close()
	_ = p.logger.Sync()
}
