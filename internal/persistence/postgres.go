package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
)

// Postgres wraps access to a pgx connection pool backing the optional run
// archive. A nil pool means the archive is off and the service runs on
// snapshot files alone.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres establishes a connection pool when a DSN is provided. The
// archive is optional, so connection failures warn and disable it rather
// than aborting startup.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) *Postgres {
	if cfg.DSN == "" {
		logger.Warn("POSTGRES_DSN not provided; run archive disabled")
		return &Postgres{Pool: nil}
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Warn("invalid postgres dsn; run archive disabled", zap.Error(err))
		return &Postgres{Pool: nil}
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Warn("unable to create postgres pool; run archive disabled", zap.Error(err))
		return &Postgres{Pool: nil}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Warn("unable to reach postgres; run archive disabled", zap.Error(err))
		return &Postgres{Pool: nil}
	}

	logger.Info("connected to postgres")
	return &Postgres{Pool: pool}
}

// Ping verifies pool connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.Pool.Ping(ctx)
}

// Close releases pool resources.
func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// PoolHandle returns the underlying pgx pool, nil when the archive is off.
func (p *Postgres) PoolHandle() *pgxpool.Pool {
	if p == nil {
		return nil
	}
	return p.Pool
}
