package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"frutas/config"
	"frutas/internal/domain/lifecycle"

	"github.com/pkg/errors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// PoolObserver is told about every monitor sample whose accumulated wait crossed the warn threshold.
type PoolObserver interface {
	PoolWaitExceeded(waited time.Duration)
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config       *config.Config
	Logger       *slog.Logger
	PoolObserver PoolObserver `optional:"true"`
}

// New opens the primary/replica pool and ties ping, pool monitoring and close to the fx lifecycle.
func New(params Params) (*gorm.DB, error) {
	dbCfg := params.Config.Database
	if dbCfg == nil {
		dbCfg = &config.DatabaseConfig{}
	}

	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	// Repositories rely on gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
	db.Config.TranslateError = true
	db = db.Session(&gorm.Session{
		// Multi-step writes go through txManager.Execute explicitly.
		SkipDefaultTransaction: true,
		Logger: NewGormSlogLogger(params.Logger, GormLogOptions{
			Debug:         params.Config.Env.Debug,
			SlowThreshold: dbCfg.SlowQueryThreshold,
		}),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	monitor := newPoolMonitor(sqlDB.Stats, params.Logger, params.PoolObserver, dbCfg.PoolWaitWarnThreshold)
	monitorCtx, cancelMonitor := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}

			if dbCfg.PoolMonitorInterval > 0 {
				go monitor.run(monitorCtx, dbCfg.PoolMonitorInterval)
			}

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancelMonitor()

			return sqlDB.Close()
		},
	})

	return db, nil
}

// poolMonitor compares consecutive pool snapshots. Cumulative pool gauges are
// exported by the Prometheus DB stats collector; the monitor only flags bursts.
type poolMonitor struct {
	stats     func() sql.DBStats
	logger    *slog.Logger
	observer  PoolObserver
	warnAfter time.Duration
	prev      sql.DBStats
}

func newPoolMonitor(stats func() sql.DBStats, logger *slog.Logger, observer PoolObserver, warnAfter time.Duration) *poolMonitor {
	return &poolMonitor{
		stats:     stats,
		logger:    logger,
		observer:  observer,
		warnAfter: warnAfter,
		prev:      stats(),
	}
}

func (m *poolMonitor) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sample(ctx)
		}
	}
}

// sample reports the waits accumulated since the previous call and returns the wait time.
func (m *poolMonitor) sample(ctx context.Context) time.Duration {
	cur := m.stats()
	waits := cur.WaitCount - m.prev.WaitCount
	waited := cur.WaitDuration - m.prev.WaitDuration
	m.prev = cur

	if waits <= 0 {
		return 0
	}

	level := slog.LevelDebug
	if m.warnAfter > 0 && waited >= m.warnAfter {
		level = slog.LevelWarn
		if m.observer != nil {
			m.observer.PoolWaitExceeded(waited)
		}
	}

	if m.logger != nil {
		m.logger.LogAttrs(ctx, level, "Postgres pool wait",
			slog.Int64("waits", waits),
			slog.Duration("waited", waited),
			slog.Duration("avg_wait", waited/time.Duration(waits)),
			slog.Int("in_use", cur.InUse),
			slog.Int("max_open", cur.MaxOpenConnections),
		)
	}

	return waited
}
