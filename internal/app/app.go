// Package app assembles the storage, locking and notification backends selected by
// configuration into service dependencies. Both binaries build on it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"caseflow/internal/clock"
	"caseflow/internal/config"
	"caseflow/internal/database"
	"caseflow/internal/database/migration"
	"caseflow/internal/deadline"
	"caseflow/internal/lock"
	"caseflow/internal/notify"
	"caseflow/internal/repository/memory"
	"caseflow/internal/repository/postgres"
	"caseflow/internal/service"
	"caseflow/internal/storage"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Runtime owns every backend connection opened for the process.
type Runtime struct {
	Deps     service.Deps
	Location *time.Location
	// DB is nil on the memory store.
	DB *sql.DB

	logger  *slog.Logger
	closers []func(context.Context) error
}

// Options narrows what Build opens. The CLI does not need attachments or notifications.
type Options struct {
	Migrate       bool
	Attachments   bool
	Notifications bool
}

// Build opens the configured backends. On error everything opened so far is closed again.
func Build(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger, opt Options) (rt *Runtime, err error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	rt = &Runtime{Location: loc, logger: logger}
	defer func() {
		if err != nil {
			_ = rt.Close(context.Background())
			rt = nil
		}
	}()

	policy, err := Policy(cfg.SLA)
	if err != nil {
		return nil, err
	}
	rt.Deps = service.Deps{
		Clock:          clock.System{},
		Policy:         policy,
		Logger:         logger,
		StorageTimeout: cfg.StorageTimeout(),
		SearchLimit:    cfg.SearchLimit,
		Location:       loc,
	}

	if err := rt.openStore(ctx, cfg, opt.Migrate); err != nil {
		return nil, err
	}

	var rdb *redis.Client
	redisClient := func() *redis.Client {
		if rdb == nil {
			rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
			rt.closers = append(rt.closers, func(context.Context) error { return rdb.Close() })
		}
		return rdb
	}

	switch cfg.Lock.Backend {
	case "", "local":
		rt.Deps.Locker = lock.NewLocal()
	case "redis":
		rt.Deps.Locker = lock.NewRedis(redisClient(), time.Duration(cfg.Lock.TTLMs)*time.Millisecond, logger)
	default:
		return nil, fmt.Errorf("unknown lock backend %q", cfg.Lock.Backend)
	}

	if opt.Notifications {
		sender, err := rt.sender(cfg.Notify, redisClient)
		if err != nil {
			return nil, err
		}
		d := notify.NewDispatcher(sender, time.Duration(cfg.Notify.TimeoutMs)*time.Millisecond, logger)
		rt.Deps.Notifier = d
		// Registered last so pending sends drain before their transport closes.
		rt.closers = append(rt.closers, func(context.Context) error { d.Wait(); return nil })
	}

	if opt.Attachments && cfg.MinIO.Enabled() {
		st, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("init attachment storage: %w", err)
		}
		rt.Deps.Storage = st
	}
	return rt, nil
}

func (rt *Runtime) openStore(ctx context.Context, cfg *config.AppConfig, migrate bool) error {
	switch cfg.StoreBackend {
	case StoreMemory:
		store := memory.NewStore()
		if cfg.UnitsFile != "" {
			units, err := migration.LoadUnits(cfg.UnitsFile)
			if err != nil {
				return err
			}
			for _, u := range units {
				store.PutUnit(u)
			}
		}
		rt.Deps.Documents = store.Documents()
		rt.Deps.Steps = store.Steps()
		rt.Deps.Transitions = store.Transitions()
		rt.Deps.Units = store.Units()
		rt.logger.Warn("using in-memory store, data is lost on restart")
		return nil

	case "", StorePostgres:
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		rt.DB = db
		rt.closers = append(rt.closers, func(context.Context) error { return db.Close() })

		if migrate {
			if err := migration.EnsureMigrated(ctx, db, rt.logger, cfg.Database.Host); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		rt.Deps.Documents = postgres.NewDocumentPostgres(db)
		rt.Deps.Steps = postgres.NewStepPostgres(db)
		rt.Deps.Transitions = postgres.NewTransitionPostgres(db)
		rt.Deps.Units = postgres.NewUnitPostgres(db)
		return nil
	}
	return fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func (rt *Runtime) sender(cfg config.NotifyConfig, redisClient func() *redis.Client) (notify.Sender, error) {
	switch cfg.Backend {
	case "", "log":
		return notify.NewLog(rt.logger), nil
	case "none":
		return nil, nil
	case "redis":
		return notify.NewRedisStream(redisClient(), cfg.Stream, cfg.StreamMax), nil
	case "nats":
		nc, err := nats.Connect(cfg.NATSURL, nats.Name("caseflow"))
		if err != nil {
			return nil, fmt.Errorf("connect to nats: %w", err)
		}
		rt.closers = append(rt.closers, func(context.Context) error { return nc.Drain() })
		return notify.NewNATS(nc, cfg.Subject), nil
	}
	return nil, fmt.Errorf("unknown notify backend %q", cfg.Backend)
}

// Close releases backends in reverse order of opening.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}

// Policy builds the SLA policy from the day counts in cfg, overridden by the policy file
// when one is configured.
func Policy(cfg config.SLAConfig) (deadline.Policy, error) {
	p := deadline.Policy{UrgentDays: cfg.UrgentDays, NormalDays: cfg.NormalDays, LowDays: cfg.LowDays}
	if cfg.PolicyFile != "" {
		return deadline.LoadPolicy(cfg.PolicyFile, p)
	}
	if err := p.Validate(); err != nil {
		return deadline.Policy{}, err
	}
	return p, nil
}
