// Package cli holds the wiring shared by the pairs commands and the terminal game.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/pairs"
	"github.com/aretw0/pairs/internal/catalog"
	"github.com/aretw0/pairs/internal/config"
	"github.com/aretw0/pairs/internal/metrics"
	"github.com/aretw0/pairs/pkg/adapters/file"
	"github.com/aretw0/pairs/pkg/adapters/memory"
	natsadapter "github.com/aretw0/pairs/pkg/adapters/nats"
	redisadapter "github.com/aretw0/pairs/pkg/adapters/redis"
	"github.com/aretw0/pairs/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Runtime is an engine together with the resources it owns.
type Runtime struct {
	Engine *pairs.Engine
	Store  ports.GameStore

	// Registry is nil when metrics are disabled.
	Registry *prometheus.Registry

	closers []func() error
}

// Close releases connections opened by NewRuntime.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewStore opens the game store selected by cfg.
func NewStore(ctx context.Context, cfg *config.Config) (ports.GameStore, func() error, error) {
	switch cfg.Store.Driver {
	case config.DriverFile:
		return file.New(cfg.Store.Path), func() error { return nil }, nil
	case config.DriverRedis:
		store := redisadapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisadapter.WithTTL(cfg.Session.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return store, store.Close, nil
	default:
		return memory.NewStore(memory.WithTTL(cfg.Session.TTL)), func() error { return nil }, nil
	}
}

// NewRuntime builds an engine from cfg. extra options are applied last.
func NewRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger, extra ...pairs.Option) (*Runtime, error) {
	rt := &Runtime{}
	ok := false
	defer func() {
		if !ok {
			rt.Close()
		}
	}()

	store, closeStore, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rt.Store = store
	rt.closers = append(rt.closers, closeStore)

	cat, err := catalog.Load(ctx, cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	opts := []pairs.Option{
		pairs.WithLogger(logger),
		pairs.WithStore(store),
		pairs.WithCatalog(cat),
	}

	if cfg.Redis.Lock {
		if rs, isRedis := store.(*redisadapter.Store); isRedis {
			opts = append(opts, pairs.WithLocker(redisadapter.NewLocker(rs.Client(), "pairs:")))
		}
	}

	if cfg.NATS.URL != "" {
		pub, err := natsadapter.Connect(cfg.NATS.URL,
			natsadapter.WithPrefix(cfg.NATS.Prefix),
			natsadapter.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, pub.Close)
		opts = append(opts, pairs.WithPublisher(pub))
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m := metrics.New(reg)
		opts = append(opts, pairs.WithLifecycleHooks(m.Hooks()))
		rt.Registry = reg
	}

	opts = append(opts, extra...)
	rt.Engine = pairs.New(opts...)

	logger.Debug("engine ready",
		"store", cfg.Store.Driver,
		"environments", cat.Len(),
		"redis_lock", cfg.Redis.Lock,
		"nats", cfg.NATS.URL != "",
		"metrics", cfg.Metrics.Enabled,
	)
	ok = true
	return rt, nil
}
