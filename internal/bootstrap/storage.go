package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dealfinder/internal/config"
	"dealfinder/internal/repository"
	jsonfile "dealfinder/internal/repository/json"
	"dealfinder/internal/repository/memory"
	rediskv "dealfinder/internal/repository/redis"
	sqlrepo "dealfinder/internal/repository/sql"
)

// Closer releases a storage backend. It is never nil.
type Closer func() error

func noopCloser() error { return nil }

// BuildKV opens the session key-value store named by storage.kv.driver.
func BuildKV(ctx context.Context, profile *config.Config, log *slog.Logger) (repository.KV, Closer, error) {
	kv := profile.Storage.KV

	switch kv.Driver {
	case "memory":
		log.Info("session store", "driver", kv.Driver)
		return memory.NewKV(), noopCloser, nil

	case "file":
		log.Info("session store", "driver", kv.Driver, "path", kv.Path)
		return jsonfile.New(kv.Path, log), noopCloser, nil

	case "redis":
		client, err := rediskv.NewClient(ctx, rediskv.Options{
			Addr:     kv.Redis.Addr,
			Password: kv.Redis.Password,
			DB:       kv.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		ttl := time.Duration(kv.Redis.TTLSeconds) * time.Second
		log.Info("session store", "driver", kv.Driver, "addr", kv.Redis.Addr, "prefix", kv.Redis.Prefix)
		store := rediskv.New(client, kv.Redis.Prefix, ttl)
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown kv driver %q", kv.Driver)
}

// BuildOrders opens the order log named by storage.orders.driver.
func BuildOrders(ctx context.Context, profile *config.Config, log *slog.Logger) (repository.Orders, Closer, error) {
	o := profile.Storage.Orders

	switch o.Driver {
	case "memory":
		log.Info("order store", "driver", o.Driver)
		return memory.NewOrders(), noopCloser, nil

	case "sqlite":
		if dir := filepath.Dir(o.DSN); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("sqlite dir: %w", err)
			}
		}
		repo, err := sqlrepo.Open(ctx, sqlrepo.SQLite, o.DSN)
		if err != nil {
			return nil, nil, err
		}
		log.Info("order store", "driver", o.Driver, "path", o.DSN)
		return repo, repo.Close, nil

	case "postgres":
		repo, err := sqlrepo.Open(ctx, sqlrepo.Postgres, o.DSN)
		if err != nil {
			return nil, nil, err
		}
		log.Info("order store", "driver", o.Driver)
		return repo, repo.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown orders driver %q", o.Driver)
}
