package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"dealfinder/internal/domain/models"
)

var ErrKeyNotFound = errors.New("key not found")

// KV is a small durable key-value store for session state.
type KV interface {
	// Get returns ErrKeyNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Orders is an append-only order log.
type Orders interface {
	Append(ctx context.Context, orders []models.Order) error
	// List returns the user's orders, newest checkout first; orders created
	// by the same checkout keep their creation order.
	List(ctx context.Context, userID string) ([]models.Order, error)
	// Get returns models.ErrNotFound when id is unknown.
	Get(ctx context.Context, id string) (models.Order, error)
}

// LoadJSON reads key into a value of type T. A missing key or a value that
// fails to decode yields def without an error; only store failures are
// returned.
func LoadJSON[T any](ctx context.Context, kv KV, key string, def T, log *slog.Logger) (T, error) {
	b, err := kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("kv get %q: %w", key, err)
	}

	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		if log == nil {
			log = slog.Default()
		}
		log.Warn("malformed persisted value, using default", "key", key, "err", err)
		return def, nil
	}
	return out, nil
}

func SaveJSON(ctx context.Context, kv KV, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv encode %q: %w", key, err)
	}
	if err := kv.Set(ctx, key, b); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}
