package rediskv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dealfinder/internal/repository"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration // 0 keeps values forever
}

// Store keeps session values in redis under "<prefix>:<key>".
type Store struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

var _ repository.KV = (*Store)(nil)

// NewClient connects and pings; the client is closed on ping failure.
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}

func New(client *redis.Client, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "dealfinder"
	}
	return &Store{Client: client, Prefix: prefix, TTL: ttl}
}

func (s *Store) key(k string) string {
	return fmt.Sprintf("%s:%s", s.Prefix, k)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.Client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.Client.Set(ctx, s.key(key), value, s.TTL).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.Client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}
