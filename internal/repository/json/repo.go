package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"dealfinder/internal/repository"
)

// Repo is a file-backed KV. All keys live in one JSON document that is
// rewritten atomically on every change.
type Repo struct {
	Path string
	Log  *slog.Logger

	mu sync.Mutex
}

var _ repository.KV = (*Repo)(nil)

func New(path string, log *slog.Logger) *Repo {
	if log == nil {
		log = slog.Default()
	}
	return &Repo{Path: path, Log: log}
}

func (r *Repo) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load()
	if err != nil {
		return nil, err
	}
	v, ok := m[key]
	if !ok {
		return nil, repository.ErrKeyNotFound
	}
	return []byte(v), nil
}

func (r *Repo) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load()
	if err != nil {
		return err
	}
	m[key] = string(value)
	if err := r.saveAny(ctx, m); err != nil {
		return err
	}
	r.Log.Debug("kv saved", "path", r.Path, "key", key, "bytes", len(value))
	return nil
}

func (r *Repo) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return r.saveAny(ctx, m)
}

// load reads the document. A missing file is empty; an unreadable document
// is logged and treated as empty so the next write replaces it.
func (r *Repo) load() (map[string]string, error) {
	if r.Path == "" {
		return nil, fmt.Errorf("jsonfile repo: empty path")
	}
	b, err := os.ReadFile(r.Path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	m := map[string]string{}
	if err := json.Unmarshal(b, &m); err != nil {
		r.Log.Warn("kv file is corrupt, starting empty", "path", r.Path, "err", err)
		return map[string]string{}, nil
	}
	return m, nil
}

func (r *Repo) saveAny(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.Path == "" {
		return fmt.Errorf("jsonfile repo: empty path")
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	dir := filepath.Dir(r.Path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := r.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, r.Path); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return nil
}
