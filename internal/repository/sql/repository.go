// Package sqlrepo stores the order log in SQLite or PostgreSQL.
//
// The table is append-only: rows are inserted at checkout and never updated.
package sqlrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dealfinder/internal/domain/models"
	"dealfinder/internal/repository"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS orders (
    seq         INTEGER PRIMARY KEY AUTOINCREMENT,
    batch       INTEGER NOT NULL,
    order_id    TEXT    NOT NULL UNIQUE,
    user_id     TEXT    NOT NULL,
    store_id    TEXT    NOT NULL,
    status      TEXT    NOT NULL,
    payload     TEXT    NOT NULL,
    created_at  TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user_batch ON orders(user_id, batch);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS orders (
    seq         BIGSERIAL PRIMARY KEY,
    batch       BIGINT      NOT NULL,
    order_id    TEXT        NOT NULL UNIQUE,
    user_id     TEXT        NOT NULL,
    store_id    TEXT        NOT NULL,
    status      TEXT        NOT NULL,
    payload     TEXT        NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user_batch ON orders(user_id, batch);
`

type Repository struct {
	db      *sql.DB
	dialect Dialect
}

var _ repository.Orders = (*Repository)(nil)

// Open connects to the database and applies the schema. For SQLite dsn is
// a file path; for PostgreSQL it is a connection URL.
//
//	repo, err := sqlrepo.Open(ctx, sqlrepo.SQLite, "./data/orders.db")
func Open(ctx context.Context, dialect Dialect, dsn string) (*Repository, error) {
	var (
		db  *sql.DB
		err error
	)

	switch dialect {
	case SQLite:
		db, err = sql.Open("sqlite", fmt.Sprintf(
			"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dsn))
		if err != nil {
			return nil, fmt.Errorf("sqlite: open %q: %w", dsn, err)
		}
		// single writer
		db.SetMaxOpenConns(1)

	case Postgres:
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: open: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

	default:
		return nil, fmt.Errorf("unknown orders dialect %q (expected sqlite|postgres)", dialect)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", dialect, err)
	}

	r := &Repository{db: db, dialect: dialect}
	if err := r.applySchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) applySchema(ctx context.Context) error {
	schema := sqliteSchema
	if r.dialect == Postgres {
		schema = postgresSchema
	}
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: apply schema: %w", r.dialect, err)
		}
	}
	return nil
}

// Append writes one checkout batch in a single transaction.
func (r *Repository) Append(ctx context.Context, batch []models.Order) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", r.dialect, err)
	}
	defer func() { _ = tx.Rollback() }()

	var batchNo int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(batch), 0) + 1 FROM orders`).Scan(&batchNo); err != nil {
		return fmt.Errorf("%s: next batch: %w", r.dialect, err)
	}

	insert := r.rebind(`
		INSERT INTO orders (batch, order_id, user_id, store_id, status, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	for _, o := range batch {
		payload, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("encode order %q: %w", o.OrderID, err)
		}
		_, err = tx.ExecContext(ctx, insert,
			batchNo,
			o.OrderID,
			o.UserID,
			o.StoreID,
			string(o.Status),
			string(payload),
			r.timeArg(o.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("%s: insert order %q: %w", r.dialect, o.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", r.dialect, err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, userID string) ([]models.Order, error) {
	q := `SELECT payload FROM orders ORDER BY batch DESC, seq ASC`
	args := []any{}
	if userID != "" {
		q = r.rebind(`SELECT payload FROM orders WHERE user_id = ? ORDER BY batch DESC, seq ASC`)
		args = append(args, userID)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: list orders: %w", r.dialect, err)
	}
	defer rows.Close()

	out := make([]models.Order, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("%s: scan order: %w", r.dialect, err)
		}
		var o models.Order
		if err := json.Unmarshal([]byte(payload), &o); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id string) (models.Order, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, r.rebind(`SELECT payload FROM orders WHERE order_id = ?`), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, fmt.Errorf("order %q: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("%s: get order %q: %w", r.dialect, id, err)
	}

	var o models.Order
	if err := json.Unmarshal([]byte(payload), &o); err != nil {
		return models.Order{}, fmt.Errorf("decode order %q: %w", id, err)
	}
	return o, nil
}

// SQLite has no datetime type; timestamps are stored as RFC 3339 text.
func (r *Repository) timeArg(t time.Time) any {
	if r.dialect == SQLite {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t.UTC()
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (r *Repository) rebind(q string) string {
	if r.dialect != Postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, ch := range q {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
