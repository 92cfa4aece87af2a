package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS invoices (
	external_id TEXT PRIMARY KEY,
	product_id  TEXT NOT NULL DEFAULT '',
	amount      BIGINT NOT NULL,
	payer_email TEXT NOT NULL,
	description TEXT NOT NULL,
	invoice_url TEXT NOT NULL,
	status      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id    TEXT PRIMARY KEY,
	name  TEXT NOT NULL,
	price BIGINT NOT NULL
);
`

// PgxClient adapts a pgxpool.Pool to the Client interface and translates
// driver errors into the package sentinel errors.
type PgxClient struct {
	pool *pgxpool.Pool
}

func NewPgxClient(ctx context.Context, url string) (*PgxClient, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &PgxClient{pool: pool}, nil
}

func (c *PgxClient) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := c.pool.Exec(ctx, query, args...); err != nil {
		return translate(err)
	}
	return nil
}

func (c *PgxClient) QueryRow(ctx context.Context, query string, args ...any) (Row, error) {
	return &pgxRow{row: c.pool.QueryRow(ctx, query, args...)}, nil
}

func (c *PgxClient) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	return &pgxRows{rows: rows}, nil
}

func (c *PgxClient) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *PgxClient) Close() {
	c.pool.Close()
}

type pgxRow struct {
	row pgx.Row
}

func (r *pgxRow) Scan(dest ...any) error {
	if err := r.row.Scan(dest...); err != nil {
		return translate(err)
	}
	return nil
}

type pgxRows struct {
	rows pgx.Rows
}

func (r *pgxRows) Next() bool { return r.rows.Next() }

func (r *pgxRows) Scan(dest ...any) error {
	if err := r.rows.Scan(dest...); err != nil {
		return translate(err)
	}
	return nil
}

func (r *pgxRows) Close() { r.rows.Close() }

func (r *pgxRows) Err() error {
	if err := r.rows.Err(); err != nil {
		return translate(err)
	}
	return nil
}

// 23505 is the unique_violation class, the only constraint the schema relies on.
func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return errors.Join(ErrConflict, err)
	}
	return errors.Join(ErrInternal, err)
}
