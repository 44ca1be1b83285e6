package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Open(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{

		`CREATE TABLE IF NOT EXISTS customers (
			id BIGINT PRIMARY KEY,
			currency TEXT NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS invoices (
			id BIGINT PRIMARY KEY,
			customer_id BIGINT NOT NULL,
			amount NUMERIC NOT NULL,
			currency TEXT NOT NULL,
			status TEXT NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS audit_entries (
			seq BIGSERIAL PRIMARY KEY,
			invoice_id BIGINT NOT NULL,
			from_status TEXT NOT NULL,
			to_status TEXT NOT NULL,
			at TIMESTAMPTZ NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
