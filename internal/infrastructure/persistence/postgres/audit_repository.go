package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/audit"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Append(ctx context.Context, e audit.Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_entries (invoice_id, from_status, to_status, at)
		VALUES ($1, $2, $3, $4)
	`,
		e.InvoiceID,
		string(e.From),
		string(e.To),
		e.At,
	)
	return err
}

func (r *AuditRepository) List(ctx context.Context) ([]audit.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT invoice_id, from_status, to_status, at
		FROM audit_entries
		ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var from, to string

		if err := rows.Scan(&e.InvoiceID, &from, &to, &e.At); err != nil {
			return nil, err
		}

		e.From = invoice.Status(from)
		e.To = invoice.Status(to)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
