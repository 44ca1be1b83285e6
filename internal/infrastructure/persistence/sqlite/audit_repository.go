package sqlite

import (
	"context"
	"database/sql"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/audit"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Append(ctx context.Context, e audit.Entry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_entries (invoice_id, from_status, to_status, at)
		 VALUES (?, ?, ?, ?)`,
		e.InvoiceID,
		string(e.From),
		string(e.To),
		e.At,
	)
	return err
}

func (r *AuditRepository) List(ctx context.Context) ([]audit.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT invoice_id, from_status, to_status, at
		 FROM audit_entries
		 ORDER BY seq`,
	)
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
