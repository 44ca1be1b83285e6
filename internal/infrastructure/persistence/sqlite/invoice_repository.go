package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
)

type InvoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Save(ctx context.Context, inv *invoice.Invoice) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (id, customer_id, amount, currency, status)
		 VALUES (?, ?, ?, ?, ?)`,
		inv.ID,
		inv.CustomerID,
		inv.Amount.Value.String(),
		string(inv.Amount.Currency),
		string(inv.Status),
	)
	return err
}

func (r *InvoiceRepository) Find(ctx context.Context, id int64) (*invoice.Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, customer_id, amount, currency, status
		 FROM invoices
		 WHERE id = ?`,
		id,
	)

	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}
		return nil, err
	}

	return inv, nil
}

func (r *InvoiceRepository) FindByStatus(ctx context.Context, currency invoice.Currency, status invoice.Status) ([]invoice.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, customer_id, amount, currency, status
		 FROM invoices
		 WHERE currency = ? AND status = ?
		 ORDER BY id`,
		string(currency),
		string(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []invoice.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}

	return invoices, rows.Err()
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id int64, status invoice.Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices
		 SET status = ?
		 WHERE id = ?`,
		string(status),
		id,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return invoice.ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	var amount, currency, status string

	if err := row.Scan(&inv.ID, &inv.CustomerID, &amount, &currency, &status); err != nil {
		return nil, err
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}

	inv.Amount = invoice.NewMoney(value, invoice.Currency(currency))
	inv.Status = invoice.Status(status)
	return &inv, nil
}
