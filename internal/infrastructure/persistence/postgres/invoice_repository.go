package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
)

type InvoiceRepository struct {
	pool *pgxpool.Pool
}

func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

func (r *InvoiceRepository) Save(ctx context.Context, inv *invoice.Invoice) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO invoices (id, customer_id, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5)
	`,
		inv.ID,
		inv.CustomerID,
		inv.Amount.Value.String(),
		string(inv.Amount.Currency),
		string(inv.Status),
	)
	return err
}

func (r *InvoiceRepository) Find(ctx context.Context, id int64) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	var amount, currency, status string

	err := r.pool.QueryRow(ctx, `
		SELECT id, customer_id, amount::text, currency, status
		FROM invoices
		WHERE id = $1
	`, id).Scan(
		&inv.ID,
		&inv.CustomerID,
		&amount,
		&currency,
		&status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}
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

func (r *InvoiceRepository) FindByStatus(ctx context.Context, currency invoice.Currency, status invoice.Status) ([]invoice.Invoice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, amount::text, currency, status
		FROM invoices
		WHERE currency = $1 AND status = $2
		ORDER BY id
	`, string(currency), string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []invoice.Invoice
	for rows.Next() {
		var inv invoice.Invoice
		var amount, cur, st string

		if err := rows.Scan(&inv.ID, &inv.CustomerID, &amount, &cur, &st); err != nil {
			return nil, err
		}

		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}

		inv.Amount = invoice.NewMoney(value, invoice.Currency(cur))
		inv.Status = invoice.Status(st)
		invoices = append(invoices, inv)
	}

	return invoices, rows.Err()
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id int64, status invoice.Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invoices
		SET status = $1
		WHERE id = $2
	`, string(status), id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return invoice.ErrNotFound
	}

	return nil
}
