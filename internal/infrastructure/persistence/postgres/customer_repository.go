package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/customer"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
)

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func (r *CustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO customers (id, currency)
		VALUES ($1, $2)
	`, c.ID, string(c.Currency))
	return err
}

func (r *CustomerRepository) Find(ctx context.Context, id int64) (*customer.Customer, error) {
	var c customer.Customer
	var currency string

	err := r.pool.QueryRow(ctx, `
		SELECT id, currency
		FROM customers
		WHERE id = $1
	`, id).Scan(&c.ID, &currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, err
	}

	c.Currency = invoice.Currency(currency)
	return &c, nil
}
