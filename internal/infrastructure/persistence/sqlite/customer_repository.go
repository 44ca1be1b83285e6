package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/customer"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (id, currency)
		 VALUES (?, ?)`,
		c.ID,
		string(c.Currency),
	)
	return err
}

func (r *CustomerRepository) Find(ctx context.Context, id int64) (*customer.Customer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, currency
		 FROM customers
		 WHERE id = ?`,
		id,
	)

	var c customer.Customer
	var currency string

	if err := row.Scan(&c.ID, &currency); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, err
	}

	c.Currency = invoice.Currency(currency)
	return &c, nil
}
