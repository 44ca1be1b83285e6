package customer

import (
	"context"
	"errors"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
)

var ErrNotFound = errors.New("customer not found")

type Customer struct {
	ID       int64
	Currency invoice.Currency
}

type Repository interface {
	Save(ctx context.Context, c *Customer) error
	Find(ctx context.Context, id int64) (*Customer, error)
}
