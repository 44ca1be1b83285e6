package invoice

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("invoice not found")

type Repository interface {
	Save(ctx context.Context, inv *Invoice) error
	Find(ctx context.Context, id int64) (*Invoice, error)
	FindByStatus(ctx context.Context, currency Currency, status Status) ([]Invoice, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}
