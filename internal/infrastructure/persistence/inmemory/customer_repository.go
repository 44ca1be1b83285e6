package inmemory

import (
	"context"
	"sync"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/customer"
)

type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[int64]*customer.Customer
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{
		customers: make(map[int64]*customer.Customer),
	}
}

func (r *CustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := *c
	r.customers[c.ID] = &saved
	return nil
}

func (r *CustomerRepository) Find(ctx context.Context, id int64) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[id]
	if !ok {
		return nil, customer.ErrNotFound
	}

	found := *c
	return &found, nil
}
