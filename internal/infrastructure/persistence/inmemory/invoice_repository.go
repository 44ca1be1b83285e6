package inmemory

import (
	"context"
	"sync"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
)

type InvoiceRepository struct {
	mu       sync.RWMutex
	invoices map[int64]*invoice.Invoice
}

func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{
		invoices: make(map[int64]*invoice.Invoice),
	}
}

func (r *InvoiceRepository) Save(ctx context.Context, inv *invoice.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := *inv
	r.invoices[inv.ID] = &saved
	return nil
}

func (r *InvoiceRepository) Find(ctx context.Context, id int64) (*invoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.invoices[id]
	if !ok {
		return nil, invoice.ErrNotFound
	}

	found := *inv
	return &found, nil
}

func (r *InvoiceRepository) FindByStatus(ctx context.Context, currency invoice.Currency, status invoice.Status) ([]invoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []invoice.Invoice
	for _, inv := range r.invoices {
		if inv.Amount.Currency == currency && inv.Status == status {
			matches = append(matches, *inv)
		}
	}

	return matches, nil
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id int64, status invoice.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.invoices[id]
	if !ok {
		return invoice.ErrNotFound
	}

	inv.Status = status
	return nil
}
