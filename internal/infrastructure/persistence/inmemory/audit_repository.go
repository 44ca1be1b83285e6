package inmemory

import (
	"context"
	"slices"
	"sync"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/audit"
)

type AuditRepository struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Append(ctx context.Context, e audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, e)
	return nil
}

func (r *AuditRepository) List(ctx context.Context) ([]audit.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.entries), nil
}
