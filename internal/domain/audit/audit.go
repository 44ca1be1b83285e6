package audit

import (
	"context"
	"time"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
)

// Entry records one charge-attempt outcome. Entries are append-only;
// nothing in the pipeline mutates or deletes them.
type Entry struct {
	InvoiceID int64
	From      invoice.Status
	To        invoice.Status
	At        time.Time
}

type Repository interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context) ([]Entry, error)
}
