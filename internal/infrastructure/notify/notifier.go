package notify

import (
	"context"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infra/logging"
)

// Notifier escalates an invoice whose retry attempt also failed. The
// delivery channel (email, ops queue) is owned by whoever implements
// this.
type Notifier interface {
	NotifyFailure(ctx context.Context, invoiceID int64) error
}

// LogNotifier records the escalation in the log and nothing else.
type LogNotifier struct {
	Logger logging.Logger
}

func (n *LogNotifier) NotifyFailure(ctx context.Context, invoiceID int64) error {
	n.Logger.Error("invoice needs follow-up after failed retry", map[string]any{
		"invoice_id": invoiceID,
	})
	return nil
}
