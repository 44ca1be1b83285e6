package consumer

import (
	"context"
	"time"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/application/billing"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infra/logging"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infra/metrics"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infrastructure/channel"
)

// Notifier escalates invoices whose second strike also failed.
type Notifier interface {
	NotifyFailure(ctx context.Context, invoiceID int64) error
}

// Retry drains the retry topic for the second and final automatic
// attempt. A failure here escalates to the notifier; nothing is
// published back onto a topic, which is what keeps the retry loop
// finite.
type Retry struct {
	Charger   Charger
	Invoices  invoice.Repository
	Consumer  channel.Consumer
	Notifier  Notifier
	Topic     string
	BatchSize int
	PollWait  time.Duration
	Logger    logging.Logger
	Metrics   *metrics.Counters
}

func (r *Retry) RunOnce(ctx context.Context) {
	msgs, err := r.Consumer.Poll(ctx, r.Topic, r.BatchSize, r.PollWait)
	if err != nil {
		r.Logger.Error("polling retry topic failed", map[string]any{"error": err.Error()})
		return
	}

	for _, msg := range msgs {
		r.handle(ctx, msg)
	}
}

func (r *Retry) handle(ctx context.Context, msg channel.Message) {
	defer func() {
		if err := r.Consumer.Ack(ctx, r.Topic, msg.ID); err != nil {
			r.Logger.Error("ack failed", map[string]any{"message_id": msg.ID, "error": err.Error()})
		}
	}()

	invoiceID, err := billing.DecodeInvoiceID(msg.Value)
	if err != nil {
		r.Logger.Error("dropping undecodable message", map[string]any{
			"message_id": msg.ID,
			"value":      msg.Value,
			"error":      err.Error(),
		})
		return
	}

	charged, err := r.Charger.Charge(ctx, invoiceID, invoice.StatusFailed)
	if err != nil {
		// Currency mismatches are dropped before retry, so an error
		// here means the ledger changed underneath us. Log and drop.
		r.Logger.Error("retry charge errored", map[string]any{
			"invoice_id": invoiceID,
			"error":      err.Error(),
		})
		return
	}

	if charged {
		return
	}

	r.escalate(ctx, invoiceID)
}

// escalate re-fetches the invoice before paging anyone. A false
// outcome can also be a stale redelivery of an invoice that has since
// been paid; only an invoice still stuck in a failed state gets a
// notification.
func (r *Retry) escalate(ctx context.Context, invoiceID int64) {
	inv, err := r.Invoices.Find(ctx, invoiceID)
	if err != nil {
		r.Logger.Error("invoice gone, not escalating", map[string]any{
			"invoice_id": invoiceID,
			"error":      err.Error(),
		})
		return
	}

	if inv.Status != invoice.StatusFailed && inv.Status != invoice.StatusRetryFailed {
		r.Logger.Debug("invoice moved on, dropping stale retry", map[string]any{
			"invoice_id": inv.ID,
			"status":     inv.Status,
		})
		return
	}

	r.Metrics.IncEscalations()
	if err := r.Notifier.NotifyFailure(ctx, inv.ID); err != nil {
		r.Logger.Error("failure notification errored", map[string]any{
			"invoice_id": inv.ID,
			"error":      err.Error(),
		})
	}
}
