package consumer

import (
	"context"
	"errors"
	"time"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/application/billing"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infra/logging"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infra/metrics"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infrastructure/channel"
)

// Charger is the slice of the charge engine the consumers need.
type Charger interface {
	Charge(ctx context.Context, invoiceID int64, expected invoice.Status) (bool, error)
}

// Primary drains the invoice topic and makes the first charge
// attempt. Failed attempts are routed to the retry topic; currency
// mismatches are dropped because retrying them cannot help.
type Primary struct {
	Charger    Charger
	Invoices   invoice.Repository
	Consumer   channel.Consumer
	Publisher  channel.Publisher
	Topic      string
	RetryTopic string
	BatchSize  int
	PollWait   time.Duration
	Logger     logging.Logger
	Metrics    *metrics.Counters
}

// RunOnce polls one batch and processes each message independently:
// a message that fails to decode or charge never blocks the rest of
// the batch.
func (p *Primary) RunOnce(ctx context.Context) {
	msgs, err := p.Consumer.Poll(ctx, p.Topic, p.BatchSize, p.PollWait)
	if err != nil {
		p.Logger.Error("polling invoice topic failed", map[string]any{"error": err.Error()})
		return
	}

	for _, msg := range msgs {
		p.handle(ctx, msg)
	}
}

func (p *Primary) handle(ctx context.Context, msg channel.Message) {
	// Every branch acks: with at-least-once delivery a poison message
	// would otherwise be redelivered forever.
	defer func() {
		if err := p.Consumer.Ack(ctx, p.Topic, msg.ID); err != nil {
			p.Logger.Error("ack failed", map[string]any{"message_id": msg.ID, "error": err.Error()})
		}
	}()

	invoiceID, err := billing.DecodeInvoiceID(msg.Value)
	if err != nil {
		p.Logger.Error("dropping undecodable message", map[string]any{
			"message_id": msg.ID,
			"value":      msg.Value,
			"error":      err.Error(),
		})
		return
	}

	charged, err := p.Charger.Charge(ctx, invoiceID, invoice.StatusPending)
	if err != nil {
		var mismatch *billing.CurrencyMismatchError
		if errors.As(err, &mismatch) {
			p.Logger.Error("currency mismatch, not routing to retry", map[string]any{
				"invoice_id":  mismatch.InvoiceID,
				"customer_id": mismatch.CustomerID,
			})
			return
		}
		p.Logger.Error("charge failed", map[string]any{"invoice_id": invoiceID, "error": err.Error()})
		return
	}

	if charged {
		return
	}

	p.routeToRetry(ctx, invoiceID)
}

// routeToRetry marks the invoice FAILED and republishes it. The
// re-fetch distinguishes a genuine charge failure from a stale
// redelivery: an invoice that already reached a terminal status is
// dropped rather than retried.
func (p *Primary) routeToRetry(ctx context.Context, invoiceID int64) {
	inv, err := p.Invoices.Find(ctx, invoiceID)
	if err != nil {
		p.Logger.Error("invoice gone, not routing to retry", map[string]any{
			"invoice_id": invoiceID,
			"error":      err.Error(),
		})
		return
	}

	if inv.Status.Terminal() {
		p.Logger.Debug("invoice already settled, dropping", map[string]any{
			"invoice_id": inv.ID,
			"status":     inv.Status,
		})
		return
	}

	if err := p.Invoices.UpdateStatus(ctx, inv.ID, invoice.StatusFailed); err != nil {
		p.Logger.Error("marking invoice failed errored", map[string]any{
			"invoice_id": inv.ID,
			"error":      err.Error(),
		})
		return
	}
	inv.Status = invoice.StatusFailed

	msg := billing.EncodeInvoice(*inv)
	if err := p.Publisher.Publish(ctx, p.RetryTopic, string(inv.Amount.Currency), msg); err != nil {
		p.Logger.Error("publishing to retry topic failed", map[string]any{
			"invoice_id": inv.ID,
			"error":      err.Error(),
		})
		return
	}

	p.Metrics.IncRetryPublished()
}
