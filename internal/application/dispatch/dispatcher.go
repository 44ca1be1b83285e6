package dispatch

import (
	"context"
	"sync"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/application/billing"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infra/logging"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infra/metrics"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infrastructure/channel"
)

// Dispatcher fans pending invoices out onto the invoice topic. It
// never charges and never mutates invoice state; consumers own the
// actual attempt.
type Dispatcher struct {
	Invoices invoice.Repository
	Channel  channel.Publisher
	Topic    string
	Logger   logging.Logger
	Metrics  *metrics.Counters
}

// Dispatch runs one worker per currency and waits for all of them.
// Publish failures are isolated per invoice: one bad publish neither
// aborts the rest of its currency's batch nor its sibling workers.
func (d *Dispatcher) Dispatch(ctx context.Context) {
	var wg sync.WaitGroup

	for _, currency := range invoice.Currencies() {
		wg.Add(1)
		go func(currency invoice.Currency) {
			defer wg.Done()
			d.dispatchCurrency(ctx, currency)
		}(currency)
	}

	wg.Wait()

	d.Logger.Info("all pending invoices sent for processing", nil)
}

func (d *Dispatcher) dispatchCurrency(ctx context.Context, currency invoice.Currency) {
	pending, err := d.Invoices.FindByStatus(ctx, currency, invoice.StatusPending)
	if err != nil {
		d.Logger.Error("fetching pending invoices failed", map[string]any{
			"currency": currency,
			"error":    err.Error(),
		})
		return
	}

	d.Logger.Info("dispatching pending invoices", map[string]any{
		"currency": currency,
		"count":    len(pending),
	})

	for _, inv := range pending {
		msg := billing.EncodeInvoice(inv)

		if err := d.Channel.Publish(ctx, d.Topic, string(currency), msg); err != nil {
			d.Logger.Error("publishing invoice failed", map[string]any{
				"invoice_id": inv.ID,
				"currency":   currency,
				"error":      err.Error(),
			})
			continue
		}

		d.Metrics.IncPublished()
	}
}
