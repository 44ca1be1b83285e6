package billing

import (
	"context"
	"sync"
	"time"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/audit"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/customer"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infra/logging"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infra/metrics"
)

// PaymentProvider is the slice of the payment gateway the Charger
// needs.
type PaymentProvider interface {
	Charge(ctx context.Context, inv invoice.Invoice) (bool, error)
}

// Charger runs the check-then-charge-then-audit sequence. The mutex
// covers the whole sequence for every invoice: with at-least-once
// delivery the same invoice can arrive at two consumers at once, and
// the status re-check under the lock is the only thing standing
// between that and a double charge.
type Charger struct {
	mu sync.Mutex

	Invoices  invoice.Repository
	Customers customer.Repository
	Audit     audit.Repository
	Provider  PaymentProvider
	Logger    logging.Logger
	Metrics   *metrics.Counters

	// ChargeTimeout bounds one provider call so a hung gateway cannot
	// hold the lock forever.
	ChargeTimeout time.Duration
}

// Charge attempts to collect payment for the invoice, expecting it to
// still be in the given prior status.
//
// It returns (true, nil) when the provider charged and the invoice is
// now PAID, and (false, nil) for every absorbed failure: invoice
// missing, provider declined or errored, or the persisted status no
// longer matches expected (a stale redelivery, skipped without an
// audit row). The only error returned is *CurrencyMismatchError,
// which callers must not retry.
func (c *Charger) Charge(ctx context.Context, invoiceID int64, expected invoice.Status) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	inv, err := c.Invoices.Find(ctx, invoiceID)
	if err != nil {
		c.Logger.Error("invoice lookup failed, dropping charge attempt", map[string]any{
			"invoice_id": invoiceID,
			"error":      err.Error(),
		})
		return false, nil
	}

	cust, err := c.Customers.Find(ctx, inv.CustomerID)
	if err != nil {
		c.Logger.Error("customer lookup failed, dropping charge attempt", map[string]any{
			"invoice_id":  invoiceID,
			"customer_id": inv.CustomerID,
			"error":       err.Error(),
		})
		return false, nil
	}

	// Fail fast here instead of at the provider: a mismatched
	// currency will fail on every retry.
	if cust.Currency != inv.Amount.Currency {
		c.Logger.Error("currency mismatch between invoice and customer", map[string]any{
			"invoice_id":        inv.ID,
			"customer_id":       cust.ID,
			"invoice_currency":  inv.Amount.Currency,
			"customer_currency": cust.Currency,
		})
		return false, &CurrencyMismatchError{InvoiceID: inv.ID, CustomerID: cust.ID}
	}

	if inv.Status != expected {
		c.Metrics.IncSkipped()
		c.Logger.Debug("status moved on, skipping redelivered charge", map[string]any{
			"invoice_id": inv.ID,
			"expected":   expected,
			"actual":     inv.Status,
		})
		return false, nil
	}

	charged := c.callProvider(ctx, *inv)

	c.Metrics.IncAttempted()

	if charged {
		c.Metrics.IncSucceeded()
		c.updateStatus(ctx, inv.ID, invoice.StatusPaid)
	} else {
		c.Metrics.IncFailed()
		// A failed retry is terminal. Persisting RETRY_FAILED inside
		// the critical section is what makes a duplicate retry
		// delivery a skip instead of a third provider call.
		if expected == invoice.StatusFailed {
			c.updateStatus(ctx, inv.ID, invoice.StatusRetryFailed)
		}
	}

	c.appendAudit(ctx, inv.ID, expected, charged)

	c.Logger.Info("charge attempt finished", map[string]any{
		"invoice_id": inv.ID,
		"expected":   expected,
		"charged":    charged,
	})

	return charged, nil
}

func (c *Charger) updateStatus(ctx context.Context, invoiceID int64, status invoice.Status) {
	if err := c.Invoices.UpdateStatus(ctx, invoiceID, status); err != nil {
		c.Logger.Error("status update failed", map[string]any{
			"invoice_id": invoiceID,
			"status":     status,
			"error":      err.Error(),
		})
	}
}

// callProvider absorbs every provider failure, network or otherwise,
// into a false outcome. Retry routing is the caller's decision.
func (c *Charger) callProvider(ctx context.Context, inv invoice.Invoice) bool {
	if c.ChargeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.ChargeTimeout)
		defer cancel()
	}

	charged, err := c.Provider.Charge(ctx, inv)
	if err != nil {
		c.Logger.Error("provider charge errored", map[string]any{
			"invoice_id": inv.ID,
			"error":      err.Error(),
		})
		return false
	}

	return charged
}

// appendAudit writes the single audit row for this attempt. A failure
// on the first strike lands on FAILED; a failure on the retry strike
// is terminal and lands on RETRY_FAILED.
func (c *Charger) appendAudit(ctx context.Context, invoiceID int64, expected invoice.Status, charged bool) {
	to := invoice.StatusPaid
	if !charged {
		if expected == invoice.StatusFailed {
			to = invoice.StatusRetryFailed
		} else {
			to = invoice.StatusFailed
		}
	}

	entry := audit.Entry{
		InvoiceID: invoiceID,
		From:      expected,
		To:        to,
		At:        time.Now().UTC(),
	}

	if err := c.Audit.Append(ctx, entry); err != nil {
		c.Logger.Error("audit append failed", map[string]any{
			"invoice_id": invoiceID,
			"error":      err.Error(),
		})
	}
}
