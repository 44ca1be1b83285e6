package payment

import (
	"context"
	"errors"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
)

// ErrNetwork signals a transient transport failure talking to the
// payment provider. Callers treat it as a failed attempt, not a fatal
// error.
var ErrNetwork = errors.New("payment provider network error")

// Provider is the external payment gateway. Charge returns false when
// the account balance did not allow the charge.
type Provider interface {
	Charge(ctx context.Context, inv invoice.Invoice) (bool, error)
}
