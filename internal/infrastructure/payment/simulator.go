package payment

import (
	"context"
	"math/rand"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
)

// Simulator stands in for a real provider. Percentages out of 100;
// a roll under NetworkRate errors before the charge is decided.
type Simulator struct {
	SuccessRate int
	NetworkRate int
}

func (s *Simulator) Charge(ctx context.Context, inv invoice.Invoice) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if rand.Intn(100) < s.NetworkRate {
		return false, ErrNetwork
	}

	return rand.Intn(100) < s.SuccessRate, nil
}
