package main

import (
	"context"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/customer"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
)

// seedDemoData fills the in-memory store with random customers and
// pending invoices so the pipeline has something to chew on without a
// real upstream invoicing system.
func seedDemoData(ctx context.Context, invoices invoice.Repository, customers customer.Repository) error {
	currencies := invoice.Currencies()

	var invoiceID int64
	for customerID := int64(1); customerID <= 30; customerID++ {
		currency := currencies[rand.Intn(len(currencies))]

		if err := customers.Save(ctx, &customer.Customer{
			ID:       customerID,
			Currency: currency,
		}); err != nil {
			return err
		}

		for range rand.Intn(5) + 1 {
			invoiceID++

			amount := decimal.NewFromFloat(float64(rand.Intn(50000)) / 100)
			if err := invoices.Save(ctx, &invoice.Invoice{
				ID:         invoiceID,
				CustomerID: customerID,
				Amount:     invoice.NewMoney(amount, currency),
				Status:     invoice.StatusPending,
			}); err != nil {
				return err
			}
		}
	}

	return nil
}
