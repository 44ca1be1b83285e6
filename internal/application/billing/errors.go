package billing

import "fmt"

// CurrencyMismatchError is the one charge failure that crosses the
// Charger boundary as an error: the invoice is denominated in a
// currency its customer does not hold, which no retry can fix.
// Callers must drop the message instead of routing it to retry.
type CurrencyMismatchError struct {
	InvoiceID  int64
	CustomerID int64
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("invoice %d currency does not match customer %d currency", e.InvoiceID, e.CustomerID)
}
