package billing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
)

// Wire format shared with any companion consumer, e.g.
// "23|23|PENDING|1000|EUR". Only the invoice id is read back; the
// remaining fields are informational but must keep their position.

const wireFields = 5

var ErrMalformedMessage = errors.New("malformed wire message")

func EncodeInvoice(inv invoice.Invoice) string {
	return fmt.Sprintf("%d|%d|%s|%s|%s",
		inv.ID,
		inv.CustomerID,
		inv.Status,
		inv.Amount.Value.String(),
		inv.Amount.Currency,
	)
}

func DecodeInvoiceID(msg string) (int64, error) {
	fields := strings.Split(msg, "|")
	if len(fields) != wireFields {
		return 0, fmt.Errorf("%w: %d fields in %q", ErrMalformedMessage, len(fields), msg)
	}

	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invoice id %q", ErrMalformedMessage, fields[0])
	}

	return id, nil
}
