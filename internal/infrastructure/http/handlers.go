package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/application/dispatch"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/audit"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
)

type BillingHandler struct {
	Invoices   invoice.Repository
	Audit      audit.Repository
	Dispatcher *dispatch.Dispatcher
}

type invoiceResponse struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customer_id"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Status     string `json:"status"`
}

type auditResponse struct {
	InvoiceID int64     `json:"invoice_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	At        time.Time `json:"at"`
}

func (h *BillingHandler) ListPaidInvoices(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, invoice.StatusPaid)
}

func (h *BillingHandler) ListFailedInvoices(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, invoice.StatusFailed)
}

// listByStatus aggregates across every currency in the fixed currency
// order, so responses are stable between calls.
func (h *BillingHandler) listByStatus(w http.ResponseWriter, r *http.Request, status invoice.Status) {
	out := []invoiceResponse{}

	for _, currency := range invoice.Currencies() {
		invoices, err := h.Invoices.FindByStatus(r.Context(), currency, status)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		for _, inv := range invoices {
			out = append(out, invoiceResponse{
				ID:         inv.ID,
				CustomerID: inv.CustomerID,
				Amount:     inv.Amount.Value.String(),
				Currency:   string(inv.Amount.Currency),
				Status:     string(inv.Status),
			})
		}
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *BillingHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Audit.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]auditResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditResponse{
			InvoiceID: e.InvoiceID,
			From:      string(e.From),
			To:        string(e.To),
			At:        e.At,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// TriggerDispatch runs one dispatch cycle outside the monthly
// schedule, e.g. after fixing up invoices by hand.
func (h *BillingHandler) TriggerDispatch(w http.ResponseWriter, r *http.Request) {
	h.Dispatcher.Dispatch(r.Context())
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
