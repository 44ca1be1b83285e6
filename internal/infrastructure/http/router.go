package httpapi

import "net/http"

func NewRouter(handler *BillingHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /invoices/paid", handler.ListPaidInvoices)
	mux.HandleFunc("GET /invoices/failed", handler.ListFailedInvoices)
	mux.HandleFunc("GET /audit", handler.ListAudit)
	mux.HandleFunc("POST /dispatch", handler.TriggerDispatch)

	return mux
}
