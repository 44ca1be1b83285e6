package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/audit"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
	httpapi "github.com/rcarvalho-pb/billing_pipeline-go/internal/infrastructure/http"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infrastructure/persistence/inmemory"
)

func setupHandler(t *testing.T) (*inmemory.InvoiceRepository, *inmemory.AuditRepository, http.Handler) {
	t.Helper()

	invoices := inmemory.NewInvoiceRepository()
	auditRepo := inmemory.NewAuditRepository()

	handler := &httpapi.BillingHandler{
		Invoices: invoices,
		Audit:    auditRepo,
	}

	return invoices, auditRepo, httpapi.NewRouter(handler)
}

func TestListPaidInvoices_ShouldReturnOnlyPaid(t *testing.T) {
	invoices, _, router := setupHandler(t)
	ctx := context.Background()

	require.NoError(t, invoices.Save(ctx, &invoice.Invoice{
		ID:         1,
		CustomerID: 1,
		Amount:     invoice.NewMoney(decimal.NewFromInt(100), invoice.EUR),
		Status:     invoice.StatusPaid,
	}))
	require.NoError(t, invoices.Save(ctx, &invoice.Invoice{
		ID:         2,
		CustomerID: 2,
		Amount:     invoice.NewMoney(decimal.NewFromInt(200), invoice.EUR),
		Status:     invoice.StatusPending,
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/paid", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	require.Equal(t, float64(1), out[0]["id"])
	require.Equal(t, "100", out[0]["amount"])
	require.Equal(t, "PAID", out[0]["status"])
}

func TestListFailedInvoices_ShouldReturnEmptyArray_WhenNoneFailed(t *testing.T) {
	_, _, router := setupHandler(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/invoices/failed", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestListAudit_ShouldReturnEntries(t *testing.T) {
	_, auditRepo, router := setupHandler(t)

	require.NoError(t, auditRepo.Append(context.Background(), audit.Entry{
		InvoiceID: 23,
		From:      invoice.StatusPending,
		To:        invoice.StatusPaid,
		At:        time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	require.Equal(t, float64(23), out[0]["invoice_id"])
	require.Equal(t, "PENDING", out[0]["from"])
	require.Equal(t, "PAID", out[0]["to"])
}
