package consumer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/application/billing"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/application/consumer"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infra/metrics"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infrastructure/channel"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infrastructure/persistence/inmemory"
)

type fakeNotifier struct {
	notified []int64
}

func (f *fakeNotifier) NotifyFailure(ctx context.Context, invoiceID int64) error {
	f.notified = append(f.notified, invoiceID)
	return nil
}

func newRetry(charger *fakeCharger, repo *inmemory.InvoiceRepository, source *fakeConsumer, notifier *fakeNotifier) *consumer.Retry {
	return &consumer.Retry{
		Charger:   charger,
		Invoices:  repo,
		Consumer:  source,
		Notifier:  notifier,
		Topic:     "retry",
		BatchSize: 10,
		PollWait:  time.Millisecond,
		Logger:    &noopLogger{},
		Metrics:   &metrics.Counters{},
	}
}

func TestRetry_ShouldChargeWithFailedExpected(t *testing.T) {
	charger := &fakeCharger{chargeFn: func(int64, invoice.Status) (bool, error) { return true, nil }}
	source := &fakeConsumer{msgs: []channel.Message{{ID: "r1", Key: "EUR", Value: "23|23|FAILED|1000|EUR"}}}
	notifier := &fakeNotifier{}
	repo := inmemory.NewInvoiceRepository()

	r := newRetry(charger, repo, source, notifier)
	r.RunOnce(context.Background())

	require.Equal(t, []chargeCall{{invoiceID: 23, expected: invoice.StatusFailed}}, charger.calls)
	require.Empty(t, notifier.notified)
	require.Equal(t, []string{"r1"}, source.acked)
}

func TestRetry_ShouldEscalate_WhenSecondStrikeFails(t *testing.T) {
	charger := &fakeCharger{chargeFn: func(int64, invoice.Status) (bool, error) { return false, nil }}
	source := &fakeConsumer{msgs: []channel.Message{{ID: "r1", Key: "EUR", Value: "23|23|FAILED|1000|EUR"}}}
	notifier := &fakeNotifier{}
	repo := inmemory.NewInvoiceRepository()
	saveInvoice(t, repo, 23, invoice.StatusRetryFailed)

	r := newRetry(charger, repo, source, notifier)
	r.RunOnce(context.Background())

	require.Equal(t, []int64{23}, notifier.notified)
	require.Equal(t, []string{"r1"}, source.acked)
}

func TestRetry_ShouldNotEscalate_WhenInvoiceAlreadyPaid(t *testing.T) {
	// A redelivered retry message for a paid invoice comes back as a
	// false outcome from the charger's skip; nobody should be paged.
	charger := &fakeCharger{chargeFn: func(int64, invoice.Status) (bool, error) { return false, nil }}
	source := &fakeConsumer{msgs: []channel.Message{{ID: "r1", Key: "EUR", Value: "23|23|FAILED|1000|EUR"}}}
	notifier := &fakeNotifier{}
	repo := inmemory.NewInvoiceRepository()
	saveInvoice(t, repo, 23, invoice.StatusPaid)

	r := newRetry(charger, repo, source, notifier)
	r.RunOnce(context.Background())

	require.Empty(t, notifier.notified)
	require.Equal(t, []string{"r1"}, source.acked)
}

func TestRetry_ShouldNotEscalate_WhenInvoiceVanished(t *testing.T) {
	charger := &fakeCharger{chargeFn: func(int64, invoice.Status) (bool, error) { return false, nil }}
	source := &fakeConsumer{msgs: []channel.Message{{ID: "r1", Key: "EUR", Value: "23|23|FAILED|1000|EUR"}}}
	notifier := &fakeNotifier{}

	r := newRetry(charger, inmemory.NewInvoiceRepository(), source, notifier)
	r.RunOnce(context.Background())

	require.Empty(t, notifier.notified)
	require.Equal(t, []string{"r1"}, source.acked)
}

func TestRetry_ShouldNotEscalate_WhenChargeErrors(t *testing.T) {
	charger := &fakeCharger{chargeFn: func(int64, invoice.Status) (bool, error) {
		return false, &billing.CurrencyMismatchError{InvoiceID: 23, CustomerID: 23}
	}}
	source := &fakeConsumer{msgs: []channel.Message{{ID: "r1", Key: "EUR", Value: "23|23|FAILED|1000|EUR"}}}
	notifier := &fakeNotifier{}
	repo := inmemory.NewInvoiceRepository()

	r := newRetry(charger, repo, source, notifier)
	r.RunOnce(context.Background())

	require.Empty(t, notifier.notified)
	require.Equal(t, []string{"r1"}, source.acked)
}

func TestRetry_ShouldDropMalformedMessages(t *testing.T) {
	charger := &fakeCharger{chargeFn: func(int64, invoice.Status) (bool, error) { return true, nil }}
	source := &fakeConsumer{msgs: []channel.Message{{ID: "bad", Key: "EUR", Value: "garbage"}}}
	notifier := &fakeNotifier{}

	r := newRetry(charger, inmemory.NewInvoiceRepository(), source, notifier)
	r.RunOnce(context.Background())

	require.Empty(t, charger.calls)
	require.Empty(t, notifier.notified)
	require.Equal(t, []string{"bad"}, source.acked)
}
