package dispatch_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/application/dispatch"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infra/metrics"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infrastructure/persistence/inmemory"
)

type published struct {
	topic string
	key   string
	value string
}

type fakePublisher struct {
	mu        sync.Mutex
	published []published
	failFn    func(value string) bool
}

func (f *fakePublisher) Publish(ctx context.Context, topic, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFn != nil && f.failFn(value) {
		return errors.New("channel down")
	}

	f.published = append(f.published, published{topic: topic, key: key, value: value})
	return nil
}

func (f *fakePublisher) all() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]published(nil), f.published...)
}

type noopLogger struct{}

func (n *noopLogger) Debug(string, map[string]any) {}
func (n *noopLogger) Info(string, map[string]any)  {}
func (n *noopLogger) Error(string, map[string]any) {}

func addPending(t *testing.T, repo *inmemory.InvoiceRepository, id int64, currency invoice.Currency) {
	t.Helper()

	err := repo.Save(context.Background(), &invoice.Invoice{
		ID:         id,
		CustomerID: id,
		Amount:     invoice.NewMoney(decimal.NewFromInt(100), currency),
		Status:     invoice.StatusPending,
	})
	require.NoError(t, err)
}

func TestDispatcher_ShouldPublishOneMessagePerPendingInvoice(t *testing.T) {
	repo := inmemory.NewInvoiceRepository()
	for id := int64(1); id <= 4; id++ {
		addPending(t, repo, id, invoice.EUR)
	}

	publisher := &fakePublisher{}
	d := &dispatch.Dispatcher{
		Invoices: repo,
		Channel:  publisher,
		Topic:    "invoice",
		Logger:   &noopLogger{},
		Metrics:  &metrics.Counters{},
	}

	d.Dispatch(context.Background())

	msgs := publisher.all()
	require.Len(t, msgs, 4)
	for _, msg := range msgs {
		require.Equal(t, "invoice", msg.topic)
		require.Equal(t, "EUR", msg.key)
	}
}

func TestDispatcher_ShouldKeyMessagesByCurrency_AcrossWorkers(t *testing.T) {
	repo := inmemory.NewInvoiceRepository()
	addPending(t, repo, 23, invoice.EUR)
	addPending(t, repo, 24, invoice.GBP)
	addPending(t, repo, 25, invoice.SEK)

	publisher := &fakePublisher{}
	d := &dispatch.Dispatcher{
		Invoices: repo,
		Channel:  publisher,
		Topic:    "invoice",
		Logger:   &noopLogger{},
		Metrics:  &metrics.Counters{},
	}

	d.Dispatch(context.Background())

	msgs := publisher.all()
	require.Len(t, msgs, 3)

	keys := map[string]int{}
	for _, msg := range msgs {
		keys[msg.key]++
	}
	require.Equal(t, map[string]int{"EUR": 1, "GBP": 1, "SEK": 1}, keys)
}

func TestDispatcher_ShouldSkipPaidInvoices(t *testing.T) {
	repo := inmemory.NewInvoiceRepository()
	addPending(t, repo, 1, invoice.EUR)
	require.NoError(t, repo.UpdateStatus(context.Background(), 1, invoice.StatusPaid))
	addPending(t, repo, 2, invoice.EUR)

	publisher := &fakePublisher{}
	d := &dispatch.Dispatcher{
		Invoices: repo,
		Channel:  publisher,
		Topic:    "invoice",
		Logger:   &noopLogger{},
		Metrics:  &metrics.Counters{},
	}

	d.Dispatch(context.Background())

	msgs := publisher.all()
	require.Len(t, msgs, 1)
	require.Equal(t, "2|2|PENDING|100|EUR", msgs[0].value)
}

func TestDispatcher_ShouldIsolatePublishFailures(t *testing.T) {
	repo := inmemory.NewInvoiceRepository()
	addPending(t, repo, 1, invoice.EUR)
	addPending(t, repo, 2, invoice.EUR)
	addPending(t, repo, 3, invoice.GBP)

	publisher := &fakePublisher{
		failFn: func(value string) bool {
			return value == "1|1|PENDING|100|EUR"
		},
	}
	d := &dispatch.Dispatcher{
		Invoices: repo,
		Channel:  publisher,
		Topic:    "invoice",
		Logger:   &noopLogger{},
		Metrics:  &metrics.Counters{},
	}

	d.Dispatch(context.Background())

	// The failed publish costs exactly one message; the rest of the
	// batch and the other currency's worker still go out.
	msgs := publisher.all()
	require.Len(t, msgs, 2)
}
