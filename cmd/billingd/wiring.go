package main

import (
	"context"
	"fmt"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/application/billing"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/application/consumer"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/application/dispatch"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/config"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/audit"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/customer"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/domain/invoice"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infra/logging"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infra/metrics"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infrastructure/channel"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infrastructure/notify"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infrastructure/payment"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infrastructure/persistence/inmemory"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infrastructure/persistence/postgres"
	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infrastructure/persistence/sqlite"
)

// app bundles everything a command needs after wiring.
type app struct {
	cfg        config.Config
	logger     logging.Logger
	metrics    *metrics.Counters
	invoices   invoice.Repository
	customers  customer.Repository
	audit      audit.Repository
	charger    *billing.Charger
	dispatcher *dispatch.Dispatcher
	primary    *consumer.Primary
	retry      *consumer.Retry
	close      func()
}

type bus interface {
	channel.Publisher
	channel.Consumer
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	logger := &logging.StdoutLogger{Verbose: cfg.Verbose}
	counters := &metrics.Counters{}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: counters,
		close:   func() {},
	}

	var ch bus

	switch cfg.Store {
	case config.StoreMemory:
		a.invoices = inmemory.NewInvoiceRepository()
		a.customers = inmemory.NewCustomerRepository()
		a.audit = inmemory.NewAuditRepository()
		ch = channel.NewMemory(cfg.Visibility.Std())

		if err := seedDemoData(ctx, a.invoices, a.customers); err != nil {
			return nil, fmt.Errorf("seeding demo data: %w", err)
		}

	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.RunMigrations(db); err != nil {
			return nil, err
		}
		if err := channel.Migrate(db); err != nil {
			return nil, err
		}
		a.invoices = sqlite.NewInvoiceRepository(db)
		a.customers = sqlite.NewCustomerRepository(db)
		a.audit = sqlite.NewAuditRepository(db)
		ch = channel.NewSQLite(db, cfg.Visibility.Std())
		a.close = func() { db.Close() }

	case config.StorePostgres:
		pool, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return nil, err
		}
		a.invoices = postgres.NewInvoiceRepository(pool)
		a.customers = postgres.NewCustomerRepository(pool)
		a.audit = postgres.NewAuditRepository(pool)

		// The channel stays local even with a Postgres ledger; topics
		// are a transport detail, not ledger state.
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			pool.Close()
			return nil, err
		}
		if err := channel.Migrate(db); err != nil {
			pool.Close()
			return nil, err
		}
		ch = channel.NewSQLite(db, cfg.Visibility.Std())
		a.close = func() {
			db.Close()
			pool.Close()
		}

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	provider := &payment.Simulator{
		SuccessRate: cfg.ProviderSuccessRate,
		NetworkRate: cfg.ProviderNetworkRate,
	}

	a.charger = &billing.Charger{
		Invoices:      a.invoices,
		Customers:     a.customers,
		Audit:         a.audit,
		Provider:      provider,
		Logger:        logger,
		Metrics:       counters,
		ChargeTimeout: cfg.ChargeTimeout.Std(),
	}

	a.dispatcher = &dispatch.Dispatcher{
		Invoices: a.invoices,
		Channel:  ch,
		Topic:    cfg.InvoiceTopic,
		Logger:   logger,
		Metrics:  counters,
	}

	a.primary = &consumer.Primary{
		Charger:    a.charger,
		Invoices:   a.invoices,
		Consumer:   ch,
		Publisher:  ch,
		Topic:      cfg.InvoiceTopic,
		RetryTopic: cfg.RetryTopic,
		BatchSize:  cfg.BatchSize,
		PollWait:   cfg.PollWait.Std(),
		Logger:     logger,
		Metrics:    counters,
	}

	a.retry = &consumer.Retry{
		Charger:   a.charger,
		Invoices:  a.invoices,
		Consumer:  ch,
		Notifier:  &notify.LogNotifier{Logger: logger},
		Topic:     cfg.RetryTopic,
		BatchSize: cfg.BatchSize,
		PollWait:  cfg.PollWait.Std(),
		Logger:    logger,
		Metrics:   counters,
	}

	return a, nil
}
