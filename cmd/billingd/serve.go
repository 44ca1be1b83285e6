package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/application/scheduler"
	httpapi "github.com/rcarvalho-pb/billing_pipeline-go/internal/infrastructure/http"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the charging pipeline and billing API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	triggers := []*scheduler.Trigger{
		{
			Name:      "dispatch",
			Task:      a.dispatcher.Dispatch,
			Next:      scheduler.NextMonthStart,
			Immediate: true,
			Logger:    a.logger,
		},
		{
			Name:   "primary-consumer",
			Task:   a.primary.RunOnce,
			Next:   scheduler.Every(a.cfg.ConsumerInterval.Std()),
			Logger: a.logger,
		},
		{
			Name:   "retry-consumer",
			Task:   a.retry.RunOnce,
			Next:   scheduler.Every(a.cfg.RetryInterval.Std()),
			Logger: a.logger,
		},
	}

	for _, t := range triggers {
		go t.Run(ctx)
	}

	handler := &httpapi.BillingHandler{
		Invoices:   a.invoices,
		Audit:      a.audit,
		Dispatcher: a.dispatcher,
	}

	server := &http.Server{
		Addr:    a.cfg.HTTPAddr,
		Handler: httpapi.NewRouter(handler),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("billing API listening", map[string]any{"addr": a.cfg.HTTPAddr})
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
