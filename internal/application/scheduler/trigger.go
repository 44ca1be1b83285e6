package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rcarvalho-pb/billing_pipeline-go/internal/infra/logging"
)

// Trigger fires Task on the cadence given by Next. Each trigger owns
// its timer; a tick that errors or panics is logged and never stops
// the schedule.
type Trigger struct {
	Name      string
	Task      func(ctx context.Context)
	Next      func(now time.Time) time.Time
	Immediate bool
	Logger    logging.Logger
}

func (t *Trigger) Run(ctx context.Context) {
	if t.Immediate {
		t.fire(ctx)
	}

	for {
		next := t.Next(time.Now())

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			t.fire(ctx)
		}
	}
}

func (t *Trigger) fire(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			t.Logger.Error("trigger tick panicked", map[string]any{
				"trigger": t.Name,
				"panic":   fmt.Sprint(r),
			})
		}
	}()

	t.Task(ctx)
}

// Every returns a Next function for a fixed interval.
func Every(interval time.Duration) func(time.Time) time.Time {
	return func(now time.Time) time.Time {
		return now.Add(interval)
	}
}

// NextMonthStart returns midnight on the first day of the month after
// now, in now's location. Recomputing this on every firing keeps the
// billing cadence anchored to the calendar even when a run starts
// late.
func NextMonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
}
