package metrics

import "sync/atomic"

type Counters struct {
	ChargesAttempted  uint64
	ChargesSucceeded  uint64
	ChargesFailed     uint64
	ChargesSkipped    uint64
	MessagesPublished uint64
	RetriesPublished  uint64
	Escalations       uint64
}

func (c *Counters) IncAttempted() {
	atomic.AddUint64(&c.ChargesAttempted, 1)
}

func (c *Counters) IncSucceeded() {
	atomic.AddUint64(&c.ChargesSucceeded, 1)
}

func (c *Counters) IncFailed() {
	atomic.AddUint64(&c.ChargesFailed, 1)
}

func (c *Counters) IncSkipped() {
	atomic.AddUint64(&c.ChargesSkipped, 1)
}

func (c *Counters) IncPublished() {
	atomic.AddUint64(&c.MessagesPublished, 1)
}

func (c *Counters) IncRetryPublished() {
	atomic.AddUint64(&c.RetriesPublished, 1)
}

func (c *Counters) IncEscalations() {
	atomic.AddUint64(&c.Escalations, 1)
}
