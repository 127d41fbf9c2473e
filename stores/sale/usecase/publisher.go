package usecase

import (
	"time"

	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/gomarket/base/ctx"
	"github.com/x-xyz/gomarket/base/log"
	"github.com/x-xyz/gomarket/base/metrics"
	"github.com/x-xyz/gomarket/domain/market"
)

// Sink receives committed market events
type Sink interface {
	Name() string
	Handle(c ctx.Ctx, event market.Event) error
}

type PublisherCfg struct {
	Sinks       []Sink
	Workers     int
	QueueLength int
	// Timeout bounds the wait for a free worker
	Timeout time.Duration
}

// Publisher fans events out to every sink on a worker pool. Sinks never block
// the settlement that produced the event.
type Publisher struct {
	sinks   []Sink
	pool    *goroutines.Pool
	timeout time.Duration
	met     metrics.Service
}

func NewPublisher(cfg *PublisherCfg) *Publisher {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.QueueLength <= 0 {
		cfg.QueueLength = 1024
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	return &Publisher{
		sinks:   cfg.Sinks,
		pool:    goroutines.NewPool(cfg.Workers, goroutines.WithTaskQueueLength(cfg.QueueLength), goroutines.WithPreAllocWorkers(cfg.Workers/2)),
		timeout: cfg.Timeout,
		met:     metrics.New("publisher"),
	}
}

func (p *Publisher) Publish(c ctx.Ctx, events ...market.Event) {
	for _, e := range events {
		for _, s := range p.sinks {
			event, sink := e, s
			err := p.pool.ScheduleWithTimeout(p.timeout, func() {
				if err := sink.Handle(c, event); err != nil {
					p.met.BumpSum("sink.failed", 1, "sink", sink.Name())
					c.WithFields(log.Fields{"err": err, "sink": sink.Name(), "type": event.Type}).Error("sink.Handle failed")
				}
			})
			if err != nil {
				p.met.BumpSum("dropped", 1, "sink", sink.Name())
				c.WithFields(log.Fields{"err": err, "sink": sink.Name(), "type": e.Type}).Error("pool.ScheduleWithTimeout failed")
			}
		}
	}
}

// Close waits for queued events and stops the workers
func (p *Publisher) Close() {
	p.pool.Release()
}

type logSink struct{}

// NewLogSink writes every event to the structured log
func NewLogSink() Sink {
	return logSink{}
}

func (logSink) Name() string {
	return "log"
}

func (logSink) Handle(c ctx.Ctx, e market.Event) error {
	fields := log.Fields{
		"type":    e.Type,
		"venue":   e.Venue,
		"asset":   e.Asset,
		"tokenId": e.TokenId,
		"seller":  e.Seller,
	}
	if !e.Actor.IsEmpty() {
		fields["actor"] = e.Actor
	}
	if e.Amount != nil {
		fields["amount"] = e.Amount.String()
	}
	if e.Sale != nil {
		fields["saleId"] = e.Sale.SaleId
		fields["kind"] = e.Sale.Kind
	}
	c.WithFields(fields).Info("market event")
	return nil
}
