// Package poller regenerates multis on an interval and fans each generation
// out to the cache, the event stream and websocket clients.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/logger"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

// Generator produces a multi generation
type Generator interface {
	Multis(ctx context.Context, now time.Time) models.MultiResponse
}

// Store caches the latest generation
type Store interface {
	WriteMultis(ctx context.Context, resp models.MultiResponse, ttl time.Duration) error
}

// Publisher writes a generation to the event stream
type Publisher interface {
	Publish(ctx context.Context, resp models.MultiResponse) error
}

// Broadcaster pushes a generation to connected clients
type Broadcaster interface {
	BroadcastGeneration(resp models.MultiResponse)
}

// Options configures a Poller. Store, Publisher and Broadcaster are optional.
type Options struct {
	Interval    time.Duration
	CacheTTL    time.Duration
	Store       Store
	Publisher   Publisher
	Broadcaster Broadcaster
}

// Poller runs the regeneration loop
type Poller struct {
	generator Generator
	opts      Options
	log       *logger.Entry

	mu     sync.RWMutex
	latest *models.MultiResponse
}

// New creates a Poller
func New(generator Generator, opts Options, log *logger.Entry) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = opts.Interval
	}
	return &Poller{
		generator: generator,
		opts:      opts,
		log:       log.WithComponent("poller"),
	}
}

// Run generates immediately and then on every tick until ctx ends
func (p *Poller) Run(ctx context.Context) {
	p.log.WithField("interval", p.opts.Interval.String()).Info("starting poller")

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	p.PollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			p.log.Info("stopping poller")
			return
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce performs one generation cycle. Sink failures are logged and do
// not stop the other sinks.
func (p *Poller) PollOnce(ctx context.Context) models.MultiResponse {
	resp := p.generator.Multis(ctx, time.Now().UTC())

	p.mu.Lock()
	p.latest = &resp
	p.mu.Unlock()

	entry := p.log.WithField("generation_id", resp.ID)

	if p.opts.Store != nil {
		if err := p.opts.Store.WriteMultis(ctx, resp, p.opts.CacheTTL); err != nil {
			entry.WithError(err).Warn("error caching multis")
		}
	}

	if p.opts.Publisher != nil {
		if err := p.opts.Publisher.Publish(ctx, resp); err != nil {
			entry.WithError(err).Warn("error publishing multis")
		}
	}

	if p.opts.Broadcaster != nil {
		p.opts.Broadcaster.BroadcastGeneration(resp)
	}

	entry.WithField("outcomes", resp.TotalOutcomesAvailable).Info("multis generated")

	return resp
}

// Latest returns the most recent generation, or nil before the first one
func (p *Poller) Latest() *models.MultiResponse {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}
