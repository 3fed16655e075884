// Package fetcher pulls events for many sports from an odds source in parallel.
package fetcher

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/logger"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

// SportEvents is the fetch result for one sport
type SportEvents struct {
	Sport  models.Sport
	Events []models.Event
	Err    error
}

// Fetcher fans requests for several sports out to an odds source
type Fetcher struct {
	source      contracts.OddsSource
	concurrency int
	log         *logger.Entry
}

// New creates a Fetcher running at most concurrency requests at once
func New(source contracts.OddsSource, concurrency int, log *logger.Entry) *Fetcher {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Fetcher{
		source:      source,
		concurrency: concurrency,
		log:         log.WithComponent("fetcher"),
	}
}

// FetchAll fetches every sport's events in parallel. A sport that fails is
// logged and returned with no events and its error; it never fails the batch.
// Results are in the same order as sports.
func (f *Fetcher) FetchAll(ctx context.Context, sports []models.Sport) []SportEvents {
	start := time.Now()
	results := make([]SportEvents, len(sports))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, sport := range sports {
		i, sport := i, sport
		g.Go(func() error {
			events, err := f.source.FetchEvents(gctx, sport)
			if err != nil {
				f.log.WithField("sport", sport.Code).WithError(err).Warn("fetch failed, treating as no events")
				results[i] = SportEvents{Sport: sport, Events: []models.Event{}, Err: err}
				return nil
			}
			results[i] = SportEvents{Sport: sport, Events: events}
			return nil
		})
	}

	_ = g.Wait()

	total := 0
	for _, r := range results {
		total += len(r.Events)
	}
	logger.LogPerformance(f.log, "fetch_all", time.Since(start), logger.Fields{
		"sports": len(sports),
		"events": total,
	})

	return results
}
