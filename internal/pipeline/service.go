// Package pipeline runs the odds normalization pipeline: fetch, extract,
// aggregate, rank and build multis.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/aggregator"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/extractor"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/fetcher"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/logger"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/multi"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/registry"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/rounds"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/oddsmath"
)

var (
	// ErrUnknownLeague is returned for a league code missing from the registry
	ErrUnknownLeague = errors.New("unknown league")

	// ErrMatchNotFound is returned when a match id does not exist upstream
	ErrMatchNotFound = errors.New("match not found")
)

// Options tunes the service
type Options struct {
	MinProbability float64
	Window         time.Duration
	EnabledSports  []string
	Concurrency    int

	// MaxQuoteAge drops quotes older than this from aggregation (0 keeps all)
	MaxQuoteAge time.Duration
}

// Service answers every read the HTTP layer and the poller need
type Service struct {
	sports    *registry.SportRegistry
	source    contracts.OddsSource
	fetcher   *fetcher.Fetcher
	weights   contracts.WeightProvider
	generator *multi.Generator
	opts      Options
	log       *logger.Entry

	// now is replaced in tests
	now func() time.Time
}

// New creates a Service
func New(
	sports *registry.SportRegistry,
	source contracts.OddsSource,
	weights contracts.WeightProvider,
	generator *multi.Generator,
	opts Options,
	log *logger.Entry,
) *Service {
	if opts.MinProbability <= 0 || opts.MinProbability >= 1 {
		opts.MinProbability = multi.DefaultMinProbability
	}
	if opts.Window <= 0 {
		opts.Window = 7 * 24 * time.Hour
	}

	return &Service{
		sports:    sports,
		source:    source,
		fetcher:   fetcher.New(source, opts.Concurrency, log),
		weights:   weights,
		generator: generator,
		opts:      opts,
		log:       log.WithComponent("pipeline"),
		now:       time.Now,
	}
}

// MinProbability returns the configured ranking threshold
func (s *Service) MinProbability() float64 {
	return s.opts.MinProbability
}

// Leagues returns the enabled sports in registry order
func (s *Service) Leagues() []models.Sport {
	return s.sports.Enabled(s.opts.EnabledSports)
}

// Outcomes fetches every enabled sport and extracts outcomes for events
// starting within [now, now+window].
func (s *Service) Outcomes(ctx context.Context, now time.Time) []models.Outcome {
	end := now.Add(s.opts.Window)
	outcomes := []models.Outcome{}

	for _, r := range s.fetcher.FetchAll(ctx, s.Leagues()) {
		events := make([]models.Event, 0, len(r.Events))
		for _, e := range r.Events {
			if e.CommenceTime.Before(now) || e.CommenceTime.After(end) {
				continue
			}
			events = append(events, e)
		}
		outcomes = append(outcomes, extractor.ExtractAll(r.Sport, events, s.log)...)
	}

	return outcomes
}

// Multis builds the four multis from the current outcomes
func (s *Service) Multis(ctx context.Context, now time.Time) models.MultiResponse {
	start := time.Now()
	outcomes := s.Outcomes(ctx, now)
	resp := s.generator.Response(outcomes, s.opts.MinProbability, now)

	logger.LogPerformance(s.log, "generate_multis", time.Since(start), logger.Fields{
		"generation_id":   resp.ID,
		"outcomes":        len(outcomes),
		"qualifying":      resp.TotalOutcomesAvailable,
		"min_probability": resp.MinProbability,
	})

	return resp
}

// Matches lists a league's matches with consensus odds. An empty league
// lists every enabled sport. upcomingOnly drops matches that have started;
// round > 0 keeps only that round.
func (s *Service) Matches(ctx context.Context, league string, upcomingOnly bool, round int) ([]models.Match, error) {
	sports, err := s.resolve(league)
	if err != nil {
		return nil, err
	}

	now := s.now()
	matches := []models.Match{}
	for _, r := range s.fetcher.FetchAll(ctx, sports) {
		for _, e := range r.Events {
			if upcomingOnly && e.CommenceTime.Before(now) {
				continue
			}
			matches = append(matches, s.toMatch(r.Sport, e))
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CommenceTime.Before(matches[j].CommenceTime)
	})

	defs := rounds.Partition(matches)
	rounds.Assign(matches, defs)
	if round > 0 {
		matches = rounds.Filter(matches, defs, round)
	}

	return matches, nil
}

// Match returns one match with the per-bookmaker comparison table
func (s *Service) Match(ctx context.Context, league, id string) (*models.MatchDetail, error) {
	sport, ok := s.sports.Get(league)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLeague, league)
	}

	event, err := s.source.FetchEvent(ctx, sport, id)
	if err != nil {
		if errors.Is(err, contracts.ErrEventNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
		}
		return nil, fmt.Errorf("fetch match %s: %w", id, err)
	}

	snapshots := s.snapshots(sport, *event)
	weights := s.weights.ComputeWeights(aggregator.ProviderIDs(snapshots))

	detail := &models.MatchDetail{
		Match:     s.aggregate(sport, *event, snapshots, weights),
		Providers: make([]models.ProviderOdds, 0, len(snapshots)),
	}

	byProvider := make(map[string]models.ProviderSnapshot, len(snapshots))
	for _, snap := range snapshots {
		byProvider[snap.ProviderID] = snap
	}

	for _, q := range event.Quotes {
		snap, ok := byProvider[q.BookmakerID]
		if !ok || !q.LastUpdate.Equal(snap.LastUpdate) {
			continue
		}
		overround, err := oddsmath.CalculateOverround(aggregator.QuoteOdds(q, sport.MarketType))
		if err != nil {
			continue
		}

		row := models.ProviderOdds{
			ProviderID: q.BookmakerID,
			HomeOdds:   q.HomeOdds,
			AwayOdds:   q.AwayOdds,
			HomeProb:   snap.HomeProb,
			AwayProb:   snap.AwayProb,
			DrawProb:   snap.DrawProb,
			Overround:  overround,
			Weight:     weights[q.BookmakerID],
			LastUpdate: q.LastUpdate,
		}
		if snap.DrawProb != nil {
			row.DrawOdds = q.DrawOdds
		}
		detail.Providers = append(detail.Providers, row)
		delete(byProvider, q.BookmakerID)
	}

	return detail, nil
}

// Rounds partitions a league's upcoming matches into rounds
func (s *Service) Rounds(ctx context.Context, league string) ([]models.RoundDefinition, error) {
	matches, err := s.Matches(ctx, league, true, 0)
	if err != nil {
		return nil, err
	}
	return rounds.Partition(matches), nil
}

func (s *Service) resolve(league string) ([]models.Sport, error) {
	if league == "" {
		return s.Leagues(), nil
	}
	sport, ok := s.sports.Get(league)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLeague, league)
	}
	return []models.Sport{sport}, nil
}

func (s *Service) toMatch(sport models.Sport, e models.Event) models.Match {
	snapshots := s.snapshots(sport, e)
	weights := s.weights.ComputeWeights(aggregator.ProviderIDs(snapshots))
	return s.aggregate(sport, e, snapshots, weights)
}

// snapshots normalizes each bookmaker's quote, keeping the latest per
// bookmaker and dropping stale ones. Unusable quotes are logged and skipped.
func (s *Service) snapshots(sport models.Sport, e models.Event) []models.ProviderSnapshot {
	snapshots := make([]models.ProviderSnapshot, 0, len(e.Quotes))
	for _, q := range e.Quotes {
		snap, err := aggregator.SnapshotFromQuote(q, sport.MarketType)
		if err != nil {
			s.log.WithFields(logger.Fields{
				"sport":     sport.Code,
				"event_id":  e.ID,
				"bookmaker": q.BookmakerID,
			}).WithError(err).Debug("skipping quote")
			continue
		}
		snapshots = append(snapshots, snap)
	}
	if s.opts.MaxQuoteAge > 0 {
		snapshots = aggregator.FilterFresh(snapshots, s.now(), s.opts.MaxQuoteAge)
	}
	return aggregator.LatestPerProvider(snapshots)
}

func (s *Service) aggregate(sport models.Sport, e models.Event, snapshots []models.ProviderSnapshot, weights models.WeightMap) models.Match {
	m := models.Match{
		ID:           e.ID,
		League:       sport.Code,
		HomeTeam:     e.HomeTeam,
		AwayTeam:     e.AwayTeam,
		CommenceTime: e.CommenceTime,
	}

	if len(snapshots) == 0 {
		return m
	}

	odds, err := aggregator.Aggregate(snapshots, weights, sport.MarketType)
	if err != nil {
		s.log.WithFields(logger.Fields{
			"sport":    sport.Code,
			"event_id": e.ID,
		}).WithError(err).Warn("aggregation failed")
		return m
	}
	m.Odds = odds

	return m
}
