// Package extractor turns raw bookmaker quotes for an event into selectable
// outcomes with margin-free probabilities and edges.
package extractor

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/logger"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/oddsmath"
)

// DrawLabel is the selection label of a draw outcome
const DrawLabel = "Draw"

// side collects one selection's prices across bookmakers
type side struct {
	kind          models.SelectionKind
	label         string
	odds          map[string]float64
	sum           float64
	count         int
	best          float64
	bestBookmaker string
}

func newSide(kind models.SelectionKind, label string) *side {
	return &side{kind: kind, label: label, odds: make(map[string]float64)}
}

func (s *side) add(bookmaker string, price float64) {
	s.odds[bookmaker] = price
	s.sum += price
	s.count++
	if price > s.best {
		s.best = price
		s.bestBookmaker = bookmaker
	}
}

func (s *side) mean() float64 {
	return s.sum / float64(s.count)
}

// Extract produces one outcome per selection of the event.
//
// Quotes missing a home or away price are discarded. A quote carrying a
// malformed price (<= 1.0, NaN or infinite) fails the whole event with
// oddsmath.ErrInvalidOdds. The mean price of
// each selection is normalized with the power method; the draw only takes
// part when the sport is three-way and at least one bookmaker priced it.
// Edge is measured against the best price on offer. An event with no usable
// quotes yields no outcomes.
func Extract(sport models.Sport, event models.Event) ([]models.Outcome, error) {
	home := newSide(models.SelectionHome, event.HomeTeam)
	away := newSide(models.SelectionAway, event.AwayTeam)
	draw := newSide(models.SelectionDraw, DrawLabel)

	threeWay := sport.MarketType == models.MarketTypeThreeWay

	for _, q := range event.Quotes {
		if q.HomeOdds == 0 || q.AwayOdds == 0 {
			continue
		}

		prices := []float64{q.HomeOdds, q.AwayOdds}
		withDraw := threeWay && q.HasDraw() && *q.DrawOdds != 0
		if withDraw {
			prices = append(prices, *q.DrawOdds)
		}
		if err := validate(prices); err != nil {
			return nil, fmt.Errorf("event %s, bookmaker %s: %w", event.ID, q.BookmakerID, err)
		}

		home.add(q.BookmakerID, q.HomeOdds)
		away.add(q.BookmakerID, q.AwayOdds)
		if withDraw {
			draw.add(q.BookmakerID, *q.DrawOdds)
		}
	}

	if len(home.odds) == 0 {
		return []models.Outcome{}, nil
	}

	sides := []*side{home, away}
	if len(draw.odds) > 0 {
		sides = append(sides, draw)
	}

	means := make([]float64, len(sides))
	for i, s := range sides {
		means[i] = s.mean()
	}

	fair, err := oddsmath.PowerMethodNormalize(means)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", event.ID, err)
	}

	outcomes := make([]models.Outcome, 0, len(sides))
	for i, s := range sides {
		outcomes = append(outcomes, models.Outcome{
			Sport:           sport.Code,
			SportKey:        sport.Key,
			EventID:         event.ID,
			HomeTeam:        event.HomeTeam,
			AwayTeam:        event.AwayTeam,
			SelectionLabel:  s.label,
			SelectionKind:   s.kind,
			TrueProbability: fair[i],
			Edge:            oddsmath.CalculateEdge(fair[i], s.best),
			BestOdds:        s.best,
			BestBookmaker:   s.bestBookmaker,
			BookmakerOdds:   s.odds,
			CommenceTime:    event.CommenceTime,
		})
	}

	return outcomes, nil
}

func validate(prices []float64) error {
	for _, price := range prices {
		if _, err := oddsmath.DecimalToImpliedProbability(price); err != nil {
			return err
		}
	}
	return nil
}

// ExtractAll extracts outcomes for every event of a sport. An event that
// fails extraction is logged and skipped.
func ExtractAll(sport models.Sport, events []models.Event, log *logger.Entry) []models.Outcome {
	var all []models.Outcome

	for _, event := range events {
		outcomes, err := Extract(sport, event)
		if err != nil {
			log.WithFields(logger.Fields{
				"sport":    sport.Code,
				"event_id": event.ID,
			}).WithError(err).Warn("skipping event")
			continue
		}
		all = append(all, outcomes...)
	}

	return all
}
