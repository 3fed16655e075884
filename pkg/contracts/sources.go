package contracts

import (
	"context"
	"errors"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

// ErrEventNotFound is wrapped by OddsSource.FetchEvent when the event does not exist
var ErrEventNotFound = errors.New("event not found")

// OddsSource supplies events with bookmaker quotes for a sport
type OddsSource interface {
	// FetchEvents returns upcoming events for the upstream sport key (e.g. "soccer_epl")
	FetchEvents(ctx context.Context, sport models.Sport) ([]models.Event, error)

	// FetchEvent returns a single event; implementations return an error wrapping
	// a not-found sentinel when the event does not exist
	FetchEvent(ctx context.Context, sport models.Sport, eventID string) (*models.Event, error)
}

// WeightProvider computes per-provider aggregation weights for one match
type WeightProvider interface {
	// ComputeWeights returns a weight for every provider id given.
	// Weights are non-negative and sum to 1 when providerIDs is non-empty.
	ComputeWeights(providerIDs []string) models.WeightMap
}
