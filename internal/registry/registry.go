package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

// SportRegistry manages the sports the service fetches odds for
type SportRegistry struct {
	sports map[string]models.Sport
	order  []string
	mu     sync.RWMutex
}

// NewSportRegistry creates an empty registry
func NewSportRegistry() *SportRegistry {
	return &SportRegistry{
		sports: make(map[string]models.Sport),
	}
}

// NewDefault creates a registry with DefaultSports
func NewDefault() *SportRegistry {
	r, err := FromSports(DefaultSports())
	if err != nil {
		panic(err)
	}
	return r
}

// FromSports creates a registry holding sports in the given order
func FromSports(sports []models.Sport) (*SportRegistry, error) {
	r := NewSportRegistry()
	for _, s := range sports {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a sport to the registry
func (r *SportRegistry) Register(sport models.Sport) error {
	if sport.Code == "" || sport.Key == "" {
		return fmt.Errorf("sport needs a code and an upstream key: %+v", sport)
	}
	if sport.MarketType != models.MarketTypeTwoWay && sport.MarketType != models.MarketTypeThreeWay {
		return fmt.Errorf("sport %s has unknown market type %q", sport.Code, sport.MarketType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	code := strings.ToUpper(sport.Code)
	if _, exists := r.sports[code]; exists {
		return fmt.Errorf("sport %s is already registered", code)
	}

	sport.Code = code
	r.sports[code] = sport
	r.order = append(r.order, code)
	return nil
}

// Get retrieves a sport by code (case-insensitive)
func (r *SportRegistry) Get(code string) (models.Sport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sport, exists := r.sports[strings.ToUpper(code)]
	return sport, exists
}

// All returns the registered sports in registration order
func (r *SportRegistry) All() []models.Sport {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sports := make([]models.Sport, 0, len(r.order))
	for _, code := range r.order {
		sports = append(sports, r.sports[code])
	}
	return sports
}

// Enabled returns the sports whose codes are listed, in registration order.
// An empty list enables every sport.
func (r *SportRegistry) Enabled(codes []string) []models.Sport {
	if len(codes) == 0 {
		return r.All()
	}

	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[strings.ToUpper(c)] = true
	}

	var sports []models.Sport
	for _, s := range r.All() {
		if wanted[s.Code] {
			sports = append(sports, s)
		}
	}
	return sports
}

// Count returns the number of registered sports
func (r *SportRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sports)
}
