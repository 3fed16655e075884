package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/cache"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/config"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/logger"
	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/pipeline"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

// Service is the read side of the pipeline
type Service interface {
	Leagues() []models.Sport
	Multis(ctx context.Context, now time.Time) models.MultiResponse
	Matches(ctx context.Context, league string, upcomingOnly bool, round int) ([]models.Match, error)
	Match(ctx context.Context, league, id string) (*models.MatchDetail, error)
	Rounds(ctx context.Context, league string) ([]models.RoundDefinition, error)
}

// Cache stores JSON responses by key
type Cache interface {
	Get(ctx context.Context, key string, out interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// LatestSource exposes the poller's most recent generation
type LatestSource interface {
	Latest() *models.MultiResponse
}

// HealthChecker probes a dependency and returns its latency
type HealthChecker interface {
	Health(ctx context.Context) (time.Duration, error)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	svc    Service
	cache  Cache
	ttl    config.CacheConfig
	latest LatestSource
	checks map[string]HealthChecker
	log    *logger.Entry
}

// Option customizes a Handler
type Option func(*Handler)

// WithCache enables response caching
func WithCache(c Cache) Option {
	return func(h *Handler) { h.cache = c }
}

// WithLatest serves multis from the poller when the cache has none
func WithLatest(l LatestSource) Option {
	return func(h *Handler) { h.latest = l }
}

// WithHealthCheck adds a named dependency to /health
func WithHealthCheck(name string, c HealthChecker) Option {
	return func(h *Handler) { h.checks[name] = c }
}

// NewHandler creates a new handler with dependencies
func NewHandler(svc Service, ttl config.CacheConfig, log *logger.Entry, opts ...Option) *Handler {
	h := &Handler{
		svc:    svc,
		ttl:    ttl,
		checks: make(map[string]HealthChecker),
		log:    log.WithComponent("handlers"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HealthCheck reports service health and the state of each dependency
// GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]interface{}, len(h.checks))
	for name, check := range h.checks {
		latency, err := check.Health(ctx)
		if err != nil {
			status = http.StatusServiceUnavailable
			deps[name] = map[string]interface{}{"healthy": false, "error": err.Error()}
			continue
		}
		deps[name] = map[string]interface{}{"healthy": true, "latency_ms": latency.Milliseconds()}
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}

	respondJSON(w, status, map[string]interface{}{
		"status":       state,
		"timestamp":    time.Now().UTC(),
		"service":      "multi-generator",
		"dependencies": deps,
	})
}

// GetLeagues lists the enabled sports
// GET /api/v1/leagues
func (h *Handler) GetLeagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := cached(h, r.Context(), cache.LeaguesKey(), h.ttl.Leagues,
		func(ctx context.Context) ([]models.Sport, error) {
			return h.svc.Leagues(), nil
		})
	if err != nil {
		h.respondServiceError(w, "failed to list leagues", err)
		return
	}

	setCacheControl(w, h.ttl.Leagues)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"leagues": leagues,
		"count":   len(leagues),
	})
}

// GetMatches lists matches with consensus odds
// GET /api/v1/matches?league=&upcoming_only=&round=
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	league := r.URL.Query().Get("league")
	upcomingOnly := parseBoolParam(r, "upcoming_only", true)
	round := parseIntParam(r, "round", 0)

	matches, err := cached(h, r.Context(), cache.MatchesKey(league, upcomingOnly, round), h.ttl.Matches,
		func(ctx context.Context) ([]models.Match, error) {
			return h.svc.Matches(ctx, league, upcomingOnly, round)
		})
	if err != nil {
		h.respondServiceError(w, "failed to retrieve matches", err)
		return
	}

	setCacheControl(w, h.ttl.Matches)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

// GetMatch returns one match with the bookmaker comparison
// GET /api/v1/matches/{matchID}?league=
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	league := r.URL.Query().Get("league")
	if league == "" {
		respondError(w, http.StatusBadRequest, "league is required", nil)
		return
	}

	detail, err := cached(h, r.Context(), cache.MatchKey(league, matchID), h.ttl.Match,
		func(ctx context.Context) (*models.MatchDetail, error) {
			return h.svc.Match(ctx, league, matchID)
		})
	if err != nil {
		h.respondServiceError(w, "failed to retrieve match", err)
		return
	}

	setCacheControl(w, h.ttl.Match)
	respondJSON(w, http.StatusOK, detail)
}

// GetRounds lists a league's rounds
// GET /api/v1/rounds?league=
func (h *Handler) GetRounds(w http.ResponseWriter, r *http.Request) {
	league := r.URL.Query().Get("league")
	if league == "" {
		respondError(w, http.StatusBadRequest, "league is required", nil)
		return
	}

	defs, err := cached(h, r.Context(), cache.RoundsKey(league), h.ttl.Rounds,
		func(ctx context.Context) ([]models.RoundDefinition, error) {
			return h.svc.Rounds(ctx, league)
		})
	if err != nil {
		h.respondServiceError(w, "failed to retrieve rounds", err)
		return
	}

	setCacheControl(w, h.ttl.Rounds)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"league": league,
		"rounds": defs,
		"count":  len(defs),
	})
}

// GetMultis returns the latest generation, generating one on demand when
// neither the cache nor the poller has it
// GET /api/v1/multis
func (h *Handler) GetMultis(w http.ResponseWriter, r *http.Request) {
	resp, err := cached(h, r.Context(), cache.MultisKey(), h.ttl.Multis,
		func(ctx context.Context) (models.MultiResponse, error) {
			if h.latest != nil {
				if latest := h.latest.Latest(); latest != nil {
					return *latest, nil
				}
			}
			return h.svc.Multis(ctx, time.Now().UTC()), nil
		})
	if err != nil {
		h.respondServiceError(w, "failed to generate multis", err)
		return
	}

	setCacheControl(w, h.ttl.Multis)
	respondJSON(w, http.StatusOK, resp)
}

// cached serves key from the cache or calls load and stores its result.
// Cache failures are logged and never fail the request.
func cached[T any](h *Handler, ctx context.Context, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if h.cache != nil {
		var hit T
		err := h.cache.Get(ctx, key, &hit)
		if err == nil {
			return hit, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			h.log.WithField("key", key).WithError(err).Warn("cache read failed")
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, value, ttl); err != nil {
			h.log.WithField("key", key).WithError(err).Warn("cache write failed")
		}
	}

	return value, nil
}

func (h *Handler) respondServiceError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, pipeline.ErrUnknownLeague):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, pipeline.ErrMatchNotFound):
		respondError(w, http.StatusNotFound, "match not found", nil)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.log.WithError(err).Warn(message)
		respondError(w, http.StatusGatewayTimeout, message, err)
	default:
		h.log.WithError(err).Error(message)
		respondError(w, http.StatusBadGateway, message, err)
	}
}

// setCacheControl lets shared caches serve the response for ttl and a stale
// copy for half as long again while revalidating
func setCacheControl(w http.ResponseWriter, ttl time.Duration) {
	secs := int(ttl.Seconds())
	if secs <= 0 {
		w.Header().Set("Cache-Control", "no-store")
		return
	}
	w.Header().Set("Cache-Control", fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d", secs, secs/2))
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func parseBoolParam(r *http.Request, param string, defaultValue bool) bool {
	value, err := strconv.ParseBool(r.URL.Query().Get(param))
	if err != nil {
		return defaultValue
	}
	return value
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	if err != nil {
		errResp.Message = fmt.Sprintf("%s: %v", message, err)
	}

	respondJSON(w, status, errResp)
}
