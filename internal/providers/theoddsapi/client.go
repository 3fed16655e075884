package theoddsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/XavierBriggs/fortuna/services/multi-generator/internal/logger"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/contracts"
	"github.com/XavierBriggs/fortuna/services/multi-generator/pkg/models"
)

const (
	DefaultBaseURL = "https://api.the-odds-api.com/v4"

	baseRetryWait = 500 * time.Millisecond
)

// ErrEventNotFound is returned when the API has no such event
var ErrEventNotFound = contracts.ErrEventNotFound

// StatusError is a non-retryable HTTP error from the API
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("odds API error: status=%d, body=%s", e.StatusCode, e.Body)
}

// Options configures a Client
type Options struct {
	BaseURL    string
	APIKey     string
	Regions    string
	Markets    string
	OddsFormat string
	RatePerSec float64
	Burst      int
	Timeout    time.Duration
	MaxRetries int
}

// Client fetches head-to-head odds from The Odds API with rate limiting and retries
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	opts      Options
	log       *logger.Entry
	retryWait time.Duration
	userAgent string
}

// New creates a Client. Empty options fall back to production defaults.
func New(opts Options, log *logger.Entry) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Regions == "" {
		opts.Regions = "au"
	}
	if opts.Markets == "" {
		opts.Markets = h2hMarket
	}
	if opts.OddsFormat == "" {
		opts.OddsFormat = "decimal"
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	return &Client{
		http:      &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Burst),
		opts:      opts,
		log:       log.WithComponent("theoddsapi"),
		retryWait: baseRetryWait,
		userAgent: "FortunaMultiGenerator/1.0",
	}
}

// FetchEvents implements contracts.OddsSource
func (c *Client) FetchEvents(ctx context.Context, sport models.Sport) ([]models.Event, error) {
	var wire []Event
	if err := c.get(ctx, c.oddsURL("sports", sport.Key, "odds"), &wire); err != nil {
		return nil, fmt.Errorf("fetching %s events: %w", sport.Key, err)
	}

	events := make([]models.Event, 0, len(wire))
	for _, e := range wire {
		events = append(events, ToEvent(e))
	}

	c.log.WithFields(logger.Fields{"sport": sport.Code, "events": len(events)}).Debug("fetched events")
	return events, nil
}

// FetchEvent implements contracts.OddsSource. A 404 yields ErrEventNotFound.
func (c *Client) FetchEvent(ctx context.Context, sport models.Sport, eventID string) (*models.Event, error) {
	var wire Event
	if err := c.get(ctx, c.oddsURL("sports", sport.Key, "events", eventID, "odds"), &wire); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("fetching event %s: %w", eventID, ErrEventNotFound)
		}
		return nil, fmt.Errorf("fetching event %s: %w", eventID, err)
	}

	event := ToEvent(wire)
	return &event, nil
}

// Health checks the API is reachable and the key is accepted
func (c *Client) Health(ctx context.Context) (time.Duration, error) {
	start := time.Now()

	var sports []SportInfo
	u := fmt.Sprintf("%s/sports?%s", c.opts.BaseURL, url.Values{"apiKey": {c.opts.APIKey}}.Encode())
	if err := c.get(ctx, u, &sports); err != nil {
		return 0, err
	}

	return time.Since(start), nil
}

func (c *Client) oddsURL(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}

	q := url.Values{
		"apiKey":     {c.opts.APIKey},
		"regions":    {c.opts.Regions},
		"markets":    {c.opts.Markets},
		"oddsFormat": {c.opts.OddsFormat},
	}

	return fmt.Sprintf("%s/%s?%s", c.opts.BaseURL, strings.Join(escaped, "/"), q.Encode())
}

// get performs a GET with rate limiting and retries on 429 and 5xx
func (c *Client) get(ctx context.Context, u string, out any) error {
	maxRetries := c.opts.MaxRetries

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries || ctx.Err() != nil {
				return fmt.Errorf("request failed after %d retries: %w", attempt, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("odds API error: status=%d after %d retries", resp.StatusCode, maxRetries)
			}
			c.log.WithFields(logger.Fields{"status": resp.StatusCode, "attempt": attempt + 1}).Warn("retrying odds API request")
			c.sleep(ctx, attempt)
			continue

		case resp.StatusCode >= 400:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep waits with exponential backoff, honouring the context
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * c.retryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
