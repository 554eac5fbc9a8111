// Package pihole talks to the Pi-hole v5 web API.
package pihole

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/j-veylop/pihole-sense/internal/logger"
	"github.com/j-veylop/pihole-sense/internal/models"
	"github.com/j-veylop/pihole-sense/internal/render"
)

// Retry defaults.
const (
	DefaultInitialAttempts = 100
	DefaultAttempts        = 10
	DefaultRetryDelay      = time.Second
	DefaultTimeout         = 10 * time.Second
)

const apiQuery = "summary&overTimeData10mins&getQueryTypes&getQuerySources"

// ErrInvalidData is returned when the server answers without the required
// statistics, usually because pihole-FTL is not running.
var ErrInvalidData = errors.New("invalid data returned from server, check if pihole-FTL service is running")

// Client fetches statistics from a Pi-hole server. It is safe for concurrent
// use; the password hash may be replaced while a fetch is running.
type Client struct {
	endpoint   string
	httpClient *http.Client

	initialAttempts int
	attempts        int
	retryDelay      time.Duration
	sleep           func(ctx context.Context, d time.Duration) error

	mu        sync.Mutex
	auth      string
	connected bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry sets the attempt budgets before and after the first successful
// connection, and the delay between attempts.
func WithRetry(initial, steady int, delay time.Duration) Option {
	return func(c *Client) {
		c.initialAttempts = max(initial, 1)
		c.attempts = max(steady, 1)
		c.retryDelay = delay
	}
}

// WithSleep replaces the wait between attempts.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = sleep }
}

// NewClient creates a client for the server at address (host, host:port or a
// full http URL) authenticating with the web password hash.
func NewClient(address, auth string, opts ...Option) (*Client, error) {
	endpoint, err := apiEndpoint(address)
	if err != nil {
		return nil, err
	}
	c := &Client{
		endpoint:        endpoint,
		httpClient:      &http.Client{Timeout: DefaultTimeout},
		initialAttempts: DefaultInitialAttempts,
		attempts:        DefaultAttempts,
		retryDelay:      DefaultRetryDelay,
		sleep:           render.Sleep,
		auth:            auth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func apiEndpoint(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("pi-hole address is empty")
	}
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}
	u, err := url.Parse(address)
	if err != nil {
		return "", fmt.Errorf("invalid pi-hole address %q: %w", address, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid pi-hole address %q: no host", address)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/admin/api.php"
	u.RawQuery = ""
	return u.String(), nil
}

// SetAuth replaces the password hash used for later requests.
func (c *Client) SetAuth(hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auth = hash
}

// Fetch retrieves the current statistics, retrying transport and decoding
// failures. The first connection gets a larger attempt budget. A response
// without the required keys fails immediately with ErrInvalidData.
func (c *Client) Fetch(ctx context.Context) (*models.Snapshot, error) {
	c.mu.Lock()
	connected := c.connected
	c.mu.Unlock()

	budget := c.attempts
	if !connected {
		budget = c.initialAttempts
		logger.Info("Initiating connection with server.", "endpoint", c.endpoint)
	}

	var lastErr error
	for attempt := 1; attempt <= budget; attempt++ {
		snap, err := c.fetchOnce(ctx)
		if err == nil {
			if !connected {
				c.mu.Lock()
				c.connected = true
				c.mu.Unlock()
				logger.Info("Successful connection with server.")
			}
			return snap, nil
		}
		if errors.Is(err, ErrInvalidData) {
			logger.Error("Invalid data returned from server.", "error", err)
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		lastErr = err
		logger.Warn("request to pi-hole failed", "attempt", attempt, "of", budget, "error", err)
		if attempt < budget {
			if err := c.sleep(ctx, c.retryDelay); err != nil {
				return nil, err
			}
		}
	}

	logger.Error("Exceeded max attempts to connect with server.", "attempts", budget)
	return nil, fmt.Errorf("exceeded %d attempts to reach pi-hole: %w", budget, lastErr)
}

func (c *Client) requestURL() string {
	c.mu.Lock()
	auth := c.auth
	c.mu.Unlock()

	q := apiQuery
	if auth != "" {
		q += "&auth=" + url.QueryEscape(auth)
	}
	return c.endpoint + "?" + q
}

func (c *Client) fetchOnce(ctx context.Context) (*models.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web server offline or invalid address: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	return decode(body, time.Now())
}

func decode(body []byte, fetchedAt time.Time) (*models.Snapshot, error) {
	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if err := raw.validate(); err != nil {
		return nil, err
	}

	domains, err := series(*raw.DomainsOverTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	ads, err := series(*raw.AdsOverTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	snap := &models.Snapshot{
		FetchedAt:              fetchedAt,
		Series:                 models.RawSeries{DomainsOverTime: domains, AdsOverTime: ads},
		BlockedPercentageToday: float64(*raw.AdsPercentageToday),
	}
	if len(raw.TopSources) > 0 {
		snap.TopSources = make(map[string]int, len(raw.TopSources))
		for name, v := range raw.TopSources {
			snap.TopSources[name] = int(v)
		}
	}
	if len(raw.QueryTypes) > 0 {
		snap.QueryTypes = make(map[string]float64, len(raw.QueryTypes))
		for name, v := range raw.QueryTypes {
			if !render.KnownQueryType(name) {
				logger.Debug("ignoring unknown query type", "type", name)
				continue
			}
			snap.QueryTypes[name] = float64(v)
		}
		if len(snap.QueryTypes) == 0 {
			snap.QueryTypes = nil
		}
	}
	return snap, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
