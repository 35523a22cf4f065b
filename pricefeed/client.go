// Package pricefeed quotes the live bitcoin price used by the bank.
// One dink is worth one unit of the configured fiat currency.
package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when the outbound quota is spent and no quote is cached
var ErrRateLimited = errors.New("bitcoin price requests rate limited")

// Config holds the quote endpoint and its limits
type Config struct {
	URL      string
	Currency string
	// CacheTTL is how long a quote is served without asking again
	CacheTTL time.Duration
	// MaxStale bounds how old a cached quote may be when the endpoint fails
	MaxStale          time.Duration
	Timeout           time.Duration
	RequestsPerMinute float64
}

// DefaultConfig returns the limits used in production for the given endpoint
func DefaultConfig(url, currency string) Config {
	return Config{
		URL:               url,
		Currency:          currency,
		CacheTTL:          time.Minute,
		MaxStale:          30 * time.Minute,
		Timeout:           5 * time.Second,
		RequestsPerMinute: 6,
	}
}

// Client fetches the blockchain.info style ticker
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time

	mu         sync.Mutex
	price      decimal.Decimal
	quotedAt   time.Time
	refreshing chan struct{}
}

// NewClient creates a quote client
func NewClient(cfg Config) *Client {
	perSecond := cfg.RequestsPerMinute / 60.0
	if perSecond <= 0 {
		perSecond = 1
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 1),
		now:        time.Now,
	}
}

type tickerEntry struct {
	Last   decimal.Decimal `json:"last"`
	Symbol string          `json:"symbol"`
}

// BitcoinPrice returns the last traded price of one bitcoin. Only one caller
// fetches at a time; the others are served the cached quote while it is within
// MaxStale, or wait for the fetch in flight.
func (c *Client) BitcoinPrice(ctx context.Context) (decimal.Decimal, error) {
	for {
		c.mu.Lock()
		now := c.now()
		if c.fresh(now, c.cfg.CacheTTL) {
			price := c.price
			c.mu.Unlock()
			return price, nil
		}

		if inflight := c.refreshing; inflight != nil {
			if c.fresh(now, c.cfg.MaxStale) {
				price := c.price
				c.mu.Unlock()
				return price, nil
			}
			c.mu.Unlock()
			select {
			case <-inflight:
				continue
			case <-ctx.Done():
				return decimal.Zero, ctx.Err()
			}
		}

		if !c.limiter.AllowN(now, 1) {
			defer c.mu.Unlock()
			if c.fresh(now, c.cfg.MaxStale) {
				return c.price, nil
			}
			return decimal.Zero, ErrRateLimited
		}

		done := make(chan struct{})
		c.refreshing = done
		c.mu.Unlock()

		return c.refresh(ctx, now, done)
	}
}

func (c *Client) refresh(ctx context.Context, now time.Time, done chan struct{}) (decimal.Decimal, error) {
	price, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshing = nil
	close(done)

	if err != nil {
		if c.fresh(now, c.cfg.MaxStale) {
			log.WithFields(log.Fields{
				"error":    err,
				"quotedAt": c.quotedAt,
			}).Warn("Bitcoin quote failed, serving cached price")
			return c.price, nil
		}
		return decimal.Zero, err
	}

	c.price = price
	c.quotedAt = now
	log.WithFields(log.Fields{
		"price":    price.String(),
		"currency": c.cfg.Currency,
	}).Debug("Fetched bitcoin quote")
	return price, nil
}

// LastPrice returns the most recent successful quote at any age
func (c *Client) LastPrice() (decimal.Decimal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.price, !c.quotedAt.IsZero()
}

func (c *Client) fresh(now time.Time, ttl time.Duration) bool {
	return !c.quotedAt.IsZero() && now.Sub(c.quotedAt) < ttl
}

func (c *Client) fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build quote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch bitcoin quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return decimal.Zero, fmt.Errorf("bitcoin quote returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var ticker map[string]tickerEntry
	if err := json.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode bitcoin quote: %w", err)
	}

	entry, ok := ticker[strings.ToUpper(c.cfg.Currency)]
	if !ok {
		return decimal.Zero, fmt.Errorf("bitcoin quote has no %s entry", c.cfg.Currency)
	}
	if !entry.Last.IsPositive() {
		return decimal.Zero, fmt.Errorf("bitcoin quote for %s is not positive: %s", c.cfg.Currency, entry.Last)
	}
	return entry.Last, nil
}
