package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tickerBody = `{
	"USD": {"15m": 64000.5, "last": 64000.5, "buy": 64000.5, "sell": 64000.5, "symbol": "$"},
	"EUR": {"15m": 59000.25, "last": 59000.25, "buy": 59000.25, "sell": 59000.25, "symbol": "€"}
}`

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *fakeClock, *int32) {
	t.Helper()

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := DefaultConfig(server.URL, "eur")
	cfg.RequestsPerMinute = 60
	client := NewClient(cfg)
	clock := &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	client.now = clock.now
	return client, clock, &hits
}

func TestBitcoinPrice_ParsesConfiguredCurrency(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tickerBody))
	})

	price, err := client.BitcoinPrice(context.Background())
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("59000.25")), "got %s", price)
}

func TestBitcoinPrice_ServesCacheWithinTTL(t *testing.T) {
	client, clock, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tickerBody))
	})
	ctx := context.Background()

	_, err := client.BitcoinPrice(ctx)
	require.NoError(t, err)
	clock.advance(30 * time.Second)
	_, err = client.BitcoinPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	clock.advance(time.Minute)
	_, err = client.BitcoinPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestBitcoinPrice_FallsBackToStaleQuote(t *testing.T) {
	var failing atomic.Bool
	client, clock, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		w.Write([]byte(tickerBody))
	})
	ctx := context.Background()

	first, err := client.BitcoinPrice(ctx)
	require.NoError(t, err)

	failing.Store(true)
	clock.advance(5 * time.Minute)
	stale, err := client.BitcoinPrice(ctx)
	require.NoError(t, err)
	assert.True(t, first.Equal(stale))

	clock.advance(time.Hour)
	_, err = client.BitcoinPrice(ctx)
	assert.Error(t, err)
}

func TestBitcoinPrice_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing currency", `{"USD": {"last": 64000}}`},
		{"non positive", `{"EUR": {"last": 0}}`},
		{"malformed", `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			_, err := client.BitcoinPrice(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestBitcoinPrice_RateLimited(t *testing.T) {
	client, clock, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	ctx := context.Background()

	_, err := client.BitcoinPrice(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateLimited)

	clock.advance(100 * time.Millisecond)
	_, err = client.BitcoinPrice(ctx)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestLastPrice_SurvivesOutage(t *testing.T) {
	var failing atomic.Bool
	client, clock, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		w.Write([]byte(tickerBody))
	})
	ctx := context.Background()

	_, ok := client.LastPrice()
	assert.False(t, ok)

	_, err := client.BitcoinPrice(ctx)
	require.NoError(t, err)

	failing.Store(true)
	clock.advance(24 * time.Hour)
	_, err = client.BitcoinPrice(ctx)
	require.Error(t, err)

	last, ok := client.LastPrice()
	require.True(t, ok)
	assert.True(t, last.Equal(decimal.RequireFromString("59000.25")), "got %s", last)
}

func TestBitcoinPrice_SlowRefreshServesCachedQuote(t *testing.T) {
	var blocking atomic.Bool
	release := make(chan struct{})
	client, clock, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if blocking.Load() {
			<-release
			w.Write([]byte(`{"EUR": {"last": 61000}}`))
			return
		}
		w.Write([]byte(tickerBody))
	})
	ctx := context.Background()

	first, err := client.BitcoinPrice(ctx)
	require.NoError(t, err)

	blocking.Store(true)
	clock.advance(2 * time.Minute)

	refreshed := make(chan decimal.Decimal, 1)
	go func() {
		price, err := client.BitcoinPrice(ctx)
		assert.NoError(t, err)
		refreshed <- price
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(hits) == 2 }, 5*time.Second, 10*time.Millisecond)

	cached, err := client.BitcoinPrice(ctx)
	require.NoError(t, err)
	assert.True(t, first.Equal(cached))
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))

	close(release)
	select {
	case price := <-refreshed:
		assert.True(t, price.Equal(decimal.NewFromInt(61000)), "got %s", price)
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not finish")
	}
}

func TestBitcoinPrice_ConcurrentCallersShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	client, _, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(tickerBody))
	})
	ctx := context.Background()

	results := make(chan decimal.Decimal, 2)
	call := func() {
		price, err := client.BitcoinPrice(ctx)
		assert.NoError(t, err)
		results <- price
	}

	go call()
	require.Eventually(t, func() bool { return atomic.LoadInt32(hits) == 1 }, 5*time.Second, 10*time.Millisecond)
	go call()

	close(release)
	for i := 0; i < 2; i++ {
		select {
		case price := <-results:
			assert.True(t, price.Equal(decimal.RequireFromString("59000.25")), "got %s", price)
		case <-time.After(5 * time.Second):
			t.Fatal("caller did not finish")
		}
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}
