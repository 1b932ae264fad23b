package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"StockCast/internal/domain/models"
	drepo "StockCast/internal/domain/repository"
	"StockCast/internal/service/cache"
	"StockCast/internal/service/ratelimit"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
)

// Option configures the Yahoo client.
type Option func(*Yahoo)

// Yahoo implements the MarketData provider on Yahoo Finance. Calls are
// synchronous and bounded: a semaphore caps in-flight provider requests so a
// slow upstream cannot exhaust server capacity, and a per-ticker token bucket
// keeps request rates polite.
type Yahoo struct {
	timeout      time.Duration
	sem          chan struct{}
	limiter      *ratelimit.Limiter
	rateCapacity float64
	rateRefill   float64
	cache        cache.BytesCache
	quoteTTL     time.Duration
	chartTTL     time.Duration
	metrics      drepo.Metrics
}

// NewYahoo creates a Yahoo Finance market-data client.
func NewYahoo(opts ...Option) *Yahoo {
	y := &Yahoo{
		timeout:      15 * time.Second,
		sem:          make(chan struct{}, 8),
		limiter:      ratelimit.New(),
		rateCapacity: 5,
		rateRefill:   1,
		quoteTTL:     30 * time.Second,
		chartTTL:     15 * time.Minute,
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// WithTimeout sets the per-call provider timeout.
func WithTimeout(d time.Duration) Option {
	return func(y *Yahoo) {
		if d > 0 {
			y.timeout = d
		}
	}
}

// WithMaxConcurrent bounds in-flight provider calls.
func WithMaxConcurrent(n int) Option {
	return func(y *Yahoo) {
		if n > 0 {
			y.sem = make(chan struct{}, n)
		}
	}
}

// WithRate sets the per-ticker token bucket parameters.
func WithRate(capacity, refillPerSec float64) Option {
	return func(y *Yahoo) {
		if capacity > 0 {
			y.rateCapacity = capacity
		}
		if refillPerSec > 0 {
			y.rateRefill = refillPerSec
		}
	}
}

// WithCache enables response caching with the given TTLs.
func WithCache(c cache.BytesCache, quoteTTL, chartTTL time.Duration) Option {
	return func(y *Yahoo) {
		y.cache = c
		if quoteTTL > 0 {
			y.quoteTTL = quoteTTL
		}
		if chartTTL > 0 {
			y.chartTTL = chartTTL
		}
	}
}

// WithMetrics records provider call counts.
func WithMetrics(m drepo.Metrics) Option {
	return func(y *Yahoo) { y.metrics = m }
}

// History returns daily bars for [from, to] in chronological order with
// duplicate dates collapsed. An unknown or delisted ticker yields an empty
// slice, not an error.
func (y *Yahoo) History(ctx context.Context, ticker string, from, to time.Time) ([]models.Bar, error) {
	key := fmt.Sprintf("hist:%s:%s:%s", ticker, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if bars, ok := y.cachedBars(key); ok {
		return bars, nil
	}

	release, err := y.acquire(ctx, ticker)
	if err != nil {
		return nil, err
	}
	defer release()

	y.record("history")

	params := &chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&from),
		End:      datetime.New(&to),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)
	bars := make([]models.Bar, 0, 1300)
	for iter.Next() {
		bar := iter.Bar()
		bars = append(bars, models.Bar{
			Date:  time.Unix(int64(bar.Timestamp), 0).UTC(),
			Close: bar.Close.InexactFloat64(),
		})
	}
	if err := iter.Err(); err != nil {
		y.recordErr("history")
		return nil, fmt.Errorf("fetch historical data for %s: %w", ticker, err)
	}

	bars = normalize(bars)
	y.storeBars(key, bars, y.chartTTL)
	return bars, nil
}

// Quote returns the most recent close for a ticker. A zero price means the
// provider returned no usable result.
func (y *Yahoo) Quote(ctx context.Context, ticker string) (float64, error) {
	key := "quote:" + ticker
	if y.cache != nil {
		if b, ok, _ := y.cache.GetBytes(key); ok {
			var price float64
			if json.Unmarshal(b, &price) == nil {
				return price, nil
			}
		}
	}

	release, err := y.acquire(ctx, ticker)
	if err != nil {
		return 0, err
	}
	defer release()

	y.record("quote")

	q, err := quote.Get(ticker)
	if err != nil {
		y.recordErr("quote")
		return 0, fmt.Errorf("fetch quote for %s: %w", ticker, err)
	}
	if q == nil {
		return 0, nil
	}

	price := q.RegularMarketPrice
	if y.cache != nil && price > 0 {
		if b, err := json.Marshal(price); err == nil {
			_ = y.cache.SetBytes(key, b, y.quoteTTL)
		}
	}
	return price, nil
}

// acquire takes a rate token and a semaphore slot, honoring ctx.
func (y *Yahoo) acquire(ctx context.Context, ticker string) (func(), error) {
	if !y.limiter.Allow(ticker, y.rateCapacity, y.rateRefill) {
		return nil, fmt.Errorf("rate limit exceeded for %s", ticker)
	}

	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	select {
	case y.sem <- struct{}{}:
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}
	return func() {
		<-y.sem
		cancel()
	}, nil
}

func (y *Yahoo) cachedBars(key string) ([]models.Bar, bool) {
	if y.cache == nil {
		return nil, false
	}
	b, ok, err := y.cache.GetBytes(key)
	if !ok || err != nil {
		return nil, false
	}
	var bars []models.Bar
	if err := json.Unmarshal(b, &bars); err != nil {
		return nil, false
	}
	return bars, true
}

func (y *Yahoo) storeBars(key string, bars []models.Bar, ttl time.Duration) {
	if y.cache == nil || len(bars) == 0 {
		return
	}
	if b, err := json.Marshal(bars); err == nil {
		_ = y.cache.SetBytes(key, b, ttl)
	}
}

func (y *Yahoo) record(op string) {
	if y.metrics != nil {
		y.metrics.RecordProviderCall(op)
	}
}

func (y *Yahoo) recordErr(op string) {
	if y.metrics != nil {
		y.metrics.RecordError("provider_" + op)
	}
}

// normalize sorts bars chronologically and drops duplicate dates, keeping the
// last observation for a date.
func normalize(bars []models.Bar) []models.Bar {
	if len(bars) == 0 {
		return bars
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	out := bars[:0]
	for _, b := range bars {
		day := b.Date.Format("2006-01-02")
		if len(out) > 0 && out[len(out)-1].Date.Format("2006-01-02") == day {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

var _ drepo.MarketData = (*Yahoo)(nil)
