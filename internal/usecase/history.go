package usecase

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
	drepo "StockCast/internal/domain/repository"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
)

// History serves historical close prices for a ticker.
type History struct {
	provider drepo.MarketData
	bars     drepo.BarStore // optional fallback, may be nil
	logger   *xlogger.Logger
	years    int
	now      func() time.Time
}

// NewHistory creates the historical-series service.
func NewHistory(provider drepo.MarketData, bars drepo.BarStore, logger *xlogger.Logger, years int, now func() time.Time) *History {
	if now == nil {
		now = time.Now
	}
	return &History{provider: provider, bars: bars, logger: logger, years: years, now: now}
}

// Series returns (date, close) pairs in chronological order. A provider
// failure falls back to the bar store when one is configured; with no usable
// source the failure reason surfaces as a client error.
func (h *History) Series(ctx context.Context, ticker string) ([]models.PricePoint, error) {
	to := h.now()
	from := to.AddDate(-h.years, 0, 0)

	bars, err := h.provider.History(ctx, ticker, from, to)
	if err != nil {
		if h.bars != nil {
			stored, serr := h.bars.Query(ctx, ticker, from, to)
			if serr == nil && len(stored) > 0 {
				h.logger.Warn("serving historical data from bar store",
					xlogger.String("ticker", ticker), xlogger.Error(err))
				return toPoints(stored), nil
			}
		}
		return nil, xhttp.BadRequestErrorf("Failed to fetch historical data: %v", err)
	}

	return toPoints(bars), nil
}

func toPoints(bars []models.Bar) []models.PricePoint {
	points := make([]models.PricePoint, 0, len(bars))
	for _, b := range bars {
		points = append(points, models.PricePoint{
			Date:  b.Date.Format("2006-01-02"),
			Close: b.Close,
		})
	}
	return points
}
