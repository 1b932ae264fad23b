package usecase

import (
	"context"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	drepo "StockCast/internal/domain/repository"
	"StockCast/internal/registry"
	"StockCast/internal/services/features"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
	"StockCast/pkg/util"

	"github.com/shopspring/decimal"
)

// Predictor answers prediction requests by combining a registered model's
// output with a freshly fetched current price.
type Predictor struct {
	reg      *registry.Registry
	provider drepo.MarketData
	metrics  drepo.Metrics
	logger   *xlogger.Logger
	now      func() time.Time
}

// NewPredictor creates the prediction service. The clock is injectable for
// tests; nil means time.Now.
func NewPredictor(reg *registry.Registry, provider drepo.MarketData, metrics drepo.Metrics, logger *xlogger.Logger, now func() time.Time) *Predictor {
	if now == nil {
		now = time.Now
	}
	return &Predictor{reg: reg, provider: provider, metrics: metrics, logger: logger, now: now}
}

// Predict validates the target date, builds the feature vector matching the
// model's training-time shape, invokes the model, and attaches the current
// market price. Validation failures are client errors; classified errors pass
// through unchanged; anything else surfaces as Internal with its message.
func (p *Predictor) Predict(ctx context.Context, ticker string, year, month, day int) (*models.PredictionResult, error) {
	start := p.now()

	entry, ok := p.reg.Get(ticker)
	if !ok {
		return nil, xhttp.NotFoundErrorf("Model for '%s' not found", ticker)
	}

	if month < 1 || month > 12 {
		return nil, xhttp.BadRequestError("Month must be between 1 and 12")
	}
	daysInMonth := util.DaysInMonth(year, month)
	if day < 1 || day > daysInMonth {
		return nil, xhttp.BadRequestErrorf("Day must be between 1 and %d for month %d", daysInMonth, month)
	}

	now := p.now()
	target := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if util.CalendarDaysBetween(now, target) < 0 {
		return nil, xhttp.BadRequestError("Cannot predict for past dates")
	}

	vec := entry.Features.Vector(now, target)
	predicted, err := invoke(entry.Model, vec)
	if err != nil {
		return nil, xhttp.InternalError(err.Error())
	}

	current, err := p.provider.Quote(ctx, ticker)
	if err != nil {
		return nil, xhttp.InternalError(err.Error())
	}
	if current <= 0 {
		return nil, xhttp.NotFoundErrorf("Failed to fetch current price for '%s'", ticker)
	}

	predicted = round2(predicted)
	p.metrics.RecordPrediction(entry.Features.Kind(), ticker)
	p.metrics.RecordLastPredicted(ticker, predicted)
	p.metrics.RecordLatency("predict", time.Since(start).Seconds())

	return &models.PredictionResult{
		Ticker:         ticker,
		Year:           year,
		Month:          month,
		Day:            day,
		PredictedPrice: predicted,
		CurrentPrice:   round2(current),
		Confidence:     models.PlaceholderConfidence,
		CreatedAt:      p.now().UTC(),
	}, nil
}

// PredictSimple is the legacy year-only path: fixed single feature, no
// metadata, no current-price fetch.
func (p *Predictor) PredictSimple(ctx context.Context, ticker string, year int) (*models.SimplePrediction, error) {
	entry, ok := p.reg.Get(ticker)
	if !ok {
		return nil, xhttp.NotFoundErrorf("No model found for ticker '%s'", ticker)
	}

	predicted, err := invoke(entry.Model, features.SimpleVector(year))
	if err != nil {
		p.logger.Error("simple prediction failed",
			xlogger.String("ticker", ticker), xlogger.Error(err))
		return nil, xhttp.InternalError("Model prediction failed")
	}

	p.metrics.RecordPrediction("simple", ticker)

	return &models.SimplePrediction{
		Ticker:         ticker,
		Year:           year,
		PredictedPrice: round2(predicted),
	}, nil
}

// invoke evaluates a model, converting a panic inside a model implementation
// into an error so one bad model cannot take down the process.
func invoke(m drepo.Regressor, vec []float64) (out float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model prediction failed: %v", r)
		}
	}()
	return m.Predict(vec), nil
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
