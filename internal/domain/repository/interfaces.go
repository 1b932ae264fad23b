package repository

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
)

// Regressor is the narrow capability exposed by a fitted model. The boosting
// implementation behind it can be swapped or mocked without touching the
// feature builder or the prediction service.
type Regressor interface {
	Predict(features []float64) float64
}

// MarketData is the external market-data provider: time-ordered daily
// observations for a ticker, and a current quote. May return an empty series
// for unknown or delisted tickers.
type MarketData interface {
	History(ctx context.Context, ticker string, from, to time.Time) ([]models.Bar, error)
	Quote(ctx context.Context, ticker string) (float64, error)
}

// ModelStore persists fitted models and their metadata sidecars, one pair of
// files per ticker in a flat directory.
type ModelStore interface {
	Save(ticker string, model Regressor, meta models.ModelMetadata) (modelFile, metaFile string, err error)
	LoadAll() ([]StoredModel, error)
}

// StoredModel is one registry entry recovered from disk. Meta is nil when the
// sidecar was missing or unreadable.
type StoredModel struct {
	Ticker string
	Model  Regressor
	Meta   *models.ModelMetadata
}

// BarStore is optional persistence for fetched daily bars; it backs the
// historical endpoint when the provider is unavailable.
type BarStore interface {
	StoreBatch(ctx context.Context, ticker string, bars []models.Bar) error
	Query(ctx context.Context, ticker string, from, to time.Time) ([]models.Bar, error)
	Health(ctx context.Context) error
	Close() error
}

// EventPublisher emits training lifecycle events to an external stream.
type EventPublisher interface {
	PublishTrainingEvent(ctx context.Context, ev models.TrainingEvent) error
	Close() error
}

// Metrics records service-level measurements.
type Metrics interface {
	RecordPrediction(kind, ticker string)
	RecordTraining(ticker, outcome string)
	RecordProviderCall(op string)
	RecordError(kind string)
	RecordLastPredicted(ticker string, price float64)
	RecordLatency(op string, seconds float64)
}
