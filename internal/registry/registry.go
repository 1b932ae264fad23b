// Package registry holds the process-wide mapping of ticker to fitted model.
// It is an explicitly constructed object injected into handlers and services,
// so tests can substitute an in-memory fake.
package registry

import (
	"StockCast/internal/domain/models"
	drepo "StockCast/internal/domain/repository"
	"StockCast/internal/services/features"
	xlogger "StockCast/pkg/logger"

	"sync"
)

// Entry pairs a fitted model with the feature shape it was trained against.
// Entries are immutable once installed; replacement swaps the pointer.
type Entry struct {
	Model    drepo.Regressor
	Features features.FeatureSpec
}

// Registry is the only shared mutable resource in the service. Reads are safe
// under concurrent Put: a reader never observes a half-updated entry.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	logger  *xlogger.Logger
}

// New creates an empty registry.
func New(logger *xlogger.Logger) *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
		logger:  logger,
	}
}

// LoadAll populates the registry from persisted models. Called once at
// startup; per-ticker load failures were already skipped by the store.
func (r *Registry) LoadAll(store drepo.ModelStore) error {
	stored, err := store.LoadAll()
	if err != nil {
		return err
	}
	for _, s := range stored {
		r.Put(s.Ticker, s.Model, specFor(s.Meta))
		if s.Meta == nil {
			r.logger.Warn("model registered without metadata, using legacy features",
				xlogger.String("ticker", s.Ticker))
		}
	}
	r.logger.Info("model registry loaded", xlogger.Int("models", r.Len()))
	return nil
}

// Get returns the entry for a ticker. Ticker equality is case-sensitive: the
// key must match the filename used at training time.
func (r *Registry) Get(ticker string) (*Entry, bool) {
	r.mu.RLock()
	e, ok := r.entries[ticker]
	r.mu.RUnlock()
	return e, ok
}

// Put atomically installs or replaces the entry for a ticker.
func (r *Registry) Put(ticker string, model drepo.Regressor, spec features.FeatureSpec) {
	e := &Entry{Model: model, Features: spec}
	r.mu.Lock()
	r.entries[ticker] = e
	r.mu.Unlock()
}

// Len returns the number of registered tickers.
func (r *Registry) Len() int {
	r.mu.RLock()
	n := len(r.entries)
	r.mu.RUnlock()
	return n
}

func specFor(meta *models.ModelMetadata) features.FeatureSpec {
	if meta == nil {
		return features.LegacyFeatures{}
	}
	return features.CalendarFeatures{
		LastDayIndex: meta.LastDayIndex,
		LastDate:     meta.LastDate,
	}
}
