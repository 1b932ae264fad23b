package registry

import (
    "sync"
    "testing"
    "time"

    "StockCast/internal/domain/models"
    drepo "StockCast/internal/domain/repository"
    "StockCast/internal/services/features"
    xlogger "StockCast/pkg/logger"
)

type constModel float64

func (m constModel) Predict([]float64) float64 { return float64(m) }

type fakeStore struct {
    stored []drepo.StoredModel
    err    error
}

func (s *fakeStore) Save(string, drepo.Regressor, models.ModelMetadata) (string, string, error) {
    return "", "", nil
}

func (s *fakeStore) LoadAll() ([]drepo.StoredModel, error) { return s.stored, s.err }

func testLogger(t *testing.T) *xlogger.Logger {
    t.Helper()
    l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
    if err != nil {
        t.Fatalf("logger: %v", err)
    }
    return l
}

func TestLoadAllRegistersMetadataVariants(t *testing.T) {
    meta := &models.ModelMetadata{
        LastDayIndex: 1250,
        LastDate:     time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
    }
    store := &fakeStore{stored: []drepo.StoredModel{
        {Ticker: "AAPL", Model: constModel(190), Meta: meta},
        {Ticker: "TSLA", Model: constModel(250), Meta: nil},
    }}

    r := New(testLogger(t))
    if err := r.LoadAll(store); err != nil {
        t.Fatalf("load: %v", err)
    }
    if r.Len() != 2 {
        t.Fatalf("expected 2 entries, got %d", r.Len())
    }

    e, ok := r.Get("AAPL")
    if !ok {
        t.Fatalf("AAPL not registered")
    }
    if _, isCal := e.Features.(features.CalendarFeatures); !isCal {
        t.Fatalf("AAPL should use calendar features, got %T", e.Features)
    }

    e, ok = r.Get("TSLA")
    if !ok {
        t.Fatalf("TSLA not registered")
    }
    if _, isLegacy := e.Features.(features.LegacyFeatures); !isLegacy {
        t.Fatalf("TSLA should fall back to legacy features, got %T", e.Features)
    }
}

func TestGetIsCaseSensitive(t *testing.T) {
    r := New(testLogger(t))
    r.Put("RELIANCE.NS", constModel(1), features.LegacyFeatures{})
    if _, ok := r.Get("reliance.ns"); ok {
        t.Fatalf("lookup must be case-sensitive")
    }
    if _, ok := r.Get("RELIANCE.NS"); !ok {
        t.Fatalf("exact key not found")
    }
}

func TestPutReplacesAtomically(t *testing.T) {
    r := New(testLogger(t))
    r.Put("X", constModel(1), features.LegacyFeatures{})

    var wg sync.WaitGroup
    stop := make(chan struct{})
    wg.Add(1)
    go func() {
        defer wg.Done()
        for i := 0; ; i++ {
            select {
            case <-stop:
                return
            default:
            }
            r.Put("X", constModel(float64(i%2)), features.LegacyFeatures{})
        }
    }()

    for i := 0; i < 10000; i++ {
        e, ok := r.Get("X")
        if !ok {
            t.Fatalf("entry disappeared during replacement")
        }
        if e.Model == nil || e.Features == nil {
            t.Fatalf("observed half-updated entry")
        }
        v := e.Model.Predict(nil)
        if v != 0 && v != 1 {
            t.Fatalf("torn read: %v", v)
        }
    }
    close(stop)
    wg.Wait()
}

func TestPutVisibleBeforeReturn(t *testing.T) {
    r := New(testLogger(t))
    r.Put("Y", constModel(42), features.CalendarFeatures{LastDayIndex: 7})
    e, ok := r.Get("Y")
    if !ok || e.Model.Predict(nil) != 42 {
        t.Fatalf("put not immediately observable")
    }
}
