package repository

import (
    "os"
    "path/filepath"
    "testing"
    "time"

    "StockCast/internal/domain/models"
    "StockCast/internal/ml"
    xlogger "StockCast/pkg/logger"

    "gonum.org/v1/gonum/mat"
)

func fittedModel(t *testing.T) *ml.GBRT {
    t.Helper()
    x := mat.NewDense(30, 1, nil)
    y := make([]float64, 30)
    for i := 0; i < 30; i++ {
        x.Set(i, 0, float64(i+1))
        y[i] = 50 + float64(i)
    }
    m, err := ml.Fit(x, y, ml.Params{Estimators: 10, LearningRate: 0.2, MaxDepth: 2})
    if err != nil {
        t.Fatalf("fit: %v", err)
    }
    return m
}

func storeLogger(t *testing.T) *xlogger.Logger {
    t.Helper()
    l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
    if err != nil {
        t.Fatalf("logger: %v", err)
    }
    return l
}

func TestSaveThenLoadAll(t *testing.T) {
    dir := t.TempDir()
    store := NewFSModelStore(dir, storeLogger(t))

    meta := models.ModelMetadata{
        LastDayIndex: 30,
        LastDate:     time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
    }
    modelFile, metaFile, err := store.Save("AAPL", fittedModel(t), meta)
    if err != nil {
        t.Fatalf("save: %v", err)
    }
    if filepath.Base(modelFile) != "AAPL.model" {
        t.Fatalf("unexpected model file %s", modelFile)
    }
    if filepath.Base(metaFile) != "AAPL_meta.json" {
        t.Fatalf("unexpected meta file %s", metaFile)
    }

    stored, err := store.LoadAll()
    if err != nil {
        t.Fatalf("load all: %v", err)
    }
    if len(stored) != 1 {
        t.Fatalf("expected 1 stored model, got %d", len(stored))
    }
    s := stored[0]
    if s.Ticker != "AAPL" {
        t.Fatalf("ticker %q", s.Ticker)
    }
    if s.Meta == nil || s.Meta.LastDayIndex != 30 {
        t.Fatalf("meta not round-tripped: %+v", s.Meta)
    }
    if !s.Meta.LastDate.Equal(meta.LastDate) {
        t.Fatalf("last_date %v, want %v", s.Meta.LastDate, meta.LastDate)
    }
}

func TestLoadAllSkipsCorruptModel(t *testing.T) {
    dir := t.TempDir()
    store := NewFSModelStore(dir, storeLogger(t))

    if _, _, err := store.Save("GOOD", fittedModel(t), models.ModelMetadata{
        LastDayIndex: 30, LastDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
    }); err != nil {
        t.Fatalf("save: %v", err)
    }
    if err := os.WriteFile(filepath.Join(dir, "BAD.model"), []byte("not json"), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }

    stored, err := store.LoadAll()
    if err != nil {
        t.Fatalf("load all must not abort on a corrupt file: %v", err)
    }
    if len(stored) != 1 || stored[0].Ticker != "GOOD" {
        t.Fatalf("expected only GOOD, got %+v", stored)
    }
}

func TestLoadAllToleratesBrokenSidecar(t *testing.T) {
    dir := t.TempDir()
    store := NewFSModelStore(dir, storeLogger(t))

    if _, _, err := store.Save("MSFT", fittedModel(t), models.ModelMetadata{
        LastDayIndex: 30, LastDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
    }); err != nil {
        t.Fatalf("save: %v", err)
    }
    if err := os.WriteFile(filepath.Join(dir, "MSFT_meta.json"), []byte("{"), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }

    stored, err := store.LoadAll()
    if err != nil {
        t.Fatalf("load all: %v", err)
    }
    if len(stored) != 1 {
        t.Fatalf("ticker must still register, got %d entries", len(stored))
    }
    if stored[0].Meta != nil {
        t.Fatalf("corrupt sidecar must yield absent metadata")
    }
}

func TestLoadAllMissingDir(t *testing.T) {
    store := NewFSModelStore(filepath.Join(t.TempDir(), "nope"), storeLogger(t))
    stored, err := store.LoadAll()
    if err != nil {
        t.Fatalf("missing dir must not be fatal: %v", err)
    }
    if len(stored) != 0 {
        t.Fatalf("expected no models")
    }
}
