package usecase

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"StockCast/internal/domain/models"
)

type stubBarStore struct {
	bars []models.Bar
	err  error
}

func (s *stubBarStore) StoreBatch(context.Context, string, []models.Bar) error { return nil }

func (s *stubBarStore) Query(context.Context, string, time.Time, time.Time) ([]models.Bar, error) {
	return s.bars, s.err
}

func (s *stubBarStore) Health(context.Context) error { return nil }
func (s *stubBarStore) Close() error                 { return nil }

func TestSeriesFormatsDates(t *testing.T) {
	market := &stubMarket{bars: []models.Bar{
		{Date: time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC), Close: 101.5},
		{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Close: 102.25},
	}}
	h := NewHistory(market, nil, testLogger(t), 5, fixedClock)

	points, err := h.Series(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("points = %d", len(points))
	}
	if points[0].Date != "2026-02-27" || points[0].Close != 101.5 {
		t.Fatalf("points[0] = %+v", points[0])
	}
}

func TestSeriesFallsBackToBarStore(t *testing.T) {
	market := &stubMarket{barsErr: errors.New("provider down")}
	stored := &stubBarStore{bars: []models.Bar{
		{Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Close: 99},
	}}
	h := NewHistory(market, stored, testLogger(t), 5, fixedClock)

	points, err := h.Series(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("fallback did not serve: %v", err)
	}
	if len(points) != 1 || points[0].Date != "2026-01-05" {
		t.Fatalf("points = %+v", points)
	}
}

func TestSeriesFailsWhenFallbackEmpty(t *testing.T) {
	market := &stubMarket{barsErr: errors.New("provider down")}
	h := NewHistory(market, &stubBarStore{}, testLogger(t), 5, fixedClock)

	_, err := h.Series(context.Background(), "AAPL")
	wantStatus(t, err, http.StatusBadRequest)
}

func TestSeriesFailsWithoutFallback(t *testing.T) {
	market := &stubMarket{barsErr: errors.New("provider down")}
	h := NewHistory(market, nil, testLogger(t), 5, fixedClock)

	_, err := h.Series(context.Background(), "AAPL")
	wantAppError(t, err, http.StatusBadRequest, "Failed to fetch historical data: provider down")
}

func TestCompaniesRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewCompanies(path).List()
	wantStatus(t, err, http.StatusInternalServerError)
}

func TestCompaniesMissingFile(t *testing.T) {
	_, err := NewCompanies(filepath.Join(t.TempDir(), "nope.json")).List()
	wantAppError(t, err, http.StatusNotFound, "companies.json not found")
}
