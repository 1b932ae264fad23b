package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	drepo "StockCast/internal/domain/repository"
	"StockCast/internal/ml"
	"StockCast/internal/registry"
	"StockCast/internal/services/features"
	xhttp "StockCast/pkg/http"
)

type recordingStore struct {
	ticker string
	meta   models.ModelMetadata
	err    error
	saves  int
}

func (s *recordingStore) Save(ticker string, _ drepo.Regressor, meta models.ModelMetadata) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	s.saves++
	s.ticker = ticker
	s.meta = meta
	return ticker + ".model", ticker + "_meta.json", nil
}

func (s *recordingStore) LoadAll() ([]drepo.StoredModel, error) { return nil, nil }

type recordingBarStore struct {
	batches int
	rows    int
	err     error
}

func (s *recordingBarStore) StoreBatch(_ context.Context, _ string, bars []models.Bar) error {
	if s.err != nil {
		return s.err
	}
	s.batches++
	s.rows += len(bars)
	return nil
}

func (s *recordingBarStore) Query(context.Context, string, time.Time, time.Time) ([]models.Bar, error) {
	return nil, nil
}

func (s *recordingBarStore) Health(context.Context) error { return nil }
func (s *recordingBarStore) Close() error                 { return nil }

type recordingPublisher struct {
	events []models.TrainingEvent
	err    error
}

func (p *recordingPublisher) PublishTrainingEvent(_ context.Context, ev models.TrainingEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type recordingNotifier struct {
	calls int
	err   error
}

func (n *recordingNotifier) TrainingCompleted(context.Context, models.TrainingEvent) error {
	n.calls++
	return n.err
}

func linearBars(n int) []models.Bar {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, models.Bar{Date: base.AddDate(0, 0, i), Close: 100 + float64(i)*0.5})
	}
	return bars
}

func smallParams() ml.Params {
	return ml.Params{Estimators: 25, LearningRate: 0.1, MaxDepth: 3}
}

func newTrainer(t *testing.T, market *stubMarket, store drepo.ModelStore, opts ...TrainerOption) (*Trainer, *registry.Registry) {
	t.Helper()
	logger := testLogger(t)
	reg := registry.New(logger)
	opts = append(opts, WithClock(fixedClock))
	tr := NewTrainer(market, store, reg, noopMetrics{}, logger, smallParams(), 0.8, 5, opts...)
	return tr, reg
}

func TestTrainProviderErrorIsNotFound(t *testing.T) {
	tr, _ := newTrainer(t, &stubMarket{barsErr: errors.New("no chart data")}, &recordingStore{})

	_, err := tr.Train(context.Background(), "ZZZZ")
	wantAppError(t, err, http.StatusNotFound, "No historical data for 'ZZZZ'")
}

func TestTrainEmptySeriesIsNotFound(t *testing.T) {
	tr, _ := newTrainer(t, &stubMarket{}, &recordingStore{})

	_, err := tr.Train(context.Background(), "EMPTY")
	wantAppError(t, err, http.StatusNotFound, "No historical data for 'EMPTY'")
}

func TestTrainAllMissingClosesIsNotFound(t *testing.T) {
	bars := []models.Bar{
		{Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Close: 0},
		{Date: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), Close: -1},
	}
	tr, _ := newTrainer(t, &stubMarket{bars: bars}, &recordingStore{})

	_, err := tr.Train(context.Background(), "BAD")
	wantAppError(t, err, http.StatusNotFound, "No historical data for 'BAD'")
}

func TestTrainPersistsModelAndMetadata(t *testing.T) {
	store := &recordingStore{}
	bars := linearBars(60)
	tr, _ := newTrainer(t, &stubMarket{bars: bars}, store)

	res, err := tr.Train(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != "ok" || res.ModelFile != "AAPL.model" || res.MetaFile != "AAPL_meta.json" {
		t.Fatalf("res = %+v", res)
	}
	if store.saves != 1 {
		t.Fatalf("saves = %d", store.saves)
	}
	if store.meta.LastDayIndex != 60 {
		t.Fatalf("last day index = %d, want 60", store.meta.LastDayIndex)
	}
	if !store.meta.LastDate.Equal(bars[len(bars)-1].Date) {
		t.Fatalf("last date = %v", store.meta.LastDate)
	}
}

func TestTrainDropsMissingClosesBeforeIndexing(t *testing.T) {
	store := &recordingStore{}
	bars := linearBars(50)
	bars[10].Close = 0
	bars[20].Close = -5
	tr, _ := newTrainer(t, &stubMarket{bars: bars}, store)

	if _, err := tr.Train(context.Background(), "AAPL"); err != nil {
		t.Fatal(err)
	}
	if store.meta.LastDayIndex != 48 {
		t.Fatalf("last day index = %d, want 48", store.meta.LastDayIndex)
	}
}

func TestTrainStoreFailureIsInternal(t *testing.T) {
	store := &recordingStore{err: errors.New("disk full")}
	tr, reg := newTrainer(t, &stubMarket{bars: linearBars(40)}, store)

	_, err := tr.Train(context.Background(), "AAPL")
	wantStatus(t, err, http.StatusInternalServerError)
	if _, ok := reg.Get("AAPL"); ok {
		t.Fatal("model installed despite persist failure")
	}
}

func TestTrainInstallsCalendarModel(t *testing.T) {
	tr, reg := newTrainer(t, &stubMarket{bars: linearBars(60)}, &recordingStore{})

	if _, err := tr.Train(context.Background(), "AAPL"); err != nil {
		t.Fatal(err)
	}
	entry, ok := reg.Get("AAPL")
	if !ok {
		t.Fatal("model not installed")
	}
	if entry.Features.Kind() != "calendar" {
		t.Fatalf("feature kind = %q", entry.Features.Kind())
	}
	spec, ok := entry.Features.(features.CalendarFeatures)
	if !ok {
		t.Fatalf("feature type = %T", entry.Features)
	}
	if spec.LastDayIndex != 60 {
		t.Fatalf("last day index = %d", spec.LastDayIndex)
	}
}

func TestTrainThenPredictUsesFreshModel(t *testing.T) {
	market := &stubMarket{bars: linearBars(120), quote: 100}
	tr, reg := newTrainer(t, market, &recordingStore{})
	logger := testLogger(t)
	p := NewPredictor(reg, market, noopMetrics{}, logger, fixedClock)

	_, err := p.Predict(context.Background(), "AAPL", 2027, 1, 1)
	wantAppError(t, err, http.StatusNotFound, "Model for 'AAPL' not found")

	if _, err := tr.Train(context.Background(), "AAPL"); err != nil {
		t.Fatal(err)
	}

	res, err := p.Predict(context.Background(), "AAPL", 2027, 1, 1)
	if err != nil {
		t.Fatalf("predict after train: %v", err)
	}
	// A model fitted on an upward linear trend predicts within the vicinity of
	// the training range, not garbage.
	if res.PredictedPrice <= 0 || res.PredictedPrice > 1000 {
		t.Fatalf("predictedPrice = %v", res.PredictedPrice)
	}
}

func TestTrainRunsSideEffects(t *testing.T) {
	bars := &recordingBarStore{}
	pub := &recordingPublisher{}
	notif := &recordingNotifier{}
	tr, _ := newTrainer(t, &stubMarket{bars: linearBars(60)}, &recordingStore{},
		WithBarStore(bars), WithEventPublisher(pub), WithNotifier(notif))

	if _, err := tr.Train(context.Background(), "AAPL"); err != nil {
		t.Fatal(err)
	}
	if bars.batches != 1 || bars.rows != 60 {
		t.Fatalf("bar store writes = %d batches, %d rows", bars.batches, bars.rows)
	}
	if len(pub.events) != 1 {
		t.Fatalf("events = %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Ticker != "AAPL" || ev.Rows != 60 || ev.LastDayIndex != 60 {
		t.Fatalf("event = %+v", ev)
	}
	if notif.calls != 1 {
		t.Fatalf("notifier calls = %d", notif.calls)
	}
}

func TestTrainSideEffectFailuresAreNonFatal(t *testing.T) {
	bars := &recordingBarStore{err: errors.New("clickhouse down")}
	pub := &recordingPublisher{err: errors.New("kafka down")}
	notif := &recordingNotifier{err: errors.New("webhook 500")}
	tr, reg := newTrainer(t, &stubMarket{bars: linearBars(60)}, &recordingStore{},
		WithBarStore(bars), WithEventPublisher(pub), WithNotifier(notif))

	res, err := tr.Train(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("train failed on side effects: %v", err)
	}
	if res.Status != "ok" {
		t.Fatalf("status = %q", res.Status)
	}
	if _, ok := reg.Get("AAPL"); !ok {
		t.Fatal("model not installed")
	}
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var appErr *xhttp.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error type = %T, want *AppError", err)
	}
	if appErr.Status != status {
		t.Fatalf("status = %d, want %d (message %q)", appErr.Status, status, appErr.Message)
	}
}
