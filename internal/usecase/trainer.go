package usecase

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
	drepo "StockCast/internal/domain/repository"
	"StockCast/internal/ml"
	"StockCast/internal/registry"
	"StockCast/internal/services/features"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Notifier receives a training-completed callback, e.g. a webhook.
type Notifier interface {
	TrainingCompleted(ctx context.Context, ev models.TrainingEvent) error
}

// TrainerOption wires optional collaborators.
type TrainerOption func(*Trainer)

// Trainer fits and installs a model for one ticker on demand.
type Trainer struct {
	provider     drepo.MarketData
	store        drepo.ModelStore
	reg          *registry.Registry
	metrics      drepo.Metrics
	logger       *xlogger.Logger
	params       ml.Params
	trainRatio   float64
	historyYears int
	now          func() time.Time

	bars     drepo.BarStore
	events   drepo.EventPublisher
	notifier Notifier
}

// NewTrainer creates the training service.
func NewTrainer(
	provider drepo.MarketData,
	store drepo.ModelStore,
	reg *registry.Registry,
	metrics drepo.Metrics,
	logger *xlogger.Logger,
	params ml.Params,
	trainRatio float64,
	historyYears int,
	opts ...TrainerOption,
) *Trainer {
	t := &Trainer{
		provider:     provider,
		store:        store,
		reg:          reg,
		metrics:      metrics,
		logger:       logger,
		params:       params,
		trainRatio:   trainRatio,
		historyYears: historyYears,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WithBarStore persists fetched bars for the historical fallback.
func WithBarStore(s drepo.BarStore) TrainerOption {
	return func(t *Trainer) { t.bars = s }
}

// WithEventPublisher emits a training event after each successful run.
func WithEventPublisher(p drepo.EventPublisher) TrainerOption {
	return func(t *Trainer) { t.events = p }
}

// WithNotifier posts a training-completed webhook.
func WithNotifier(n Notifier) TrainerOption {
	return func(t *Trainer) { t.notifier = n }
}

// WithClock injects a test clock.
func WithClock(now func() time.Time) TrainerOption {
	return func(t *Trainer) { t.now = now }
}

// Train fetches history, fits a fresh model on the chronological first 80%,
// persists model and metadata, and installs the pair into the registry so the
// next prediction request uses it without a restart.
func (t *Trainer) Train(ctx context.Context, ticker string) (*models.TrainResult, error) {
	start := t.now()

	to := t.now()
	from := to.AddDate(-t.historyYears, 0, 0)
	fetched, err := t.provider.History(ctx, ticker, from, to)
	if err != nil {
		t.metrics.RecordTraining(ticker, "failed")
		t.logger.Warn("history fetch failed",
			xlogger.String("ticker", ticker),
			xlogger.Error(err),
		)
		return nil, xhttp.NotFoundErrorf("No historical data for '%s'", ticker)
	}

	retained := features.DropMissingClose(fetched)
	if len(retained) == 0 {
		t.metrics.RecordTraining(ticker, "failed")
		return nil, xhttp.NotFoundErrorf("No historical data for '%s'", ticker)
	}

	x, y := features.TrainingMatrix(retained)

	// Chronological split, no shuffling: time order is the signal.
	split := int(float64(len(x)) * t.trainRatio)
	if split < 1 {
		split = len(x)
	}

	model, err := ml.Fit(denseOf(x[:split]), y[:split], t.params)
	if err != nil {
		t.metrics.RecordTraining(ticker, "failed")
		return nil, xhttp.InternalErrorf("training failed for '%s': %v", ticker, err)
	}

	mse, r2 := t.evaluate(model, x[split:], y[split:])

	last := retained[len(retained)-1]
	meta := models.ModelMetadata{
		LastDayIndex: len(retained),
		LastDate:     last.Date,
	}

	modelFile, metaFile, err := t.store.Save(ticker, model, meta)
	if err != nil {
		t.metrics.RecordTraining(ticker, "failed")
		return nil, xhttp.InternalErrorf("persist model for '%s': %v", ticker, err)
	}

	// Install before responding: persisted files stay the source of truth, the
	// in-memory copy just makes the new model visible without a restart.
	t.reg.Put(ticker, model, features.CalendarFeatures{
		LastDayIndex: meta.LastDayIndex,
		LastDate:     meta.LastDate,
	})

	ev := models.TrainingEvent{
		Ticker:       ticker,
		Rows:         len(retained),
		LastDayIndex: meta.LastDayIndex,
		LastDate:     meta.LastDate.Format("2006-01-02"),
		HoldoutMSE:   mse,
		HoldoutR2:    r2,
		TrainedAt:    t.now().UTC(),
	}
	t.sideEffects(ctx, ticker, retained, ev)

	t.metrics.RecordTraining(ticker, "ok")
	t.metrics.RecordLatency("train", time.Since(start).Seconds())
	t.logger.Info("model trained",
		xlogger.String("ticker", ticker),
		xlogger.Int("rows", len(retained)),
		xlogger.Int("last_day_index", meta.LastDayIndex),
		xlogger.Any("holdout_mse", mse),
		xlogger.Any("holdout_r2", r2),
	)

	return &models.TrainResult{
		Status:    "ok",
		ModelFile: modelFile,
		MetaFile:  metaFile,
	}, nil
}

// evaluate scores the chronological holdout. Reported for observability only;
// the contract does not require the holdout to be scored.
func (t *Trainer) evaluate(model *ml.GBRT, x [][]float64, y []float64) (mse, r2 float64) {
	if len(x) == 0 {
		return 0, 0
	}
	est := make([]float64, len(x))
	for i, row := range x {
		est[i] = model.Predict(row)
		d := est[i] - y[i]
		mse += d * d
	}
	mse /= float64(len(x))
	r2 = stat.RSquaredFrom(est, y, nil)
	return mse, r2
}

// sideEffects runs the optional collaborators. All are non-fatal: a bar-store
// or publisher outage never fails a training response.
func (t *Trainer) sideEffects(ctx context.Context, ticker string, bars []models.Bar, ev models.TrainingEvent) {
	if t.bars != nil {
		if err := t.bars.StoreBatch(ctx, ticker, bars); err != nil {
			t.logger.Warn("bar store write failed",
				xlogger.String("ticker", ticker), xlogger.Error(err))
		}
	}
	if t.events != nil {
		if err := t.events.PublishTrainingEvent(ctx, ev); err != nil {
			t.logger.Warn("training event publish failed",
				xlogger.String("ticker", ticker), xlogger.Error(err))
		}
	}
	if t.notifier != nil {
		if err := t.notifier.TrainingCompleted(ctx, ev); err != nil {
			t.logger.Warn("training webhook failed",
				xlogger.String("ticker", ticker), xlogger.Error(err))
		}
	}
}

func denseOf(rows [][]float64) *mat.Dense {
	if len(rows) == 0 {
		return mat.NewDense(1, 1, nil)
	}
	d := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, row := range rows {
		d.SetRow(i, row)
	}
	return d
}
