package di

import (
	"context"
	"fmt"
	"time"

	"StockCast/internal/domain/repository"
	"StockCast/internal/handler/api"
	"StockCast/internal/ml"
	"StockCast/internal/registry"
	internalrepo "StockCast/internal/repository"
	icache "StockCast/internal/service/cache"
	"StockCast/internal/service/marketdata"
	"StockCast/internal/service/notify"
	"StockCast/internal/usecase"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	pkgkafka "StockCast/pkg/kafka"
	"StockCast/pkg/logger"
	"StockCast/pkg/metrics"
	"StockCast/pkg/server"
)

// ProvideLogger creates the application logger. When Kafka is enabled with a
// log topic, error logs are aggregated and shipped there.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	if producer != nil && cfg.Kafka.LogTopic != "" {
		l.AddCollector(&logger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogTopic,
			Publisher:      producerPublisher{producer},
		})
	}

	return l, nil
}

// producerPublisher adapts the Kafka producer to the log collector's
// Publisher interface.
type producerPublisher struct {
	producer *pkgkafka.Producer
}

func (p producerPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache picks the provider-response cache backend. Redis when
// configured, otherwise an in-process TTL cache.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideMarketData creates the Yahoo Finance provider.
func ProvideMarketData(cfg *config.Config, c icache.BytesCache, m repository.Metrics) repository.MarketData {
	return marketdata.NewYahoo(
		marketdata.WithTimeout(cfg.Provider.Timeout),
		marketdata.WithMaxConcurrent(cfg.Provider.MaxConcurrent),
		marketdata.WithRate(cfg.Provider.RateCapacity, cfg.Provider.RateRefillSec),
		marketdata.WithCache(c, cfg.Provider.QuoteCacheTTL, cfg.Provider.ChartCacheTTL),
		marketdata.WithMetrics(m),
	)
}

// ProvideModelStore creates the filesystem model store.
func ProvideModelStore(cfg *config.Config, l *logger.Logger) repository.ModelStore {
	return internalrepo.NewFSModelStore(cfg.Models.Dir, l)
}

// ProvideRegistry builds the in-memory model registry and loads every
// persisted model into it.
func ProvideRegistry(store repository.ModelStore, l *logger.Logger) (*registry.Registry, error) {
	reg := registry.New(l)
	if err := reg.LoadAll(store); err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}
	return reg, nil
}

// ProvideClickHouseClient creates a ClickHouse client when enabled, nil
// otherwise. The bars table doubles stored dates: one row per (ticker, day).
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".daily_bars (ticker String, d Date, close Float64) ENGINE=ReplacingMergeTree ORDER BY (ticker, d)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideBarStore creates the ClickHouse bar store when a client exists.
func ProvideBarStore(client *pkgch.Client, cfg *config.Config) repository.BarStore {
	if client == nil {
		return nil
	}
	return internalrepo.NewClickHouseBarStore(client.DB(), cfg.ClickHouse.Database+".daily_bars")
}

// ProvideKafkaProducer creates a Kafka producer when enabled, nil otherwise.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideEventPublisher creates the training-event publisher when a producer
// exists.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
}

// ProvidePredictor creates the prediction use case.
func ProvidePredictor(reg *registry.Registry, provider repository.MarketData, m repository.Metrics, l *logger.Logger) *usecase.Predictor {
	return usecase.NewPredictor(reg, provider, m, l, nil)
}

// ProvideTrainer creates the training use case with whatever optional
// collaborators are configured.
func ProvideTrainer(
	provider repository.MarketData,
	store repository.ModelStore,
	reg *registry.Registry,
	m repository.Metrics,
	l *logger.Logger,
	bars repository.BarStore,
	events repository.EventPublisher,
	cfg *config.Config,
) *usecase.Trainer {
	opts := []usecase.TrainerOption{}
	if bars != nil {
		opts = append(opts, usecase.WithBarStore(bars))
	}
	if events != nil {
		opts = append(opts, usecase.WithEventPublisher(events))
	}
	if cfg.Training.WebhookURL != "" {
		opts = append(opts, usecase.WithNotifier(notify.NewWebhook(cfg.Training.WebhookURL, 10*time.Second)))
	}

	return usecase.NewTrainer(
		provider, store, reg, m, l,
		ml.Params{
			Estimators:   cfg.Training.Estimators,
			LearningRate: cfg.Training.LearningRate,
			MaxDepth:     cfg.Training.MaxDepth,
		},
		cfg.Training.TrainRatio,
		cfg.Provider.HistoryYears,
		opts...,
	)
}

// ProvideHistory creates the historical-series use case.
func ProvideHistory(provider repository.MarketData, bars repository.BarStore, l *logger.Logger, cfg *config.Config) *usecase.History {
	return usecase.NewHistory(provider, bars, l, cfg.Provider.HistoryYears, nil)
}

// ProvideCompanies creates the companies-list use case.
func ProvideCompanies(cfg *config.Config) *usecase.Companies {
	return usecase.NewCompanies(cfg.Models.CompaniesFile)
}

// ProvideHandler creates the Echo API handler.
func ProvideHandler(
	l *logger.Logger,
	predictor *usecase.Predictor,
	trainer *usecase.Trainer,
	history *usecase.History,
	companies *usecase.Companies,
) xhttp.Handler {
	return api.NewStocksEchoHandler(l, predictor, trainer, history, companies)
}

// BatchTrainer bundles what the offline training command needs.
type BatchTrainer struct {
	Trainer   *usecase.Trainer
	Companies *usecase.Companies
	Logger    *logger.Logger
}

// ProvideBatchTrainer creates the offline training bundle.
func ProvideBatchTrainer(trainer *usecase.Trainer, companies *usecase.Companies, l *logger.Logger) *BatchTrainer {
	return &BatchTrainer{Trainer: trainer, Companies: companies, Logger: l}
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	handler xhttp.Handler,
	reg *registry.Registry,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	events repository.EventPublisher,
) *server.App {
	return server.New(cfg, l, handler, reg, chClient, producer, events)
}
