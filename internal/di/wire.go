//go:build wireinject
// +build wireinject

package di

import (
	"StockCast/pkg/config"
	"StockCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideClickHouseClient,

		// Ambient services
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// Repositories
		ProvideMarketData,
		ProvideModelStore,
		ProvideBarStore,
		ProvideEventPublisher,
		ProvideRegistry,

		// Use cases
		ProvidePredictor,
		ProvideTrainer,
		ProvideHistory,
		ProvideCompanies,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeBatchTrainer wires the offline training command, which runs a
// training pass over every listed company and exits.
func InitializeBatchTrainer(cfg *config.Config) (*BatchTrainer, error) {
	wire.Build(
		ProvideKafkaProducer,
		ProvideClickHouseClient,
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideMarketData,
		ProvideModelStore,
		ProvideBarStore,
		ProvideEventPublisher,
		ProvideRegistry,
		ProvideTrainer,
		ProvideCompanies,
		ProvideBatchTrainer,
	)
	return &BatchTrainer{}, nil
}
