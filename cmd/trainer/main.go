package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"StockCast/internal/di"
	"StockCast/internal/domain/models"
	"StockCast/pkg/config"
	applogger "StockCast/pkg/logger"
)

// Trains a model for every company in the companies file. Failures are
// reported and skipped so one delisted ticker does not abort the batch.
func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	timeout := flag.Duration("timeout", 2*time.Minute, "per-ticker training timeout")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	bt, err := di.InitializeBatchTrainer(cfg)
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}

	raw, err := bt.Companies.List()
	if err != nil {
		log.Fatalf("companies list: %v", err)
	}
	var companies []models.Company
	if err := json.Unmarshal(raw, &companies); err != nil {
		log.Fatalf("companies list: %v", err)
	}

	failed := 0
	for _, c := range companies {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		res, err := bt.Trainer.Train(ctx, c.Ticker)
		cancel()
		if err != nil {
			failed++
			bt.Logger.Error("training failed",
				applogger.String("ticker", c.Ticker), applogger.Error(err))
			continue
		}
		bt.Logger.Info("model saved",
			applogger.String("ticker", c.Ticker),
			applogger.String("model_file", res.ModelFile),
		)
	}

	bt.Logger.Info("batch complete",
		applogger.Int("total", len(companies)),
		applogger.Int("failed", failed),
	)
	if failed == len(companies) && len(companies) > 0 {
		os.Exit(1)
	}
}
