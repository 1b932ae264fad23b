package models

import "time"

// PlaceholderConfidence is the fixed confidence value attached to every
// prediction. No calibrated confidence is computed by this system.
const PlaceholderConfidence = 90

// PredictionResult is the response of a full (date-aware) prediction.
// Field names follow the frontend contract.
type PredictionResult struct {
	Ticker         string    `json:"ticker"`
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	Day            int       `json:"day"`
	PredictedPrice float64   `json:"predictedPrice"`
	CurrentPrice   float64   `json:"currentPrice"`
	Confidence     int       `json:"confidence"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SimplePrediction is the response of the legacy year-only endpoint.
type SimplePrediction struct {
	Ticker         string  `json:"ticker"`
	Year           int     `json:"year"`
	PredictedPrice float64 `json:"predicted_price"`
}

// TrainResult reports where a freshly trained model was persisted.
type TrainResult struct {
	Status    string `json:"status"`
	ModelFile string `json:"model_file"`
	MetaFile  string `json:"meta_file"`
}

// TrainingEvent is published to the event stream after a successful training
// run, when a publisher is configured.
type TrainingEvent struct {
	Ticker       string    `json:"ticker"`
	Rows         int       `json:"rows"`
	LastDayIndex int       `json:"last_day_index"`
	LastDate     string    `json:"last_date"`
	HoldoutMSE   float64   `json:"holdout_mse"`
	HoldoutR2    float64   `json:"holdout_r2"`
	TrainedAt    time.Time `json:"trained_at"`
}
