package features

import (
	"math"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/pkg/util"
)

// legacyBaseYear anchors the year-only prediction feature.
const legacyBaseYear = 2024

// FeatureSpec selects the feature shape a model was trained against. It is a
// two-variant union carried alongside each registry entry: models trained
// with a metadata sidecar consume calendar features, models without one
// consume the single legacy feature.
type FeatureSpec interface {
	// Vector builds the prediction-time feature vector for a target date,
	// measured from now. Column order is fixed per variant.
	Vector(now, target time.Time) []float64
	// Kind names the variant for logging and metrics.
	Kind() string
}

// CalendarFeatures is the metadata-aware variant. Columns, in order:
// future_index, future_index^2, weekday (Mon=0..Sun=6), month (1-12),
// day_of_month (1-31). Weekday/month/day are the target date's, not now's.
type CalendarFeatures struct {
	LastDayIndex int
	LastDate     time.Time
}

func (f CalendarFeatures) Vector(now, target time.Time) []float64 {
	futureIndex := f.LastDayIndex + util.TradingDaysApprox(util.CalendarDaysBetween(now, target))
	fi := float64(futureIndex)
	return []float64{
		fi,
		fi * fi,
		float64(util.WeekdayIndex(target)),
		float64(int(target.Month())),
		float64(target.Day()),
	}
}

func (f CalendarFeatures) Kind() string { return "calendar" }

// LegacyFeatures is the single-feature fallback used when no metadata sidecar
// was found for a model: approximate trading days from now to the target.
type LegacyFeatures struct{}

func (LegacyFeatures) Vector(now, target time.Time) []float64 {
	days := util.CalendarDaysBetween(now, target)
	return []float64{float64(util.TradingDaysApprox(days))}
}

func (LegacyFeatures) Kind() string { return "legacy" }

// SimpleVector is the fixed feature of the year-only prediction endpoint.
func SimpleVector(year int) []float64 {
	return []float64{float64((year - legacyBaseYear) * 252)}
}

// DropMissingClose removes bars without a usable close price, preserving
// order. Training row indices are dense and 1-based over the result.
func DropMissingClose(bars []models.Bar) []models.Bar {
	out := make([]models.Bar, 0, len(bars))
	for _, b := range bars {
		if math.IsNaN(b.Close) || b.Close <= 0 {
			continue
		}
		out = append(out, b)
	}
	return out
}

// TrainingMatrix builds the training design matrix and labels from retained
// bars. Row i gets day_index = i+1; columns match CalendarFeatures exactly.
func TrainingMatrix(bars []models.Bar) (x [][]float64, y []float64) {
	x = make([][]float64, 0, len(bars))
	y = make([]float64, 0, len(bars))
	for i, b := range bars {
		dayIndex := float64(i + 1)
		x = append(x, []float64{
			dayIndex,
			dayIndex * dayIndex,
			float64(util.WeekdayIndex(b.Date)),
			float64(int(b.Date.Month())),
			float64(b.Date.Day()),
		})
		y = append(y, b.Close)
	}
	return x, y
}
