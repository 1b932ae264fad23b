package features

import (
    "math"
    "testing"
    "time"

    "StockCast/internal/domain/models"
)

func TestCalendarVectorColumns(t *testing.T) {
    // last_day_index=100, trading_days(now->target)=50 requires 73 calendar
    // days: floor(73*252/365) = 50. Target 2026-03-15 is a Sunday.
    target := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
    now := target.AddDate(0, 0, -73)
    spec := CalendarFeatures{LastDayIndex: 100, LastDate: now}

    got := spec.Vector(now, target)
    want := []float64{150, 22500, 6, 3, 15}
    if len(got) != len(want) {
        t.Fatalf("vector length %d, want %d", len(got), len(want))
    }
    for i := range want {
        if got[i] != want[i] {
            t.Fatalf("column %d = %v, want %v (vector %v)", i, got[i], want[i], got)
        }
    }
}

func TestFutureIndexMonotone(t *testing.T) {
    now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
    spec := CalendarFeatures{LastDayIndex: 1200, LastDate: now}

    prev := math.Inf(-1)
    for d := 0; d < 400; d++ {
        target := now.AddDate(0, 0, d)
        fi := spec.Vector(now, target)[0]
        if fi < prev {
            t.Fatalf("future_index decreased at day %d: %v < %v", d, fi, prev)
        }
        prev = fi
    }
}

func TestCalendarVectorSameDay(t *testing.T) {
    now := time.Date(2026, 6, 1, 14, 30, 0, 0, time.UTC)
    spec := CalendarFeatures{LastDayIndex: 840, LastDate: now}
    got := spec.Vector(now, now)
    if got[0] != 840 {
        t.Fatalf("same-day future_index = %v, want 840", got[0])
    }
}

func TestLegacyVector(t *testing.T) {
    now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
    target := now.AddDate(1, 0, 0) // 365 calendar days
    got := LegacyFeatures{}.Vector(now, target)
    if len(got) != 1 || got[0] != 252 {
        t.Fatalf("legacy vector = %v, want [252]", got)
    }
}

func TestSimpleVector(t *testing.T) {
    if got := SimpleVector(2026); got[0] != 504 {
        t.Fatalf("simple feature for 2026 = %v, want 504", got[0])
    }
    if got := SimpleVector(2024); got[0] != 0 {
        t.Fatalf("simple feature for 2024 = %v, want 0", got[0])
    }
}

func TestTrainingMatrix(t *testing.T) {
    bars := []models.Bar{
        {Date: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), Close: 10}, // Monday
        {Date: time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), Close: 11},
        {Date: time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC), Close: 12},
    }
    x, y := TrainingMatrix(bars)
    if len(x) != 3 || len(y) != 3 {
        t.Fatalf("unexpected sizes %d/%d", len(x), len(y))
    }
    first := x[0]
    want := []float64{1, 1, 0, 3, 16}
    for i := range want {
        if first[i] != want[i] {
            t.Fatalf("row 0 col %d = %v, want %v", i, first[i], want[i])
        }
    }
    if x[2][0] != 3 || x[2][1] != 9 {
        t.Fatalf("row 2 day_index/day_sq = %v/%v", x[2][0], x[2][1])
    }
    if y[1] != 11 {
        t.Fatalf("label 1 = %v", y[1])
    }
}

func TestDropMissingClose(t *testing.T) {
    bars := []models.Bar{
        {Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Close: 5},
        {Date: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), Close: math.NaN()},
        {Date: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), Close: 0},
        {Date: time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), Close: 7},
    }
    kept := DropMissingClose(bars)
    if len(kept) != 2 || kept[0].Close != 5 || kept[1].Close != 7 {
        t.Fatalf("unexpected retained bars: %+v", kept)
    }
}
