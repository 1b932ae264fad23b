package ml

import (
    "math"
    "testing"

    "gonum.org/v1/gonum/mat"
)

func trendData(n int) (*mat.Dense, []float64) {
    x := mat.NewDense(n, 2, nil)
    y := make([]float64, n)
    for i := 0; i < n; i++ {
        di := float64(i + 1)
        x.Set(i, 0, di)
        x.Set(i, 1, di*di)
        y[i] = 100 + 0.5*di
    }
    return x, y
}

func TestFitLearnsTrend(t *testing.T) {
    x, y := trendData(200)
    m, err := Fit(x, y, Params{Estimators: 100, LearningRate: 0.1, MaxDepth: 3})
    if err != nil {
        t.Fatalf("fit: %v", err)
    }

    for _, i := range []int{10, 100, 190} {
        di := float64(i + 1)
        got := m.Predict([]float64{di, di * di})
        want := 100 + 0.5*di
        if math.Abs(got-want) > 2 {
            t.Fatalf("predict(day %d) = %v, want ~%v", i+1, got, want)
        }
    }
}

func TestFitDeterministic(t *testing.T) {
    x, y := trendData(80)
    p := Params{Estimators: 30, LearningRate: 0.1, MaxDepth: 3}
    a, err := Fit(x, y, p)
    if err != nil {
        t.Fatalf("fit: %v", err)
    }
    b, err := Fit(x, y, p)
    if err != nil {
        t.Fatalf("refit: %v", err)
    }
    probe := []float64{40, 1600}
    if a.Predict(probe) != b.Predict(probe) {
        t.Fatalf("refitting the same data changed predictions")
    }
}

func TestEncodeDecodePreservesPredictions(t *testing.T) {
    x, y := trendData(60)
    m, err := Fit(x, y, Params{Estimators: 20, LearningRate: 0.1, MaxDepth: 2})
    if err != nil {
        t.Fatalf("fit: %v", err)
    }
    b, err := m.Encode()
    if err != nil {
        t.Fatalf("encode: %v", err)
    }
    restored, err := Decode(b)
    if err != nil {
        t.Fatalf("decode: %v", err)
    }
    probe := []float64{33, 1089}
    if restored.Predict(probe) != m.Predict(probe) {
        t.Fatalf("decoded model predicts differently")
    }
}

func TestDecodeRejectsGarbage(t *testing.T) {
    if _, err := Decode([]byte("{")); err == nil {
        t.Fatalf("expected error for truncated blob")
    }
    if _, err := Decode([]byte(`{"base":1,"trees":[]}`)); err == nil {
        t.Fatalf("expected error for empty ensemble")
    }
}

func TestFitRejectsBadInput(t *testing.T) {
    x := mat.NewDense(3, 1, []float64{1, 2, 3})
    if _, err := Fit(x, []float64{1, 2}, DefaultParams()); err == nil {
        t.Fatalf("expected row/label mismatch error")
    }
    if _, err := Fit(x, []float64{1, 2, 3}, Params{}); err == nil {
        t.Fatalf("expected invalid params error")
    }
}
