// Package ml implements a least-squares gradient-boosted regression tree
// ensemble. The fit is deterministic: no row or feature subsampling, so a
// model retrained on the same series reproduces the same predictions.
package ml

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Params controls a boosting fit.
type Params struct {
	Estimators   int
	LearningRate float64
	MaxDepth     int
}

// DefaultParams matches the hyperparameters the original batch trainer used.
func DefaultParams() Params {
	return Params{Estimators: 200, LearningRate: 0.05, MaxDepth: 4}
}

// GBRT is a fitted gradient-boosted regression tree ensemble.
type GBRT struct {
	Base         float64           `json:"base"`
	LearningRate float64           `json:"learning_rate"`
	NumFeatures  int               `json:"num_features"`
	Trees        []*regressionTree `json:"trees"`
}

// Fit trains an ensemble on the design matrix against the labels.
func Fit(x *mat.Dense, y []float64, p Params) (*GBRT, error) {
	rows, cols := x.Dims()
	if rows == 0 {
		return nil, fmt.Errorf("empty training set")
	}
	if rows != len(y) {
		return nil, fmt.Errorf("feature rows %d != labels %d", rows, len(y))
	}
	if p.Estimators <= 0 || p.LearningRate <= 0 || p.MaxDepth <= 0 {
		return nil, fmt.Errorf("invalid params %+v", p)
	}

	rowsView := make([][]float64, rows)
	for i := range rowsView {
		rowsView[i] = x.RawRowView(i)
	}
	idx := make([]int, rows)
	for i := range idx {
		idx[i] = i
	}

	m := &GBRT{
		Base:         floats.Sum(y) / float64(rows),
		LearningRate: p.LearningRate,
		NumFeatures:  cols,
		Trees:        make([]*regressionTree, 0, p.Estimators),
	}

	pred := make([]float64, rows)
	for i := range pred {
		pred[i] = m.Base
	}
	residuals := make([]float64, rows)

	for e := 0; e < p.Estimators; e++ {
		for i := range residuals {
			residuals[i] = y[i] - pred[i]
		}
		tree := fitTree(rowsView, residuals, idx, p.MaxDepth)
		m.Trees = append(m.Trees, tree)
		for i := range pred {
			pred[i] += p.LearningRate * tree.predict(rowsView[i])
		}
	}

	return m, nil
}

// Predict evaluates the ensemble on a single feature vector.
func (m *GBRT) Predict(features []float64) float64 {
	out := m.Base
	for _, t := range m.Trees {
		out += m.LearningRate * t.predict(features)
	}
	return out
}

// Encode serializes the fitted ensemble.
func (m *GBRT) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode restores a fitted ensemble from its serialized form.
func Decode(b []byte) (*GBRT, error) {
	var m GBRT
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if len(m.Trees) == 0 {
		return nil, fmt.Errorf("decode model: no trees")
	}
	return &m, nil
}
