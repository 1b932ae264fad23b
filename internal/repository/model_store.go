package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"StockCast/internal/domain/models"
	drepo "StockCast/internal/domain/repository"
	"StockCast/internal/ml"
	xlogger "StockCast/pkg/logger"
)

const (
	modelExt   = ".model"
	metaSuffix = "_meta.json"
)

// FSModelStore persists one serialized model file per ticker plus a JSON
// metadata sidecar in a flat directory. The filename stem is the ticker key.
type FSModelStore struct {
	dir    string
	logger *xlogger.Logger
}

// NewFSModelStore creates a filesystem model store.
func NewFSModelStore(dir string, logger *xlogger.Logger) drepo.ModelStore {
	return &FSModelStore{dir: dir, logger: logger}
}

func (s *FSModelStore) Save(ticker string, model drepo.Regressor, meta models.ModelMetadata) (string, string, error) {
	enc, ok := model.(interface{ Encode() ([]byte, error) })
	if !ok {
		return "", "", fmt.Errorf("model for %q is not serializable", ticker)
	}
	blob, err := enc.Encode()
	if err != nil {
		return "", "", fmt.Errorf("encode model %q: %w", ticker, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create model dir: %w", err)
	}

	modelFile := filepath.Join(s.dir, ticker+modelExt)
	if err := os.WriteFile(modelFile, blob, 0o644); err != nil {
		return "", "", fmt.Errorf("write model %q: %w", ticker, err)
	}

	metaBlob, err := json.Marshal(meta)
	if err != nil {
		return "", "", fmt.Errorf("encode meta %q: %w", ticker, err)
	}
	metaFile := filepath.Join(s.dir, ticker+metaSuffix)
	if err := os.WriteFile(metaFile, metaBlob, 0o644); err != nil {
		return "", "", fmt.Errorf("write meta %q: %w", ticker, err)
	}

	return modelFile, metaFile, nil
}

// LoadAll scans the model directory once. A corrupt model file skips that
// ticker with a warning; a missing or corrupt sidecar still registers the
// ticker, with metadata absent. The scan never fails because of a single bad
// file.
func (s *FSModelStore) LoadAll() ([]drepo.StoredModel, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("model directory not found", xlogger.String("dir", s.dir))
			return nil, nil
		}
		return nil, fmt.Errorf("read model dir: %w", err)
	}

	var out []drepo.StoredModel
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, modelExt) {
			continue
		}
		ticker := strings.TrimSuffix(name, modelExt)

		blob, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			s.logger.Warn("failed to read model file",
				xlogger.String("ticker", ticker), xlogger.Error(err))
			continue
		}
		model, err := ml.Decode(blob)
		if err != nil {
			s.logger.Warn("skipping corrupt model file",
				xlogger.String("ticker", ticker), xlogger.Error(err))
			continue
		}

		out = append(out, drepo.StoredModel{
			Ticker: ticker,
			Model:  model,
			Meta:   s.loadMeta(ticker),
		})
	}
	return out, nil
}

func (s *FSModelStore) loadMeta(ticker string) *models.ModelMetadata {
	blob, err := os.ReadFile(filepath.Join(s.dir, ticker+metaSuffix))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read model metadata",
				xlogger.String("ticker", ticker), xlogger.Error(err))
		}
		return nil
	}
	var meta models.ModelMetadata
	if err := json.Unmarshal(blob, &meta); err != nil {
		s.logger.Warn("failed to parse model metadata",
			xlogger.String("ticker", ticker), xlogger.Error(err))
		return nil
	}
	return &meta
}
