package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const metaDateLayout = "2006-01-02"

// ModelMetadata anchors a trained model's feature space to calendar time.
// LastDayIndex is the 1-based ordinal of the most recent training observation
// within its series; LastDate is that observation's calendar date.
type ModelMetadata struct {
	LastDayIndex int
	LastDate     time.Time
}

type metadataJSON struct {
	LastDayIndex int    `json:"last_day_index"`
	LastDate     string `json:"last_date"`
}

func (m ModelMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(metadataJSON{
		LastDayIndex: m.LastDayIndex,
		LastDate:     m.LastDate.Format(metaDateLayout),
	})
}

func (m *ModelMetadata) UnmarshalJSON(b []byte) error {
	var raw metadataJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.LastDayIndex < 0 {
		return fmt.Errorf("last_day_index must be >= 0, got %d", raw.LastDayIndex)
	}
	d, err := time.Parse(metaDateLayout, raw.LastDate)
	if err != nil {
		return fmt.Errorf("parse last_date: %w", err)
	}
	m.LastDayIndex = raw.LastDayIndex
	m.LastDate = d
	return nil
}
