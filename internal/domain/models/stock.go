package models

import "time"

// Company is one entry of the static companies list served to the frontend.
type Company struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// Bar is a single daily observation returned by the market-data provider.
type Bar struct {
	Date  time.Time
	Close float64
}

// PricePoint is the wire shape of one historical observation.
type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}
