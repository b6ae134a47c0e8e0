// Package dto defines the JSON shapes of the candles API.
package dto

import "encoding/json"

// CandleResponse is one bar.
type CandleResponse struct {
	Time   string  `json:"time"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// FetchResponse is the result of a live fetch.
type FetchResponse struct {
	Symbol     string           `json:"symbol"`
	AssetType  string           `json:"asset_type"`
	Timezone   string           `json:"timezone"`
	TargetDate string           `json:"target_date"`
	Candles    []CandleResponse `json:"candles"`
}

// FetchRequest is the body of POST /candles/:code. Cutoffs is decoded with
// integer-only hour and minute values.
type FetchRequest struct {
	Period   string          `json:"period"`
	Interval string          `json:"interval"`
	Cutoffs  json.RawMessage `json:"cutoffs"`
}

// ErrorResponse is returned on any failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
