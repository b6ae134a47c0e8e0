// Package entity defines the domain models for the candles feature.
package entity

import (
	"time"

	"cloud.google.com/go/civil"
)

// Candle is one OHLCV bar. For daily and coarser intervals Time holds the
// exchange-local calendar date at midnight UTC.
type Candle struct {
	Symbol   string    // Ticker symbol (e.g. "AAPL", "7203.T")
	Interval string    // Bar interval (e.g. "1d", "1wk")
	Time     time.Time // Session date of the bar
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   int64
}

// Date returns the calendar date of the bar.
func (c Candle) Date() civil.Date {
	return civil.DateOf(c.Time)
}

// SymbolInfo is instrument metadata needed to decide when a bar is final.
type SymbolInfo struct {
	Symbol    string
	AssetType string // Upper-cased quote type, e.g. "EQUITY"
	Timezone  string // IANA name of the exchange timezone
}

// FetchResult is the outcome of one fetch: the trimmed series and the next
// date on which a new completed bar is expected.
type FetchResult struct {
	Candles    []Candle
	TargetDate civil.Date
	AssetType  string
	Timezone   string
}

// FetchState records the last successful ingest of a symbol and interval.
type FetchState struct {
	Symbol      string
	Interval    string
	LastBarDate civil.Date
	TargetDate  civil.Date
	UpdatedAt   time.Time
}
