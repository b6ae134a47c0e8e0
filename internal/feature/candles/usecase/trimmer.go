package usecase

import (
	"log/slog"
	"slices"
	"time"

	"cloud.google.com/go/civil"

	"finfetcher/internal/feature/candles/domain/cutoff"
	"finfetcher/internal/feature/candles/domain/entity"
)

// Trimmer drops the newest bar while its session is still open.
type Trimmer struct {
	now    func() time.Time
	logger *slog.Logger
}

// NewTrimmer returns a Trimmer reading the current time from now.
// A nil now uses time.Now and a nil logger uses slog.Default().
func NewTrimmer(now func() time.Time, logger *slog.Logger) *Trimmer {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Trimmer{now: now, logger: logger}
}

// Trim returns series without its last element when lastBarDate is today in
// the resolved timezone and the cutoff time has not been reached yet.
// Otherwise series is returned unchanged.
func (t *Trimmer) Trim(series []entity.Candle, assetType cutoff.AssetType, lastBarDate civil.Date, tickerTimezone string, table cutoff.Table) []entity.Candle {
	return t.trim(series, assetType, lastBarDate, tickerTimezone, nil, table)
}

// trim is Trim with tickerLoc, when non-nil, already resolved from
// tickerTimezone. It is reused unless a forced rule picks another timezone.
func (t *Trimmer) trim(series []entity.Candle, assetType cutoff.AssetType, lastBarDate civil.Date, tickerTimezone string, tickerLoc *time.Location, table cutoff.Table) []entity.Candle {
	if len(series) == 0 {
		return series
	}

	tzName, close := t.resolve(assetType, tickerTimezone, table)
	loc := tickerLoc
	if loc == nil || tzName != tickerTimezone {
		loc = t.location(tzName)
	}
	now := t.now().In(loc)

	if lastBarDate != civil.DateOf(now) {
		return series
	}
	if now.Before(close.On(now)) {
		t.logger.Debug("dropping unfinished bar",
			"asset_type", assetType, "timezone", loc.String(), "cutoff", close.String(), "date", lastBarDate.String())
		return slices.Clone(series[:len(series)-1])
	}
	return series
}

func (t *Trimmer) resolve(assetType cutoff.AssetType, tickerTimezone string, table cutoff.Table) (string, cutoff.TimeOfDay) {
	rule, ok := table.Lookup(assetType)
	if !ok {
		t.logger.Warn("unknown asset type, using EQUITY cutoff", "asset_type", assetType)
		if rule, ok = table.Lookup(cutoff.Equity); !ok {
			rule, _ = cutoff.Builtin.Lookup(cutoff.Equity)
		}
	}
	return rule.Resolve(tickerTimezone)
}

// location loads name, falling back to the default exchange timezone.
func (t *Trimmer) location(name string) *time.Location {
	if name == "" {
		t.logger.Warn("timezone missing, using default", "fallback", cutoff.DefaultTimezone)
		return defaultLocation()
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.logger.Warn("unknown timezone, using default", "timezone", name, "fallback", cutoff.DefaultTimezone, "error", err)
		return defaultLocation()
	}
	return loc
}

func defaultLocation() *time.Location {
	loc, err := time.LoadLocation(cutoff.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
