package cache

import (
	"time"

	"finfetcher/internal/feature/candles/domain/cutoff"
)

// TimeUntil returns the time from now to the next occurrence of at in loc.
// When now is exactly at the mark the next day is used.
func TimeUntil(now time.Time, at cutoff.TimeOfDay, loc *time.Location) time.Duration {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	next := at.On(local)
	if !next.After(local) {
		next = at.On(local.AddDate(0, 0, 1))
	}
	return next.Sub(local)
}

// capTTL bounds ttl by the time left until the next refresh mark.
func capTTL(ttl time.Duration, now time.Time, refresh *cutoff.TimeOfDay, loc *time.Location) time.Duration {
	if refresh == nil {
		return ttl
	}
	if until := TimeUntil(now, *refresh, loc); until < ttl {
		return until
	}
	return ttl
}
