package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	// DefaultPeriod is the lookback window used when the caller does not name one.
	DefaultPeriod = "4y"
	// DefaultInterval is the bar size used when the caller does not name one.
	DefaultInterval = "1d"
)

// supportedIntervals lists daily-or-coarser bar sizes.
// Intraday bars cannot be trimmed by calendar date, so they are rejected.
var supportedIntervals = map[string]struct{}{
	"1d":  {},
	"5d":  {},
	"1wk": {},
	"1mo": {},
	"3mo": {},
}

var periodPattern = regexp.MustCompile(`^([1-9][0-9]*)(d|wk|mo|y)$`)

// Period is a parsed lookback window such as "4y", "6mo", "ytd" or "max".
type Period struct {
	raw  string
	n    int
	unit string
}

// ParsePeriod parses a provider-style period string.
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "ytd", "max":
		return Period{raw: s, unit: s}, nil
	}
	m := periodPattern.FindStringSubmatch(s)
	if m == nil {
		return Period{}, fmt.Errorf("%w: unsupported period %q", ErrInvalidArgument, s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Period{}, fmt.Errorf("%w: unsupported period %q", ErrInvalidArgument, s)
	}
	return Period{raw: s, n: n, unit: m[2]}, nil
}

// String returns the period as it was given.
func (p Period) String() string { return p.raw }

// IsMax reports whether the period asks for the full available history.
func (p Period) IsMax() bool { return p.unit == "max" }

// Start returns the first instant covered by the period when it ends at now.
// For "max" the zero time is returned.
func (p Period) Start(now time.Time) time.Time {
	switch p.unit {
	case "max":
		return time.Time{}
	case "ytd":
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case "d":
		return now.AddDate(0, 0, -p.n)
	case "wk":
		return now.AddDate(0, 0, -7*p.n)
	case "mo":
		return now.AddDate(0, -p.n, 0)
	default:
		return now.AddDate(-p.n, 0, 0)
	}
}

// ValidateInterval checks that interval is one of the supported bar sizes.
func ValidateInterval(interval string) error {
	if _, ok := supportedIntervals[interval]; !ok {
		return fmt.Errorf("%w: unsupported interval %q", ErrInvalidArgument, interval)
	}
	return nil
}
