package cutoff

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time interpreted in a specific timezone.
type TimeOfDay struct {
	Hour   int `mapstructure:"hour" json:"hour" yaml:"hour"`
	Minute int `mapstructure:"minute" json:"minute" yaml:"minute"`
}

// NewTimeOfDay returns a validated TimeOfDay.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	t := TimeOfDay{Hour: hour, Minute: minute}
	if err := t.Validate(); err != nil {
		return TimeOfDay{}, err
	}
	return t, nil
}

func mustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// Validate checks that the hour is in [0, 23] and the minute in [0, 59].
func (t TimeOfDay) Validate() error {
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("hour %d out of range [0, 23]", t.Hour)
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("minute %d out of range [0, 59]", t.Minute)
	}
	return nil
}

// On returns the instant at this time of day on day's calendar date, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, day.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
