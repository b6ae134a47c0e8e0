package cutoff

import "maps"

// Rule decides which timezone and closing time apply to an instrument.
//
// It is implemented by ForcedTimezoneRule and TimezoneTableRule only.
type Rule interface {
	// Resolve returns the timezone to evaluate "now" in and the cutoff time
	// for an instrument whose exchange reports tickerTimezone.
	Resolve(tickerTimezone string) (timezone string, close TimeOfDay)

	clone() Rule
}

// ForcedTimezoneRule ignores the instrument's own timezone and always evaluates
// the cutoff in a fixed one. Derivatives and crypto use it.
type ForcedTimezoneRule struct {
	timezone string
	close    TimeOfDay
}

// NewForcedTimezoneRule returns a rule pinned to timezone.
func NewForcedTimezoneRule(timezone string, close TimeOfDay) ForcedTimezoneRule {
	return ForcedTimezoneRule{timezone: timezone, close: close}
}

// Timezone returns the forced timezone identifier.
func (r ForcedTimezoneRule) Timezone() string { return r.timezone }

// Close returns the single cutoff time of the rule.
func (r ForcedTimezoneRule) Close() TimeOfDay { return r.close }

// Resolve implements Rule.
func (r ForcedTimezoneRule) Resolve(string) (string, TimeOfDay) {
	return r.timezone, r.close
}

func (r ForcedTimezoneRule) clone() Rule { return r }

// TimezoneTableRule looks the instrument's timezone up in a per-timezone table
// and falls back to a default closing time.
type TimezoneTableRule struct {
	timezones map[string]TimeOfDay
	def       TimeOfDay
}

// NewTimezoneTableRule returns a rule over a copy of timezones.
func NewTimezoneTableRule(timezones map[string]TimeOfDay, def TimeOfDay) TimezoneTableRule {
	return TimezoneTableRule{timezones: copyTimes(timezones), def: def}
}

// Timezones returns a copy of the per-timezone closing times.
func (r TimezoneTableRule) Timezones() map[string]TimeOfDay { return copyTimes(r.timezones) }

// Default returns the closing time used for timezones missing from the table.
func (r TimezoneTableRule) Default() TimeOfDay { return r.def }

// Resolve implements Rule.
func (r TimezoneTableRule) Resolve(tickerTimezone string) (string, TimeOfDay) {
	if close, ok := r.timezones[tickerTimezone]; ok {
		return tickerTimezone, close
	}
	return tickerTimezone, r.def
}

func (r TimezoneTableRule) clone() Rule {
	return NewTimezoneTableRule(r.timezones, r.def)
}

func copyTimes(in map[string]TimeOfDay) map[string]TimeOfDay {
	out := make(map[string]TimeOfDay, len(in))
	maps.Copy(out, in)
	return out
}
