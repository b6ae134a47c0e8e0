package cutoff

import (
	"slices"
)

// DefaultTimezone is used whenever a timezone is missing or cannot be loaded.
const DefaultTimezone = "America/New_York"

// Table holds one Rule per asset type. The zero value is an empty table.
// A Table is never mutated after construction; Merge returns a new one.
//
// Asset types may share a rule: a merge into one member of a group applies
// to every member. Builtin groups EQUITY with ETF and INDEX, and FUTURE with
// CURRENCY.
type Table struct {
	rules  map[AssetType]Rule
	groups map[AssetType]AssetType
}

// NewTable returns a table over deep copies of rules.
func NewTable(rules map[AssetType]Rule) Table {
	t := Table{rules: make(map[AssetType]Rule, len(rules))}
	for k, r := range rules {
		t.rules[k] = r.clone()
	}
	return t
}

// Lookup returns the rule registered for assetType.
func (t Table) Lookup(assetType AssetType) (Rule, bool) {
	r, ok := t.rules[assetType]
	return r, ok
}

// AssetTypes returns the registered asset types in lexical order.
func (t Table) AssetTypes() []AssetType {
	out := make([]AssetType, 0, len(t.rules))
	for k := range t.rules {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of registered asset types.
func (t Table) Len() int { return len(t.rules) }

// Clone returns an independent deep copy of the table, sharing groups included.
func (t Table) Clone() Table {
	out := NewTable(t.rules)
	if t.groups != nil {
		out.groups = make(map[AssetType]AssetType, len(t.groups))
		for k, g := range t.groups {
			out.groups[k] = g
		}
	}
	return out
}

// SharedWith returns every asset type sharing assetType's rule, assetType
// included, in lexical order.
func (t Table) SharedWith(assetType AssetType) []AssetType {
	group, ok := t.groups[assetType]
	if !ok {
		return []AssetType{assetType}
	}
	var out []AssetType
	for k, g := range t.groups {
		if g == group {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// fallbackClose is the EQUITY default, also used by new rules that omit one.
var fallbackClose = mustTimeOfDay(18, 0)

// Builtin is the process-wide cutoff table.
// Times already include roughly 20 minutes of provider reporting delay.
var Builtin = newBuiltin()

func newBuiltin() Table {
	equity := NewTimezoneTableRule(map[string]TimeOfDay{
		// Americas
		"America/New_York": mustTimeOfDay(16, 20),
		"America/Toronto":  mustTimeOfDay(16, 20),
		// Europe
		"Europe/London":    mustTimeOfDay(16, 50),
		"Europe/Berlin":    mustTimeOfDay(17, 50),
		"Europe/Paris":     mustTimeOfDay(17, 50),
		"Europe/Amsterdam": mustTimeOfDay(17, 50),
		"Europe/Zurich":    mustTimeOfDay(17, 50),
		"Europe/Madrid":    mustTimeOfDay(17, 50),
		"Europe/Rome":      mustTimeOfDay(17, 50),
		// Asia and Pacific
		"Asia/Tokyo":       mustTimeOfDay(15, 20),
		"Asia/Hong_Kong":   mustTimeOfDay(16, 20),
		"Asia/Singapore":   mustTimeOfDay(17, 20),
		"Asia/Kolkata":     mustTimeOfDay(15, 50),
		"Australia/Sydney": mustTimeOfDay(16, 20),
	}, fallbackClose)

	derivative := NewForcedTimezoneRule(DefaultTimezone, mustTimeOfDay(17, 20))

	return Table{
		rules: map[AssetType]Rule{
			Equity:         equity,
			ETF:            equity,
			Index:          equity,
			Future:         derivative,
			Currency:       derivative,
			Cryptocurrency: NewForcedTimezoneRule("UTC", mustTimeOfDay(23, 59)),
		},
		groups: map[AssetType]AssetType{
			Equity:   Equity,
			ETF:      Equity,
			Index:    Equity,
			Future:   Future,
			Currency: Future,
		},
	}
}
