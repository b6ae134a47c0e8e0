package cutoff

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"finfetcher/internal/feature/candles/domain"
)

// PartialRule is a user-supplied change to one asset type's rule.
// A nil field means "keep the base value".
type PartialRule struct {
	ForceTimezone *string              `mapstructure:"force_tz" json:"force_tz,omitempty" yaml:"force_tz,omitempty"`
	Timezones     map[string]TimeOfDay `mapstructure:"timezones" json:"timezones,omitempty" yaml:"timezones,omitempty"`
	Default       *TimeOfDay           `mapstructure:"default" json:"default,omitempty" yaml:"default,omitempty"`
}

// Overrides maps asset type keys (any case) to partial rules.
type Overrides map[string]PartialRule

// Validate checks every value in o. All violations are reported together.
func (o Overrides) Validate() error {
	var errs []error
	for _, key := range o.sortedKeys() {
		p := o[key]
		if strings.TrimSpace(key) == "" {
			errs = append(errs, errors.New("asset type key must not be empty"))
			continue
		}
		if p.ForceTimezone != nil && strings.TrimSpace(*p.ForceTimezone) == "" {
			errs = append(errs, fmt.Errorf("%s: force_tz must not be empty", key))
		}
		if p.Default != nil {
			if err := p.Default.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s: default: %w", key, err))
			}
		}
		for _, tz := range sortedTimezones(p.Timezones) {
			if strings.TrimSpace(tz) == "" {
				errs = append(errs, fmt.Errorf("%s: timezone name must not be empty", key))
				continue
			}
			if err := p.Timezones[tz].Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s: timezones[%s]: %w", key, tz, err))
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(errs...))
}

// Merge returns a new table with o applied on top of t. t is left untouched.
// Nothing is merged when o fails validation. Keys are applied in lexical order,
// and a merge into a shared rule is seen by every asset type in its group.
func (t Table) Merge(o Overrides) (Table, error) {
	if err := o.Validate(); err != nil {
		return Table{}, err
	}
	out := t.Clone()
	for _, key := range o.sortedKeys() {
		assetType := ParseAssetType(key)
		base, ok := out.rules[assetType]
		if !ok {
			out.rules[assetType] = newRule(o[key])
			continue
		}
		merged := mergeRule(base, o[key])
		for _, member := range out.SharedWith(assetType) {
			out.rules[member] = merged
		}
	}
	return out, nil
}

func mergeRule(base Rule, p PartialRule) Rule {
	switch r := base.(type) {
	case ForcedTimezoneRule:
		// timezones has no effect while a timezone is forced.
		if p.ForceTimezone != nil {
			r.timezone = *p.ForceTimezone
		}
		if p.Default != nil {
			r.close = *p.Default
		}
		return r
	case TimezoneTableRule:
		def := r.def
		if p.Default != nil {
			def = *p.Default
		}
		if p.ForceTimezone != nil {
			return NewForcedTimezoneRule(*p.ForceTimezone, def)
		}
		timezones := r.timezones
		if p.Timezones != nil {
			timezones = p.Timezones
		}
		return NewTimezoneTableRule(timezones, def)
	default:
		return newRule(p)
	}
}

// newRule builds a rule for an asset type absent from the base table.
// A missing default falls back to the EQUITY default.
func newRule(p PartialRule) Rule {
	def := fallbackClose
	if p.Default != nil {
		def = *p.Default
	}
	if p.ForceTimezone != nil {
		return NewForcedTimezoneRule(*p.ForceTimezone, def)
	}
	return NewTimezoneTableRule(p.Timezones, def)
}

func (o Overrides) sortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func sortedTimezones(m map[string]TimeOfDay) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
