package cutoff

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"finfetcher/internal/feature/candles/domain"
)

// DecodeOverrides converts a loosely typed document (decoded YAML or JSON)
// into Overrides. Only integer hours and minutes are accepted, and unknown
// fields are rejected.
func DecodeOverrides(raw map[string]any) (Overrides, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var errs []error
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		errs = append(errs, checkPartialRule(key, raw[key])...)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(errs...))
	}

	var out Overrides
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &out,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnexpected, err)
	}
	if err := dec.Decode(normalise(raw)); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}
	return out, nil
}

// ParseOverridesYAML decodes a YAML document of the form
//
//	EQUITY:
//	  timezones:
//	    Asia/Tokyo: {hour: 15, minute: 30}
//	  default: {hour: 18, minute: 0}
func ParseOverridesYAML(data []byte) (Overrides, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %w", domain.ErrInvalidConfig, err)
	}
	return DecodeOverrides(raw)
}

// ParseOverridesJSON decodes the JSON equivalent of ParseOverridesYAML.
func ParseOverridesJSON(data []byte) (Overrides, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: parse json: %w", domain.ErrInvalidConfig, err)
	}
	return DecodeOverrides(raw)
}

func checkPartialRule(key string, v any) []error {
	obj, ok := asObject(v)
	if !ok {
		return []error{fmt.Errorf("%s: configuration must be an object", key)}
	}
	var errs []error
	for _, field := range sortedFields(obj) {
		fv := obj[field]
		switch field {
		case "default":
			if err := checkTimeOfDay(fv); err != nil {
				errs = append(errs, fmt.Errorf("%s: default: %w", key, err))
			}
		case "timezones":
			tzs, ok := asObject(fv)
			if !ok {
				errs = append(errs, fmt.Errorf("%s: timezones must be an object", key))
				continue
			}
			for _, tz := range sortedFields(tzs) {
				if err := checkTimeOfDay(tzs[tz]); err != nil {
					errs = append(errs, fmt.Errorf("%s: timezones[%s]: %w", key, tz, err))
				}
			}
		case "force_tz":
			s, ok := fv.(string)
			if !ok {
				errs = append(errs, fmt.Errorf("%s: force_tz must be a string", key))
			} else if strings.TrimSpace(s) == "" {
				errs = append(errs, fmt.Errorf("%s: force_tz must not be empty", key))
			}
		default:
			errs = append(errs, fmt.Errorf("%s: unknown field %q", key, field))
		}
	}
	return errs
}

func checkTimeOfDay(v any) error {
	obj, ok := asObject(v)
	if !ok {
		return errors.New("must be an object with hour and minute")
	}
	for _, field := range sortedFields(obj) {
		if field != "hour" && field != "minute" {
			return fmt.Errorf("unknown field %q", field)
		}
	}
	hour, hasHour := obj["hour"]
	minute, hasMinute := obj["minute"]
	if !hasHour || !hasMinute {
		return errors.New("hour and minute are both required")
	}
	h, ok := asInt(hour)
	if !ok {
		return fmt.Errorf("hour must be an integer, got %v", hour)
	}
	m, ok := asInt(minute)
	if !ok {
		return fmt.Errorf("minute must be an integer, got %v", minute)
	}
	return TimeOfDay{Hour: h, Minute: m}.Validate()
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

// normalise rewrites map[any]any nodes so mapstructure sees string keys.
func normalise(v any) any {
	switch m := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = normalise(val)
		}
		return out
	case map[any]any:
		obj, _ := asObject(m)
		return normalise(obj)
	case json.Number:
		i, _ := m.Int64()
		return i
	default:
		return v
	}
}

func sortedFields(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
