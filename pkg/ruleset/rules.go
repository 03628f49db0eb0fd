// Package ruleset models ESLint rule maps, normalizes their severities and
// compares two rule maps rule by rule.
package ruleset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// RuleEntry is one rule's configuration tuple: a severity followed by ordered,
// arbitrarily structured options. Severity holds the raw spelling until the
// map is normalized, after which it holds a Severity.
type RuleEntry struct {
	Severity any
	Options  []any
	// Empty marks a zero-length tuple, which carries no severity at all.
	Empty bool
}

// NewRule builds an entry from a severity and its options.
func NewRule(severity any, options ...any) RuleEntry {
	return RuleEntry{Severity: severity, Options: options}
}

// Canonical returns the normalized severity of the entry.
func (e RuleEntry) Canonical() Severity {
	return NormalizeSeverity(e.Severity)
}

// Len returns the tuple length including the severity element.
func (e RuleEntry) Len() int {
	if e.Empty {
		return 0
	}
	return 1 + len(e.Options)
}

// MarshalJSON writes the entry in ESLint's tuple form.
func (e RuleEntry) MarshalJSON() ([]byte, error) {
	if e.Empty {
		return []byte("[]"), nil
	}
	tuple := make([]any, 0, e.Len())
	tuple = append(tuple, e.Severity)
	tuple = append(tuple, e.Options...)
	return json.Marshal(tuple)
}

// UnmarshalJSON accepts the tuple form as well as a bare severity.
func (e *RuleEntry) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	entry, err := entryFrom(raw)
	if err != nil {
		return err
	}
	*e = entry
	return nil
}

// RuleMap maps rule names to their configuration tuples.
type RuleMap map[string]RuleEntry

// Keys returns the rule names in sorted order.
func (m RuleMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Normalize returns a copy of m whose severities are canonical. Rule names
// and option tuples are unchanged.
func Normalize(m RuleMap) RuleMap {
	if m == nil {
		return nil
	}
	out := make(RuleMap, len(m))
	for name, entry := range m {
		if entry.Empty {
			out[name] = entry
			continue
		}
		out[name] = RuleEntry{
			Severity: entry.Canonical(),
			Options:  entry.Options,
		}
	}
	return out
}

// Parse converts a decoded "rules" object, as printed by the lint engine,
// into a RuleMap.
func Parse(raw map[string]any) (RuleMap, error) {
	if raw == nil {
		return nil, nil
	}
	out := make(RuleMap, len(raw))
	for name, v := range raw {
		entry, err := entryFrom(v)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		out[name] = entry
	}
	return out, nil
}

func entryFrom(v any) (RuleEntry, error) {
	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			return RuleEntry{Empty: true}, nil
		}
		return RuleEntry{Severity: t[0], Options: t[1:]}, nil
	case string, json.Number, float64, int, int64, Severity:
		return RuleEntry{Severity: t}, nil
	default:
		return RuleEntry{}, fmt.Errorf("unsupported rule value of type %T", v)
	}
}
