package ruleset

import (
	"fmt"

	"github.com/wonderfulspam/lintcompat/pkg/value"
)

// SeverityDiff records a rule whose canonical severity changed.
type SeverityDiff struct {
	Rule string   `json:"rule" yaml:"rule"`
	Old  Severity `json:"oldSeverity" yaml:"oldSeverity"`
	New  Severity `json:"newSeverity" yaml:"newSeverity"`
}

// OptionDiff records a rule option that differs at tuple position Index.
// Old and New carry the whole option values.
type OptionDiff struct {
	Rule  string `json:"rule" yaml:"rule"`
	Index int    `json:"index" yaml:"index"`
	Old   any    `json:"oldOption" yaml:"oldOption"`
	New   any    `json:"newOption" yaml:"newOption"`
}

// Diff is the outcome of comparing two rule maps.
type Diff struct {
	Decrements []string       `json:"rulesRemoved,omitempty" yaml:"rulesRemoved,omitempty"`
	Increments []string       `json:"rulesAdded,omitempty" yaml:"rulesAdded,omitempty"`
	Severities []SeverityDiff `json:"severityDiffs,omitempty" yaml:"severityDiffs,omitempty"`
	Options    []OptionDiff   `json:"optionDiffs,omitempty" yaml:"optionDiffs,omitempty"`
}

// Equal reports whether the comparison found no divergence.
func (d *Diff) Equal() bool {
	return d == nil || (len(d.Decrements) == 0 && len(d.Increments) == 0 &&
		len(d.Severities) == 0 && len(d.Options) == 0)
}

// Compare diffs two rule maps. Rules present on only one side are listed as
// decrements (old only) or increments (new only). Every rule present on both
// sides is then compared by canonical severity and, when both tuples carry
// options, option by option over the positions of the old tuple. A rule whose
// tuple is empty on either side is skipped.
//
// Deep-equality failures, such as cyclic option values, abort the comparison.
func Compare(oldRules, newRules RuleMap) (*Diff, error) {
	diff := &Diff{}

	for _, name := range oldRules.Keys() {
		if _, ok := newRules[name]; !ok {
			diff.Decrements = append(diff.Decrements, name)
		}
	}
	for _, name := range newRules.Keys() {
		if _, ok := oldRules[name]; !ok {
			diff.Increments = append(diff.Increments, name)
		}
	}

	for _, name := range oldRules.Keys() {
		oldEntry := oldRules[name]
		newEntry, ok := newRules[name]
		if !ok || oldEntry.Len() == 0 || newEntry.Len() == 0 {
			continue
		}

		oldSev, newSev := oldEntry.Canonical(), newEntry.Canonical()
		if oldSev != newSev {
			diff.Severities = append(diff.Severities, SeverityDiff{Rule: name, Old: oldSev, New: newSev})
		}

		if len(oldEntry.Options) == 0 || len(newEntry.Options) == 0 {
			continue
		}
		for i, oldOpt := range oldEntry.Options {
			var newOpt any
			if i < len(newEntry.Options) {
				newOpt = newEntry.Options[i]
			}
			eq, err := value.Equal(oldOpt, newOpt)
			if err != nil {
				return nil, fmt.Errorf("comparing option %d of rule %q: %w", i+1, name, err)
			}
			if !eq {
				diff.Options = append(diff.Options, OptionDiff{Rule: name, Index: i + 1, Old: oldOpt, New: newOpt})
			}
		}
	}

	return diff, nil
}
