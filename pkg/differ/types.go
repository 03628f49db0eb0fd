package differ

import (
	"errors"

	"github.com/wonderfulspam/lintcompat/pkg/effective"
	"github.com/wonderfulspam/lintcompat/pkg/ruleset"
	"github.com/wonderfulspam/lintcompat/pkg/targets"
)

// ErrNotEquivalent is returned by callers that turn a divergent Result into a
// failure.
var ErrNotEquivalent = errors.New("configurations are not equivalent")

// DiffType names a kind of divergence.
type DiffType string

const (
	DiffTypeTargetAdded    DiffType = "target_added"
	DiffTypeTargetRemoved  DiffType = "target_removed"
	DiffTypeRuleAdded      DiffType = "rule_added"
	DiffTypeRuleRemoved    DiffType = "rule_removed"
	DiffTypeSeverity       DiffType = "severity"
	DiffTypeOption         DiffType = "option"
	DiffTypeLanguageOption DiffType = "language_option"
	DiffTypeSettings       DiffType = "settings"
)

// Record accumulates every divergence found for one file.
type Record struct {
	FilePath            string                         `json:"filePath" yaml:"filePath"`
	RulesAdded          []string                       `json:"rulesAdded,omitempty" yaml:"rulesAdded,omitempty"`
	RulesRemoved        []string                       `json:"rulesRemoved,omitempty" yaml:"rulesRemoved,omitempty"`
	SeverityDiffs       []ruleset.SeverityDiff         `json:"severityDiffs,omitempty" yaml:"severityDiffs,omitempty"`
	OptionDiffs         []ruleset.OptionDiff           `json:"optionDiffs,omitempty" yaml:"optionDiffs,omitempty"`
	LanguageOptionDiffs []effective.LanguageOptionDiff `json:"languageOptionDiffs,omitempty" yaml:"languageOptionDiffs,omitempty"`
	Settings            *effective.SettingsDiff        `json:"settingsDiff,omitempty" yaml:"settingsDiff,omitempty"`
}

// Empty reports whether the record holds no divergence.
func (r *Record) Empty() bool {
	return len(r.RulesAdded) == 0 && len(r.RulesRemoved) == 0 &&
		len(r.SeverityDiffs) == 0 && len(r.OptionDiffs) == 0 &&
		len(r.LanguageOptionDiffs) == 0 && r.Settings == nil
}

// Count returns the number of individual divergences in the record.
func (r *Record) Count() int {
	n := len(r.RulesAdded) + len(r.RulesRemoved) + len(r.SeverityDiffs) +
		len(r.OptionDiffs) + len(r.LanguageOptionDiffs)
	if r.Settings != nil {
		n++
	}
	return n
}

// Group is one distinct divergence pattern and every file that shows it.
// Record.FilePath is the first of FilePaths.
type Group struct {
	FilePaths []string `json:"filePaths" yaml:"filePaths"`
	Record    Record   `json:"diff" yaml:"diff"`
}

// Result is the outcome of one comparison run.
type Result struct {
	Targets  targets.Diff `json:"targets" yaml:"targets"`
	Groups   []Group      `json:"groups" yaml:"groups"`
	Compared int          `json:"comparedFiles" yaml:"comparedFiles"`
	Summary  string       `json:"summary" yaml:"summary"`
}

// Equivalent reports whether both configurations lint the same files the
// same way.
func (r *Result) Equivalent() bool {
	return r.Targets.Empty() && len(r.Groups) == 0
}

// Err returns ErrNotEquivalent when the result holds any divergence.
func (r *Result) Err() error {
	if r.Equivalent() {
		return nil
	}
	return ErrNotEquivalent
}
