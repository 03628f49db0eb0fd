// Package effective holds the resolved configuration the lint engine applies to
// one file and the comparators for its language options and settings.
package effective

import (
	"fmt"

	"github.com/wonderfulspam/lintcompat/pkg/ruleset"
)

// Config is the effective configuration of a single file.
type Config struct {
	Rules           ruleset.RuleMap `json:"rules"`
	LanguageOptions LanguageOptions `json:"languageOptions"`
	Settings        map[string]any  `json:"settings"`
}

// LanguageOptions describes the ECMAScript environment a file is parsed in.
// Globals and ParserOptions keep the distinction between an absent facet
// (nil) and an empty one.
type LanguageOptions struct {
	EcmaVersion   any            `json:"ecmaVersion,omitempty" yaml:"ecmaVersion,omitempty"`
	SourceType    string         `json:"sourceType,omitempty" yaml:"sourceType,omitempty"`
	Globals       map[string]any `json:"globals" yaml:"globals"`
	ParserOptions map[string]any `json:"parserOptions" yaml:"parserOptions"`
}

// Canonical returns a copy of c with normalized rule severities.
func (c *Config) Canonical() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Rules = ruleset.Normalize(c.Rules)
	return &out
}

// Diff gathers every divergence between two effective configurations.
type Diff struct {
	Rules           *ruleset.Diff
	LanguageOptions []LanguageOptionDiff
	Settings        *SettingsDiff
}

// Equal reports whether no divergence was found.
func (d *Diff) Equal() bool {
	return d.Rules.Equal() && len(d.LanguageOptions) == 0 && d.Settings == nil
}

// Compare runs the rule, language option and settings comparators over two
// configurations. Rules are normalized first.
func Compare(oldCfg, newCfg *Config) (*Diff, error) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	rules, err := ruleset.Compare(ruleset.Normalize(oldCfg.Rules), ruleset.Normalize(newCfg.Rules))
	if err != nil {
		return nil, fmt.Errorf("comparing rules: %w", err)
	}
	langOpts, err := CompareLanguageOptions(oldCfg.LanguageOptions, newCfg.LanguageOptions)
	if err != nil {
		return nil, fmt.Errorf("comparing language options: %w", err)
	}
	settings, err := CompareSettings(oldCfg.Settings, newCfg.Settings)
	if err != nil {
		return nil, fmt.Errorf("comparing settings: %w", err)
	}

	return &Diff{Rules: rules, LanguageOptions: langOpts, Settings: settings}, nil
}
