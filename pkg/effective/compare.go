package effective

import (
	"fmt"

	"github.com/wonderfulspam/lintcompat/pkg/value"
)

// LanguageOptionKind names one facet of LanguageOptions.
type LanguageOptionKind string

const (
	KindEcmaVersion   LanguageOptionKind = "ecmaVersion"
	KindSourceType    LanguageOptionKind = "sourceType"
	KindGlobals       LanguageOptionKind = "globals"
	KindParserOptions LanguageOptionKind = "parserOptions"
)

// LanguageOptionDiff is one differing language option facet with both raw values.
type LanguageOptionDiff struct {
	Kind LanguageOptionKind `json:"kind" yaml:"kind"`
	Old  any                `json:"oldValue" yaml:"oldValue"`
	New  any                `json:"newValue" yaml:"newValue"`
}

// SettingsDiff carries both settings trees when they differ.
type SettingsDiff struct {
	Old map[string]any `json:"oldSettings" yaml:"oldSettings"`
	New map[string]any `json:"newSettings" yaml:"newSettings"`
}

// CompareLanguageOptions compares the four facets independently and returns
// one entry per differing facet, in the order ecmaVersion, sourceType,
// globals, parserOptions.
func CompareLanguageOptions(oldOpts, newOpts LanguageOptions) ([]LanguageOptionDiff, error) {
	var diffs []LanguageOptionDiff

	eq, err := value.Equal(oldOpts.EcmaVersion, newOpts.EcmaVersion)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KindEcmaVersion, err)
	}
	if !eq {
		diffs = append(diffs, LanguageOptionDiff{Kind: KindEcmaVersion, Old: oldOpts.EcmaVersion, New: newOpts.EcmaVersion})
	}

	if oldOpts.SourceType != newOpts.SourceType {
		diffs = append(diffs, LanguageOptionDiff{Kind: KindSourceType, Old: oldOpts.SourceType, New: newOpts.SourceType})
	}

	for _, facet := range []struct {
		kind     LanguageOptionKind
		old, new map[string]any
	}{
		{KindGlobals, oldOpts.Globals, newOpts.Globals},
		{KindParserOptions, oldOpts.ParserOptions, newOpts.ParserOptions},
	} {
		eq, err := mappingEqual(facet.old, facet.new)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", facet.kind, err)
		}
		if !eq {
			diffs = append(diffs, LanguageOptionDiff{Kind: facet.kind, Old: orNil(facet.old), New: orNil(facet.new)})
		}
	}

	return diffs, nil
}

// CompareSettings returns nil when both settings trees are equal. An absent
// tree only equals another absent tree.
func CompareSettings(oldSettings, newSettings map[string]any) (*SettingsDiff, error) {
	eq, err := mappingEqual(oldSettings, newSettings)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	if eq {
		return nil, nil
	}
	return &SettingsDiff{Old: oldSettings, New: newSettings}, nil
}

func mappingEqual(a, b map[string]any) (bool, error) {
	if (a == nil) != (b == nil) {
		return false, nil
	}
	return value.Equal(a, b)
}

// orNil keeps an absent facet an untyped nil inside a diff.
func orNil(m map[string]any) any {
	if m == nil {
		return nil
	}
	return m
}
