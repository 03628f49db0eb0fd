// Package grouping collapses target files that share one effective
// configuration into FilesConfig groups.
package grouping

import (
	"fmt"

	"github.com/wonderfulspam/lintcompat/pkg/effective"
	"github.com/wonderfulspam/lintcompat/pkg/ruleset"
	"github.com/wonderfulspam/lintcompat/pkg/value"
)

// FilesConfig is a group of target files sharing one canonical configuration.
// Key is the first file added to the group.
type FilesConfig struct {
	Key             string                    `json:"key"`
	TargetFilePaths []string                  `json:"targetFilePaths"`
	Rules           ruleset.RuleMap           `json:"rules"`
	LanguageOptions effective.LanguageOptions `json:"languageOptions"`
	Settings        map[string]any            `json:"settings"`
}

// Config returns the group's shared configuration.
func (f *FilesConfig) Config() *effective.Config {
	return &effective.Config{
		Rules:           f.Rules,
		LanguageOptions: f.LanguageOptions,
		Settings:        f.Settings,
	}
}

// Entry is one file and its effective configuration.
type Entry struct {
	Path   string
	Config *effective.Config
}

// Index keeps groups in order of first appearance. Each new file is compared
// against every existing group in turn.
type Index struct {
	groups []*FilesConfig
	byPath map[string]int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byPath: make(map[string]int)}
}

// Build adds entries in the given order.
func Build(entries []Entry) (*Index, error) {
	ix := NewIndex()
	for _, e := range entries {
		if err := ix.Add(e.Path, e.Config); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// Add places path in the first group whose rules, language options and
// settings all equal cfg, or starts a new group keyed by path.
func (ix *Index) Add(path string, cfg *effective.Config) error {
	if _, ok := ix.byPath[path]; ok {
		return fmt.Errorf("file %s is already grouped", path)
	}
	canonical := cfg.Canonical()
	if canonical == nil {
		canonical = &effective.Config{}
	}

	for i, group := range ix.groups {
		diff, err := effective.Compare(group.Config(), canonical)
		if err != nil {
			return fmt.Errorf("grouping %s against %s: %w", path, group.Key, err)
		}
		if !diff.Equal() {
			continue
		}
		same, err := sameTuples(group.Rules, canonical.Rules)
		if err != nil {
			return fmt.Errorf("grouping %s against %s: %w", path, group.Key, err)
		}
		if same {
			group.TargetFilePaths = append(group.TargetFilePaths, path)
			ix.byPath[path] = i
			return nil
		}
	}

	ix.groups = append(ix.groups, &FilesConfig{
		Key:             path,
		TargetFilePaths: []string{path},
		Rules:           canonical.Rules,
		LanguageOptions: canonical.LanguageOptions,
		Settings:        canonical.Settings,
	})
	ix.byPath[path] = len(ix.groups) - 1
	return nil
}

// sameTuples reports whether every rule of a has the same tuple in b. The rule
// comparison only walks the old side's options, so members of one group are
// held to exact tuple equality here.
func sameTuples(a, b ruleset.RuleMap) (bool, error) {
	if len(a) != len(b) {
		return false, nil
	}
	for name, entry := range a {
		other, ok := b[name]
		if !ok || entry.Len() != other.Len() {
			return false, nil
		}
		for i := range entry.Options {
			eq, err := value.Equal(entry.Options[i], other.Options[i])
			if err != nil {
				return false, fmt.Errorf("rule %s option %d: %w", name, i+1, err)
			}
			if !eq {
				return false, nil
			}
		}
	}
	return true, nil
}

// Groups returns the groups in order of first appearance.
func (ix *Index) Groups() []FilesConfig {
	out := make([]FilesConfig, len(ix.groups))
	for i, g := range ix.groups {
		out[i] = *g
		out[i].TargetFilePaths = append([]string(nil), g.TargetFilePaths...)
	}
	return out
}

// Lookup returns the group containing path.
func (ix *Index) Lookup(path string) (*FilesConfig, bool) {
	i, ok := ix.byPath[path]
	if !ok {
		return nil, false
	}
	return ix.groups[i], true
}

// Len returns the number of groups.
func (ix *Index) Len() int {
	return len(ix.groups)
}

// FromGroups rebuilds an index from previously computed groups. A path listed
// in two groups is an error.
func FromGroups(groups []FilesConfig) (*Index, error) {
	ix := NewIndex()
	for i := range groups {
		g := groups[i]
		g.TargetFilePaths = append([]string(nil), g.TargetFilePaths...)
		for _, p := range g.TargetFilePaths {
			if other, ok := ix.byPath[p]; ok {
				return nil, fmt.Errorf("file %s is in groups %s and %s", p, ix.groups[other].Key, g.Key)
			}
			ix.byPath[p] = len(ix.groups)
		}
		ix.groups = append(ix.groups, &g)
	}
	return ix, nil
}
