package differ

import (
	"fmt"

	"github.com/wonderfulspam/lintcompat/pkg/effective"
	"github.com/wonderfulspam/lintcompat/pkg/ruleset"
	"github.com/wonderfulspam/lintcompat/pkg/value"
)

// Aggregator collects divergences per file for a single run. It is not safe
// for concurrent use.
type Aggregator struct {
	records []*Record
	byPath  map[string]*Record
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{byPath: make(map[string]*Record)}
}

func (a *Aggregator) record(path string) *Record {
	if r, ok := a.byPath[path]; ok {
		return r
	}
	r := &Record{FilePath: path}
	a.records = append(a.records, r)
	a.byPath[path] = r
	return r
}

// RecordRules adds a rule comparison outcome for path. An equal diff is
// ignored.
func (a *Aggregator) RecordRules(path string, d *ruleset.Diff) {
	if d.Equal() {
		return
	}
	r := a.record(path)
	r.RulesAdded = append(r.RulesAdded, d.Increments...)
	r.RulesRemoved = append(r.RulesRemoved, d.Decrements...)
	r.SeverityDiffs = append(r.SeverityDiffs, d.Severities...)
	r.OptionDiffs = append(r.OptionDiffs, d.Options...)
}

// RecordLanguageOptions adds language option divergences for path.
func (a *Aggregator) RecordLanguageOptions(path string, diffs []effective.LanguageOptionDiff) {
	if len(diffs) == 0 {
		return
	}
	r := a.record(path)
	r.LanguageOptionDiffs = append(r.LanguageOptionDiffs, diffs...)
}

// RecordSettings stores a settings divergence for path. A nil diff is ignored.
func (a *Aggregator) RecordSettings(path string, d *effective.SettingsDiff) {
	if d == nil {
		return
	}
	a.record(path).Settings = d
}

// Record adds every part of a configuration comparison for path.
func (a *Aggregator) Record(path string, d *effective.Diff) {
	a.RecordRules(path, d.Rules)
	a.RecordLanguageOptions(path, d.LanguageOptions)
	a.RecordSettings(path, d.Settings)
}

// Records returns the collected records in order of first divergence.
func (a *Aggregator) Records() []Record {
	out := make([]Record, len(a.records))
	for i, r := range a.records {
		out[i] = *r
	}
	return out
}

// Dedup merges records that are structurally identical apart from their file
// path. Groups are ordered by the first file recorded for them.
func (a *Aggregator) Dedup() ([]Group, error) {
	var (
		groups []Group
		trees  []any
	)

	for _, r := range a.records {
		tree, err := value.ToTree(r)
		if err != nil {
			return nil, fmt.Errorf("record for %s: %w", r.FilePath, err)
		}

		merged := false
		for i, rep := range trees {
			eq, err := value.EqualIgnoring(rep, tree, "filePath")
			if err != nil {
				return nil, fmt.Errorf("deduplicating %s: %w", r.FilePath, err)
			}
			if eq {
				groups[i].FilePaths = append(groups[i].FilePaths, r.FilePath)
				merged = true
				break
			}
		}
		if merged {
			continue
		}

		trees = append(trees, tree)
		groups = append(groups, Group{FilePaths: []string{r.FilePath}, Record: *r})
	}

	return groups, nil
}
