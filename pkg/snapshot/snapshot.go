// Package snapshot reads and writes compatibility snapshots: the lint targets
// and grouped effective configurations of one configuration, stored so a later
// configuration can be checked against them without the original present.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/wonderfulspam/lintcompat/pkg/effective"
	"github.com/wonderfulspam/lintcompat/pkg/grouping"
	"github.com/wonderfulspam/lintcompat/pkg/targets"
)

// DefaultPath is where snapshots are written when no path is given.
const DefaultPath = "./.compat.json"

var (
	// ErrInvariant is returned when targets and groups disagree.
	ErrInvariant = errors.New("snapshot targets and groups are inconsistent")
	// ErrUnknownTarget is returned when a path is not part of the snapshot.
	ErrUnknownTarget = errors.New("file is not a snapshot target")
)

// Snapshot is the stored form of one configuration.
type Snapshot struct {
	Targets           []string               `json:"targets"`
	FilesConfig       []grouping.FilesConfig `json:"filesConfig"`
	SupportExtensions []string               `json:"supportExtensions"`

	// partial is set for snapshots read from the "ruleSets" layout, whose
	// groups hold only their representative file.
	partial bool
	index   *grouping.Index
}

// fileFormat also accepts the earlier "ruleSets" layout, which mapped each
// representative path straight to its configuration.
type fileFormat struct {
	Targets           []string                    `json:"targets"`
	FilesConfig       []grouping.FilesConfig      `json:"filesConfig,omitempty"`
	RuleSets          map[string]effective.Config `json:"ruleSets,omitempty"`
	SupportExtensions []string                    `json:"supportExtensions"`
}

// FromIndex builds a snapshot from discovered targets and their groups.
func FromIndex(paths, extensions []string, ix *grouping.Index) (*Snapshot, error) {
	s := &Snapshot{
		Targets:           targets.Sorted(paths),
		FilesConfig:       ix.Groups(),
		SupportExtensions: extensions,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that every target belongs to exactly one group and that no
// group names a file outside the targets. A partial snapshot only needs each
// representative to be a target.
func (s *Snapshot) Validate() error {
	known := make(map[string]bool, len(s.Targets))
	for _, t := range s.Targets {
		known[t] = true
	}

	owner := make(map[string]string, len(s.Targets))
	for _, g := range s.FilesConfig {
		if len(g.TargetFilePaths) == 0 {
			return fmt.Errorf("%w: group %q has no files", ErrInvariant, g.Key)
		}
		if g.Key != g.TargetFilePaths[0] {
			return fmt.Errorf("%w: group key %q is not its first file", ErrInvariant, g.Key)
		}
		for _, p := range g.TargetFilePaths {
			if !known[p] {
				return fmt.Errorf("%w: %s is grouped but not a target", ErrInvariant, p)
			}
			if other, ok := owner[p]; ok {
				return fmt.Errorf("%w: %s is in groups %q and %q", ErrInvariant, p, other, g.Key)
			}
			owner[p] = g.Key
		}
	}
	if s.partial {
		return nil
	}
	for _, t := range s.Targets {
		if _, ok := owner[t]; !ok {
			return fmt.Errorf("%w: target %s is in no group", ErrInvariant, t)
		}
	}
	return nil
}

// Write validates s and writes it as tab-indented JSON. A partial snapshot is
// written back in the "ruleSets" layout it was read from.
func Write(w io.Writer, s *Snapshot) error {
	out := *s
	out.Targets = targets.Sorted(s.Targets)
	if err := out.Validate(); err != nil {
		return err
	}

	var doc any = &out
	if out.partial {
		ruleSets := make(map[string]effective.Config, len(out.FilesConfig))
		for i := range out.FilesConfig {
			ruleSets[out.FilesConfig[i].Key] = *out.FilesConfig[i].Config()
		}
		doc = &fileFormat{
			Targets:           out.Targets,
			RuleSets:          ruleSets,
			SupportExtensions: out.SupportExtensions,
		}
	} else if out.FilesConfig == nil {
		out.FilesConfig = []grouping.FilesConfig{}
	}

	data, err := json.MarshalIndent(doc, "", "\t")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Read decodes and validates a snapshot.
func Read(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw fileFormat
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	s := &Snapshot{
		Targets:           targets.Sorted(raw.Targets),
		FilesConfig:       raw.FilesConfig,
		SupportExtensions: raw.SupportExtensions,
	}
	if s.FilesConfig == nil && raw.RuleSets != nil {
		s.FilesConfig = upgradeRuleSets(raw.RuleSets)
		s.partial = true
	}
	if len(s.SupportExtensions) == 0 {
		s.SupportExtensions = []string{"js"}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes s to path.
func (s *Snapshot) Save(path string) error {
	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads the snapshot stored at path.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ConfigFor returns the stored configuration of path.
func (s *Snapshot) ConfigFor(path string) (*effective.Config, error) {
	if s.index == nil {
		ix, err := grouping.FromGroups(s.FilesConfig)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvariant, err)
		}
		s.index = ix
	}
	g, ok := s.index.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownTarget)
	}
	return g.Config(), nil
}

// Source serves a snapshot as the old side of a comparison.
type Source struct {
	snap *Snapshot
}

// Source returns s as a comparison source.
func (s *Snapshot) Source() *Source {
	return &Source{snap: s}
}

// Targets returns every stored target.
func (src *Source) Targets(ctx context.Context) ([]string, error) {
	return src.snap.Targets, nil
}

// Representatives returns the group keys of a partial snapshot, and nil for a
// complete one.
func (src *Source) Representatives() []string {
	if !src.snap.partial {
		return nil
	}
	keys := make([]string, len(src.snap.FilesConfig))
	for i, g := range src.snap.FilesConfig {
		keys[i] = g.Key
	}
	return keys
}

// EffectiveConfig returns the stored configuration of path.
func (src *Source) EffectiveConfig(ctx context.Context, path string) (*effective.Config, error) {
	return src.snap.ConfigFor(path)
}

// upgradeRuleSets turns the earlier layout into one single-file group per
// representative. That layout dropped every file whose configuration matched
// an earlier one, without recording which, so the other targets stay ungrouped.
func upgradeRuleSets(ruleSets map[string]effective.Config) []grouping.FilesConfig {
	keys := make([]string, 0, len(ruleSets))
	for k := range ruleSets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]grouping.FilesConfig, len(keys))
	for i, k := range keys {
		cfg := ruleSets[k]
		groups[i] = grouping.FilesConfig{
			Key:             k,
			TargetFilePaths: []string{k},
			Rules:           cfg.Rules,
			LanguageOptions: cfg.LanguageOptions,
			Settings:        cfg.Settings,
		}
	}
	return groups
}
