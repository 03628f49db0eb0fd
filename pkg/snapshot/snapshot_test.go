package snapshot

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderfulspam/lintcompat/pkg/differ"
	"github.com/wonderfulspam/lintcompat/pkg/effective"
	"github.com/wonderfulspam/lintcompat/pkg/grouping"
	"github.com/wonderfulspam/lintcompat/pkg/ruleset"
)

func buildIndex(t *testing.T) *grouping.Index {
	t.Helper()
	strict := &effective.Config{Rules: ruleset.RuleMap{"semi": ruleset.NewRule("error", "always")}}
	loose := &effective.Config{Rules: ruleset.RuleMap{"semi": ruleset.NewRule("warn")}}

	ix, err := grouping.Build([]grouping.Entry{
		{Path: "src/a.js", Config: strict},
		{Path: "src/b.js", Config: loose},
		{Path: "src/c.js", Config: strict},
	})
	require.NoError(t, err)
	return ix
}

func TestRoundTrip(t *testing.T) {
	snap, err := FromIndex([]string{"src/c.js", "src/a.js", "src/b.js"}, []string{"js"}, buildIndex(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, snap))
	assert.Contains(t, buf.String(), "\n\t\"targets\": [")
	assert.Contains(t, buf.String(), `"filesConfig"`)
	assert.Contains(t, buf.String(), `"supportExtensions"`)

	read, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.js", "src/b.js", "src/c.js"}, read.Targets)
	require.Len(t, read.FilesConfig, 2)
	assert.Equal(t, []string{"src/a.js", "src/c.js"}, read.FilesConfig[0].TargetFilePaths)

	cfg, err := read.ConfigFor("src/c.js")
	require.NoError(t, err)
	assert.Equal(t, ruleset.SeverityError, cfg.Rules["semi"].Canonical())
	assert.Equal(t, []any{"always"}, cfg.Rules["semi"].Options)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".compat.json")
	snap, err := FromIndex([]string{"src/a.js", "src/b.js", "src/c.js"}, []string{"js", "ts"}, buildIndex(t))
	require.NoError(t, err)
	require.NoError(t, snap.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"js", "ts"}, loaded.SupportExtensions)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		snap    Snapshot
		wantErr bool
	}{
		{
			name: "Valid",
			snap: Snapshot{
				Targets:     []string{"a.js", "b.js"},
				FilesConfig: []grouping.FilesConfig{{Key: "a.js", TargetFilePaths: []string{"a.js", "b.js"}}},
			},
		},
		{
			name: "Target in no group",
			snap: Snapshot{
				Targets:     []string{"a.js", "b.js"},
				FilesConfig: []grouping.FilesConfig{{Key: "a.js", TargetFilePaths: []string{"a.js"}}},
			},
			wantErr: true,
		},
		{
			name: "Grouped file outside targets",
			snap: Snapshot{
				Targets:     []string{"a.js"},
				FilesConfig: []grouping.FilesConfig{{Key: "a.js", TargetFilePaths: []string{"a.js", "z.js"}}},
			},
			wantErr: true,
		},
		{
			name: "File in two groups",
			snap: Snapshot{
				Targets: []string{"a.js", "b.js"},
				FilesConfig: []grouping.FilesConfig{
					{Key: "a.js", TargetFilePaths: []string{"a.js", "b.js"}},
					{Key: "b.js", TargetFilePaths: []string{"b.js"}},
				},
			},
			wantErr: true,
		},
		{
			name: "Key is not first member",
			snap: Snapshot{
				Targets:     []string{"a.js", "b.js"},
				FilesConfig: []grouping.FilesConfig{{Key: "b.js", TargetFilePaths: []string{"a.js", "b.js"}}},
			},
			wantErr: true,
		},
		{
			name: "Empty",
			snap: Snapshot{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snap.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvariant)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWrite_RejectsInconsistentSnapshot(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, &Snapshot{Targets: []string{"a.js"}})
	assert.ErrorIs(t, err, ErrInvariant)
	assert.Zero(t, buf.Len())
}

func TestRead_LegacyRuleSets(t *testing.T) {
	input := `{
		"targets": ["src/a.js", "src/b.js", "src/lib/x.js", "src/z.js"],
		"ruleSets": {
			"src/a.js": {"rules": {"semi": ["error"]}, "languageOptions": {"ecmaVersion": 2020}},
			"src/lib/x.js": {"rules": {"semi": ["warn"]}, "languageOptions": {}}
		}
	}`

	snap, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"js"}, snap.SupportExtensions)
	require.Len(t, snap.FilesConfig, 2)
	assert.Equal(t, []string{"src/a.js"}, snap.FilesConfig[0].TargetFilePaths)
	assert.Equal(t, []string{"src/lib/x.js"}, snap.FilesConfig[1].TargetFilePaths)
	assert.Equal(t, []string{"src/a.js", "src/lib/x.js"}, snap.Source().Representatives())

	cfg, err := snap.ConfigFor("src/lib/x.js")
	require.NoError(t, err)
	assert.Equal(t, ruleset.SeverityWarn, cfg.Rules["semi"].Canonical())

	_, err = snap.ConfigFor("src/z.js")
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestRead_LegacyRuleSetsRoundTrip(t *testing.T) {
	input := `{
		"targets": ["src/a.js", "src/b.js"],
		"ruleSets": {"src/a.js": {"rules": {"semi": ["error"]}}}
	}`
	snap, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, snap))
	assert.Contains(t, buf.String(), `"ruleSets"`)
	assert.NotContains(t, buf.String(), `"filesConfig"`)

	again, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.js"}, again.Source().Representatives())
}

type configSource map[string]*effective.Config

func (s configSource) Targets(ctx context.Context) ([]string, error) {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	return paths, nil
}

func (s configSource) EffectiveConfig(ctx context.Context, path string) (*effective.Config, error) {
	return s[path], nil
}

func TestLegacyRuleSets_InterleavedGroupsCompareEqual(t *testing.T) {
	// a.js and c.js share a configuration, b.js sits between them.
	input := `{
		"targets": ["src/a.js", "src/b.js", "src/c.js"],
		"ruleSets": {
			"src/a.js": {"rules": {"semi": ["error", "always"]}},
			"src/b.js": {"rules": {"semi": ["warn"]}}
		}
	}`
	snap, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	strict := &effective.Config{Rules: ruleset.RuleMap{"semi": ruleset.NewRule("error", "always")}}
	loose := &effective.Config{Rules: ruleset.RuleMap{"semi": ruleset.NewRule("warn")}}

	tests := []struct {
		name       string
		newSide    configSource
		equivalent bool
		compared   int
	}{
		{
			name:       "identical new config",
			newSide:    configSource{"src/a.js": strict, "src/b.js": loose, "src/c.js": strict},
			equivalent: true,
			compared:   2,
		},
		{
			name:       "representative diverges",
			newSide:    configSource{"src/a.js": loose, "src/b.js": loose, "src/c.js": strict},
			equivalent: false,
			compared:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &differ.Engine{Old: snap.Source(), New: tt.newSide}
			result, err := engine.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.equivalent, result.Equivalent(), result.Summary)
			assert.Equal(t, tt.compared, result.Compared)
		})
	}
}

func TestSource_CompleteSnapshotHasNoRepresentatives(t *testing.T) {
	snap, err := FromIndex([]string{"src/a.js", "src/b.js", "src/c.js"}, nil, buildIndex(t))
	require.NoError(t, err)
	assert.Nil(t, snap.Source().Representatives())
}

func TestRead_Invalid(t *testing.T) {
	_, err := Read(strings.NewReader(`{"targets": ["a.js"], "filesConfig": []}`))
	assert.ErrorIs(t, err, ErrInvariant)

	_, err = Read(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestSource(t *testing.T) {
	snap, err := FromIndex([]string{"src/a.js", "src/b.js", "src/c.js"}, nil, buildIndex(t))
	require.NoError(t, err)

	src := snap.Source()
	paths, err := src.Targets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.js", "src/b.js", "src/c.js"}, paths)

	cfg, err := src.EffectiveConfig(context.Background(), "src/b.js")
	require.NoError(t, err)
	assert.Equal(t, ruleset.SeverityWarn, cfg.Rules["semi"].Canonical())

	_, err = src.EffectiveConfig(context.Background(), "src/unknown.js")
	assert.ErrorIs(t, err, ErrUnknownTarget)
}
