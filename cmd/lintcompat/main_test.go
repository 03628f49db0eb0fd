package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderfulspam/lintcompat/pkg/differ"
)

// fixture returns the absolute path of a validator scenario fixture.
func fixture(t *testing.T, scenario, name string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "..", "pkg", "validator", "testdata", "scenarios", scenario, name))
	require.NoError(t, err)
	return path
}

func execute(args ...string) (string, string, error) {
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "root command without args", args: []string{}, want: "lintcompat checks that two ESLint configurations"},
		{name: "help flag", args: []string{"--help"}, want: "compare"},
		{name: "compare help", args: []string{"compare", "--help"}, want: "--old"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(tt.args...)
			if err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
			if !bytes.Contains([]byte(stdout), []byte(tt.want)) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.want, stdout)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := execute("refactor")
	assert.Error(t, err)
}

func TestCompareCommand(t *testing.T) {
	tests := []struct {
		name      string
		scenario  string
		extra     []string
		wantErr   error
		errSubstr string
		stdout    []string
		stderr    []string
	}{
		{
			name:     "equivalent configs",
			scenario: "equivalent",
			stdout:   []string{"✅ No difference in lint targets", "✅ No difference in lint rules", "No differences found (2 files compared)"},
			stderr:   []string{"Step1. Check each configs are valid.", "🎉 All checks are passed!"},
		},
		{
			name:     "severity lowered",
			scenario: "severity-lowered",
			wantErr:  differ.ErrNotEquivalent,
			stdout:   []string{"🚨 There are differences in lint rules", "  - src/a.js", "  - src/b.js", "    - semi : error -> warn"},
		},
		{
			name:     "targets differ",
			scenario: "targets-differ",
			wantErr:  differ.ErrNotEquivalent,
			stdout:   []string{"🚨 There is a difference in lint targets", "following files are increased as lint targets...", "  - src/extra.js"},
		},
		{
			name:     "table format",
			scenario: "options-changed",
			extra:    []string{"--format", "table"},
			wantErr:  differ.ErrNotEquivalent,
			stdout:   []string{"quotes[1]", "max-len[1]"},
		},
		{
			name:      "invalid new config",
			scenario:  "invalid-config",
			errSubstr: "ESLint config is invalid",
			stderr:    []string{"🚨 ESLint config is invalid. Detailed errors are as follows."},
		},
		{
			name:      "unsupported format",
			scenario:  "equivalent",
			extra:     []string{"--format", "mermaid"},
			errSubstr: "not a supported report format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			args := append([]string{"compare", "--engine", "static",
				"--old", fixture(t, tt.scenario, "old.json"),
				"--new", fixture(t, tt.scenario, "new.json")}, tt.extra...)

			stdout, stderr, err := execute(args...)

			switch {
			case tt.wantErr != nil:
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			case tt.errSubstr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
			default:
				require.NoError(t, err)
			}
			for _, want := range tt.stdout {
				assert.Contains(t, stdout, want)
			}
			for _, want := range tt.stderr {
				assert.Contains(t, stderr, want)
			}
		})
	}
}

func TestCompareCommand_MissingConfigs(t *testing.T) {
	chdir(t, t.TempDir())

	_, _, err := execute("compare", "--engine", "static", "--old", fixture(t, "equivalent", "old.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both --old and --new")
}

func TestCompareCommand_OutputFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	output := filepath.Join(dir, "report.json")

	_, stderr, err := execute("compare", "--engine", "static",
		"--old", fixture(t, "severity-lowered", "old.json"),
		"--new", fixture(t, "severity-lowered", "new.json"),
		"--format", "json", "--output", output)
	require.ErrorIs(t, err, differ.ErrNotEquivalent)
	assert.Contains(t, stderr, "Results written to "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal(data, &report))
	assert.EqualValues(t, 3, report["comparedFiles"])
	assert.Len(t, report["groups"], 1)
}

func TestCompareCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := "old: " + fixture(t, "rules-added-removed", "old.json") + "\n" +
		"new: " + fixture(t, "rules-added-removed", "new.json") + "\n" +
		"engine: static\nformat: yaml\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lintcompat.yml"), []byte(content), 0o644))

	stdout, _, err := execute("compare")
	require.ErrorIs(t, err, differ.ErrNotEquivalent)
	assert.Contains(t, stdout, "rulesAdded:")
	assert.Contains(t, stdout, "- curly")
	assert.Contains(t, stdout, "rulesRemoved:")
}

func TestSnapshotAndCheckCommands(t *testing.T) {
	tests := []struct {
		scenario string
		wantErr  error
		stdout   string
	}{
		{scenario: "equivalent", stdout: "✅ No difference in lint rules"},
		{scenario: "severity-lowered", wantErr: differ.ErrNotEquivalent, stdout: "    - semi : error -> warn"},
		{scenario: "targets-differ", wantErr: differ.ErrNotEquivalent, stdout: "following files are reduced as lint targets..."},
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			snapPath := filepath.Join(dir, "compat.json")

			stdout, _, err := execute("snapshot", "--engine", "static",
				"--config", fixture(t, tt.scenario, "old.json"),
				"--output", snapPath)
			require.NoError(t, err)
			assert.Contains(t, stdout, "Snapshot written to "+snapPath)
			_, err = os.Stat(snapPath)
			require.NoError(t, err)

			stdout, _, err = execute("check", "--engine", "static",
				"--config", fixture(t, tt.scenario, "new.json"),
				"--snapshot", snapPath)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, stdout, tt.stdout)
		})
	}
}

func TestCheckCommand_MissingSnapshot(t *testing.T) {
	chdir(t, t.TempDir())

	_, _, err := execute("check", "--engine", "static", "--config", fixture(t, "equivalent", "new.json"))
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	chdir(t, t.TempDir())

	stdout, _, err := execute("config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✅ Configuration file created: .lintcompat.yml")

	_, _, err = execute("config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	stdout, _, err = execute("config", "validate", ".lintcompat.yml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✅ Configuration is valid!")
	assert.Contains(t, stdout, "Extensions: js")

	stdout, _, err = execute("config", "show", "--engine", "static")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# loaded from .lintcompat.yml")
	assert.Contains(t, stdout, "engine: static")
	assert.Contains(t, stdout, "snapshot: ./.compat.json")
}

func TestConfigValidate_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("format: dot\n"), 0o644))

	_, _, err := execute("config", "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}
