package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderfulspam/lintcompat/pkg/eslint"
	"github.com/wonderfulspam/lintcompat/pkg/logging"
	"github.com/wonderfulspam/lintcompat/pkg/renderer"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("format", "text", "")
	fs.String("dir", "./", "")
	fs.StringSlice("ext", []string{"js"}, "")
	fs.String("log-level", "warn", "")
	fs.Bool("no-color", false, "")
	fs.String("config", "", "")
	_ = fs.SetAnnotation("config", KeyAnnotation, []string{"old"})
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "./.compat.json", cfg.Snapshot)
	assert.Equal(t, "./", cfg.TargetDir)
	assert.Equal(t, []string{"js"}, cfg.Extensions)
	assert.Equal(t, eslint.DefaultIgnore, cfg.Ignore)
	assert.Equal(t, renderer.FormatText, cfg.ReportFormat())
	assert.Equal(t, "exec", cfg.Engine)
	assert.Equal(t, "npx eslint", cfg.ESLint.Command)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.Empty(t, cfg.File)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := `format: table
target_dir: ./src
extensions: [js, .ts]
eslint:
  command: node_modules/.bin/eslint
log:
  level: info
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte(content), 0o644))

	tests := []struct {
		name   string
		env    map[string]string
		args   []string
		verify func(t *testing.T, cfg *Config)
	}{
		{
			name: "file overrides defaults",
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultFile, cfg.File)
				assert.Equal(t, renderer.FormatTable, cfg.ReportFormat())
				assert.Equal(t, "./src", cfg.TargetDir)
				assert.Equal(t, []string{"js", "ts"}, cfg.Extensions)
				assert.Equal(t, "node_modules/.bin/eslint", cfg.ESLint.Command)
				assert.Equal(t, "info", cfg.Log.Level)
				assert.Equal(t, "./.compat.json", cfg.Snapshot)
			},
		},
		{
			name: "env overrides file",
			env: map[string]string{
				"LINTCOMPAT_FORMAT":     "json",
				"LINTCOMPAT_LOG_LEVEL":  "debug",
				"LINTCOMPAT_EXTENSIONS": "mjs, cjs",
			},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, renderer.FormatJSON, cfg.ReportFormat())
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.Equal(t, []string{"mjs", "cjs"}, cfg.Extensions)
			},
		},
		{
			name: "flags override env",
			env:  map[string]string{"LINTCOMPAT_FORMAT": "json"},
			args: []string{"--format", "yaml", "--dir", "lib", "--ext", "ts,tsx", "--log-level", "error", "--config", ".eslintrc.json", "--no-color"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, renderer.FormatYAML, cfg.ReportFormat())
				assert.Equal(t, "lib", cfg.TargetDir)
				assert.Equal(t, []string{"ts", "tsx"}, cfg.Extensions)
				assert.Equal(t, "error", cfg.Log.Level)
				assert.Equal(t, ".eslintrc.json", cfg.Old)
				assert.Equal(t, ColorNever, cfg.Color)
			},
		},
		{
			name: "unset flags keep lower layers",
			args: []string{},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, renderer.FormatTable, cfg.ReportFormat())
				assert.Equal(t, ColorAuto, cfg.Color)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			var fs *pflag.FlagSet
			if tt.args != nil {
				fs = newFlags()
				require.NoError(t, fs.Parse(tt.args))
			}

			cfg, err := Load("", fs)
			require.NoError(t, err)
			tt.verify(t, cfg)
		})
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("does-not-exist.yml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"bad format", "format: mermaid\n", "not a supported report format"},
		{"bad engine", "engine: docker\n", "not a supported engine"},
		{"bad log level", "log:\n  level: loud\n", "not a log level"},
		{"bad log format", "log:\n  format: xml\n", "not a log format"},
		{"bad color", "color: sometimes\n", "must be one of"},
		{"bad glob", "ignore: ['[']\n", "not a valid glob pattern"},
		{"no extensions", "extensions: ['.']\n", "Extensions needs at least 1 entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)

	require.NoError(t, Save(Default(), path))
	err := Save(Default(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, Default().Extensions, cfg.Extensions)
	assert.Equal(t, path, cfg.File)
}

func TestConfig_UseColor(t *testing.T) {
	var buf bytes.Buffer

	cfg := Default()
	assert.False(t, cfg.UseColor(&buf), "a buffer is not a terminal")

	cfg.Color = ColorAlways
	assert.True(t, cfg.UseColor(&buf))

	cfg.Color = ColorNever
	assert.False(t, cfg.UseColor(&buf))
}

func TestConfig_LoggingConfig(t *testing.T) {
	cfg := Default()
	cfg.Log = LogConfig{Level: "debug", Format: "json", File: "/tmp/lintcompat.log"}
	cfg.Color = ColorNever

	lc := cfg.LoggingConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, logging.FormatJSON, lc.Format)
	assert.Equal(t, "/tmp/lintcompat.log", lc.FilePath)
	assert.True(t, lc.NoColor)
}
