// Package appconfig loads the lintcompat tool configuration.
//
// Values are layered, lowest precedence first: built-in defaults, the
// .lintcompat.yml file, LINTCOMPAT_ environment variables, then command line
// flags that were explicitly set.
package appconfig

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wonderfulspam/lintcompat/pkg/eslint"
	"github.com/wonderfulspam/lintcompat/pkg/logging"
	"github.com/wonderfulspam/lintcompat/pkg/renderer"
	"github.com/wonderfulspam/lintcompat/pkg/snapshot"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".lintcompat.yml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LINTCOMPAT_"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the tool configuration.
type Config struct {
	Old        string       `koanf:"old" yaml:"old,omitempty"`
	New        string       `koanf:"new" yaml:"new,omitempty"`
	Snapshot   string       `koanf:"snapshot" yaml:"snapshot" validate:"required"`
	TargetDir  string       `koanf:"target_dir" yaml:"target_dir" validate:"required"`
	Extensions []string     `koanf:"extensions" yaml:"extensions" validate:"min=1,dive,required"`
	Ignore     []string     `koanf:"ignore" yaml:"ignore" validate:"dive,ignoreglob"`
	Format     string       `koanf:"format" yaml:"format" validate:"reportformat"`
	Output     string       `koanf:"output" yaml:"output,omitempty"`
	Engine     string       `koanf:"engine" yaml:"engine" validate:"engine"`
	ESLint     ESLintConfig `koanf:"eslint" yaml:"eslint"`
	Log        LogConfig    `koanf:"log" yaml:"log"`
	Color      string       `koanf:"color" yaml:"color" validate:"oneof=auto always never"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-" yaml:"-"`
}

// ESLintConfig configures the exec engine backend.
type ESLintConfig struct {
	Command string `koanf:"command" yaml:"command" validate:"required"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level" validate:"loglevel"`
	Format string `koanf:"format" yaml:"format" validate:"logformat"`
	File   string `koanf:"file" yaml:"file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Snapshot:   snapshot.DefaultPath,
		TargetDir:  "./",
		Extensions: []string{"js"},
		Ignore:     append([]string(nil), eslint.DefaultIgnore...),
		Format:     string(renderer.FormatText),
		Engine:     string(eslint.BackendExec),
		ESLint:     ESLintConfig{Command: eslint.DefaultCommand},
		Log: LogConfig{
			Level:  logging.DefaultConfig().Level,
			Format: string(logging.FormatConsole),
		},
		Color: ColorAuto,
	}
}

// defaults flattens Default into koanf keys.
func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"snapshot":       d.Snapshot,
		"target_dir":     d.TargetDir,
		"extensions":     d.Extensions,
		"ignore":         d.Ignore,
		"format":         d.Format,
		"engine":         d.Engine,
		"eslint.command": d.ESLint.Command,
		"log.level":      d.Log.Level,
		"log.format":     d.Log.Format,
		"color":          d.Color,
	}
}

// ReportFormat returns the parsed report format.
func (c *Config) ReportFormat() renderer.Format {
	f, err := renderer.ParseFormat(c.Format)
	if err != nil {
		return renderer.FormatText
	}
	return f
}

// UseColor reports whether output written to w should be colored.
func (c *Config) UseColor(w io.Writer) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return renderer.IsTerminal(w)
	}
}

// LoggingConfig maps the log section onto the logging builder config.
func (c *Config) LoggingConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Log.Level
	lc.Format = logging.Format(c.Log.Format)
	lc.FilePath = c.Log.File
	lc.NoColor = c.Color == ColorNever
	return lc
}

// normalize trims leading dots from extensions and drops duplicates.
func (c *Config) normalize() {
	seen := make(map[string]bool, len(c.Extensions))
	exts := c.Extensions[:0]
	for _, ext := range c.Extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	c.Extensions = exts
	c.Format = strings.ToLower(c.Format)
	c.Engine = strings.ToLower(c.Engine)
}

// Save writes cfg as YAML to path. It refuses to overwrite an existing file.
func Save(cfg *Config, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file %s already exists", path)
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
