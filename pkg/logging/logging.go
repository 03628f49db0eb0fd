// Package logging builds the zerolog logger used across lintcompat and carries
// it through context.Context.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Format selects how log lines are written.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Config holds logger settings.
type Config struct {
	Level      string
	Format     Format
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	NoColor    bool
	// Output receives console logs; defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig logs warnings and above to stderr in console format.
func DefaultConfig() Config {
	return Config{
		Level:      "warn",
		Format:     FormatConsole,
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}

// Builder assembles a logger from a Config.
type Builder struct {
	config Config
}

// NewBuilder returns a builder seeded with DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

func (b *Builder) WithLevel(level string) *Builder {
	if level != "" {
		b.config.Level = level
	}
	return b
}

func (b *Builder) WithFormat(format string) *Builder {
	if format != "" {
		b.config.Format = Format(strings.ToLower(format))
	}
	return b
}

// WithFile additionally writes JSON logs to a rotating file.
func (b *Builder) WithFile(path string) *Builder {
	b.config.FilePath = path
	return b
}

func (b *Builder) WithNoColor(noColor bool) *Builder {
	b.config.NoColor = noColor
	return b
}

func (b *Builder) WithOutput(w io.Writer) *Builder {
	b.config.Output = w
	return b
}

// Build creates the logger.
func (b *Builder) Build() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(b.config.Level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", b.config.Level, err)
	}

	out := b.config.Output
	if out == nil {
		out = os.Stderr
	}

	var writers []io.Writer
	switch b.config.Format {
	case FormatJSON:
		writers = append(writers, out)
	case FormatConsole, "":
		writers = append(writers, zerolog.ConsoleWriter{Out: out, NoColor: b.config.NoColor, TimeFormat: "15:04:05"})
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", b.config.Format)
	}

	if b.config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(b.config.FilePath), 0o755); err != nil {
			return zerolog.Nop(), fmt.Errorf("creating log directory: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   b.config.FilePath,
			MaxSize:    b.config.MaxSizeMB,
			MaxBackups: b.config.MaxBackups,
			LocalTime:  true,
		})
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// WithContext returns a copy of ctx carrying logger.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger carried by ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
