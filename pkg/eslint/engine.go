// Package eslint adapts the ESLint command line into the target lists and
// per-file effective configurations the comparison consumes.
package eslint

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wonderfulspam/lintcompat/pkg/effective"
)

var (
	// ErrNotLinted is returned when the config does not apply to a file.
	ErrNotLinted = errors.New("ESLint has not been applied to this file")
	// ErrInvalidConfig is wrapped by ValidationError.
	ErrInvalidConfig = errors.New("ESLint config is invalid")
)

// Engine resolves lint targets and effective configurations for one config.
type Engine interface {
	// Validate loads the config and reports any messages ESLint prints.
	Validate(ctx context.Context) (*ValidationResult, error)
	// ListTargets returns the files under dir the config lints, sorted.
	ListTargets(ctx context.Context, dir string, extensions []string) ([]string, error)
	// CalculateConfigForFile returns the effective config of one file.
	CalculateConfigForFile(ctx context.Context, path string) (*effective.Config, error)
}

// ValidationResult holds the outcome of loading a config.
type ValidationResult struct {
	ConfigPath string
	Flat       bool
	Valid      bool
	Messages   []string
}

// Err returns a ValidationError when the config is invalid.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{ConfigPath: r.ConfigPath, Messages: r.Messages}
}

// ValidationError lists the messages ESLint reported for an invalid config.
type ValidationError struct {
	ConfigPath string
	Messages   []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("%s: %v", e.ConfigPath, ErrInvalidConfig)
	}
	return fmt.Sprintf("%s: %v: %s", e.ConfigPath, ErrInvalidConfig, strings.Join(e.Messages, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// Options configures an engine.
type Options struct {
	// ConfigPath is the ESLint config file. The static backend reads it as a
	// JSON fixture instead.
	ConfigPath string
	// Command runs ESLint; defaults to DefaultCommand.
	Command string
	// Ignore lists glob patterns skipped when walking the file system.
	Ignore []string
}

// DefaultCommand runs the project-local ESLint.
const DefaultCommand = "npx eslint"

// BackendType selects how ESLint is reached.
type BackendType string

const (
	// BackendExec runs the ESLint CLI.
	BackendExec BackendType = "exec"
	// BackendStatic serves recorded results from a fixture file.
	BackendStatic BackendType = "static"
)

// New creates an engine for the given backend.
func New(backend BackendType, opts Options) (Engine, error) {
	if opts.ConfigPath == "" {
		return nil, errors.New("config path is required")
	}
	if len(opts.Ignore) == 0 {
		opts.Ignore = DefaultIgnore
	}

	switch backend {
	case BackendExec, "":
		return newExecEngine(opts), nil
	case BackendStatic:
		return newStaticEngine(opts)
	default:
		return nil, fmt.Errorf("unknown engine backend %q", backend)
	}
}

// Source serves an engine as one side of a comparison.
type Source struct {
	Engine     Engine
	Dir        string
	Extensions []string
}

func (s *Source) Targets(ctx context.Context) ([]string, error) {
	return s.Engine.ListTargets(ctx, s.Dir, s.Extensions)
}

func (s *Source) EffectiveConfig(ctx context.Context, path string) (*effective.Config, error) {
	return s.Engine.CalculateConfigForFile(ctx, path)
}
