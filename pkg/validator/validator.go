// Package validator runs the end-to-end compatibility checks: both configs
// are validated, then lint targets and per-file effective configurations are
// compared directly or through a snapshot.
package validator

import (
	"context"
	"fmt"
	"io"

	"github.com/wonderfulspam/lintcompat/pkg/differ"
	"github.com/wonderfulspam/lintcompat/pkg/eslint"
	"github.com/wonderfulspam/lintcompat/pkg/grouping"
	"github.com/wonderfulspam/lintcompat/pkg/logging"
	"github.com/wonderfulspam/lintcompat/pkg/snapshot"
)

const separator = "============================"

// EngineFactory creates the lint engine for one config file.
type EngineFactory func(configPath string) (eslint.Engine, error)

// Options configures a Checker.
type Options struct {
	Backend    eslint.BackendType
	Command    string
	Ignore     []string
	TargetDir  string
	Extensions []string
	// Progress receives the step banners; nil discards them.
	Progress io.Writer
}

// Checker orchestrates compatibility checks.
type Checker struct {
	opts    Options
	factory EngineFactory
	out     io.Writer
}

// NewChecker creates a checker whose engines use opts.Backend.
func NewChecker(opts Options) *Checker {
	if opts.TargetDir == "" {
		opts.TargetDir = "./"
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{"js"}
	}
	out := opts.Progress
	if out == nil {
		out = io.Discard
	}

	c := &Checker{opts: opts, out: out}
	c.factory = func(configPath string) (eslint.Engine, error) {
		return eslint.New(c.opts.Backend, eslint.Options{
			ConfigPath: configPath,
			Command:    c.opts.Command,
			Ignore:     c.opts.Ignore,
		})
	}
	return c
}

// SetEngineFactory replaces how engines are created.
func (c *Checker) SetEngineFactory(factory EngineFactory) {
	c.factory = factory
}

// CompareConfigurations checks that newPath lints the same files the same way
// as oldPath.
func (c *Checker) CompareConfigurations(ctx context.Context, oldPath, newPath string) (*differ.Result, error) {
	c.printf("🔍 Check ESLint config compatibility...\n")
	c.step("Step1. Check each configs are valid.")
	oldEngine, err := c.validated(ctx, oldPath)
	if err != nil {
		return nil, err
	}
	newEngine, err := c.validated(ctx, newPath)
	if err != nil {
		return nil, err
	}

	c.step("Step2. Check lint targets and rule sets are same.")
	engine := &differ.Engine{
		Old: c.source(oldEngine, c.opts.Extensions),
		New: c.source(newEngine, c.opts.Extensions),
	}
	result, err := engine.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("comparing %s with %s: %w", oldPath, newPath, err)
	}
	c.finish(result, "🎉 All checks are passed!")
	return result, nil
}

// GenerateSnapshot records the lint targets and grouped effective
// configurations of configPath.
func (c *Checker) GenerateSnapshot(ctx context.Context, configPath string) (*snapshot.Snapshot, error) {
	logger := logging.FromContext(ctx)

	c.printf("🔍 Check ESLint config compatibility...\n")
	c.step("Step1. Check each configs are valid.")
	engine, err := c.validated(ctx, configPath)
	if err != nil {
		return nil, err
	}

	c.step("Step2. Get lint targets.")
	paths, err := engine.ListTargets(ctx, c.opts.TargetDir, c.opts.Extensions)
	if err != nil {
		return nil, fmt.Errorf("listing lint targets of %s: %w", configPath, err)
	}
	c.printf("%d lint targets found\n", len(paths))

	c.step("Step3. Get rule-sets for each file")
	ix := grouping.NewIndex()
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cfg, err := engine.CalculateConfigForFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("calculating config for %s: %w", path, err)
		}
		if err := ix.Add(path, cfg); err != nil {
			return nil, err
		}
	}
	logger.Debug().Int("targets", len(paths)).Int("groups", ix.Len()).Msg("grouped effective configs")

	snap, err := snapshot.FromIndex(paths, c.opts.Extensions, ix)
	if err != nil {
		return nil, err
	}
	c.printf("%s\n🎉 rule settings are extracted!\n", separator)
	return snap, nil
}

// CheckSnapshot compares newPath against a snapshot taken from the old
// configuration.
func (c *Checker) CheckSnapshot(ctx context.Context, snap *snapshot.Snapshot, newPath string) (*differ.Result, error) {
	c.printf("🔍 Check ESLint config compatibility...\n")
	c.step("Step1. Check config is valid.")
	newEngine, err := c.validated(ctx, newPath)
	if err != nil {
		return nil, err
	}

	c.step("Step2. compare lint targets and rule sets.")
	engine := &differ.Engine{
		Old: snap.Source(),
		New: c.source(newEngine, snap.SupportExtensions),
	}
	result, err := engine.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("comparing %s with snapshot: %w", newPath, err)
	}
	c.finish(result, "🎉 successfully checked")
	return result, nil
}

// validated creates the engine for path and fails when ESLint rejects it.
func (c *Checker) validated(ctx context.Context, path string) (eslint.Engine, error) {
	engine, err := c.factory(path)
	if err != nil {
		return nil, fmt.Errorf("creating engine for %s: %w", path, err)
	}

	c.printf("target : %s\n", path)
	res, err := engine.Validate(ctx)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if err := res.Err(); err != nil {
		c.printf("🚨 ESLint config is invalid. Detailed errors are as follows.\n")
		for _, msg := range res.Messages {
			c.printf("  %s\n", msg)
		}
		return nil, err
	}
	c.printf("✅ This config is valid.\n")
	return engine, nil
}

func (c *Checker) source(engine eslint.Engine, extensions []string) *eslint.Source {
	return &eslint.Source{Engine: engine, Dir: c.opts.TargetDir, Extensions: extensions}
}

func (c *Checker) step(title string) {
	c.printf("%s\n%s\n", separator, title)
}

func (c *Checker) finish(result *differ.Result, success string) {
	c.printf("%s\n", separator)
	if result.Equivalent() {
		c.printf("%s\n", success)
	}
}

func (c *Checker) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
