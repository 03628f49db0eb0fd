package eslint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/wonderfulspam/lintcompat/pkg/effective"
	"github.com/wonderfulspam/lintcompat/pkg/targets"
)

// Fixture is a recorded ESLint run for one config.
type Fixture struct {
	// Targets lists the linted files; when empty the file system is walked.
	Targets []string                     `json:"targets"`
	Configs map[string]*effective.Config `json:"configs"`
	// Errors are reported by Validate as the config's messages.
	Errors []string `json:"errors"`
}

// LoadFixture reads a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	return &f, nil
}

type staticEngine struct {
	opts    Options
	fixture *Fixture
}

func newStaticEngine(opts Options) (*staticEngine, error) {
	f, err := LoadFixture(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	return &staticEngine{opts: opts, fixture: f}, nil
}

func (e *staticEngine) Validate(ctx context.Context) (*ValidationResult, error) {
	return &ValidationResult{
		ConfigPath: e.opts.ConfigPath,
		Valid:      len(e.fixture.Errors) == 0,
		Messages:   e.fixture.Errors,
	}, nil
}

func (e *staticEngine) ListTargets(ctx context.Context, dir string, extensions []string) ([]string, error) {
	if len(e.fixture.Targets) == 0 {
		return WalkTargets(dir, extensions, e.opts.Ignore)
	}

	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts["."+strings.TrimPrefix(ext, ".")] = true
	}
	var paths []string
	for _, p := range e.fixture.Targets {
		if len(exts) == 0 || hasExt(p, exts) {
			paths = append(paths, p)
		}
	}
	return targets.Sorted(paths), nil
}

func (e *staticEngine) CalculateConfigForFile(ctx context.Context, path string) (*effective.Config, error) {
	cfg, ok := e.fixture.Configs[path]
	if !ok || cfg == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNotLinted)
	}
	return cfg, nil
}

func hasExt(path string, exts map[string]bool) bool {
	i := strings.LastIndex(path, ".")
	return i >= 0 && exts[path[i:]]
}
