package eslint

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/wonderfulspam/lintcompat/pkg/effective"
	"github.com/wonderfulspam/lintcompat/pkg/logging"
)

const parsingSuccessful = "Parsing successful: "

// engineMu serializes every ESLint invocation in the process.
var engineMu sync.Mutex

// runFunc runs one command and returns its stdout and stderr.
type runFunc func(ctx context.Context, env []string, name string, args ...string) (stdout, stderr []byte, err error)

func runCommand(ctx context.Context, env []string, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

type execEngine struct {
	opts Options
	flat bool
	run  runFunc
}

func newExecEngine(opts Options) *execEngine {
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}
	return &execEngine{
		opts: opts,
		flat: IsFlatConfig(opts.ConfigPath),
		run:  runCommand,
	}
}

func (e *execEngine) eslint(ctx context.Context, args ...string) ([]byte, []byte, error) {
	engineMu.Lock()
	defer engineMu.Unlock()

	fields := strings.Fields(e.opts.Command)
	if len(fields) == 0 {
		fields = strings.Fields(DefaultCommand)
	}
	env := []string{"ESLINT_USE_FLAT_CONFIG=" + strconv.FormatBool(e.flat)}
	full := append(fields[1:], args...)

	logging.FromContext(ctx).Debug().
		Str("command", fields[0]).
		Strs("args", full).
		Bool("flat", e.flat).
		Msg("running eslint")

	return e.run(ctx, env, fields[0], full...)
}

func (e *execEngine) Validate(ctx context.Context) (*ValidationResult, error) {
	_, stderr, err := e.eslint(ctx, e.opts.ConfigPath, "--config", e.opts.ConfigPath)

	result := &ValidationResult{ConfigPath: e.opts.ConfigPath, Flat: e.flat}
	result.Messages = nonEmptyLines(stderr)
	if len(result.Messages) > 0 {
		return result, nil
	}
	if err != nil && !lintProblems(err) {
		return nil, fmt.Errorf("running eslint on %s: %w", e.opts.ConfigPath, err)
	}
	result.Valid = true
	return result, nil
}

func (e *execEngine) ListTargets(ctx context.Context, dir string, extensions []string) ([]string, error) {
	args := []string{dir, "--config", e.opts.ConfigPath, "--debug"}
	if !e.flat && len(extensions) > 0 {
		exts := make([]string, len(extensions))
		for i, ext := range extensions {
			exts[i] = "." + strings.TrimPrefix(ext, ".")
		}
		args = append(args, "--ext", strings.Join(exts, ","))
	}

	_, stderr, err := e.eslint(ctx, args...)
	if err != nil && !lintProblems(err) {
		return nil, fmt.Errorf("listing targets with %s: %w", e.opts.ConfigPath, err)
	}

	paths := parseDebugTargets(stderr)
	if len(paths) == 0 {
		logging.FromContext(ctx).Warn().
			Str("config", e.opts.ConfigPath).
			Msg("no targets in eslint debug output, walking the file system instead")
		return WalkTargets(dir, extensions, e.opts.Ignore)
	}
	return paths, nil
}

func (e *execEngine) CalculateConfigForFile(ctx context.Context, path string) (*effective.Config, error) {
	stdout, stderr, err := e.eslint(ctx, "--print-config", path, "--config", e.opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("printing config for %s: %w: %s", path, err, strings.TrimSpace(string(stderr)))
	}

	cfg, err := ParsePrintConfig(stdout, e.flat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// parseDebugTargets collects the files ESLint reports parsing, relative to
// the working directory where possible.
func parseDebugTargets(stderr []byte) []string {
	wd, _ := os.Getwd()
	seen := map[string]bool{}
	var paths []string

	scanner := bufio.NewScanner(bytes.NewReader(stderr))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		_, path, ok := strings.Cut(scanner.Text(), parsingSuccessful)
		if !ok {
			continue
		}
		path = strings.TrimSpace(path)
		if wd != "" && filepath.IsAbs(path) {
			if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
				path = rel
			}
		}
		path = filepath.ToSlash(path)
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		paths = append(paths, path)
	}

	sort.Strings(paths)
	return paths
}

// lintProblems reports whether err is ESLint exiting 1 because it found lint
// problems, which is not a failure to run.
func lintProblems(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == 1
}

func nonEmptyLines(data []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
