package eslint

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultIgnore skips dependency directories.
var DefaultIgnore = []string{"node_modules/**", "**/node_modules/**"}

// WalkTargets lists the files under dir with one of the given extensions,
// skipping paths matched by an ignore pattern. Patterns match slash-separated
// paths relative to dir.
func WalkTargets(dir string, extensions, ignore []string) ([]string, error) {
	matchers := make([]glob.Glob, 0, len(ignore))
	for _, pattern := range ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		matchers = append(matchers, g)
	}
	ignored := func(rel string) bool {
		for _, m := range matchers {
			if m.Match(rel) {
				return true
			}
		}
		return false
	}

	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts["."+strings.TrimPrefix(e, ".")] = true
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if ignored(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		if ignored(rel) || !exts[filepath.Ext(path)] {
			return nil
		}
		paths = append(paths, filepath.ToSlash(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	sort.Strings(paths)
	return paths, nil
}
