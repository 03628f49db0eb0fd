// Package targets computes the difference between two lint target lists.
package targets

import "sort"

// Diff lists the target files only one side lints.
type Diff struct {
	Added   []string `json:"targetsAdded,omitempty" yaml:"targetsAdded,omitempty"`
	Removed []string `json:"targetsRemoved,omitempty" yaml:"targetsRemoved,omitempty"`
}

// Empty reports whether both sides lint the same files.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Compute returns the paths only in newPaths (Added) and only in oldPaths
// (Removed). Each list keeps the order of the input it came from.
func Compute(oldPaths, newPaths []string) Diff {
	oldSet := toSet(oldPaths)
	newSet := toSet(newPaths)

	var d Diff
	for _, p := range newPaths {
		if !oldSet[p] {
			d.Added = append(d.Added, p)
		}
	}
	for _, p := range oldPaths {
		if !newSet[p] {
			d.Removed = append(d.Removed, p)
		}
	}
	return d
}

// Sorted returns a sorted copy of paths without duplicates.
func Sorted(paths []string) []string {
	out := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func toSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set
}
