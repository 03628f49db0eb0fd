package testutil

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/wonderfulspam/lintcompat/pkg/differ"
)

// ValidateExpectations checks a comparison outcome against expectations and
// returns every mismatch.
func ValidateExpectations(result *differ.Result, runErr error, expectations Expectations) (bool, []string) {
	var issues []string

	if expectations.ErrorContains != "" {
		switch {
		case runErr == nil:
			issues = append(issues, fmt.Sprintf("Expected error containing %q, got none", expectations.ErrorContains))
		case !strings.Contains(runErr.Error(), expectations.ErrorContains):
			issues = append(issues, fmt.Sprintf("Expected error containing %q, got %q", expectations.ErrorContains, runErr))
		}
		return len(issues) == 0, issues
	}
	if runErr != nil {
		return false, []string{fmt.Sprintf("Unexpected error: %v", runErr)}
	}

	if result.Equivalent() != expectations.Equivalent {
		issues = append(issues, fmt.Sprintf("Expected equivalent=%t, got %t (%s)", expectations.Equivalent, result.Equivalent(), result.Summary))
	}

	if !sameStrings(result.Targets.Added, expectations.TargetsAdded) {
		issues = append(issues, fmt.Sprintf("Targets added: expected %v, got %v", expectations.TargetsAdded, result.Targets.Added))
	}
	if !sameStrings(result.Targets.Removed, expectations.TargetsRemoved) {
		issues = append(issues, fmt.Sprintf("Targets removed: expected %v, got %v", expectations.TargetsRemoved, result.Targets.Removed))
	}

	if len(result.Groups) != expectations.Groups {
		issues = append(issues, fmt.Sprintf("Expected %d divergence groups, got %d", expectations.Groups, len(result.Groups)))
	}

	actual := CountKinds(result)
	for kind, want := range expectations.DiffKinds {
		if actual[kind] != want {
			issues = append(issues, fmt.Sprintf("Kind %s: expected %d, got %d", kind, want, actual[kind]))
		}
	}

	for first, files := range expectations.GroupedFiles {
		got := GroupFiles(result, first)
		if !sameStrings(got, files) {
			issues = append(issues, fmt.Sprintf("Group of %s: expected %v, got %v", first, files, got))
		}
	}

	return len(issues) == 0, issues
}

// CountKinds sums the divergences of every group by kind.
func CountKinds(result *differ.Result) map[differ.DiffType]int {
	counts := make(map[differ.DiffType]int)
	counts[differ.DiffTypeTargetAdded] = len(result.Targets.Added)
	counts[differ.DiffTypeTargetRemoved] = len(result.Targets.Removed)
	for _, g := range result.Groups {
		rec := g.Record
		counts[differ.DiffTypeRuleAdded] += len(rec.RulesAdded)
		counts[differ.DiffTypeRuleRemoved] += len(rec.RulesRemoved)
		counts[differ.DiffTypeSeverity] += len(rec.SeverityDiffs)
		counts[differ.DiffTypeOption] += len(rec.OptionDiffs)
		counts[differ.DiffTypeLanguageOption] += len(rec.LanguageOptionDiffs)
		if rec.Settings != nil {
			counts[differ.DiffTypeSettings]++
		}
	}
	return counts
}

// GroupFiles returns the files of the group whose first file is first.
func GroupFiles(result *differ.Result, first string) []string {
	for _, g := range result.Groups {
		if len(g.FilePaths) > 0 && g.FilePaths[0] == first {
			return g.FilePaths
		}
	}
	return nil
}

func sameStrings(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
