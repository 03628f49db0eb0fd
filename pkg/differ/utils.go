package differ

import (
	"fmt"
	"strings"
)

func generateSummary(result *Result) string {
	if !result.Targets.Empty() {
		return fmt.Sprintf("lint targets differ (%d added, %d removed)",
			len(result.Targets.Added), len(result.Targets.Removed))
	}
	if result.Equivalent() {
		return fmt.Sprintf("No differences found (%d files compared)", result.Compared)
	}

	counts := map[DiffType]int{}
	files := 0
	for _, g := range result.Groups {
		files += len(g.FilePaths)
		r := g.Record
		counts[DiffTypeRuleAdded] += len(r.RulesAdded)
		counts[DiffTypeRuleRemoved] += len(r.RulesRemoved)
		counts[DiffTypeSeverity] += len(r.SeverityDiffs)
		counts[DiffTypeOption] += len(r.OptionDiffs)
		counts[DiffTypeLanguageOption] += len(r.LanguageOptionDiffs)
		if r.Settings != nil {
			counts[DiffTypeSettings]++
		}
	}

	parts := []string{}
	for _, kind := range []struct {
		t     DiffType
		label string
	}{
		{DiffTypeRuleAdded, "rules added"},
		{DiffTypeRuleRemoved, "rules removed"},
		{DiffTypeSeverity, "severity changes"},
		{DiffTypeOption, "option changes"},
		{DiffTypeLanguageOption, "language option changes"},
		{DiffTypeSettings, "settings changes"},
	} {
		if n := counts[kind.t]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, kind.label))
		}
	}

	return fmt.Sprintf("%s in %d of %d files (%d distinct patterns)",
		strings.Join(parts, ", "), files, result.Compared, len(result.Groups))
}
