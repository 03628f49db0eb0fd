package renderer

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/wonderfulspam/lintcompat/pkg/differ"
	"github.com/wonderfulspam/lintcompat/pkg/value"
)

func (r *Renderer) formatTable(result *differ.Result) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Files", "Kind", "Subject", "Old", "New"})

	for _, p := range result.Targets.Added {
		t.AppendRow(table.Row{"-", p, differ.DiffTypeTargetAdded, "", "", ""})
	}
	for _, p := range result.Targets.Removed {
		t.AppendRow(table.Row{"-", p, differ.DiffTypeTargetRemoved, "", "", ""})
	}

	for i, g := range result.Groups {
		files := strings.Join(r.truncate(g.FilePaths, "files"), "\n")
		rec := g.Record
		row := func(kind differ.DiffType, subject string, oldVal, newVal string) {
			t.AppendRow(table.Row{i + 1, files, kind, subject, oldVal, newVal})
		}

		for _, rule := range rec.RulesAdded {
			row(differ.DiffTypeRuleAdded, rule, "", "")
		}
		for _, rule := range rec.RulesRemoved {
			row(differ.DiffTypeRuleRemoved, rule, "", "")
		}
		for _, d := range rec.SeverityDiffs {
			row(differ.DiffTypeSeverity, d.Rule, d.Old.String(), d.New.String())
		}
		for _, d := range rec.OptionDiffs {
			row(differ.DiffTypeOption, fmt.Sprintf("%s[%d]", d.Rule, d.Index), value.Compact(d.Old), value.Compact(d.New))
		}
		for _, d := range rec.LanguageOptionDiffs {
			row(differ.DiffTypeLanguageOption, string(d.Kind), value.Compact(d.Old), value.Compact(d.New))
		}
		if rec.Settings != nil {
			row(differ.DiffTypeSettings, "settings", value.Compact(rec.Settings.Old), value.Compact(rec.Settings.New))
		}
	}

	t.SetCaption(result.Summary)
	return t.Render() + "\n"
}
