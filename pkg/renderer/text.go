package renderer

import (
	"fmt"
	"strings"

	"github.com/wonderfulspam/lintcompat/pkg/differ"
	"github.com/wonderfulspam/lintcompat/pkg/value"
)

func (r *Renderer) formatText(result *differ.Result) string {
	var b strings.Builder
	s := r.styles

	if !result.Targets.Empty() {
		b.WriteString(r.paint(s.Error, "🚨 There is a difference in lint targets") + "\n")
		if len(result.Targets.Added) > 0 {
			b.WriteString(r.paint(s.Error, "following files are increased as lint targets...") + "\n")
			r.writeList(&b, "  ", r.truncate(result.Targets.Added, "files"))
		}
		if len(result.Targets.Removed) > 0 {
			b.WriteString(r.paint(s.Error, "following files are reduced as lint targets...") + "\n")
			r.writeList(&b, "  ", r.truncate(result.Targets.Removed, "files"))
		}
		b.WriteString("\n" + result.Summary + "\n")
		return b.String()
	}

	b.WriteString(r.paint(s.Success, "✅ No difference in lint targets") + "\n")
	if len(result.Groups) == 0 {
		b.WriteString(r.paint(s.Success, "✅ No difference in lint rules") + "\n")
		b.WriteString("\n" + result.Summary + "\n")
		return b.String()
	}

	b.WriteString(r.paint(s.Error, "🚨 There are differences in lint rules") + "\n")
	for _, g := range result.Groups {
		r.writeGroup(&b, g)
	}
	b.WriteString("\n" + result.Summary + "\n")
	return b.String()
}

func (r *Renderer) writeGroup(b *strings.Builder, g differ.Group) {
	s := r.styles
	rec := g.Record

	b.WriteString("\n")
	for _, path := range r.truncate(g.FilePaths, "files") {
		b.WriteString(r.paint(s.Header, "  - "+path) + "\n")
	}

	if len(rec.RulesAdded) > 0 {
		b.WriteString(r.paint(s.Error, "  - following rules are increased.") + "\n")
		r.writeList(b, "      ", r.truncate(rec.RulesAdded, "rules"))
	}
	if len(rec.RulesRemoved) > 0 {
		b.WriteString(r.paint(s.Error, "  - following rules are reduced.") + "\n")
		r.writeList(b, "      ", r.truncate(rec.RulesRemoved, "rules"))
	}
	if len(rec.SeverityDiffs) > 0 {
		b.WriteString(r.paint(s.Error, "  - following rules have different severities.") + "\n")
		for _, d := range rec.SeverityDiffs {
			fmt.Fprintf(b, "    - %s : %s -> %s\n", d.Rule, d.Old, d.New)
		}
	}
	if len(rec.OptionDiffs) > 0 {
		b.WriteString(r.paint(s.Error, "  - following rules have different options.") + "\n")
		for _, d := range rec.OptionDiffs {
			fmt.Fprintf(b, "    - %s (option %d) : %s -> %s\n", d.Rule, d.Index, value.Compact(d.Old), value.Compact(d.New))
			oldText, newText := value.Indent(d.Old), value.Indent(d.New)
			b.WriteString(indent(r.charDiff(oldText, newText), "        ") + "\n")
		}
	}
	if len(rec.LanguageOptionDiffs) > 0 {
		b.WriteString(r.paint(s.Error, "  - following language options are different.") + "\n")
		for _, d := range rec.LanguageOptionDiffs {
			fmt.Fprintf(b, "    - %s : %s -> %s\n", d.Kind, value.Compact(d.Old), value.Compact(d.New))
		}
	}
	if rec.Settings != nil {
		b.WriteString(r.paint(s.Error, "  - settings are different.") + "\n")
		b.WriteString(indent(r.charDiff(value.Indent(rec.Settings.Old), value.Indent(rec.Settings.New)), "        ") + "\n")
	}
}

func (r *Renderer) writeList(b *strings.Builder, prefix string, items []string) {
	for _, item := range items {
		b.WriteString(prefix + "- " + item + "\n")
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
