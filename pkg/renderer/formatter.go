// Package renderer turns a comparison result into a human or machine readable
// report.
package renderer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"

	"github.com/wonderfulspam/lintcompat/pkg/differ"
)

// DefaultMaxItems caps how many files or rules a list shows.
const DefaultMaxItems = 10

// Options configures a Renderer.
type Options struct {
	Color    bool
	MaxItems int
}

// Renderer formats comparison results.
type Renderer struct {
	color    bool
	styles   Styles
	maxItems int
	dmp      *diffmatchpatch.DiffMatchPatch
}

// New creates a renderer.
func New(opts Options) *Renderer {
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}
	return &Renderer{
		color:    opts.Color,
		styles:   NewStyles(opts.Color),
		maxItems: opts.MaxItems,
		dmp:      diffmatchpatch.New(),
	}
}

// Format renders result in the given format.
func (r *Renderer) Format(result *differ.Result, format Format) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case FormatYAML:
		// Round trip through JSON so option values keep their JSON shape.
		data, err := json.Marshal(result)
		if err != nil {
			return "", err
		}
		var tree any
		if err := json.Unmarshal(data, &tree); err != nil {
			return "", err
		}
		out, err := yaml.Marshal(tree)
		if err != nil {
			return "", err
		}
		return string(out), nil

	case FormatTable:
		return r.formatTable(result), nil

	case FormatText, "":
		return r.formatText(result), nil

	default:
		return "", fmt.Errorf("unsupported format: %s (supported: text, table, json, yaml)", format)
	}
}

// Write renders result to w.
func (r *Renderer) Write(w io.Writer, result *differ.Result, format Format) error {
	out, err := r.Format(result, format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// truncate keeps the first maxItems entries and notes how many were dropped.
func (r *Renderer) truncate(items []string, noun string) []string {
	if len(items) <= r.maxItems {
		return items
	}
	out := append([]string(nil), items[:r.maxItems]...)
	return append(out, fmt.Sprintf("...and %d more %s", len(items)-r.maxItems, noun))
}

// charDiff marks deletions as [-x-] and insertions as {+x+}.
func (r *Renderer) charDiff(oldText, newText string) string {
	diffs := r.dmp.DiffMain(oldText, newText, false)
	diffs = r.dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			b.WriteString(r.paint(r.styles.Removed, "[-"+d.Text+"-]"))
		case diffmatchpatch.DiffInsert:
			b.WriteString(r.paint(r.styles.Added, "{+"+d.Text+"+}"))
		}
	}
	return b.String()
}

// paint styles s line by line so multi-line text is not padded into a block.
func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
