package jsontree

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Styles colors the parts of a rendered line.
type Styles struct {
	Key     lipgloss.Style
	String  lipgloss.Style
	Number  lipgloss.Style
	Bool    lipgloss.Style
	Null    lipgloss.Style
	Summary lipgloss.Style
	Muted   lipgloss.Style
	Secret  lipgloss.Style
	Warning lipgloss.Style

	plain bool
}

// DefaultStyles returns the terminal color scheme.
func DefaultStyles() Styles {
	return Styles{
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		String:  lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
		Number:  lipgloss.NewStyle().Foreground(lipgloss.Color("36")),
		Bool:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Null:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
		Summary: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Secret:  lipgloss.NewStyle().Foreground(lipgloss.Color("167")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	}
}

// PlainStyles renders without any escape sequences.
func PlainStyles() Styles {
	return Styles{plain: true}
}

func (s Styles) paint(style lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return style.Render(text)
}

const (
	markerOpen   = "▾ "
	markerClosed = "▸ "
	markerLeaf   = "  "
	redacted     = "******"
)

// Render returns the visible part of the tree, one line per node.
func (t *Tree) Render(s Styles) string {
	visible := t.Visible()
	lines := make([]string, len(visible))
	for i, n := range visible {
		lines[i] = t.RenderLine(n, s)
	}
	return strings.Join(lines, "\n")
}

// RenderLine renders a single node without trailing newline.
func (t *Tree) RenderLine(n Node, s Styles) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", n.Depth))

	switch {
	case n.Placeholder:
		b.WriteString(markerClosed)
		writeKey(&b, n, s)
		b.WriteString(s.paint(s.Muted, "… load more"))
		return b.String()
	case n.Root && !n.HasValue:
		b.WriteString(s.paint(s.Null, "(no value)"))
		return b.String()
	case n.Kind.Complex():
		if !n.Root {
			if n.Open {
				b.WriteString(markerOpen)
			} else {
				b.WriteString(markerClosed)
			}
		}
		writeKey(&b, n, s)
		b.WriteString(s.paint(s.Summary, summary(n)))
		if n.Paged {
			fmt.Fprintf(&b, " %s", s.paint(s.Muted, fmt.Sprintf("page %d/%d, items %d-%d",
				n.Page+1, n.MaxPage+1, n.Start, n.End-1)))
		}
		if n.PageState == PageLoading {
			b.WriteString(" " + s.paint(s.Muted, "loading…"))
		}
	default:
		b.WriteString(markerLeaf)
		writeKey(&b, n, s)
		b.WriteString(t.leaf(n, s))
	}
	if n.Corrupted {
		b.WriteString(" " + s.paint(s.Warning, "(possibly corrupted)"))
	}
	return b.String()
}

func writeKey(b *strings.Builder, n Node, s Styles) {
	if n.HasKey {
		b.WriteString(s.paint(s.Key, n.Key))
		b.WriteString(": ")
	}
}

func summary(n Node) string {
	if n.Kind == KindArray {
		if n.Total == 0 {
			return "[]"
		}
		return fmt.Sprintf("[%d]", n.Total)
	}
	if n.Total == 0 {
		return "{}"
	}
	return fmt.Sprintf("{%d}", n.Total)
}

func (t *Tree) leaf(n Node, s Styles) string {
	if n.Secret && !n.Revealed {
		return s.paint(s.Secret, redacted)
	}
	if render, ok := t.templates[n.Key]; ok && n.HasKey && render != nil {
		return render(n.Key, n.Value)
	}
	v := resolve(n.Value)
	switch x := v.(type) {
	case nil:
		return s.paint(s.Null, "null")
	case string:
		return s.paint(s.String, strconv.Quote(x))
	case bool:
		return s.paint(s.Bool, strconv.FormatBool(x))
	case json.Number:
		return s.paint(s.Number, x.String())
	case float64:
		return s.paint(s.Number, strconv.FormatFloat(x, 'f', -1, 64))
	case float32:
		return s.paint(s.Number, strconv.FormatFloat(float64(x), 'f', -1, 32))
	case time.Time:
		return s.paint(s.String, x.Format(time.RFC3339))
	}
	if category(v) == "number" {
		return s.paint(s.Number, fmt.Sprint(v))
	}
	return fmt.Sprint(v)
}
