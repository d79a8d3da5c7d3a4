package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dhcpdash/pkg/errors"
	"github.com/matzehuels/dhcpdash/pkg/jsontree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// headerHeight is the number of lines above the viewport.
const headerHeight = 3

// =============================================================================
// TreeModel - Interactive configuration tree
// =============================================================================

// pageAppliedMsg completes a page change started with RequestPage.
type pageAppliedMsg struct {
	id jsontree.NodeID
}

func applyPage(id jsontree.NodeID) tea.Cmd {
	return func() tea.Msg { return pageAppliedMsg{id: id} }
}

// TreeModel is the bubbletea model for browsing a jsontree.Tree.
type TreeModel struct {
	Title  string
	Tree   *jsontree.Tree
	Styles jsontree.Styles
	Cursor int
	Status string

	visible  []jsontree.Node
	viewport viewport.Model
}

// NewTreeModel creates a tree browser with a default-sized viewport; the
// first WindowSizeMsg resizes it.
func NewTreeModel(title string, tree *jsontree.Tree, styles jsontree.Styles) TreeModel {
	m := TreeModel{
		Title:    title,
		Tree:     tree,
		Styles:   styles,
		viewport: viewport.New(80, 20),
	}
	m.refresh()
	return m
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.Status = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = len(m.visible) - 1
		case "enter", " ", "l":
			m.activate()
		case "n", "p":
			delta := 1
			if msg.String() == "p" {
				delta = -1
			}
			cmd := m.page(delta)
			return m, cmd
		case "s":
			if err := m.Tree.Reveal(m.current().ID); err != nil {
				m.Status = errors.UserMessage(err)
			}
		}
	case pageAppliedMsg:
		if _, err := m.Tree.ApplyPage(msg.id); err != nil {
			m.Status = errors.UserMessage(err)
		}
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight, 1)
	}
	m.refresh()
	return m, nil
}

func (m TreeModel) current() jsontree.Node {
	return m.visible[m.Cursor]
}

// activate toggles the node under the cursor, or expands it when it is a
// recursion placeholder.
func (m *TreeModel) activate() {
	n := m.current()
	var err error
	if n.Placeholder {
		err = m.Tree.LoadMore(n.ID)
	} else {
		_, err = m.Tree.Toggle(n.ID)
	}
	if err != nil {
		m.Status = errors.UserMessage(err)
	}
}

// page requests the next or previous page of the nearest paged node at or
// above the cursor.
func (m *TreeModel) page(delta int) tea.Cmd {
	n := m.current()
	for !n.Paged {
		if n.Parent == jsontree.NoNode {
			m.Status = "nothing to page here"
			return nil
		}
		parent, err := m.Tree.Node(n.Parent)
		if err != nil {
			m.Status = errors.UserMessage(err)
			return nil
		}
		n = parent
	}
	if err := m.Tree.RequestPage(n.ID, n.Page+delta); err != nil {
		m.Status = errors.UserMessage(err)
		return nil
	}
	m.refresh()
	return applyPage(n.ID)
}

// refresh re-reads the visible nodes and keeps the cursor on screen.
func (m *TreeModel) refresh() {
	m.visible = m.Tree.Visible()
	m.Cursor = max(0, min(m.Cursor, len(m.visible)-1))

	lines := make([]string, len(m.visible))
	for i, n := range m.visible {
		line := m.Tree.RenderLine(n, m.Styles)
		if i == m.Cursor {
			lines[i] = listSelectedStyle.Render("›") + " " + line
		} else {
			lines[i] = "  " + line
		}
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	switch {
	case m.Cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.Cursor)
	case m.Cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.Cursor - m.viewport.Height + 1)
	}
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ toggle  n/p page  s show secret  q quit"))
	b.WriteString("\n")
	if m.Status != "" {
		b.WriteString(StyleWarning.Render(m.Status))
	} else {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("[%d/%d]", m.Cursor+1, len(m.visible))))
	}
	b.WriteString("\n")
	b.WriteString(m.viewport.View())

	return b.String()
}

// runTreeTUI browses tree until the user quits.
func runTreeTUI(title string, tree *jsontree.Tree) error {
	p := tea.NewProgram(NewTreeModel(title, tree, jsontree.DefaultStyles()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
