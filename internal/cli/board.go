package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/partboard/partboard/pkg/store"
	"github.com/partboard/partboard/pkg/template"
)

// newBoardCmd creates the board command: an interactive terminal editor
// for one board document.
func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board [file]",
		Short: "Edit a board document interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			d, err := openDiagram(doc, "", logger)
			if err != nil {
				return err
			}

			m := newBoardUI(args[0], doc, d)
			final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			if ui, ok := final.(boardUI); ok && ui.dirty {
				if err := ui.save(); err != nil {
					return err
				}
				printSuccess("saved %s", args[0])
			}
			return nil
		},
	}
}

// boardUI is the bubbletea model for the interactive board editor. All
// edits run through the diagram's transactional operations, so undo and
// redo behave exactly as in the HTTP API.
type boardUI struct {
	path    string
	doc     *store.Document
	diagram *template.Diagram
	cursor  int
	status  string
	dirty   bool
}

func newBoardUI(path string, doc *store.Document, d *template.Diagram) boardUI {
	ui := boardUI{path: path, doc: doc, diagram: d}
	ui.syncSelection()
	return ui
}

func (m boardUI) Init() tea.Cmd {
	return nil
}

func (m boardUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.syncSelection()

	case "down", "j":
		if m.cursor < m.nodeCount()-1 {
			m.cursor++
		}
		m.syncSelection()

	case "a":
		rec, err := m.diagram.AddNode()
		if err != nil {
			m.status = err.Error()
			break
		}
		m.cursor = m.nodeCount() - 1
		m.syncSelection()
		m.dirty = true
		key, _ := rec.Key()
		m.status = fmt.Sprintf("added node %d", key)

	case "d":
		if m.nodeCount() == 0 {
			break
		}
		if err := m.diagram.RemoveSelectedNode(); err != nil {
			m.status = err.Error()
			break
		}
		if m.cursor >= m.nodeCount() {
			m.cursor = m.nodeCount() - 1
		}
		m.syncSelection()
		m.dirty = true
		m.status = "removed node"

	case "t":
		if m.nodeCount() == 0 {
			break
		}
		if err := m.diagram.ToggleStatus(); err != nil {
			m.status = err.Error()
			break
		}
		m.dirty = true
		m.status = "toggled status"

	case "u":
		if err := m.diagram.Undo(); err != nil {
			m.status = err.Error()
			break
		}
		m.clampCursor()
		m.dirty = true
		m.status = "undone"

	case "r":
		if err := m.diagram.Redo(); err != nil {
			m.status = err.Error()
			break
		}
		m.clampCursor()
		m.dirty = true
		m.status = "redone"

	case "tab":
		m.cycleTemplate()
		m.dirty = true

	case "s":
		if err := m.save(); err != nil {
			m.status = err.Error()
			break
		}
		m.dirty = false
		m.status = "saved " + m.path
	}

	return m, nil
}

func (m boardUI) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("partboard " + m.doc.Name))
	b.WriteString(StyleDim.Render("  [" + m.diagram.TemplateID() + "]"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ select  a add  d delete  t toggle  u undo  r redo  ⇥ template  s save  q quit"))
	b.WriteString("\n\n")

	nodes := m.diagram.Model().NodeDataArray()
	if len(nodes) == 0 {
		b.WriteString(StyleDim.Render("  (empty board: press a to add a node)"))
		b.WriteString("\n")
	}
	for i, rec := range nodes {
		cursor := "  "
		if i == m.cursor {
			cursor = iconCursor + " "
		}
		key, _ := rec.Key()
		name, _ := rec["name"].(string)
		status, _ := rec["status"].(string)

		style := StyleValue
		if i == m.cursor {
			style = StyleSelected
		}
		b.WriteString(cursor + style.Render(fmt.Sprintf("%-3d %-20s", key, name)) +
			" " + statusStyle(status).Render(status))
		b.WriteString("\n")
	}

	u := m.diagram.Model().Undo()
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("links: %d  undo: %v  redo: %v",
		m.diagram.Model().LinkCount(), u.CanUndo(), u.CanRedo())))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

func (m boardUI) nodeCount() int {
	return m.diagram.Model().NodeCount()
}

// syncSelection points the model's primary selection at the cursor row.
func (m *boardUI) syncSelection() {
	nodes := m.diagram.Model().NodeDataArray()
	if len(nodes) == 0 || m.cursor < 0 {
		m.diagram.Model().Selection().Clear()
		return
	}
	if m.cursor >= len(nodes) {
		m.cursor = len(nodes) - 1
	}
	m.diagram.Model().Selection().Select(nodes[m.cursor])
}

func (m *boardUI) clampCursor() {
	if m.cursor >= m.nodeCount() {
		m.cursor = m.nodeCount() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.syncSelection()
}

// cycleTemplate advances to the next registered template.
func (m *boardUI) cycleTemplate() {
	ids := template.BuiltinRegistry().IDs()
	for i, id := range ids {
		if id == m.diagram.TemplateID() {
			next := ids[(i+1)%len(ids)]
			m.diagram.SelectTemplate(next)
			m.status = "template: " + next
			return
		}
	}
}

// save snapshots the live model back into the document file.
func (m boardUI) save() error {
	m.doc.Snapshot(m.diagram.Model())
	m.doc.Template = m.diagram.TemplateID()
	return saveDocument(m.path, m.doc)
}
