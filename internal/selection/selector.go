package selection

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	cursorStyle    = lipgloss.NewStyle().Reverse(true).Bold(true)
	directoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	includedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	partialStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const (
	selectorTitle = "Select files to include in the context"
	selectorHelp  = "↑/↓ move · space toggle · ←/→ collapse/expand · a all · n none · enter confirm · q cancel"

	emptySelectionMessage = "Nothing selected: include at least one file before confirming"
)

// SelectorModel is the bubbletea model for the interactive selector. The tree
// holds the selection state; cursor position and the expanded set are
// UI-session state, discarded once the selection is confirmed. The view is a
// pure function of (tree, cursor, expanded set).
type SelectorModel struct {
	tree        *Tree
	visibleRows []int
	expanded    map[int]bool
	cursor      int
	height      int
	status      string
	confirmed   bool
	cancelled   bool
}

// NewSelectorModel builds the selector over an existing tree with every
// directory expanded and the cursor on the root.
func NewSelectorModel(tree *Tree) SelectorModel {
	expanded := make(map[int]bool)
	for index := 0; index < tree.Len(); index++ {
		if tree.Node(index).Kind == KindDirectory {
			expanded[index] = true
		}
	}
	model := SelectorModel{tree: tree, expanded: expanded, height: 24}
	model.rebuildVisibleRows()
	return model
}

// Confirmed reports whether the operator confirmed the selection.
func (model SelectorModel) Confirmed() bool { return model.confirmed }

// Cancelled reports whether the operator abandoned the selection.
func (model SelectorModel) Cancelled() bool { return model.cancelled }

// Init implements tea.Model.
func (model SelectorModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Every transition recomputes the visible rows;
// rendering never mutates the model.
func (model SelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch message := msg.(type) {
	case tea.WindowSizeMsg:
		model.height = message.Height
		return model, nil
	case tea.KeyMsg:
		return model.handleKey(message)
	}
	return model, nil
}

func (model SelectorModel) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	model.status = ""
	switch key.String() {
	case "up", "k":
		if model.cursor > 0 {
			model.cursor--
		}
	case "down", "j":
		if model.cursor < len(model.visibleRows)-1 {
			model.cursor++
		}
	case " ":
		model.tree.Toggle(model.visibleRows[model.cursor])
	case "right", "l":
		model.setExpanded(true)
	case "left", "h":
		model.setExpanded(false)
	case "a":
		model.tree.SelectAll()
	case "n":
		model.tree.SelectNone()
	case "enter":
		if model.tree.IncludedFileCount() == 0 {
			model.status = emptySelectionMessage
			return model, nil
		}
		model.confirmed = true
		return model, tea.Quit
	case "q", "esc", "ctrl+c":
		model.cancelled = true
		return model, tea.Quit
	}
	model.rebuildVisibleRows()
	return model, nil
}

// setExpanded expands or collapses the directory under the cursor.
func (model *SelectorModel) setExpanded(expand bool) {
	nodeIndex := model.visibleRows[model.cursor]
	if model.tree.Node(nodeIndex).Kind == KindDirectory {
		model.expanded[nodeIndex] = expand
	}
}

// rebuildVisibleRows re-derives the depth-first row order over expanded
// directories and clamps the cursor to the new bounds.
func (model *SelectorModel) rebuildVisibleRows() {
	model.visibleRows = model.visibleRows[:0]
	model.appendVisible(RootIndex)
	if model.cursor > len(model.visibleRows)-1 {
		model.cursor = len(model.visibleRows) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
}

func (model *SelectorModel) appendVisible(index int) {
	model.visibleRows = append(model.visibleRows, index)
	node := model.tree.Node(index)
	if node.Kind != KindDirectory || !model.expanded[index] {
		return
	}
	for _, childIndex := range node.Children {
		model.appendVisible(childIndex)
	}
}

// View implements tea.Model.
func (model SelectorModel) View() string {
	var builder strings.Builder
	builder.WriteString(titleStyle.Render(selectorTitle))
	builder.WriteString("\n\n")

	rowBudget := model.height - 6
	if rowBudget < 1 {
		rowBudget = 1
	}
	firstRow := model.scrollOffset(rowBudget)
	lastRow := firstRow + rowBudget
	if lastRow > len(model.visibleRows) {
		lastRow = len(model.visibleRows)
	}

	for rowIndex := firstRow; rowIndex < lastRow; rowIndex++ {
		builder.WriteString(model.renderRow(rowIndex))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	if model.status != "" {
		builder.WriteString(warningStyle.Render(model.status))
		builder.WriteString("\n")
	}
	builder.WriteString(helpStyle.Render(fmt.Sprintf("%d of %d files selected · %s",
		model.tree.IncludedFileCount(), model.tree.FileCount(), selectorHelp)))
	return builder.String()
}

// scrollOffset keeps the cursor inside the rendered window. It is derived
// from the cursor alone so that the view stays a pure function of the model.
func (model SelectorModel) scrollOffset(rowBudget int) int {
	if model.cursor < rowBudget {
		return 0
	}
	return model.cursor - rowBudget + 1
}

func (model SelectorModel) renderRow(rowIndex int) string {
	nodeIndex := model.visibleRows[rowIndex]
	node := model.tree.Node(nodeIndex)
	depth := strings.Count(node.Path, "/")
	if node.Path != "" {
		depth++
	}

	marker := checkboxFor(node.State)
	name := node.Name
	if node.Kind == KindDirectory {
		arrow := "▸"
		if model.expanded[nodeIndex] {
			arrow = "▾"
		}
		name = arrow + " " + name + "/"
	} else {
		name = "  " + name
	}

	line := strings.Repeat("  ", depth) + marker + " " + name
	if rowIndex == model.cursor {
		return cursorStyle.Render(line)
	}
	switch {
	case node.Kind == KindDirectory && node.State == StatePartial:
		return partialStyle.Render(line)
	case node.State == StateIncluded:
		return includedStyle.Render(line)
	case node.Kind == KindDirectory:
		return directoryStyle.Render(line)
	default:
		return line
	}
}

func checkboxFor(state InclusionState) string {
	switch state {
	case StateIncluded:
		return "[x]"
	case StatePartial:
		return "[~]"
	default:
		return "[ ]"
	}
}

// RunSelector drives the interactive selector to a terminal state. It returns
// true when the operator confirmed a non-empty selection and false when the
// selection was cancelled.
func RunSelector(tree *Tree) (bool, error) {
	program := tea.NewProgram(NewSelectorModel(tree), tea.WithAltScreen())
	finalModel, runError := program.Run()
	if runError != nil {
		return false, fmt.Errorf("interactive selection failed: %w", runError)
	}
	selector, ok := finalModel.(SelectorModel)
	if !ok {
		return false, fmt.Errorf("unexpected selector model type %T", finalModel)
	}
	return selector.Confirmed(), nil
}
