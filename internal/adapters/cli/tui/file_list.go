package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// FileListModel is the bubbletea model for picking media files
type FileListModel struct {
	files    []FileEntry
	cursor   int
	selected map[int]bool
	done     bool
}

// FileEntry is one selectable media file
type FileEntry struct {
	Path string
	Size int64
}

// NewFileListModel creates a new file list with every file selected
func NewFileListModel(files []FileEntry) FileListModel {
	selected := make(map[int]bool, len(files))
	for i := range files {
		selected[i] = true
	}
	return FileListModel{files: files, selected: selected}
}

func (m FileListModel) Init() tea.Cmd {
	return nil
}

func (m FileListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.files)-1 {
				m.cursor++
			}
		case " ":
			m.selected[m.cursor] = !m.selected[m.cursor]
		case "enter":
			m.done = true
			return m, tea.Quit
		case "q", "ctrl+c", "esc":
			m.selected = make(map[int]bool)
			return m, tea.Quit
		case "a":
			for i := range m.files {
				m.selected[i] = true
			}
		case "n":
			m.selected = make(map[int]bool)
		}
	}
	return m, nil
}

func (m FileListModel) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Select files to subtitle:"))
	sb.WriteString("\n\n")

	for i, f := range m.files {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		checkbox := "[ ]"
		style := uncheckedStyle
		if m.selected[i] {
			checkbox = "[x]"
			style = checkedStyle
		}

		name := filepath.Base(f.Path)
		if len([]rune(name)) > 40 {
			name = string([]rune(name)[:37]) + "..."
		}

		line := fmt.Sprintf("%s %s %-42s %10s", cursor, checkbox, name, FormatSize(f.Size))
		sb.WriteString(style.Render(line))
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\n%d selected | space=toggle, a=all, n=none, enter=confirm, q=cancel\n", m.countSelected())

	return sb.String()
}

func (m FileListModel) countSelected() int {
	n := 0
	for _, ok := range m.selected {
		if ok {
			n++
		}
	}
	return n
}

// SelectedPaths returns the selected file paths in list order
func (m FileListModel) SelectedPaths() []string {
	if !m.done {
		return nil
	}
	var result []string
	for i, f := range m.files {
		if m.selected[i] {
			result = append(result, f.Path)
		}
	}
	return result
}

// RunFileList displays the list and returns the selected paths
func RunFileList(files []FileEntry) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	p := tea.NewProgram(NewFileListModel(files))

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	return finalModel.(FileListModel).SelectedPaths(), nil
}
