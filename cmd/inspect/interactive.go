package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/feltforge/modelabi/registry"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	modelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	versionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type browseState int

const (
	stateSelectModel browseState = iota
	stateShowModel
)

type browseModel struct {
	err      error
	reg      *registry.Registry
	dbFile   string
	names    []string
	filter   textinput.Model
	selected int
	state    browseState
}

func newBrowseModel(dbFile string) *browseModel {
	filter := textinput.New()
	filter.Placeholder = "filter models"
	filter.Prompt = "/ "
	filter.Width = 30

	return &browseModel{
		dbFile: dbFile,
		filter: filter,
		state:  stateSelectModel,
	}
}

type loadedMsg struct {
	err   error
	reg   *registry.Registry
	names []string
}

func (m *browseModel) Init() tea.Cmd {
	return m.loadDefinitions
}

func (m *browseModel) loadDefinitions() tea.Msg {
	reg, err := loadRegistry(m.dbFile)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{reg: reg, names: reg.List()}
}

// visible returns the model names matching the filter.
func (m *browseModel) visible() []string {
	query := strings.ToLower(m.filter.Value())
	if query == "" {
		return m.names
	}
	var out []string
	for _, name := range m.names {
		if strings.Contains(strings.ToLower(name), query) {
			out = append(out, name)
		}
	}
	return out
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateShowModel {
				m.state = stateSelectModel
				return m, nil
			}
			if !m.filter.Focused() {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectModel && !m.filter.Focused() && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectModel && !m.filter.Focused() && m.selected < len(m.visible())-1 {
				m.selected++
			}

		case "/":
			if m.state == stateSelectModel && !m.filter.Focused() {
				m.filter.Focus()
				return m, nil
			}

		case "enter":
			switch m.state {
			case stateSelectModel:
				if m.filter.Focused() {
					m.filter.Blur()
					m.selected = 0
					return m, nil
				}
				if len(m.visible()) > 0 {
					m.state = stateShowModel
				}
			case stateShowModel:
				m.state = stateSelectModel
			}

		case "esc":
			switch m.state {
			case stateSelectModel:
				if m.filter.Focused() {
					m.filter.Blur()
				} else {
					m.filter.SetValue("")
					m.selected = 0
				}
			case stateShowModel:
				m.state = stateSelectModel
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.reg = msg.reg
		m.names = msg.names
	}

	if m.state == stateSelectModel && m.filter.Focused() {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		if m.selected >= len(m.visible()) {
			m.selected = 0
		}
		return m, cmd
	}

	return m, nil
}

func (m *browseModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.reg == nil {
		return "Loading definitions..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Model Inspector"))
	b.WriteString(" ")
	b.WriteString(m.dbFile)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectModel:
		visible := m.visible()
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		if len(visible) == 0 {
			b.WriteString(helpStyle.Render("no models match"))
			b.WriteString("\n")
		}
		for i, name := range visible {
			line := m.formatEntry(name)
			if i == m.selected && !m.filter.Focused() {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter show • / filter • q quit"))

	case stateShowModel:
		name := m.visible()[m.selected]
		def, err := m.reg.Get(name)
		if err != nil {
			b.WriteString(errorStyle.Render(err.Error()))
			break
		}

		b.WriteString(modelStyle.Render(def.Name))
		b.WriteString(" ")
		b.WriteString(versionStyle.Render(def.Version.String()))
		b.WriteString("\n\n")

		if n, ok := def.ValueLayout.SizeHint(); ok {
			b.WriteString(fmt.Sprintf("Value slots: %d (static)\n", n))
		} else {
			b.WriteString("Value slots: dynamic\n")
		}
		if def.PackedSize > 0 {
			b.WriteString(fmt.Sprintf("Packed words: %d\n", def.PackedSize))
		}
		b.WriteString("\n")

		for _, member := range def.Schema.Members {
			if member.Key {
				b.WriteString(keyStyle.Render("#[key] "))
			} else {
				b.WriteString("       ")
			}
			b.WriteString(member.Name)
			b.WriteString(": ")
			b.WriteString(versionStyle.Render(member.Schema.TypeName()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter/q back • ctrl+c quit"))
	}

	return b.String()
}

func (m *browseModel) formatEntry(name string) string {
	def, err := m.reg.Get(name)
	if err != nil {
		return name
	}
	return modelStyle.Render(name) + " " + versionStyle.Render(def.Version.String())
}

func runInteractive(dbFile string) error {
	p := tea.NewProgram(newBrowseModel(dbFile), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
