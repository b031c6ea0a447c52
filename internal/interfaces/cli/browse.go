package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"forgebuild.dev/cli/internal/core/domain"
	"forgebuild.dev/cli/internal/interfaces/di"
)

var (
	browseTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	browseSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	browseDetailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(2)
	browseHelpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// runPluginBrowser starts the interactive plugin list.
func runPluginBrowser(container *di.Container) error {
	model := newBrowserModel(container)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("plugin browser failed: %w", err)
	}
	return nil
}

// browserModel is the Bubble Tea model behind `forge plugins --browse`.
type browserModel struct {
	descriptors []domain.PluginDescriptor
	commands    map[string][]*domain.Command
	cursor      int
}

func newBrowserModel(container *di.Container) browserModel {
	commands := make(map[string][]*domain.Command)
	for _, cmd := range container.Registry.Commands() {
		commands[cmd.PluginID] = append(commands[cmd.PluginID], cmd)
	}
	return browserModel{
		descriptors: container.Registry.Plugins(),
		commands:    commands,
	}
}

func (m browserModel) Init() tea.Cmd {
	return nil
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.descriptors)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m browserModel) View() string {
	var b strings.Builder
	b.WriteString(browseTitleStyle.Render("Forge plugins") + "\n\n")

	if len(m.descriptors) == 0 {
		b.WriteString("  No plugins registered.\n")
	}

	for i, desc := range m.descriptors {
		line := "  " + desc.Name
		if i == m.cursor {
			line = browseSelectedStyle.Render("> " + desc.Name)
		}
		b.WriteString(line + "\n")

		if i == m.cursor {
			if desc.Version != "" {
				b.WriteString(browseDetailStyle.Render("version: "+desc.Version) + "\n")
			}
			for _, cmd := range m.commands[desc.Name] {
				b.WriteString(browseDetailStyle.Render(fmt.Sprintf("command: %s - %s", cmd.Name, cmd.Opts.Description)) + "\n")
			}
		}
	}

	b.WriteString("\n" + browseHelpStyle.Render("up/down: navigate - q: quit"))
	return b.String()
}
