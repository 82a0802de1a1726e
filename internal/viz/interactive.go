package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/growthlab/internal/dynamo"
)

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

var modelInfo = map[string]string{
	"solow":   "capital-output ratio converging to s/(n+g+δ)",
	"malthus": "population growth eating up prosperity",
}

const (
	stateMenu = iota
	statePreset
	stateSim
)

// Builder constructs a model by name and preset; an empty preset means defaults.
type Builder func(model, preset string) (dynamo.Model, error)

type app struct {
	state        int
	cursor       int
	models       []string
	presets      func(model string) []string
	build        Builder
	selected     string
	presetList   []string
	presetCursor int
	err          error
	live         Model
}

// NewInteractiveApp lists models, then their presets, then runs the live view.
func NewInteractiveApp(models []string, presets func(string) []string, build Builder) tea.Model {
	return app{
		state:   stateMenu,
		models:  models,
		presets: presets,
		build:   build,
	}
}

func (a app) Init() tea.Cmd { return nil }

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch a.state {
		case stateMenu:
			return a.menuKey(key)
		case statePreset:
			return a.presetKey(key)
		}
	}
	if a.state == stateSim {
		live, cmd := a.live.Update(msg)
		a.live = live.(Model)
		return a, cmd
	}
	return a, nil
}

func (a app) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.models)-1 {
			a.cursor++
		}
	case "enter", " ":
		if len(a.models) == 0 {
			return a, nil
		}
		a.selected = a.models[a.cursor]
		a.presetList = append([]string{"defaults"}, a.presets(a.selected)...)
		a.state, a.presetCursor, a.err = statePreset, 0, nil
	}
	return a, nil
}

func (a app) presetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "q", "esc":
		a.state = stateMenu
	case "up", "k":
		if a.presetCursor > 0 {
			a.presetCursor--
		}
	case "down", "j":
		if a.presetCursor < len(a.presetList)-1 {
			a.presetCursor++
		}
	case "enter", " ":
		preset := a.presetList[a.presetCursor]
		if a.presetCursor == 0 {
			preset = ""
		}
		m, err := a.build(a.selected, preset)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.live = NewModel(m, a.selected)
		a.state = stateSim
		return a, a.live.Init()
	}
	return a, nil
}

func (a app) View() string {
	switch a.state {
	case stateMenu:
		return a.list("GROWTHLAB", "economic growth models", a.models, a.cursor, func(name string) string { return modelInfo[name] })
	case statePreset:
		view := a.list(strings.ToUpper(a.selected), modelInfo[a.selected], a.presetList, a.presetCursor, func(string) string { return "" })
		if a.err != nil {
			view += "\n    " + ErrorStyle.Render(a.err.Error()) + "\n"
		}
		return view
	case stateSim:
		return a.live.View()
	}
	return ""
}

func (a app) list(title, subtitle string, items []string, cursor int, desc func(string) string) string {
	var b strings.Builder
	b.WriteString("\n\n    " + TitleStyle.Render(title) + "\n    " + Subtle.Render(subtitle) + "\n    " + Subtle.Render("─────────────────────────") + "\n\n")
	for i, name := range items {
		if i == cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), itemStyle.Render(fmt.Sprintf("%-16s", name)), descStyle.Render(desc(name))))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", dimStyle.Render(fmt.Sprintf("%-16s", name)), dimStyle.Render(desc(name))))
		}
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + dimStyle.Render(" navigate  ") + keyStyle.Render("enter") + dimStyle.Render(" select  ") + keyStyle.Render("q") + dimStyle.Render(" back/quit") + "\n")
	return b.String()
}

// RunInteractive starts the model picker in the alternate screen.
func RunInteractive(models []string, presets func(string) []string, build Builder) error {
	_, err := tea.NewProgram(NewInteractiveApp(models, presets, build), tea.WithAltScreen()).Run()
	return err
}

// RunLive runs the live view of a single model.
func RunLive(m dynamo.Model, name string) error {
	_, err := tea.NewProgram(NewModel(m, name)).Run()
	return err
}
