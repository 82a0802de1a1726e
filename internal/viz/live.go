package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/growthlab/internal/dynamo"
)

const (
	historyCapacity = 600
	tickRate        = time.Second / 20
)

var (
	statsStyle       = lipgloss.NewStyle().Padding(1, 2)
	headerStyle      = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Bold(true)
	graphStyle       = lipgloss.NewStyle().Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps a growth model one period per tick and charts the selected
// variable. Parameters can be tuned while it runs.
type Model struct {
	model     dynamo.Model
	name      string
	variables []string
	varIdx    int

	period  int
	running bool
	err     error

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	history  []dynamo.State
	periods  []int
	playHead int
	showHelp bool
}

func NewModel(m dynamo.Model, name string) Model {
	params := make(map[string]float64)
	if t, ok := m.(dynamo.Configurable); ok {
		for k, v := range t.GetParams() {
			params[k] = v
		}
	}
	keys := make([]string, 0, len(params))
	initialParams := make(map[string]float64, len(params))
	for k, v := range params {
		keys = append(keys, k)
		initialParams[k] = v
	}
	sort.Strings(keys)

	return Model{
		model:         m,
		name:          name,
		variables:     m.Variables(),
		running:       true,
		params:        params,
		initialParams: initialParams,
		paramKeys:     keys,
		history:       make([]dynamo.State, 0, historyCapacity),
		periods:       make([]int, 0, historyCapacity),
		playHead:      -1,
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "v":
			if len(m.variables) > 0 {
				m.varIdx = (m.varIdx + 1) % len(m.variables)
			}
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

// adjustParam scales the selected parameter. A zero parameter is nudged by
// ±0.001 instead.
func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key]
	newVal := val * factor
	if val == 0 {
		newVal = (factor - 1) / 50
	}
	t, ok := m.model.(dynamo.Configurable)
	if !ok {
		return
	}
	if err := t.SetParam(key, newVal); err != nil {
		m.err = err
		return
	}
	m.params[key] = newVal
}

// step records the current period and advances the model.
func (m *Model) step() {
	x := m.model.State()
	if !x.IsValid() {
		m.running = false
		m.err = dynamo.SimError{Period: m.period, Message: "non-finite state", Wrapped: dynamo.ErrDegenerate}
		return
	}

	m.history = append(m.history, x.Clone())
	m.periods = append(m.periods, m.period)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
		m.periods = m.periods[1:]
	}

	m.model.Update()
	m.period++
}

// scrub moves the replay position through recorded periods.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset restores the construction snapshot, including its parameters.
func (m *Model) reset() {
	m.model.Reset()
	m.period = 0
	m.err = nil
	m.history = m.history[:0]
	m.periods = m.periods[:0]
	m.playHead = -1
	for k, v := range m.initialParams {
		m.params[k] = v
	}
}

// Variable is the name of the charted variable.
func (m Model) Variable() string {
	if len(m.variables) == 0 {
		return ""
	}
	return m.variables[m.varIdx]
}

// Period is the number of updates applied since the last reset.
func (m Model) Period() int { return m.period }

func (m Model) Running() bool { return m.running }

// Err is the last error raised while stepping or tuning.
func (m Model) Err() error { return m.err }

func (m Model) seriesOf(idx int) []float64 {
	end := len(m.history)
	if m.playHead >= 0 {
		end = m.playHead + 1
	}
	out := make([]float64, 0, end)
	for _, x := range m.history[:end] {
		if idx < len(x) {
			out = append(out, x[idx])
		}
	}
	return out
}

// View renders the live panel.
func (m Model) View() string {
	theme := CurrentTheme
	var s strings.Builder

	s.WriteString(headerStyle.Foreground(theme.Primary).Render(strings.ToUpper(m.name)) + "\n")

	status := StatusRunning.Render("RUNNING")
	if m.playHead != -1 {
		status = StatusPaused.Render(fmt.Sprintf("REPLAY (period %d)", m.periods[m.playHead]))
	} else if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n")
	if m.err != nil {
		s.WriteString(ErrorStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n")

	variable := m.Variable()
	series := m.seriesOf(m.varIdx)
	if len(series) > 1 {
		data := [][]float64{series}
		colors := []asciigraph.AnsiColor{asciigraph.Blue}
		if ss, ok := m.model.(dynamo.SteadyStater); ok {
			if target, ok := ss.SteadyStateValues()[variable]; ok && !math.IsNaN(target) && !math.IsInf(target, 0) {
				line := make([]float64, len(series))
				for i := range line {
					line[i] = target
				}
				data = append(data, line)
				colors = append(colors, asciigraph.Red)
			}
		}
		chart := asciigraph.PlotMany(data,
			asciigraph.Height(8),
			asciigraph.Width(50),
			asciigraph.SeriesColors(colors...),
			asciigraph.Caption(variable),
		)
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(labelStyle.Render("period") + valueStyle.Render(fmt.Sprintf("%d", m.period)) + "\n")
	for i, name := range m.variables {
		v, err := m.model.Value(name)
		if err != nil {
			continue
		}
		line := labelStyle.Render(name) + valueStyle.Render(fmt.Sprintf("%.4f", v))
		if i == m.varIdx {
			line += "  " + SparklineChart(m.seriesOf(i), 20)
		}
		s.WriteString(line + "\n")
	}

	if ss, ok := m.model.(dynamo.SteadyStater); ok {
		s.WriteString("\nSTEADY STATE\n")
		s.WriteString(MetricsTable(ss.SteadyStateValues()) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	if len(m.paramKeys) == 0 {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-8s %.4f", k, m.params[k])
		if i == m.selected {
			s.WriteString(activeParamStyle.Foreground(theme.Accent).Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Width(0).Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit V:Variable\nTab/↑↓:Tune [ ]:Replay T:Theme ?:Help"))

	view := statsStyle.Render(s.String())
	if m.showHelp {
		return helpText + "\n" + view
	}
	return view
}

const helpText = `
  Space    pause or resume
  R        reset to the starting economy
  Q        quit
  V        chart the next variable
  Tab      select the next parameter
  Up/K     raise parameter 5%
  Down/J   lower parameter 5%
  [ ]      step back or forward through recorded periods
  T        cycle themes
  ?        toggle this help
`
