package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/mkrell/odesim/internal/model"
)

const (
	historyCapacity = 600
	framesPerSecond = 30
)

type TickMsg time.Time

// Live is a bubbletea view that advances a model by a fixed time step per
// frame and charts the recent history of one state variable.
type Live struct {
	model *model.Model
	step  float64
	until float64

	ids      []string
	selected int
	history  map[string][]float64

	running  bool
	done     bool
	err      error
	showHelp bool
}

func NewLive(m *model.Model, step, until float64) Live {
	return Live{
		model:   m,
		step:    step,
		until:   until,
		ids:     m.Variables().Keys(),
		history: make(map[string][]float64),
		running: true,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/framesPerSecond, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (v Live) Init() tea.Cmd { return tick() }

func (v Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return v, tea.Quit
		case " ":
			if !v.done && v.err == nil {
				v.running = !v.running
			}
		case "tab":
			if len(v.ids) > 0 {
				v.selected = (v.selected + 1) % len(v.ids)
			}
		case "+", "=":
			v.step *= 2
		case "-", "_":
			v.step /= 2
		case "?":
			v.showHelp = !v.showHelp
		}
	case TickMsg:
		if v.running && !v.done && v.err == nil {
			v.advance()
		}
		return v, tick()
	}
	return v, nil
}

func (v *Live) advance() {
	target := v.model.CurrentTime() + v.step
	if target >= v.until {
		target = v.until
		v.done = true
		v.running = false
	}
	if err := v.model.Integrate(target); err != nil {
		v.err = err
		v.running = false
		return
	}

	for _, id := range v.ids {
		s, err := v.model.Variables().Get(id)
		if err != nil {
			continue
		}
		value, err := s.Read()
		if err != nil {
			continue
		}
		h := append(v.history[id], value)
		if len(h) > historyCapacity {
			h = h[1:]
		}
		v.history[id] = h
	}
}

func (v Live) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(strings.ToUpper(v.model.Info().Name)) + "\n")
	switch {
	case v.err != nil:
		s.WriteString(errStyle.Render("ERROR: "+v.err.Error()) + "\n")
	case v.done:
		s.WriteString("DONE\n")
	case v.running:
		s.WriteString("RUNNING\n")
	default:
		s.WriteString("PAUSED\n")
	}

	var chart string
	if len(v.ids) > 0 {
		id := v.ids[v.selected]
		if h := v.history[id]; len(h) > 1 {
			chart = graphStyle.Render(asciigraph.Plot(h,
				asciigraph.Height(12), asciigraph.Width(60), asciigraph.Caption(id)))
		}
	}

	var stats strings.Builder
	stats.WriteString(labelStyle.Render("Time") +
		valueStyle.Render(fmt.Sprintf("%.2f", v.model.CurrentTime())) + "\n")
	stats.WriteString(labelStyle.Render("Step/frame") +
		valueStyle.Render(fmt.Sprintf("%g", v.step)) + "\n\n")
	for i, id := range v.ids {
		line := id
		if h := v.history[id]; len(h) > 0 {
			line = fmt.Sprintf("%-6s %.4g", id, h[len(h)-1])
		}
		if i == v.selected {
			stats.WriteString(activeStyle.Render("> "+line) + "\n")
		} else {
			stats.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}
	stats.WriteString(helpStyle.Render("\nSP:Pause Tab:Series +/-:Step Q:Quit ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, chart, statsStyle.Render(stats.String()))
	s.WriteString(main)

	if v.showHelp {
		s.WriteString(helpStyle.Render(`
Space  - Pause/Resume
Tab    - Cycle state variables
+/-    - Double/halve model time per frame
Q      - Quit`))
	}
	return s.String()
}
