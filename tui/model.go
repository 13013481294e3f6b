package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fretloop/debug"
	"fretloop/fretboard"
	"fretloop/midi"
	"fretloop/sequencer"
	"fretloop/theme"
	"fretloop/widgets"
)

var keyHelp = []widgets.KeySection{
	{Keys: []widgets.KeyBinding{
		{Key: "hjkl", Desc: "move"},
		{Key: "space", Desc: "toggle"},
		{Key: "[/]", Desc: "root"},
		{Key: "p", Desc: "play"},
		{Key: "enter", Desc: "strum"},
		{Key: "t", Desc: "test tone"},
		{Key: "?", Desc: "help"},
		{Key: "q", Desc: "quit"},
	}},
}

var fullHelp = []widgets.KeySection{
	{Title: "Board", Keys: []widgets.KeyBinding{
		{Key: "h/l  ←/→", Desc: "move along a string"},
		{Key: "j/k  ↓/↑", Desc: "change string, bottom row is the scale"},
		{Key: "space", Desc: "engage fret / mark step"},
		{Key: "[ ]", Desc: "root down / up a semitone"},
	}},
	{Title: "Playback", Keys: []widgets.KeyBinding{
		{Key: "p", Desc: "start / stop the loop"},
		{Key: "enter", Desc: "strum the selected frets"},
		{Key: "t", Desc: "play C4"},
	}},
	{Title: "Keyboard", Keys: []widgets.KeyBinding{
		{Key: "any note", Desc: "mark that step from the root"},
	}},
}

type Model struct {
	Manager   *sequencer.Manager
	DeviceMgr *midi.DeviceManager // nil when keyboard input is off
	Theme     *theme.Theme

	ctx      context.Context
	row      int // 0..strings-1 are strings, strings is the step row
	col      int
	status   string
	showHelp bool
	quitting bool
	keyboard midi.Controller // current keyboard (may be nil)
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(ctx context.Context, manager *sequencer.Manager, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	return Model{
		Manager:   manager,
		DeviceMgr: deviceMgr,
		Theme:     th,
		ctx:       ctx,
	}
}

func ListenForUpdates(manager *sequencer.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	if deviceMgr == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Manager),
		ListenForDevices(m.DeviceMgr),
	)
}

func (m Model) stepRow() int { return m.Manager.Grid().Strings() }

func (m Model) rowWidth(row int) int {
	if row == m.stepRow() {
		return fretboard.NumSteps
	}
	return m.Manager.Grid().Frets()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		var err error
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Manager.Close()
			return m, tea.Quit

		case "h", "left":
			if m.col > 0 {
				m.col--
			}
		case "l", "right":
			if m.col < m.rowWidth(m.row)-1 {
				m.col++
			}
		case "k", "up":
			if m.row > 0 {
				m.row--
			}
		case "j", "down":
			if m.row < m.stepRow() {
				m.row++
			}
			if m.col >= m.rowWidth(m.row) {
				m.col = m.rowWidth(m.row) - 1
			}

		case " ":
			if m.row == m.stepRow() {
				err = m.Manager.ToggleStep(m.col)
			} else {
				err = m.Manager.ToggleFret(m.row, m.col)
			}

		case "[":
			err = m.Manager.ShiftRoot(-1)
		case "]":
			err = m.Manager.ShiftRoot(1)

		case "p":
			err = m.Manager.TogglePlayback(m.ctx)
		case "enter":
			err = m.Manager.PlaySelected(m.ctx)
		case "t":
			err = m.Manager.PlayTestTone(m.ctx)
		case "?":
			m.showHelp = !m.showHelp
		}
		m.setStatus(err)

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if event.Type == midi.DeviceConnected {
			m.keyboard = event.Controller
			go m.forwardNotes(event.Controller)
		} else if event.Type == midi.DeviceDisconnected {
			if m.keyboard != nil && m.keyboard.ID() == event.ID {
				m.keyboard = nil
			}
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m *Model) setStatus(err error) {
	if err == nil {
		m.status = ""
		return
	}
	debug.Log("ui", "%v", err)
	m.status = err.Error()
}

// forwardNotes toggles scale steps from keyboard notes until the
// controller closes.
func (m Model) forwardNotes(c midi.Controller) {
	for ev := range c.NoteEvents() {
		if err := m.Manager.HandleNote(ev.Note); err != nil {
			debug.Log("ui", "keyboard note %d: %v", ev.Note, err)
		}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	v := m.Manager.View()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	playState := "STOP"
	if v.State == sequencer.Running {
		playState = "PLAY"
	}
	deviceStatus := ""
	if m.keyboard != nil {
		deviceStatus = "  kbd:" + m.keyboard.ID()
	}
	header := headerStyle.Render(fmt.Sprintf("fretloop  %s  %3dbpm  bar:%03d  root:%-2s%s",
		playState, v.Tempo, v.Measure+1, v.Root(), deviceStatus))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(m.renderBoard(v))
	out.WriteString("\n")
	out.WriteString(m.renderLegend())
	out.WriteString("\n\n")
	out.WriteString(m.renderSteps(v))
	out.WriteString("\n\n")
	if !v.CanStart {
		out.WriteString(dimStyle.Render("select a fret to start"))
		out.WriteString("\n")
	}
	if m.status != "" {
		out.WriteString(warnStyle.Render(m.status))
		out.WriteString("\n")
	}
	if m.showHelp {
		out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(fullHelp)))
	} else {
		out.WriteString(dimStyle.Render(widgets.RenderKeyLine(keyHelp)))
	}

	return out.String()
}

func (m Model) cell(symbol rune, fg lipgloss.Color, cursor bool) string {
	style := lipgloss.NewStyle().Foreground(fg)
	if cursor {
		style = style.Background(m.Theme.Cursor())
	}
	return style.Render(" " + string(symbol) + " ")
}

func (m Model) renderBoard(v sequencer.View) string {
	grid := m.Manager.Grid()
	sym := m.Theme.Symbols
	dim := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	var lines []string

	var nums strings.Builder
	nums.WriteString("    ")
	for f := 0; f < grid.Frets(); f++ {
		nums.WriteString(fmt.Sprintf("%2d  ", f))
	}
	lines = append(lines, dim.Render(nums.String()))

	for s := 0; s < grid.Strings(); s++ {
		var line strings.Builder
		line.WriteString(fmt.Sprintf("%-4s", grid.Open(s)))
		for f := 0; f < grid.Frets(); f++ {
			c := fretboard.Coord{Str: s, Fret: f}
			cursor := m.row == s && m.col == f
			switch {
			case v.Selection.Has(c):
				line.WriteString(m.cell(sym.Engaged, m.Theme.Active(), cursor))
			case v.Highlights[grid.PitchAt(s, f)]:
				line.WriteString(m.cell(sym.InScale, m.Theme.Accent(), cursor))
			default:
				line.WriteString(m.cell(sym.Fret, m.Theme.Muted(), cursor))
			}
			if f == 0 {
				line.WriteString(dim.Render(string(sym.Nut)))
			} else {
				line.WriteString(dim.Render(string(sym.Bar)))
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLegend() string {
	sym := m.Theme.Symbols
	return "    " + strings.Join([]string{
		widgets.RenderLegendItem(sym.Engaged, m.Theme.Active(), "engaged"),
		widgets.RenderLegendItem(sym.InScale, m.Theme.Accent(), "in scale"),
		widgets.RenderLegendItem(sym.StepOn, m.Theme.Success(), "marked step"),
	}, "   ")
}

func (m Model) renderSteps(v sequencer.View) string {
	sym := m.Theme.Symbols
	dim := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	var names, marks strings.Builder
	names.WriteString("    ")
	marks.WriteString("    ")
	for i, n := range v.Chromatic {
		names.WriteString(fmt.Sprintf("%-3s ", n))
		cursor := m.row == m.stepRow() && m.col == i
		if v.Steps.Has(i) {
			marks.WriteString(m.cell(sym.StepOn, m.Theme.Success(), cursor))
		} else {
			marks.WriteString(m.cell(sym.StepOff, m.Theme.Muted(), cursor))
		}
		marks.WriteString(" ")
	}
	return dim.Render(names.String()) + "\n" + marks.String()
}
