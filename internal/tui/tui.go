// Package tui provides the BubbleTea interactive interface for disx.
//
// Layout:
//
//	┌─────────────────────────────────────┐
//	│  disx   /bin/ls | x86_64             │  ← header
//	│  ─────────────────────────────────  │  ← divider
//	│  0x00401020:  55  ...  push %rbp    │  ← scrollable view body
//	│  ...                                │
//	│  ─────────────────────────────────  │  ← divider
//	│  > view strings                     │  ← command line
//	│  opened /bin/ls                     │  ← status bar
//	└─────────────────────────────────────┘
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/screenager/disx/internal/command"
	"github.com/screenager/disx/internal/model"
)

var (
	colorAccent  = lipgloss.Color("#7C6AF7")
	colorDim     = lipgloss.Color("#555555")
	colorMuted   = lipgloss.Color("#888888")
	colorText    = lipgloss.Color("#DDDDDD")
	colorSubdued = lipgloss.Color("#444444")
	colorErr     = lipgloss.Color("#FF6B6B")

	sTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	sAccent   = lipgloss.NewStyle().Foreground(colorAccent)
	sMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	sDivider  = lipgloss.NewStyle().Foreground(colorSubdued)
	sErr      = lipgloss.NewStyle().Foreground(colorErr)
	sSelected = lipgloss.NewStyle().Background(lipgloss.Color("#1E1A3A")).Foreground(colorText)
	sHint     = lipgloss.NewStyle().Foreground(colorDim)
)

// refreshInterval drives periodic re-rendering so batches published from
// worker goroutines into the model become visible without a keypress.
const refreshInterval = 120 * time.Millisecond

type tickMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// Model is the BubbleTea application model. It renders a model.Model's
// current snapshot and forwards command-line input to command.Dispatch.
type Model struct {
	m        *model.Model
	deps     command.Deps
	viewport viewport.Model
	width    int
	height   int
	quitting bool
}

// New wires a TUI model around m, posting jobs through deps.Pool and
// dispatching commands with deps.
func New(m *model.Model, deps command.Deps, initialPath string) Model {
	vp := viewport.New(80, 20)
	tm := Model{m: m, deps: deps, viewport: vp}
	if initialPath != "" {
		command.Dispatch(command.Parse("open "+initialPath), m, deps)
	}
	return tm
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 5
		m.syncViewport()
		return m, nil

	case tickMsg:
		m.syncViewport()
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		line := m.m.ClearCommand()
		action := command.Dispatch(command.Parse(line), m.m, m.deps)
		m.syncViewport()
		if action == command.ActionQuit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case "backspace":
		m.m.BackspaceCommand()
		return m, nil

	case "up":
		m.m.MoveSelection(-1)
		m.syncViewport()
		return m, nil

	case "down":
		m.m.MoveSelection(1)
		m.syncViewport()
		return m, nil

	case "pgup":
		m.m.MoveSelection(-pageSize(m.viewport.Height))
		m.syncViewport()
		return m, nil

	case "pgdown":
		m.m.MoveSelection(pageSize(m.viewport.Height))
		m.syncViewport()
		return m, nil

	default:
		if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				m.m.AppendCommandRune(r)
			}
		}
		return m, nil
	}
}

func pageSize(viewportHeight int) int {
	if viewportHeight < 1 {
		return 1
	}
	return viewportHeight
}

// syncViewport re-renders the active view's body into the viewport,
// scrolling so the selected row stays visible.
func (m *Model) syncViewport() {
	snap := m.m.Snapshot()
	lines := viewLines(snap)

	var b strings.Builder
	for i, line := range lines {
		if i == snap.Selected {
			fmt.Fprintln(&b, sSelected.Render(padLine(line, m.viewport.Width)))
		} else {
			fmt.Fprintln(&b, line)
		}
	}
	m.viewport.SetContent(b.String())
	m.viewport.YOffset = scrollOffset(snap.Selected, len(lines), m.viewport.Height)
}

func padLine(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func scrollOffset(selected, total, height int) int {
	if height <= 0 || total <= height {
		return 0
	}
	offset := selected - height/2
	if offset < 0 {
		offset = 0
	}
	if offset > total-height {
		offset = total - height
	}
	return offset
}

func viewLines(snap model.Snapshot) []string {
	switch snap.ViewMode {
	case model.ViewStrings:
		return snap.Strings
	case model.ViewSymbols:
		out := make([]string, len(snap.Symbols))
		for i, s := range snap.Symbols {
			out[i] = s.Display
		}
		return out
	default:
		out := make([]string, len(snap.Instructions))
		for i, ins := range snap.Instructions {
			out[i] = ins.Display
		}
		return out
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return ""
	}
	snap := m.m.Snapshot()

	var b strings.Builder
	header := "  " + sTitle.Render("disx") + "  " + sMuted.Render(snap.Subtitle)
	fmt.Fprintln(&b, header)
	fmt.Fprintln(&b, sDivider.Render(strings.Repeat("─", clamp(m.width-2, 10, 300))))
	fmt.Fprint(&b, m.viewport.View())
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, sDivider.Render(strings.Repeat("─", clamp(m.width-2, 10, 300))))
	fmt.Fprintln(&b, "  "+sAccent.Render("> ")+snap.Command)

	status := snap.Status
	if status == "" {
		status = sHint.Render("[" + snap.ViewMode.String() + "]  view/goto/open/refresh/quit")
	} else {
		status = sErr.Render(status)
	}
	fmt.Fprint(&b, "  "+status)
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
