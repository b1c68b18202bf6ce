package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justapithecus/arenaviz/frames"
	"github.com/justapithecus/arenaviz/playback"
	"github.com/justapithecus/arenaviz/types"
)

// Tick bounds for the player.
const (
	DefaultTick = 16 * time.Millisecond
	MinTick     = time.Millisecond
	MaxTick     = 2 * time.Second
)

// logTail is the number of free-text lines shown under the grid.
const logTail = 6

// PlayerOptions configures the replay player.
type PlayerOptions struct {
	// Tick is the playback period; zero means DefaultTick.
	Tick time.Duration
	// Paused starts the player paused.
	Paused bool
	// Start is the first frame shown, clamped to the sequence.
	Start int
	// Color enables grid styling.
	Color bool
}

// tickMsg advances playback. gen ties a tick to the play session that
// scheduled it so ticks left over from before a pause are dropped.
type tickMsg struct {
	gen int
}

// PlayerModel is a Bubble Tea model that plays a frame sequence.
type PlayerModel struct {
	nav   *playback.Navigator
	meta  types.SourceMeta
	tick  time.Duration
	gen   int
	color bool
	help  help.Model

	width    int
	height   int
	quitting bool
}

// NewPlayerModel creates a player over seq.
func NewPlayerModel(seq *frames.Sequence, meta types.SourceMeta, opts PlayerOptions) PlayerModel {
	nav := playback.New(seq)
	nav.Seek(opts.Start)
	if opts.Paused {
		nav.Pause()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	return PlayerModel{
		nav:   nav,
		meta:  meta,
		tick:  clampTick(tick),
		color: opts.Color,
		help:  help.New(),
	}
}

// Navigator exposes the playback cursor.
func (m PlayerModel) Navigator() *playback.Navigator {
	return m.nav
}

// Tick returns the current playback period.
func (m PlayerModel) Tick() time.Duration {
	return m.tick
}

// Init implements tea.Model.
func (m PlayerModel) Init() tea.Cmd {
	if m.nav.Playing() {
		return m.scheduleTick()
	}
	return nil
}

// Update implements tea.Model.
func (m PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if msg.gen != m.gen || !m.nav.Playing() {
			return m, nil
		}
		m.nav.AdvanceOnTick()
		return m, m.scheduleTick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Play):
			m.nav.TogglePlay()
			m.gen++
			if m.nav.Playing() {
				return m, m.scheduleTick()
			}
		case key.Matches(msg, keys.Forward):
			m.pause()
			m.nav.StepForward()
		case key.Matches(msg, keys.Back):
			m.pause()
			m.nav.StepBackward()
		case key.Matches(msg, keys.Start):
			m.nav.SeekStart()
		case key.Matches(msg, keys.End):
			m.nav.SeekEnd()
		case key.Matches(msg, keys.Faster):
			m.tick = clampTick(m.tick / 2)
		case key.Matches(msg, keys.Slower):
			m.tick = clampTick(m.tick * 2)
		}
	}

	return m, nil
}

// pause stops playback and invalidates the pending tick.
func (m *PlayerModel) pause() {
	if m.nav.Playing() {
		m.nav.Pause()
		m.gen++
	}
}

func (m PlayerModel) scheduleTick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.tick, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// View implements tea.Model.
func (m PlayerModel) View() string {
	if m.quitting {
		return ""
	}

	f, err := m.nav.CurrentFrame()
	if err != nil {
		return TitleStyle.Render("arenaviz") + "\n" + err.Error() + "\n" + m.help.View(keys)
	}

	grid := RenderGrid(f, GridOptions{Color: m.color})
	side := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(f),
		"",
		m.renderRobots(f),
	)

	var b strings.Builder
	b.WriteString(TitleStyle.Render("arenaviz  " + m.meta.Path))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, grid, "   ", side))
	b.WriteString("\n")
	b.WriteString(m.renderLog(f))
	b.WriteString(m.renderProgress())
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m PlayerModel) renderHeader(f *types.Frame) string {
	state := "paused"
	if m.nav.Playing() {
		state = "playing"
	}
	if m.nav.AtEnd() {
		state += " (end)"
	}
	team1, team2 := f.TeamScores()

	rows := [][2]string{
		{"Frame", fmt.Sprintf("%d / %d", m.nav.Index()+1, m.nav.Len())},
		{"Time", fmt.Sprintf("%.3fs", float64(f.TimeMs)/1000)},
		{"Logger", fmt.Sprintf("%d", f.LoggerID)},
		{"State", fmt.Sprintf("%s @ %s", state, m.tick)},
		{"Grid", fmt.Sprintf("%g", f.EffectiveGridSize())},
		{"Shrink", fmt.Sprintf("%s %.1fs", bar(f.TimeUntilShrink/types.ShrinkTime, 10), f.TimeUntilShrink)},
		{"Draw", fmt.Sprintf("%d lines, %d points", len(f.Lines), len(f.Points))},
		{"Score", TeamStyle(1).Render(fmt.Sprintf("%d", team1)) + " : " + TeamStyle(2).Render(fmt.Sprintf("%d", team2))},
	}
	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render(row[0]+":"), ValueStyle.Render(row[1]))
	}
	return b.String()
}

func (m PlayerModel) renderRobots(f *types.Frame) string {
	if len(f.Robots) == 0 {
		return HelpStyle.Render("no robots")
	}
	var b strings.Builder
	for _, r := range f.Robots {
		live := " "
		if r.IsLive {
			live = "*"
		}
		// @ marks the robot that wrote the log.
		logger := " "
		if r.ID == f.LoggerID {
			logger = "@"
		}
		line := fmt.Sprintf("%sR%-2d%s x=%5.2f y=%5.2f a=%5.2f score=%d", logger, r.ID, live, r.X, r.Y, r.A, r.Score)
		b.WriteString(TeamStyle(r.Team).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m PlayerModel) renderLog(f *types.Frame) string {
	lines := f.LogLines
	if len(lines) > logTail {
		lines = lines[len(lines)-logTail:]
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(HelpStyle.UnsetMarginTop().Render("> " + l))
		b.WriteString("\n")
	}
	return b.String()
}

func (m PlayerModel) renderProgress() string {
	width := 40
	if m.width > 20 {
		width = m.width - 20
	}
	return fmt.Sprintf("%s %3.0f%%", bar(m.nav.Progress(), width), m.nav.Progress()*100)
}

// bar draws a fraction in [0, 1] as a fixed-width gauge. Out-of-range
// fractions are clamped.
func bar(frac float64, width int) string {
	frac = min(max(frac, 0), 1)
	filled := int(frac * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

func clampTick(d time.Duration) time.Duration {
	return min(max(d, MinTick), MaxTick)
}

// RunPlayer runs the player in the terminal's alternate screen until the
// user quits.
func RunPlayer(seq *frames.Sequence, meta types.SourceMeta, opts PlayerOptions) error {
	p := tea.NewProgram(NewPlayerModel(seq, meta, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
