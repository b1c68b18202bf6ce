package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justapithecus/arenaviz/cli/reader"
	"github.com/justapithecus/arenaviz/types"
)

// InspectModel is a Bubble Tea model for inspect views.
type InspectModel struct {
	viewType string
	data     any
	width    int
	height   int
	quitting bool
}

// NewInspectModel creates a new inspect model.
func NewInspectModel(viewType string, data any) InspectModel {
	return InspectModel{
		viewType: viewType,
		data:     data,
	}
}

// Init implements tea.Model.
func (m InspectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m InspectModel) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.viewType {
	case ViewInspectFrame:
		content = m.renderInspectFrame()
	case ViewInspectCell:
		content = m.renderInspectCell()
	case ViewInspectRobot:
		content = m.renderInspectRobot()
	default:
		content = fmt.Sprintf("Unknown view type: %s", m.viewType)
	}

	help := HelpStyle.Render("Press q or Ctrl+C to quit")
	return content + "\n" + help
}

func (m InspectModel) renderInspectFrame() string {
	f, ok := m.data.(*types.Frame)
	if !ok {
		return "Invalid data type for " + ViewInspectFrame
	}
	v := reader.NewFrameView(f)

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Frame %d", v.Index)))
	b.WriteString("\n")

	rows := [][2]string{
		{"Time (ms)", fmt.Sprintf("%d", v.TimeMs)},
		{"Logger", fmt.Sprintf("%d", v.LoggerID)},
		{"Until shrink", fmt.Sprintf("%.2fs", v.TimeUntilShrink)},
		{"Grid size", fmt.Sprintf("%g [%d, %d)", v.GridSize, v.ActiveLo, v.ActiveHi)},
		{"Robots", fmt.Sprintf("%d", v.Robots)},
		{"Cells", fmt.Sprintf("%d", v.Cells)},
		{"Bombs", fmt.Sprintf("%d", v.Bombs)},
		{"Annotations", fmt.Sprintf("%d lines, %d points", v.Lines, v.Points)},
		{"Score", fmt.Sprintf("%d : %d", v.Team1Score, v.Team2Score)},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render(row[0]+":"), ValueStyle.Render(row[1]))
	}
	for _, l := range v.LogLines {
		b.WriteString(HelpStyle.UnsetMarginTop().Render("> " + l))
		b.WriteString("\n")
	}

	grid := RenderGrid(f, GridOptions{Color: true})
	return lipgloss.JoinHorizontal(lipgloss.Top, BoxStyle.Render(b.String()), "  ", grid)
}

func (m InspectModel) renderInspectCell() string {
	c, ok := m.data.(*reader.CellView)
	if !ok {
		return "Invalid data type for " + ViewInspectCell
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Cell (%d, %d) of frame %d", c.Row, c.Col, c.Index)))
	b.WriteString("\n")

	rows := [][2]string{
		{"Position", fmt.Sprintf("x=%.2f y=%.2f", c.X, c.Y)},
		{"Logged", fmt.Sprintf("%t", c.Logged)},
		{"Active", fmt.Sprintf("%t", c.Active)},
	}
	if c.Logged {
		rows = append(rows,
			[2]string{"Coin", fmt.Sprintf("%d", c.CoinValue)},
			[2]string{"Danger", fmt.Sprintf("%d", c.DangerValue)},
			[2]string{"Walls", walls(c)},
			[2]string{"Possession", possessionLabel(c.Possession)},
		)
	}
	if c.BombOwner != nil && c.BombTimer != nil {
		rows = append(rows, [2]string{"Bomb", fmt.Sprintf("team %d, %.1fs", *c.BombOwner, *c.BombTimer)})
	} else if c.IsBomb {
		rows = append(rows, [2]string{"Bomb", "yes"})
	}

	for _, row := range rows {
		fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render(row[0]+":"), ValueStyle.Render(row[1]))
	}
	return BoxStyle.Render(b.String())
}

func (m InspectModel) renderInspectRobot() string {
	robots, ok := m.data.([]reader.RobotView)
	if !ok {
		return "Invalid data type for " + ViewInspectRobot
	}
	if len(robots) == 0 {
		return BoxStyle.Render("No robots")
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Robots in frame %d", robots[0].Index)))
	b.WriteString("\n")
	for i, r := range robots {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(TeamStyle(r.Team).Render(fmt.Sprintf("Robot %d (entry %d, team %d)", r.ID, r.Entry, r.Team)))
		b.WriteString("\n")
		rows := [][2]string{
			{"Position", fmt.Sprintf("x=%.3f y=%.3f a=%.3f", r.X, r.Y, r.A)},
			{"Speed limit", fmt.Sprintf("%g", r.SpeedLimit)},
			{"Live", fmt.Sprintf("%t", r.IsLive)},
			{"Score", fmt.Sprintf("%d", r.Score)},
			{"Inventory", fmt.Sprintf("%d", r.Inventory)},
		}
		for _, row := range rows {
			fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render(row[0]+":"), ValueStyle.Render(row[1]))
		}
	}
	return BoxStyle.Render(b.String())
}

func walls(c *reader.CellView) string {
	var w []string
	for _, side := range []struct {
		set  bool
		name string
	}{
		{c.NorthWall, "N"},
		{c.WestWall, "W"},
		{c.SouthWall, "S"},
		{c.EastWall, "E"},
	} {
		if side.set {
			w = append(w, side.name)
		}
	}
	if len(w) == 0 {
		return "none"
	}
	return strings.Join(w, " ")
}

func possessionLabel(team int) string {
	if team == 0 {
		return "none"
	}
	return TeamStyle(team).Render(fmt.Sprintf("team %d", team))
}

// RunInspectTUI runs the inspect TUI.
func RunInspectTUI(viewType string, data any) error {
	model := NewInspectModel(viewType, data)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderInspectStatic renders inspect data without full TUI (for fallback).
func RenderInspectStatic(viewType string, data any) string {
	model := NewInspectModel(viewType, data)
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
