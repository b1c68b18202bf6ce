package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justapithecus/arenaviz/cli/reader"
)

// StatsModel is a Bubble Tea model for the ingestion report.
type StatsModel struct {
	viewType string
	data     any
	width    int
	height   int
	quitting bool
}

// NewStatsModel creates a new stats model.
func NewStatsModel(viewType string, data any) StatsModel {
	return StatsModel{
		viewType: viewType,
		data:     data,
	}
}

// Init implements tea.Model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
func (m StatsModel) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.viewType {
	case ViewStats:
		content = m.renderStats()
	default:
		content = fmt.Sprintf("Unknown view type: %s", m.viewType)
	}

	help := HelpStyle.Render("Press q or Ctrl+C to quit")
	return content + "\n" + help
}

func (m StatsModel) renderStats() string {
	data, ok := m.data.(*reader.StatsView)
	if !ok {
		return "Invalid data type for " + ViewStats
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Ingestion of %s (%s)", data.Source, data.Format)))
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderStatBox("Frames", int64(data.Frames), highlightColor),
		m.renderStatBox("Duration (s)", data.DurationMs/1000, highlightColor),
		m.renderStatBox("Lines read", data.LinesRead, successColor),
		m.renderStatBox("Corrupt frames", data.FramesCorrupt, boxColor(data.FramesCorrupt)),
	))
	b.WriteString("\n")

	rows := []struct {
		label string
		value int64
	}{
		{"Tail discarded", data.TailLinesDiscarded},
		{"Malformed lines", data.MalformedLines},
		{"Orphan records", data.OrphanRecords},
		{"Robots offline", data.RobotsIgnored},
		{"Robots rejected", data.RobotsRejected},
		{"Resynced records", data.ResyncedRecords},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render(row.label+":"), CountStyle(row.value).Render(fmt.Sprintf("%d", row.value)))
	}
	if data.TrailingFrameDropped {
		b.WriteString(WarningStyle.Render("trailing partial frame dropped"))
		b.WriteString("\n")
	}

	b.WriteString(renderCounts("Records", data.RecordsByKind, ValueStyle))
	b.WriteString(renderCounts("Corruption", data.CorruptByKind, WarningStyle))
	return b.String()
}

func renderCounts(title string, counts map[string]int64, style lipgloss.Style) string {
	if len(counts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(TitleStyle.UnsetMarginBottom().Render(title))
	b.WriteString("\n")
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render(k+":"), style.Render(fmt.Sprintf("%d", counts[k])))
	}
	return b.String()
}

func boxColor(n int64) lipgloss.Color {
	if n > 0 {
		return errorColor
	}
	return successColor
}

func (m StatsModel) renderStatBox(label string, value int64, color lipgloss.Color) string {
	boxStyle := StatBoxStyle.BorderForeground(color)

	valueStr := StatValueStyle.Foreground(color).Render(fmt.Sprintf("%d", value))
	labelStr := StatLabelStyle.Render(label)

	content := lipgloss.JoinVertical(lipgloss.Center, valueStr, labelStr)

	return boxStyle.Render(content)
}

// RunStatsTUI runs the stats TUI.
func RunStatsTUI(viewType string, data any) error {
	model := NewStatsModel(viewType, data)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderStatsStatic renders stats data without full TUI (for fallback).
func RenderStatsStatic(viewType string, data any) string {
	model := NewStatsModel(viewType, data)
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
