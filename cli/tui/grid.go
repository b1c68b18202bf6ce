package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/justapithecus/arenaviz/types"
)

// Cell glyphs. Every cell body is cellWidth characters wide.
const (
	cellWidth    = 3
	glyphEmpty   = "   "
	glyphUnknown = " · "
	glyphOutside = "░░░"
)

// GridOptions controls RenderGrid.
type GridOptions struct {
	// Color enables lipgloss styling. Without it the grid is plain text.
	Color bool
}

// RenderGrid draws the maze of f as text, row 0 at the top. Walls are
// drawn only for logged cells. A cell shows, in order of precedence, the
// robot standing on it, a bomb with its remaining seconds, its coin value
// or its danger value. Cells outside the active sub-grid are shaded.
func RenderGrid(f *types.Frame, opts GridOptions) string {
	robots := robotCells(f)

	var b strings.Builder
	for row := range types.GridCells {
		b.WriteString(wallLine(f, row, func(c *types.Cell) bool { return c.NorthWall }))
		b.WriteByte('\n')

		for col := range types.GridCells {
			c, logged := f.Cell(row, col)
			if logged && c.WestWall {
				b.WriteByte('|')
			} else {
				b.WriteByte(' ')
			}
			b.WriteString(cellBody(f, row, col, c, robots, opts))
		}
		if c, ok := f.Cell(row, types.GridCells-1); ok && c.EastWall {
			b.WriteByte('|')
		} else {
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	b.WriteString(southLine(f))
	return b.String()
}

// wallLine draws the horizontal edges above row.
func wallLine(f *types.Frame, row int, wall func(*types.Cell) bool) string {
	var b strings.Builder
	for col := range types.GridCells {
		b.WriteByte('+')
		if c, ok := f.Cell(row, col); ok && wall(c) {
			b.WriteString(strings.Repeat("-", cellWidth))
		} else {
			b.WriteString(strings.Repeat(" ", cellWidth))
		}
	}
	b.WriteByte('+')
	return b.String()
}

func southLine(f *types.Frame) string {
	return wallLine(f, types.GridCells-1, func(c *types.Cell) bool { return c.SouthWall })
}

func cellBody(f *types.Frame, row, col int, c *types.Cell, robots map[[2]int]types.Robot, opts GridOptions) string {
	style := lipgloss.NewStyle()
	var body string

	switch r, ok := robots[[2]int{row, col}]; {
	case ok:
		body = fmt.Sprintf("R%-2d", r.ID%100)
		style = TeamStyle(r.Team)
	case !f.IsActive(row, col):
		body = glyphOutside
		style = style.Foreground(mutedColor)
	case c == nil:
		body = glyphUnknown
		style = style.Foreground(mutedColor)
	case c.Bomb != nil:
		body = fmt.Sprintf("B%-2d", min(int(math.Ceil(c.Bomb.Timer)), 99))
		style = TeamStyle(c.Bomb.Owner)
	case c.IsBomb:
		body = "B  "
		style = style.Foreground(errorColor)
	case c.CoinValue > 0:
		body = fmt.Sprintf(" %d ", c.CoinValue)
		style = style.Foreground(coinColor)
	case c.DangerValue > 0:
		body = fmt.Sprintf("!%d ", c.DangerValue)
		style = style.Foreground(warningColor)
	default:
		body = glyphEmpty
	}

	if !opts.Color {
		return body
	}
	if c != nil {
		switch {
		case c.Possession1:
			style = style.Background(lipgloss.Color("#1E3A8A"))
		case c.Possession2:
			style = style.Background(lipgloss.Color("#7F1D1D"))
		}
	}
	return style.Render(body)
}

// robotCells maps each in-arena robot to the cell it stands on. When two
// robots share a cell the later entry wins.
func robotCells(f *types.Frame) map[[2]int]types.Robot {
	const cellSize = types.ArenaSize / types.GridCells
	out := make(map[[2]int]types.Robot, len(f.Robots))
	for _, r := range f.Robots {
		col := int(math.Floor(r.X / cellSize))
		row := int(math.Floor(r.Y / cellSize))
		if row < 0 || row >= types.GridCells || col < 0 || col >= types.GridCells {
			continue
		}
		out[[2]int{row, col}] = r
	}
	return out
}
