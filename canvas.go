package main

import (
	"image"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"statcard/internal/card"
)

const (
	emptyRune    = ' '
	zoneRune     = '┄'
	dropRune     = '░'
	imageRune    = '·'
	selectedRune = '▒'
	draggingRune = '▓'
)

// viewport fits the card preview into the space left of the side panel,
// keeping the canvas aspect ratio.
func (m model) viewport() viewport {
	b := m.cfg.Bounds()
	if m.card != nil {
		b = m.card.Layout().Bounds()
	}
	availRows := m.height - titleHeight - statusHeight - 2
	availCols := m.width - panelWidth - 2

	rows := availRows
	cols := rows * 2 * b.W / b.H
	if cols > availCols {
		cols = availCols
		rows = cols * b.H / (2 * b.W)
	}
	if cols < 4 {
		cols = 4
	}
	if rows < 2 {
		rows = 2
	}
	return viewport{left: 1, top: titleHeight + 1, cols: cols, rows: rows, bounds: b}
}

// renderCanvas draws the card as a grid of cells in z-order.
func (m model) renderCanvas(v viewport) []string {
	grid := make([][]rune, v.rows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(string(emptyRune), v.cols))
	}

	l := m.card.Layout()
	drag := m.card.Drag()
	if l.Mode() == card.ModeSections {
		for _, s := range card.Sections {
			z := card.Zone(l.Bounds(), s)
			if drag.IsDropTarget(s) {
				fillRect(grid, v, z, dropRune)
			}
			if s == card.SectionHeader {
				continue
			}
			if _, y := v.toCell(z.Min); y >= 0 && y < v.rows {
				for x := range grid[y] {
					grid[y][x] = zoneRune
				}
			}
		}
	}

	raised, isRaised := l.Raised()
	for _, id := range l.ZOrder() {
		if id == card.Background {
			bg, _ := l.Background()
			fillRect(grid, v, bg.Rect(), imageRune)
			continue
		}
		e, _ := l.Element(id)
		fill := emptyRune
		switch {
		case isRaised && id == raised:
			fill = draggingRune
		case id == m.selected:
			fill = selectedRune
		}
		x0, y0, x1, y1 := cellRect(v, e.Rect())
		fillCells(grid, x0, y0, x1, y1, fill)
		for i, line := range e.VisibleLines() {
			if i > 0 && y0+i >= y1 {
				break
			}
			writeText(grid, x0, y0+i, x1, line)
		}
	}

	if m.selected == card.Background && !isRaised {
		if r, ok := l.Rect(card.Background); ok {
			x0, y0, x1, y1 := cellRect(v, r)
			outline(grid, x0, y0, x1, y1)
		}
	}

	lines := make([]string, len(grid))
	for y, row := range grid {
		lines[y] = string(row)
	}
	return lines
}

// cellRect converts a canvas rectangle into cells, always at least one
// cell in each direction.
func cellRect(v viewport, r image.Rectangle) (x0, y0, x1, y1 int) {
	x0, y0 = v.toCell(r.Min)
	x1, y1 = v.toCell(r.Max)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return x0, y0, x1, y1
}

func fillRect(grid [][]rune, v viewport, r image.Rectangle, ch rune) {
	x0, y0, x1, y1 := cellRect(v, r)
	fillCells(grid, x0, y0, x1, y1, ch)
}

func fillCells(grid [][]rune, x0, y0, x1, y1 int, ch rune) {
	for y := max(y0, 0); y < y1 && y < len(grid); y++ {
		for x := max(x0, 0); x < x1 && x < len(grid[y]); x++ {
			grid[y][x] = ch
		}
	}
}

func outline(grid [][]rune, x0, y0, x1, y1 int) {
	for y := max(y0, 0); y < y1 && y < len(grid); y++ {
		for x := max(x0, 0); x < x1 && x < len(grid[y]); x++ {
			if y == y0 || y == y1-1 || x == x0 || x == x1-1 {
				grid[y][x] = selectedRune
			}
		}
	}
}

// writeText writes s from column x, clipped to the column limit and the
// grid.
func writeText(grid [][]rune, x, y, limit int, s string) {
	if y < 0 || y >= len(grid) {
		return
	}
	for _, r := range s {
		if x >= limit || x >= len(grid[y]) {
			return
		}
		if x >= 0 {
			grid[y][x] = r
		}
		x++
	}
}

// handleMouse drives the drag controller from terminal mouse events. With
// cell motion enabled a held left button reports MouseLeft on every move.
func (m *model) handleMouse(msg tea.MouseMsg) {
	if m.card == nil || m.mode != ModeCard {
		return
	}
	v := m.viewport()
	drag := m.card.Drag()
	inside := v.contains(msg.X, msg.Y)
	before := m.card.Log().Len()

	switch msg.Type {
	case tea.MouseLeft:
		if drag.State() == card.Dragging {
			if !inside {
				drag.Leave()
				break
			}
			drag.Move(v.toCanvas(msg.X, msg.Y))
			return
		}
		if !inside {
			return
		}
		p := v.toCanvas(msg.X, msg.Y)
		if id, ok := m.card.Layout().HitTest(p); ok {
			m.selected = id
		}
		if drag.Press(p) {
			pl, _ := drag.Payload()
			m.selected = pl.Element
		}
		return
	case tea.MouseRelease:
		if drag.State() != card.Dragging {
			return
		}
		if inside {
			drag.Release(v.toCanvas(msg.X, msg.Y))
		} else {
			drag.Leave()
		}
	case tea.MouseMotion:
		// Motion with no button held means the release was lost.
		if drag.State() == card.Dragging {
			drag.Leave()
		}
	default:
		return
	}
	m.clearMessages()
	m.recordAction(before)
}
