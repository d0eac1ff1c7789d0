package main

import (
	"image"

	tea "github.com/charmbracelet/bubbletea"

	"statcard/internal/card"
)

func direction(key string) (int, int) {
	switch key {
	case "h", "left", "H", "shift+left":
		return -1, 0
	case "l", "right", "L", "shift+right":
		return 1, 0
	case "k", "up", "K", "shift+up":
		return 0, -1
	case "j", "down", "J", "shift+down":
		return 0, 1
	}
	return 0, 0
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

// nudgeSelected moves the selected element one preview cell as a complete
// drag.
func (m *model) nudgeSelected(key string, speed int) {
	dx, dy := direction(key)
	cw, ch := m.viewport().cellSize()
	if _, _, err := m.card.Drag().Nudge(m.selected, dx*cw*speed, dy*ch*speed); err != nil {
		m.errorMessage = err.Error()
	}
}

func (m *model) continuousMove() bool {
	return m.card.Layout().Mode() == card.ModeFreeform || m.selected == card.Background
}

func (m *model) startMove() {
	r, ok := m.card.Layout().Rect(m.selected)
	if !ok {
		m.errorMessage = card.ErrNoBackground.Error()
		return
	}
	m.movePoint = image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
	if err := m.card.Drag().Begin(m.selected, m.movePoint); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.mode = ModeMove
}

func (m *model) handleMoveKey(msg tea.KeyMsg) {
	key := msg.String()
	drag := m.card.Drag()
	switch key {
	case "enter", "m":
		before := m.card.Log().Len()
		drag.Release(m.movePoint)
		m.mode = ModeCard
		m.recordAction(before)
		return
	case "esc":
		drag.Cancel()
		m.mode = ModeCard
		return
	}

	dx, dy := direction(key)
	if dx == 0 && dy == 0 {
		return
	}
	speed := m.getMoveSpeed(key)
	if m.continuousMove() {
		cw, ch := m.viewport().cellSize()
		drag.Move(m.movePoint.Add(image.Pt(dx*cw*speed, dy*ch*speed)))
		// Keep the grab point on the clamped element.
		if pl, ok := drag.Payload(); ok {
			if p, err := m.card.Layout().Placement(pl.Element); err == nil {
				m.movePoint = p.Pos.Add(pl.Offset)
			}
		}
		return
	}
	bounds := m.card.Layout().Bounds()
	from := card.ZoneAt(bounds, m.movePoint)
	s := from
	switch {
	case dy < 0 && s > card.SectionHeader:
		s--
	case dy > 0 && s < card.SectionBottomStats:
		s++
	}
	if dy != 0 && s == from {
		return
	}
	z := card.Zone(bounds, s)
	m.movePoint = image.Pt((z.Min.X+z.Max.X)/2, (z.Min.Y+z.Max.Y)/2)
	drag.Move(m.movePoint)
}
