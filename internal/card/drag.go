package card

import (
	"fmt"
	"image"
)

// DragState is the state of the drag controller.
type DragState int

const (
	Idle DragState = iota
	Dragging
)

func (s DragState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Payload describes the drag in progress. Views read it to draw drop
// target feedback.
type Payload struct {
	Element ElementID
	Offset  image.Point
	Origin  Placement
	Last    image.Point
	Hover   Section
	Moved   bool
}

// Controller turns pointer input into layout changes and log entries.
type Controller struct {
	layout  *Layout
	log     *Log
	state   DragState
	payload Payload
}

func NewController(layout *Layout, log *Log) *Controller {
	return &Controller{layout: layout, log: log}
}

func (c *Controller) State() DragState { return c.state }

// Payload returns the current drag payload, if dragging.
func (c *Controller) Payload() (Payload, bool) {
	return c.payload, c.state == Dragging
}

// IsDropTarget reports whether s is the zone a section drop would land in.
func (c *Controller) IsDropTarget(s Section) bool {
	return c.state == Dragging && !c.continuous() && c.payload.Hover == s
}

// Press starts dragging the topmost draggable element under p.
func (c *Controller) Press(p image.Point) bool {
	if c.state == Dragging {
		return false
	}
	id, ok := c.layout.HitTest(p)
	if !ok {
		return false
	}
	if !c.layout.Draggable(id) {
		if !c.layout.Draggable(Background) || !p.In(c.layout.background.Rect()) {
			return false
		}
		id = Background
	}
	return c.Begin(id, p) == nil
}

// Begin starts dragging id as if grabbed at p.
func (c *Controller) Begin(id ElementID, p image.Point) error {
	if !c.layout.Draggable(id) {
		return fmt.Errorf("%v: %w", id, ErrNotDraggable)
	}
	origin, err := c.layout.Placement(id)
	if err != nil {
		return err
	}
	c.state = Dragging
	c.payload = Payload{
		Element: id,
		Offset:  p.Sub(origin.Pos),
		Origin:  origin,
		Last:    p,
		Hover:   ZoneAt(c.layout.bounds, p),
	}
	c.layout.Raise(id)
	return nil
}

// Move handles one pointer motion event while dragging.
func (c *Controller) Move(p image.Point) {
	if c.state != Dragging {
		return
	}
	if p != c.payload.Last {
		c.payload.Moved = true
	}
	c.payload.Last = p
	if c.continuous() {
		target := p.Sub(c.payload.Offset)
		c.layout.Place(c.payload.Element, AtPoint(target.X, target.Y))
		return
	}
	c.payload.Hover = ZoneAt(c.layout.bounds, p)
}

// Release ends the drag at p. It returns the log entry it appended, if the
// drag changed anything.
func (c *Controller) Release(p image.Point) (Entry, bool) {
	if c.state != Dragging {
		return Entry{}, false
	}
	c.Move(p)
	pl := c.payload
	c.state = Idle
	c.payload = Payload{}
	c.layout.ClearRaised()

	if c.continuousFor(pl.Element) {
		after, err := c.layout.Placement(pl.Element)
		if err != nil || after.Pos == pl.Origin.Pos {
			return Entry{}, false
		}
		return c.log.Append("Moved "+pl.Element.String(),
			fmt.Sprintf("to (%d, %d)", after.Pos.X, after.Pos.Y)), true
	}
	return c.drop(pl)
}

// Leave is called when the pointer leaves the canvas with the button down.
// It commits like a release at the last known point.
func (c *Controller) Leave() (Entry, bool) {
	return c.Release(c.payload.Last)
}

// Cancel abandons the drag and puts the element back where it started.
// Nothing is logged.
func (c *Controller) Cancel() {
	if c.state != Dragging {
		return
	}
	pl := c.payload
	c.state = Idle
	c.payload = Payload{}
	c.layout.ClearRaised()
	if c.continuousFor(pl.Element) {
		c.layout.Place(pl.Element, AtPoint(pl.Origin.Pos.X, pl.Origin.Pos.Y))
	}
}

// Nudge moves id by (dx, dy) pixels as one complete drag. In sections mode
// a vertical nudge moves to the neighbouring section and a horizontal one
// drops onto the element's own section. A vertical nudge past the top or
// bottom section does nothing.
func (c *Controller) Nudge(id ElementID, dx, dy int) (Entry, bool, error) {
	r, ok := c.layout.Rect(id)
	if !ok {
		if id == Background {
			return Entry{}, false, ErrNoBackground
		}
		return Entry{}, false, fmt.Errorf("%v: %w", id, ErrUnknownElement)
	}
	grab := centre(r)
	if err := c.Begin(id, grab); err != nil {
		return Entry{}, false, err
	}

	target := grab.Add(image.Pt(dx, dy))
	if !c.continuous() {
		s := c.payload.Origin.Section
		switch {
		case dy < 0 && s > SectionHeader:
			s--
		case dy > 0 && s < SectionBottomStats:
			s++
		}
		if dy != 0 && s == c.payload.Origin.Section {
			c.Cancel()
			return Entry{}, false, nil
		}
		z := Zone(c.layout.bounds, s)
		target = centre(z)
	}
	e, logged := c.Release(target)
	return e, logged, nil
}

func (c *Controller) continuous() bool {
	return c.continuousFor(c.payload.Element)
}

// continuousFor reports whether id moves by coordinates rather than by
// section drops.
func (c *Controller) continuousFor(id ElementID) bool {
	return c.layout.mode == ModeFreeform || id == Background
}

func (c *Controller) drop(pl Payload) (Entry, bool) {
	from := pl.Origin.Section
	to := pl.Hover
	if !pl.Moved {
		return Entry{}, false
	}
	if from == to {
		if len(c.layout.order[to]) != 2 {
			return Entry{}, false
		}
		if err := c.layout.Swap(to); err != nil {
			return Entry{}, false
		}
		order := c.layout.Order(to)
		return c.log.Append("Swapped Order",
			fmt.Sprintf("%s: %v left, %v right", to, order[0], order[1])), true
	}
	if _, _, err := c.layout.Place(pl.Element, AtSection(to)); err != nil {
		return Entry{}, false
	}
	return c.log.Append("Moved "+pl.Element.String(),
		fmt.Sprintf("from %s to %s", from, to)), true
}
