package card

import (
	"fmt"
	"image"
	"math"
	"slices"
)

const margin = 24

// Content is the text a layout starts from.
type Content struct {
	Name      string
	GameInfo  string
	Primary   []string
	Secondary []string
}

// DefaultStyle is the style an element gets on a fresh card.
func DefaultStyle(id ElementID) Style {
	switch id {
	case PlayerName:
		return Style{FontFamily: "Go", FontSize: 40, Bold: true}
	case GameInfo:
		return Style{FontFamily: "Go", FontSize: 20}
	case StatBlock:
		return Style{FontFamily: "Go Mono", FontSize: 24, Bold: true}
	}
	return Style{FontFamily: "Go", FontSize: 16}
}

// Zone returns the band of the canvas that section s occupies.
func Zone(bounds Size, s Section) image.Rectangle {
	top := bounds.H / 4
	bottom := bounds.H * 5 / 8
	switch s {
	case SectionHeader:
		return image.Rect(0, 0, bounds.W, top)
	case SectionTopStats:
		return image.Rect(0, top, bounds.W, bottom)
	default:
		return image.Rect(0, bottom, bounds.W, bounds.H)
	}
}

// ZoneAt returns the section whose band contains p. Points outside the
// canvas resolve to the nearest band.
func ZoneAt(bounds Size, p image.Point) Section {
	y := p.Y
	if y < 0 {
		y = 0
	}
	if y >= bounds.H {
		y = bounds.H - 1
	}
	for _, s := range Sections {
		z := Zone(bounds, s)
		if y >= z.Min.Y && y < z.Max.Y {
			return s
		}
	}
	return SectionBottomStats
}

// Layout owns element and background state for one card.
type Layout struct {
	mode    Mode
	bounds  Size
	measure Measurer

	elements   map[ElementID]Element
	order      map[Section][]ElementID
	background *BackgroundImage

	raised    ElementID
	hasRaised bool
}

func NewLayout(mode Mode, bounds Size, measure Measurer, content Content) *Layout {
	if measure == nil {
		measure = EstimateSize
	}
	l := &Layout{
		mode:     mode,
		bounds:   bounds,
		measure:  measure,
		elements: make(map[ElementID]Element),
		order:    make(map[Section][]ElementID),
	}

	l.elements[PlayerName] = Element{
		ID:      PlayerName,
		Section: SectionHeader,
		Style:   DefaultStyle(PlayerName),
		Lines:   []string{content.Name},
	}
	l.elements[GameInfo] = Element{
		ID:      GameInfo,
		Section: SectionHeader,
		Style:   DefaultStyle(GameInfo),
		Lines:   []string{content.GameInfo},
	}
	l.elements[StatBlock] = Element{
		ID:               StatBlock,
		Section:          SectionTopStats,
		Style:            DefaultStyle(StatBlock),
		Lines:            slices.Clone(content.Primary),
		Secondary:        slices.Clone(content.Secondary),
		SecondaryVisible: true,
	}
	l.order[SectionHeader] = []ElementID{PlayerName, GameInfo}

	for _, id := range Foreground {
		l.remeasure(id)
	}
	l.arrange()
	return l
}

func (l *Layout) Mode() Mode   { return l.mode }
func (l *Layout) Bounds() Size { return l.bounds }

// Element returns a copy of a text element's state.
func (l *Layout) Element(id ElementID) (Element, bool) {
	e, ok := l.elements[id]
	if !ok {
		return Element{}, false
	}
	e.Lines = slices.Clone(e.Lines)
	e.Secondary = slices.Clone(e.Secondary)
	return e, true
}

func (l *Layout) Background() (BackgroundImage, bool) {
	if l.background == nil {
		return BackgroundImage{}, false
	}
	return *l.background, true
}

// Placement reports where id currently sits. For the background this is
// its offset.
func (l *Layout) Placement(id ElementID) (Placement, error) {
	if id == Background {
		if l.background == nil {
			return Placement{}, ErrNoBackground
		}
		return Placement{Section: ZoneAt(l.bounds, l.background.Offset), Pos: l.background.Offset}, nil
	}
	e, ok := l.elements[id]
	if !ok {
		return Placement{}, fmt.Errorf("%v: %w", id, ErrUnknownElement)
	}
	return Placement{Section: e.Section, Pos: e.Pos}, nil
}

// Draggable reports whether id may be picked up in the current mode.
func (l *Layout) Draggable(id ElementID) bool {
	switch id {
	case Background:
		return l.background != nil
	case StatBlock:
		return l.mode == ModeFreeform
	case PlayerName, GameInfo:
		return true
	}
	return false
}

// Place moves id to target. Coordinates are clamped so the footprint stays
// on the canvas. In sections mode a point resolves to the band holding it.
func (l *Layout) Place(id ElementID, t Target) (before, after Placement, err error) {
	before, err = l.Placement(id)
	if err != nil {
		return before, before, err
	}

	if id == Background {
		if !t.isPoint {
			return before, before, fmt.Errorf("background to %v: %w", t, ErrNotDraggable)
		}
		bg := *l.background
		bg.Offset = l.clamp(t.point, bg.Size())
		l.background = &bg
		after, _ = l.Placement(id)
		return before, after, nil
	}

	if !l.Draggable(id) {
		return before, before, fmt.Errorf("%v in %v mode: %w", id, l.mode, ErrNotDraggable)
	}

	e := l.elements[id]
	switch {
	case l.mode == ModeSections:
		section := t.section
		if t.isPoint {
			section = ZoneAt(l.bounds, t.point)
		}
		l.assign(id, section)
		l.arrange()
	case t.isPoint:
		e.Pos = l.clamp(t.point, e.Size)
		e.Section = ZoneAt(l.bounds, centre(e.Rect()))
		l.elements[id] = e
	default:
		e.Section = t.section
		e.Pos = l.clamp(l.slot(id, t.section, e.Size, 0, 1), e.Size)
		l.elements[id] = e
	}

	after, _ = l.Placement(id)
	return before, after, nil
}

// SetStyle merges patch into id's style and re-fits the footprint.
func (l *Layout) SetStyle(id ElementID, patch StylePatch) (Style, error) {
	e, ok := l.elements[id]
	if !ok {
		return Style{}, fmt.Errorf("%v: %w", id, ErrUnknownElement)
	}
	e.Style = e.Style.apply(patch)
	l.elements[id] = e
	l.remeasure(id)
	l.refit()
	return l.elements[id].Style, nil
}

// SetLines replaces the primary text of id.
func (l *Layout) SetLines(id ElementID, lines []string) error {
	e, ok := l.elements[id]
	if !ok {
		return fmt.Errorf("%v: %w", id, ErrUnknownElement)
	}
	e.Lines = slices.Clone(lines)
	l.elements[id] = e
	l.remeasure(id)
	l.refit()
	return nil
}

// HideSecondaryStats hides the stat block's secondary line for the rest of
// the card's life. It reports whether anything changed.
func (l *Layout) HideSecondaryStats() bool {
	e := l.elements[StatBlock]
	if !e.SecondaryVisible {
		return false
	}
	e.SecondaryVisible = false
	l.elements[StatBlock] = e
	l.remeasure(StatBlock)
	l.refit()
	return true
}

func (l *Layout) SecondaryHidden() bool {
	return !l.elements[StatBlock].SecondaryVisible
}

// Order returns the left-to-right order of text elements sharing s.
func (l *Layout) Order(s Section) []ElementID {
	return slices.Clone(l.order[s])
}

// Swap reverses the left/right order of a shared section.
func (l *Layout) Swap(s Section) error {
	if l.mode != ModeSections || len(l.order[s]) != 2 {
		return fmt.Errorf("%v: %w", s, ErrNothingToSwap)
	}
	pair := l.order[s]
	l.order[s] = []ElementID{pair[1], pair[0]}
	l.arrange()
	return nil
}

// SetBackground installs bg. A zero scale picks the smallest scale that
// covers the canvas, and the image is centred.
func (l *Layout) SetBackground(bg BackgroundImage) {
	if bg.Scale == 0 && bg.Width > 0 && bg.Height > 0 {
		bg.Scale = math.Max(float64(l.bounds.W)/float64(bg.Width), float64(l.bounds.H)/float64(bg.Height))
		bg.Scale = clampScale(bg.Scale)
		s := bg.Size()
		bg.Offset = image.Pt((l.bounds.W-s.W)/2, (l.bounds.H-s.H)/2)
	}
	bg.Scale = clampScale(bg.Scale)
	bg.Offset = l.clamp(bg.Offset, bg.Size())
	l.background = &bg
}

// ClearBackground removes the background and reports whether one was set.
func (l *Layout) ClearBackground() bool {
	if l.background == nil {
		return false
	}
	l.background = nil
	if l.hasRaised && l.raised == Background {
		l.hasRaised = false
	}
	return true
}

// ScaleBackground multiplies the background scale by factor, keeping the
// image centre fixed where the bounds allow it.
func (l *Layout) ScaleBackground(factor float64) (float64, error) {
	if l.background == nil {
		return 0, ErrNoBackground
	}
	bg := *l.background
	c := centre(bg.Rect())
	bg.Scale = clampScale(bg.Scale * factor)
	s := bg.Size()
	bg.Offset = l.clamp(image.Pt(c.X-s.W/2, c.Y-s.H/2), s)
	l.background = &bg
	return bg.Scale, nil
}

// Raise gives id the z-top slot, taking it from any other element.
func (l *Layout) Raise(id ElementID) {
	l.raised = id
	l.hasRaised = true
}

func (l *Layout) ClearRaised() { l.hasRaised = false }

func (l *Layout) Raised() (ElementID, bool) { return l.raised, l.hasRaised }

// ZOrder lists elements bottom to top. The background always stays at the
// bottom; a raised foreground element is drawn last.
func (l *Layout) ZOrder() []ElementID {
	var out []ElementID
	if l.background != nil {
		out = append(out, Background)
	}
	for _, id := range Foreground {
		if l.hasRaised && id == l.raised {
			continue
		}
		out = append(out, id)
	}
	if l.hasRaised && l.raised != Background {
		out = append(out, l.raised)
	}
	return out
}

// HitTest returns the topmost element under p.
func (l *Layout) HitTest(p image.Point) (ElementID, bool) {
	order := l.ZOrder()
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		var r image.Rectangle
		if id == Background {
			r = l.background.Rect()
		} else {
			r = l.elements[id].Rect()
		}
		if p.In(r) {
			return id, true
		}
	}
	return 0, false
}

// Rect is the footprint of any element, background included.
func (l *Layout) Rect(id ElementID) (image.Rectangle, bool) {
	if id == Background {
		if l.background == nil {
			return image.Rectangle{}, false
		}
		return l.background.Rect(), true
	}
	e, ok := l.elements[id]
	return e.Rect(), ok
}

func (l *Layout) assign(id ElementID, s Section) {
	e := l.elements[id]
	if e.Section == s {
		return
	}
	if id == PlayerName || id == GameInfo {
		l.order[e.Section] = slices.DeleteFunc(l.order[e.Section], func(x ElementID) bool { return x == id })
		l.order[s] = append(l.order[s], id)
	}
	e.Section = s
	l.elements[id] = e
}

// remeasure refreshes the footprint of id. Text wider or taller than the
// canvas has its font size stepped down until it fits.
func (l *Layout) remeasure(id ElementID) {
	e := l.elements[id]
	e.Size = l.measure(e.VisibleLines(), e.Style)
	for (e.Size.W > l.bounds.W || e.Size.H > l.bounds.H) && e.Style.FontSize > MinFontSize {
		ratio := math.Min(float64(l.bounds.W)/float64(e.Size.W), float64(l.bounds.H)/float64(e.Size.H))
		next := math.Floor(e.Style.FontSize * ratio)
		if next >= e.Style.FontSize {
			next = e.Style.FontSize - 1
		}
		e.Style.FontSize = math.Max(next, MinFontSize)
		e.Size = l.measure(e.VisibleLines(), e.Style)
	}
	l.elements[id] = e
}

// refit re-applies placement after a footprint change.
func (l *Layout) refit() {
	if l.mode == ModeSections {
		l.arrange()
		return
	}
	for id, e := range l.elements {
		e.Pos = l.clamp(e.Pos, e.Size)
		l.elements[id] = e
	}
}

// arrange computes section-mode positions from section and order.
func (l *Layout) arrange() {
	for _, s := range Sections {
		ids := l.order[s]
		for i, id := range ids {
			e := l.elements[id]
			e.Pos = l.clamp(l.slot(id, s, e.Size, i, len(ids)), e.Size)
			l.elements[id] = e
		}
	}
	sb := l.elements[StatBlock]
	sb.Pos = l.clamp(l.slot(StatBlock, sb.Section, sb.Size, 0, 1), sb.Size)
	l.elements[StatBlock] = sb
}

func (l *Layout) slot(id ElementID, s Section, size Size, index, count int) image.Point {
	band := Zone(l.bounds, s)
	if id == StatBlock {
		return image.Pt(margin, band.Min.Y+margin)
	}

	var x int
	switch {
	case count < 2:
		x = (l.bounds.W - size.W) / 2
	case index == 0:
		x = margin
	default:
		x = l.bounds.W - margin - size.W
	}

	y := band.Max.Y - margin - size.H
	if s == SectionHeader {
		y = band.Min.Y + (band.Dy()-size.H)/2
	}
	return image.Pt(x, y)
}

func (l *Layout) clamp(p image.Point, size Size) image.Point {
	return image.Pt(clampAxis(p.X, l.bounds.W, size.W), clampAxis(p.Y, l.bounds.H, size.H))
}

func clampAxis(v, span, extent int) int {
	lo, hi := 0, span-extent
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampScale(f float64) float64 {
	return math.Min(math.Max(f, MinBackgroundScale), MaxBackgroundScale)
}

func centre(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}
