package card

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"unicode/utf8"
)

var (
	ErrUnknownElement = errors.New("unknown card element")
	ErrNoBackground   = errors.New("card has no background image")
	ErrNotDraggable   = errors.New("element cannot be placed that way")
	ErrNothingToSwap  = errors.New("section does not hold two elements")
)

// ElementID names one of the movable parts of a card.
type ElementID int

const (
	PlayerName ElementID = iota
	GameInfo
	StatBlock
	Background
)

var elementNames = map[ElementID]string{
	PlayerName: "Player Name",
	GameInfo:   "Game Info",
	StatBlock:  "Stat Block",
	Background: "Background",
}

func (e ElementID) String() string {
	if name, ok := elementNames[e]; ok {
		return name
	}
	return fmt.Sprintf("ElementID(%d)", int(e))
}

// Foreground lists the text elements in their default stacking order,
// bottom first.
var Foreground = []ElementID{StatBlock, GameInfo, PlayerName}

// Section is a named placement band of the card.
type Section int

const (
	SectionHeader Section = iota
	SectionTopStats
	SectionBottomStats
)

var Sections = []Section{SectionHeader, SectionTopStats, SectionBottomStats}

func (s Section) String() string {
	switch s {
	case SectionHeader:
		return "header"
	case SectionTopStats:
		return "top-stats"
	case SectionBottomStats:
		return "bottom-stats"
	}
	return fmt.Sprintf("Section(%d)", int(s))
}

// ParseSection is the inverse of Section.String.
func ParseSection(s string) (Section, bool) {
	for _, sec := range Sections {
		if sec.String() == s {
			return sec, true
		}
	}
	return 0, false
}

// Mode selects between section-based and freeform placement.
type Mode int

const (
	ModeSections Mode = iota
	ModeFreeform
)

func (m Mode) String() string {
	if m == ModeFreeform {
		return "freeform"
	}
	return "sections"
}

// Size is a footprint in canvas pixels.
type Size struct {
	W, H int
}

// Style is the typographic state of a text element.
type Style struct {
	FontFamily string
	FontSize   float64
	Bold       bool
	Italic     bool
}

func (s Style) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %gpt", s.FontFamily, s.FontSize)
	if s.Bold {
		b.WriteString(" bold")
	}
	if s.Italic {
		b.WriteString(" italic")
	}
	return b.String()
}

// StylePatch holds the fields to change; nil fields are left alone.
type StylePatch struct {
	FontFamily *string
	FontSize   *float64
	Bold       *bool
	Italic     *bool
}

const (
	MinFontSize = 8
	MaxFontSize = 96
)

// FontFamilies are the families the compositor can draw.
var FontFamilies = []string{"Go", "Go Mono", "Go Medium", "Go Smallcaps"}

func (s Style) apply(p StylePatch) Style {
	if p.FontFamily != nil {
		s.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.Bold != nil {
		s.Bold = *p.Bold
	}
	if p.Italic != nil {
		s.Italic = *p.Italic
	}
	if s.FontSize < MinFontSize {
		s.FontSize = MinFontSize
	}
	if s.FontSize > MaxFontSize {
		s.FontSize = MaxFontSize
	}
	return s
}

// Element is the state of one card element. Values are replaced wholesale
// on every change.
type Element struct {
	ID      ElementID
	Section Section
	Pos     image.Point
	Size    Size
	Style   Style

	Lines            []string
	Secondary        []string
	SecondaryVisible bool
}

// Rect is the element's footprint on the canvas.
func (e Element) Rect() image.Rectangle {
	return image.Rect(e.Pos.X, e.Pos.Y, e.Pos.X+e.Size.W, e.Pos.Y+e.Size.H)
}

// VisibleLines are the lines actually drawn.
func (e Element) VisibleLines() []string {
	lines := append([]string(nil), e.Lines...)
	if e.SecondaryVisible {
		lines = append(lines, e.Secondary...)
	}
	return lines
}

// BackgroundImage is an imported picture drawn behind the text.
type BackgroundImage struct {
	DataURI string
	Width   int
	Height  int
	Offset  image.Point
	Scale   float64
}

const (
	MinBackgroundScale = 0.25
	MaxBackgroundScale = 4.0
)

func (b BackgroundImage) Size() Size {
	return Size{W: int(float64(b.Width) * b.Scale), H: int(float64(b.Height) * b.Scale)}
}

func (b BackgroundImage) Rect() image.Rectangle {
	s := b.Size()
	return image.Rect(b.Offset.X, b.Offset.Y, b.Offset.X+s.W, b.Offset.Y+s.H)
}

// Measurer returns the footprint of lines drawn in style.
type Measurer func(lines []string, style Style) Size

// EstimateSize approximates a footprint without loading fonts.
func EstimateSize(lines []string, style Style) Size {
	widest := 0
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > widest {
			widest = n
		}
	}
	return Size{
		W: int(float64(widest) * style.FontSize * 0.6),
		H: int(float64(len(lines)) * style.FontSize * 1.3),
	}
}

// Target is where Place puts an element: a section or a coordinate pair.
type Target struct {
	section Section
	point   image.Point
	isPoint bool
}

func AtSection(s Section) Target { return Target{section: s} }

func AtPoint(x, y int) Target { return Target{point: image.Pt(x, y), isPoint: true} }

func (t Target) String() string {
	if t.isPoint {
		return fmt.Sprintf("(%d, %d)", t.point.X, t.point.Y)
	}
	return t.section.String()
}

// Placement records where an element sits.
type Placement struct {
	Section Section
	Pos     image.Point
}
