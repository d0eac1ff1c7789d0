// Package card holds the stat card being composed: its layout, the drag
// controller that edits it, and the log of every edit.
package card

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"statcard/internal/stats"
)

// Options configures a new card.
type Options struct {
	Mode    Mode
	Bounds  Size
	Measure Measurer
	Now     func() time.Time
}

// DefaultBounds is the canvas size of a card in pixels.
var DefaultBounds = Size{W: 600, H: 600}

// Card is the one active card. Generating another card replaces it.
type Card struct {
	ID        uuid.UUID
	Player    stats.Player
	Game      stats.GameStat
	CreatedAt time.Time

	name string
	date string

	layout *Layout
	log    *Log
	drag   *Controller
	now    func() time.Time
}

// Generate builds a fresh card for one game with default placement and
// style, and logs "Post Generated".
func Generate(player stats.Player, game stats.GameStat, opts Options) *Card {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Bounds == (Size{}) {
		opts.Bounds = DefaultBounds
	}

	c := &Card{
		ID:        uuid.New(),
		Player:    player,
		Game:      game,
		CreatedAt: opts.Now(),
		name:      player.Name,
		date:      game.DateLabel(),
		now:       opts.Now,
	}
	c.layout = NewLayout(opts.Mode, opts.Bounds, opts.Measure, Content{
		Name:      c.name,
		GameInfo:  c.gameInfo(),
		Primary:   []string{PrimaryLine(game)},
		Secondary: []string{SecondaryLine(game)},
	})
	c.log = NewLog(opts.Now)
	c.drag = NewController(c.layout, c.log)
	c.log.Append("Post Generated", fmt.Sprintf("%s, %s %s", player.Name, c.date, game.Opponent))
	return c
}

// PrimaryLine is the headline stat row.
func PrimaryLine(g stats.GameStat) string {
	return fmt.Sprintf("%d PTS  %d REB  %d AST", g.Points, g.Rebounds, g.Assists)
}

// SecondaryLine is the stat row that may be hidden.
func SecondaryLine(g stats.GameStat) string {
	fg := strings.TrimPrefix(fmt.Sprintf("%.3f", g.FGPct), "0")
	return fmt.Sprintf("%d STL  %d BLK  %s FG%%  %d MIN", g.Steals, g.Blocks, fg, g.Minutes)
}

func (c *Card) gameInfo() string {
	return c.date + " " + c.Game.Opponent
}

func (c *Card) Layout() *Layout   { return c.layout }
func (c *Card) Log() *Log         { return c.log }
func (c *Card) Drag() *Controller { return c.drag }
func (c *Card) Name() string      { return c.name }
func (c *Card) Date() string      { return c.date }

// Text is the visible text of a foreground element.
func (c *Card) Text(id ElementID) string {
	e, ok := c.layout.Element(id)
	if !ok {
		return ""
	}
	return strings.Join(e.VisibleLines(), "\n")
}

// SetName edits the displayed player name.
func (c *Card) SetName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || name == c.name {
		return false
	}
	old := c.name
	c.name = name
	c.layout.SetLines(PlayerName, []string{name})
	c.log.Append("Edited Player Name", fmt.Sprintf("%q to %q", old, name))
	return true
}

// SetDate edits the displayed game date.
func (c *Card) SetDate(date string) bool {
	date = strings.TrimSpace(date)
	if date == "" || date == c.date {
		return false
	}
	old := c.date
	c.date = date
	c.layout.SetLines(GameInfo, []string{c.gameInfo()})
	c.log.Append("Edited Game Date", fmt.Sprintf("%q to %q", old, date))
	return true
}

// SetStyle applies patch to id and logs the resulting style.
func (c *Card) SetStyle(id ElementID, patch StylePatch) error {
	before, ok := c.layout.Element(id)
	if !ok {
		return fmt.Errorf("%v: %w", id, ErrUnknownElement)
	}
	after, err := c.layout.SetStyle(id, patch)
	if err != nil {
		return err
	}
	if after == before.Style {
		return nil
	}
	c.log.Append("Changed Style", fmt.Sprintf("%v: %v", id, after))
	return nil
}

// HideSecondaryStats hides the secondary stat row. Only the first call
// changes anything or logs.
func (c *Card) HideSecondaryStats() bool {
	if !c.layout.HideSecondaryStats() {
		return false
	}
	c.log.Append("Hid Secondary Stats", SecondaryLine(c.Game))
	return true
}

// Swap reverses the left/right order of a shared section.
func (c *Card) Swap(s Section) error {
	if err := c.layout.Swap(s); err != nil {
		return err
	}
	order := c.layout.Order(s)
	c.log.Append("Swapped Order", fmt.Sprintf("%s: %v left, %v right", s, order[0], order[1]))
	return nil
}

// SetBackground installs or replaces the background image.
func (c *Card) SetBackground(bg BackgroundImage) {
	_, had := c.layout.Background()
	c.layout.SetBackground(bg)
	action := "Added Background"
	if had {
		action = "Replaced Background"
	}
	c.log.Append(action, fmt.Sprintf("%dx%d image", bg.Width, bg.Height))
}

func (c *Card) RemoveBackground() error {
	if !c.layout.ClearBackground() {
		return ErrNoBackground
	}
	c.log.Append("Removed Background", "")
	return nil
}

// ScaleBackground multiplies the background scale by factor.
func (c *Card) ScaleBackground(factor float64) error {
	bg, ok := c.layout.Background()
	if !ok {
		return ErrNoBackground
	}
	scale, err := c.layout.ScaleBackground(factor)
	if err != nil {
		return err
	}
	if scale == bg.Scale {
		return nil
	}
	c.log.Append("Scaled Background", fmt.Sprintf("%.2fx", scale))
	return nil
}

// Header summarizes the card from its current display fields, which may
// differ from the generated ones after edits.
func (c *Card) Header() TranscriptHeader {
	return TranscriptHeader{
		Player:   c.name,
		Date:     c.date,
		StatLine: c.Game.StatLine(),
		Exported: c.now(),
	}
}

func (c *Card) Transcript() string {
	return c.log.Transcript(c.Header())
}
