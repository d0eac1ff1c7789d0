package stats

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound   = errors.New("player not found")
	ErrEmptyQuery = errors.New("empty search query")
)

// Position is a standard basketball position.
type Position string

const (
	PointGuard    Position = "PG"
	ShootingGuard Position = "SG"
	SmallForward  Position = "SF"
	PowerForward  Position = "PF"
	Center        Position = "C"
)

// Player identifies a rostered player. Values are never mutated after a
// search returns them.
type Player struct {
	ID       int
	Name     string
	Team     string
	Position Position
}

// GameStat is one game's box score line for a player.
type GameStat struct {
	Game     int
	Date     time.Time
	Opponent string
	Points   int
	Rebounds int
	Assists  int
	Steals   int
	Blocks   int
	FGPct    float64
	Minutes  int
}

// DateLabel formats the game date the way cards display it.
func (g GameStat) DateLabel() string {
	return g.Date.Format("01/02")
}

// StatLine is the one-line summary used in transcripts and the results table.
func (g GameStat) StatLine() string {
	return fmt.Sprintf("%d PTS, %d REB, %d AST, %d STL, %d BLK, %.3f FG%%, %d MIN",
		g.Points, g.Rebounds, g.Assists, g.Steals, g.Blocks, g.FGPct, g.Minutes)
}

// Provider looks players up and returns their recent games.
type Provider interface {
	Search(ctx context.Context, query string) (Player, error)
	FetchGames(ctx context.Context, player Player) ([]GameStat, error)
}

// Averages holds per-game averages over a set of games.
type Averages struct {
	PPG float64
	RPG float64
	APG float64
	SPG float64
	BPG float64
}

func CalculateAverages(games []GameStat) Averages {
	if len(games) == 0 {
		return Averages{}
	}
	var pts, reb, ast, stl, blk int
	for _, g := range games {
		pts += g.Points
		reb += g.Rebounds
		ast += g.Assists
		stl += g.Steals
		blk += g.Blocks
	}
	n := float64(len(games))
	return Averages{
		PPG: float64(pts) / n,
		RPG: float64(reb) / n,
		APG: float64(ast) / n,
		SPG: float64(stl) / n,
		BPG: float64(blk) / n,
	}
}

func (a Averages) String() string {
	return fmt.Sprintf("PPG: %.1f  RPG: %.1f  APG: %.1f  SPG: %.1f  BPG: %.1f",
		a.PPG, a.RPG, a.APG, a.SPG, a.BPG)
}
