package stats

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var roster = []Player{
	{ID: 1, Name: "LeBron James", Team: "Los Angeles Lakers", Position: SmallForward},
	{ID: 2, Name: "Stephen Curry", Team: "Golden State Warriors", Position: PointGuard},
	{ID: 3, Name: "Kevin Durant", Team: "Phoenix Suns", Position: SmallForward},
	{ID: 4, Name: "Giannis Antetokounmpo", Team: "Milwaukee Bucks", Position: PowerForward},
	{ID: 5, Name: "Luka Dončić", Team: "Dallas Mavericks", Position: PointGuard},
	{ID: 6, Name: "Jayson Tatum", Team: "Boston Celtics", Position: SmallForward},
	{ID: 7, Name: "Joel Embiid", Team: "Philadelphia 76ers", Position: Center},
	{ID: 8, Name: "Nikola Jokić", Team: "Denver Nuggets", Position: Center},
}

var opponents = []string{"Lakers", "Warriors", "Celtics", "Heat", "Nuggets"}

// Roster returns a copy of the players the mock knows about.
func Roster() []Player {
	out := make([]Player, len(roster))
	copy(out, roster)
	return out
}

// Suggestions lists the first few player names, for the not-found hint and
// the welcome screen.
func Suggestions(n int) []string {
	if n > len(roster) {
		n = len(roster)
	}
	names := make([]string, 0, n)
	for _, p := range roster[:n] {
		names = append(names, p.Name)
	}
	return names
}

// Mock satisfies Provider with the fixed roster and randomized games.
type Mock struct {
	Delay time.Duration
	Games int

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewMock returns a mock provider producing games per query. Only 3 and 5
// are meaningful; anything else falls back to 5.
func NewMock(games int, delay time.Duration, seed uint64) *Mock {
	if games != 3 && games != 5 {
		games = 5
	}
	return &Mock{
		Delay: delay,
		Games: games,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:   time.Now,
	}
}

func (m *Mock) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (m *Mock) Search(ctx context.Context, query string) (Player, error) {
	q := Fold(strings.TrimSpace(query))
	if q == "" {
		return Player{}, ErrEmptyQuery
	}
	if err := m.wait(ctx, m.Delay); err != nil {
		return Player{}, err
	}
	for _, p := range roster {
		if strings.Contains(Fold(p.Name), q) {
			return p, nil
		}
	}
	return Player{}, fmt.Errorf("%q: %w", query, ErrNotFound)
}

func (m *Mock) FetchGames(ctx context.Context, player Player) ([]GameStat, error) {
	if err := m.wait(ctx, m.Delay/2); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	today := m.now()
	games := make([]GameStat, m.Games)
	for i := range games {
		games[i] = GameStat{
			Game:     i + 1,
			Date:     today.AddDate(0, 0, -i),
			Opponent: "vs " + opponents[i%len(opponents)],
			Points:   m.rng.IntN(30) + 15,
			Rebounds: m.rng.IntN(12) + 3,
			Assists:  m.rng.IntN(10) + 2,
			Steals:   m.rng.IntN(3) + 1,
			Blocks:   m.rng.IntN(3),
			FGPct:    float64(int((m.rng.Float64()*0.4+0.4)*1000)) / 1000,
			Minutes:  m.rng.IntN(10) + 30,
		}
	}
	return games, nil
}

// Fold lowercases s and strips combining marks so "doncic" matches
// "Dončić".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
