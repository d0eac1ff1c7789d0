package stats

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMockSearch(t *testing.T) {
	m := NewMock(5, 0, 1)

	tests := []struct {
		name    string
		query   string
		want    string
		wantErr error
	}{
		{"Exact name", "LeBron James", "LeBron James", nil},
		{"Case insensitive", "stephen curry", "Stephen Curry", nil},
		{"Substring", "tatum", "Jayson Tatum", nil},
		{"Diacritics folded", "doncic", "Luka Dončić", nil},
		{"Unknown", "Michael Jordan", "", ErrNotFound},
		{"Blank", "   ", "", ErrEmptyQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Search(context.Background(), tt.query)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Search(%q) error = %v, want %v", tt.query, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Name != tt.want {
				t.Errorf("Search(%q) = %q, want %q", tt.query, got.Name, tt.want)
			}
		})
	}
}

func TestMockSearchHonorsContext(t *testing.T) {
	m := NewMock(5, time.Hour, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Search(ctx, "LeBron"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Search() error = %v, want context.Canceled", err)
	}
}

func TestMockFetchGames(t *testing.T) {
	for _, n := range []int{3, 5} {
		m := NewMock(n, 0, 42)
		fixed := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
		m.now = func() time.Time { return fixed }

		games, err := m.FetchGames(context.Background(), Roster()[0])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(games) != n {
			t.Fatalf("FetchGames() returned %d games, want %d", len(games), n)
		}
		for i, g := range games {
			if g.Game != i+1 {
				t.Errorf("game %d numbered %d", i, g.Game)
			}
			if want := fixed.AddDate(0, 0, -i); !g.Date.Equal(want) {
				t.Errorf("game %d date = %v, want %v", i, g.Date, want)
			}
			if g.Points < 15 || g.Points > 44 {
				t.Errorf("game %d points %d out of range", i, g.Points)
			}
			if g.Rebounds < 3 || g.Rebounds > 14 {
				t.Errorf("game %d rebounds %d out of range", i, g.Rebounds)
			}
			if g.Steals < 1 || g.Steals > 3 {
				t.Errorf("game %d steals %d out of range", i, g.Steals)
			}
			if g.FGPct < 0.4 || g.FGPct >= 0.8 {
				t.Errorf("game %d FG%% %.3f out of range", i, g.FGPct)
			}
			if g.Minutes < 30 || g.Minutes > 39 {
				t.Errorf("game %d minutes %d out of range", i, g.Minutes)
			}
		}
	}
}

func TestNewMockGameCountFallback(t *testing.T) {
	if got := NewMock(4, 0, 1).Games; got != 5 {
		t.Errorf("NewMock(4).Games = %d, want 5", got)
	}
}

func TestCalculateAverages(t *testing.T) {
	games := []GameStat{
		{Points: 20, Rebounds: 10, Assists: 5, Steals: 1, Blocks: 0},
		{Points: 30, Rebounds: 5, Assists: 10, Steals: 2, Blocks: 1},
	}
	got := CalculateAverages(games)
	want := Averages{PPG: 25, RPG: 7.5, APG: 7.5, SPG: 1.5, BPG: 0.5}
	if got != want {
		t.Errorf("CalculateAverages() = %+v, want %+v", got, want)
	}
	if got := CalculateAverages(nil); got != (Averages{}) {
		t.Errorf("CalculateAverages(nil) = %+v, want zero", got)
	}
}

func TestSuggestions(t *testing.T) {
	got := Suggestions(3)
	want := []string{"LeBron James", "Stephen Curry", "Kevin Durant"}
	if len(got) != len(want) {
		t.Fatalf("Suggestions(3) = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Suggestions(3)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if n := len(Suggestions(100)); n != len(Roster()) {
		t.Errorf("Suggestions(100) returned %d names", n)
	}
}
