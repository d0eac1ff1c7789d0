package card

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one record in the edit log. Entries are never modified once
// appended.
type Entry struct {
	ID     int
	Time   time.Time
	Action string
	Detail string
}

func (e Entry) String() string {
	if e.Detail == "" {
		return e.Action
	}
	return e.Action + ": " + e.Detail
}

// Log is the append-only edit history of the current card.
type Log struct {
	entries []Entry
	nextID  int
	now     func() time.Time
}

func NewLog(now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{nextID: 1, now: now}
}

// Append records an action. Timestamps never go backwards even if the clock
// does.
func (l *Log) Append(action, detail string) Entry {
	ts := l.now()
	if n := len(l.entries); n > 0 && ts.Before(l.entries[n-1].Time) {
		ts = l.entries[n-1].Time
	}
	e := Entry{ID: l.nextID, Time: ts, Action: action, Detail: detail}
	l.nextID++
	l.entries = append(l.entries, e)
	return e
}

// Reset empties the log. Only a new card does this.
func (l *Log) Reset() {
	l.entries = nil
	l.nextID = 1
}

func (l *Log) Len() int { return len(l.entries) }

func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Last returns the most recent entry.
func (l *Log) Last() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// TranscriptHeader is the card summary printed above the transcript.
type TranscriptHeader struct {
	Player   string
	Date     string
	StatLine string
	Exported time.Time
}

// Transcript renders the log as a numbered, timestamped text file.
func (l *Log) Transcript(h TranscriptHeader) string {
	var b strings.Builder
	b.WriteString("Stat Card Edit History\n")
	b.WriteString("======================\n")
	fmt.Fprintf(&b, "Player: %s\n", h.Player)
	fmt.Fprintf(&b, "Date: %s\n", h.Date)
	fmt.Fprintf(&b, "Stats: %s\n", h.StatLine)
	if !h.Exported.IsZero() {
		fmt.Fprintf(&b, "Exported: %s\n", h.Exported.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(&b, "Total edits: %d\n\n", len(l.entries))
	for i, e := range l.entries {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, e.Time.Format("15:04:05"), e)
	}
	return b.String()
}
