package auth

import (
	"fmt"
	"time"
)

// RecentCard is a card generated in this session.
type RecentCard struct {
	Player    string
	CreatedAt time.Time
	Downloads int
}

// Dashboard is the summary shown to a signed-in user.
type Dashboard struct {
	Email          string
	MemberSince    time.Time
	CardsCreated   int
	TotalDownloads int
	AvgDownloads   int
	Recent         []RecentCard
}

const recentLimit = 3

// Summarize derives the dashboard from the session's cards, newest first.
func Summarize(u *User, cards []RecentCard) Dashboard {
	d := Dashboard{CardsCreated: len(cards)}
	if u != nil {
		d.Email = u.Email
		d.MemberSince = u.CreatedAt
	}
	for _, c := range cards {
		d.TotalDownloads += c.Downloads
	}
	if d.CardsCreated > 0 {
		d.AvgDownloads = (d.TotalDownloads + d.CardsCreated/2) / d.CardsCreated
	}
	for i := len(cards) - 1; i >= 0 && len(d.Recent) < recentLimit; i-- {
		d.Recent = append(d.Recent, cards[i])
	}
	return d
}

// Ago renders a coarse relative time like the hosted dashboard did.
func Ago(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	}
	return plural(int(d/(7*24*time.Hour)), "week")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
