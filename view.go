package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"statcard/internal/auth"
	"statcard/internal/card"
	"statcard/internal/compositor"
	"statcard/internal/stats"
)

var (
	accent = lipgloss.Color("#FDB927")
	navy   = lipgloss.Color("#1D428A")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent).Background(navy).Padding(0, 1)
	canvasStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(navy)
	panelStyle   = lipgloss.NewStyle().Width(panelWidth).PaddingLeft(2)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787"))
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	alertStyle   = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FF5F5F")).
			Padding(1, 3)
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	base := m.mode
	switch base {
	case ModeTextInput, ModeConfirm, ModeAlert:
		base = m.prevMode
	}

	var body string
	switch base {
	case ModeResults:
		body = m.resultsView()
	case ModeCard, ModeMove:
		body = m.cardView()
	case ModeDashboard:
		body = m.dashboardView()
	default:
		body = m.searchView()
	}

	if m.mode == ModeAlert {
		body = lipgloss.Place(max(m.width, 1), max(m.height-titleHeight-statusHeight, 1),
			lipgloss.Center, lipgloss.Center,
			alertStyle.Render(m.alertMessage+"\n\n"+dimStyle.Render("press any key")))
	}

	var result strings.Builder
	result.WriteString(m.titleBar())
	result.WriteString("\n")
	result.WriteString(body)
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) titleBar() string {
	title := "statcard"
	if u := m.auth.CurrentUser(); u != nil {
		title += "  " + u.Email
	}
	return titleStyle.Render(title)
}

func (m model) searchView() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Search for a player"))
	b.WriteString("\n\n  > ")
	b.WriteString(m.query)
	if m.mode == ModeSearch {
		b.WriteString(cursorStyle.Render(" "))
	}
	b.WriteString("\n\n")
	switch {
	case m.searching:
		b.WriteString(dimStyle.Render("  Searching..."))
	case m.notFound != "":
		b.WriteString(errorStyle.Render("  " + m.notFound))
	}
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("  Players: " + strings.Join(stats.Suggestions(len(stats.Roster())), ", ")))
	return b.String()
}

func (m model) resultsView() string {
	var b strings.Builder
	p := m.player
	b.WriteString(headingStyle.Render(fmt.Sprintf("%s  %s  %s", p.Name, p.Team, p.Position)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Last %d games: %s", len(m.games), stats.CalculateAverages(m.games))))
	b.WriteString("\n\n")
	for i, g := range m.games {
		prefix := "   "
		if i == m.selectedGame {
			prefix = " > "
		}
		line := fmt.Sprintf("%s%d. %s %-13s %s", prefix, i+1, g.DateLabel(), g.Opponent, g.StatLine())
		if i == m.selectedGame {
			line = headingStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf(" 1-%d or Enter to generate a card", len(m.games))))
	return b.String()
}

func (m model) cardView() string {
	v := m.viewport()
	preview := canvasStyle.Render(strings.Join(m.renderCanvas(v), "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, preview, m.sidePanel())
}

func (m model) sidePanel() string {
	var b strings.Builder
	c := m.card
	l := c.Layout()

	b.WriteString(headingStyle.Render(c.Name()))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n", c.Date(), c.Game.Opponent))
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s layout, %dx%d", l.Mode(), l.Bounds().W, l.Bounds().H)))
	b.WriteString("\n\n")

	b.WriteString(headingStyle.Render("Selected: " + m.selected.String()))
	b.WriteString("\n")
	if m.selected == card.Background {
		if bg, ok := l.Background(); ok {
			b.WriteString(fmt.Sprintf("%dx%d at (%d, %d)\nscale %.2fx\n",
				bg.Width, bg.Height, bg.Offset.X, bg.Offset.Y, bg.Scale))
		}
	} else if e, ok := l.Element(m.selected); ok {
		b.WriteString(fmt.Sprintf("%s\n%s at (%d, %d)\n", e.Style, e.Section, e.Pos.X, e.Pos.Y))
	}
	if l.SecondaryHidden() {
		b.WriteString(dimStyle.Render("secondary stats hidden"))
		b.WriteString("\n")
	}
	if pl, ok := c.Drag().Payload(); ok && m.mode != ModeMove {
		b.WriteString(fmt.Sprintf("dragging %s over %s\n", pl.Element, pl.Hover))
	}

	b.WriteString("\n")
	b.WriteString(headingStyle.Render(fmt.Sprintf("Edit history (%d)", c.Log().Len())))
	b.WriteString("\n")
	entries := c.Log().Entries()
	if len(entries) > logPanelRows {
		entries = entries[len(entries)-logPanelRows:]
	}
	for _, e := range entries {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d. %s", e.ID, e.Action)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("export: " + compositor.FileName(c.Name(), c.Date())))
	return panelStyle.Render(b.String())
}

func (m model) dashboardView() string {
	d := m.dashboard()
	now := m.now()

	var b strings.Builder
	b.WriteString(headingStyle.Render("Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s, member since %s\n\n", d.Email, d.MemberSince.Format("Jan 2, 2006")))
	b.WriteString(fmt.Sprintf("  Cards created    %d\n", d.CardsCreated))
	b.WriteString(fmt.Sprintf("  Total downloads  %d\n", d.TotalDownloads))
	b.WriteString(fmt.Sprintf("  Avg downloads    %d\n\n", d.AvgDownloads))
	b.WriteString(headingStyle.Render("Recent cards"))
	b.WriteString("\n")
	if len(d.Recent) == 0 {
		b.WriteString(dimStyle.Render("  No cards yet"))
		b.WriteString("\n")
	}
	for _, r := range d.Recent {
		b.WriteString(fmt.Sprintf("  %-20s %s, %d downloads\n", r.Player, auth.Ago(now, r.CreatedAt), r.Downloads))
	}
	return b.String()
}

func (m model) statusLine() string {
	var hint string
	switch m.mode {
	case ModeSearch:
		hint = "Enter=search, Esc=back, Ctrl+C=quit"
	case ModeResults:
		hint = "j/k=select, Enter=generate, /=search, ?=help, q=quit"
	case ModeCard:
		hint = fmt.Sprintf("%s | Tab=select, m=move, S=export, ?=help, q=quit", m.selected)
	case ModeMove:
		hint = fmt.Sprintf("%s | hjkl/arrows=move, Enter=drop, Esc=cancel", m.selected)
	case ModeTextInput:
		hint = fmt.Sprintf("%s: %s | Enter=confirm, Ctrl+V=paste, Esc=cancel", m.inputLabel(), m.inputDisplay())
	case ModeConfirm:
		hint = m.confirmMessage()
	case ModeAlert:
		hint = "press any key"
	case ModeDashboard:
		hint = "Esc=back"
	}
	status := fmt.Sprintf("Mode: %s | %s", m.modeString(), hint)
	if m.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	} else if m.successMessage != "" {
		status += " | " + successStyle.Render(m.successMessage)
	}
	return status
}

func (m model) inputLabel() string {
	switch m.inputField {
	case InputPlayerName:
		return "Player name"
	case InputGameDate:
		return "Game date"
	case InputBackground:
		return "Background image path"
	case InputEmail:
		if m.signingUp {
			return "Sign up email"
		}
		return "Email"
	case InputPassword:
		return "Password"
	}
	return "Input"
}

func (m model) inputDisplay() string {
	if m.inputField == InputPassword {
		return strings.Repeat("*", len([]rune(m.inputText)))
	}
	return m.inputText
}

func (m model) confirmMessage() string {
	switch m.confirmAction {
	case ConfirmHideSecondary:
		return "Hide secondary stats? This cannot be undone. (y/n)"
	case ConfirmRemoveBackground:
		return "Remove the background image? (y/n)"
	case ConfirmReplaceCard:
		return "Replace the current card? Its edits will be lost. (y/n)"
	case ConfirmQuit:
		return "Quit statcard? (y/n)"
	}
	return "(y/n)"
}

func (m model) modeString() string {
	switch m.mode {
	case ModeSearch:
		return "SEARCH"
	case ModeResults:
		return "GAMES"
	case ModeCard:
		return "CARD"
	case ModeMove:
		return "MOVE"
	case ModeTextInput:
		return "INPUT"
	case ModeConfirm:
		return "CONFIRM"
	case ModeAlert:
		return "ALERT"
	case ModeDashboard:
		return "DASHBOARD"
	default:
		return "UNKNOWN"
	}
}

var helpLines = []string{
	"statcard Help",
	"=============",
	"",
	"Games:",
	"------",
	"  j/k, ↑/↓         Select a game",
	"  1-5, Enter       Generate a card for the game",
	"  /                New search",
	"",
	"Card:",
	"-----",
	"  Mouse drag       Move an element (drop on a section in sections layout)",
	"  Tab/Shift+Tab    Select next/previous element",
	"  h/j/k/l, arrows  Nudge the selected element (Shift = 2x)",
	"  m                Move mode: hjkl to move, Enter to drop, Esc to cancel",
	"  w                Swap the two elements sharing a section",
	"  f                Cycle font family",
	"  +/-              Font size up/down",
	"  b / i            Toggle bold / italic",
	"  x                Hide secondary stats",
	"  e / d            Edit player name / game date",
	"  B                Load a background image (Ctrl+V pastes a path)",
	"  [ / ]            Scale the background down/up",
	"  r                Remove the background",
	"  S                Export PNG and edit history",
	"  y                Copy the edit history to the clipboard",
	"  G                Back to the game list",
	"",
	"Account:",
	"--------",
	"  a                Sign in / sign out",
	"  A                Sign up",
	"  D                Dashboard",
	"",
	"General:",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m model) helpView() string {
	lines := helpLines
	if m.height > 1 && len(lines) > m.height {
		lines = lines[:m.height]
	}
	return strings.Join(lines, "\n")
}
