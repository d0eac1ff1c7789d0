package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"statcard/internal/auth"
	"statcard/internal/card"
	"statcard/internal/compositor"
	"statcard/internal/stats"
)

func main() {
	cfg := loadConfig()
	logger, closer, err := openLog(cfg.LogFile)
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()
	compositor.SetLogger(logger)

	accounts, err := auth.NewMemory(24 * time.Hour)
	if err != nil {
		log.Fatal(err)
	}
	provider := stats.NewMock(cfg.Games, cfg.SearchDelay, uint64(time.Now().UnixNano()))

	p := tea.NewProgram(
		newModel(cfg, provider, accounts, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

func newModel(cfg *Config, provider stats.Provider, accounts auth.Provider, logger *slog.Logger) model {
	return model{
		cfg:      cfg,
		provider: provider,
		auth:     accounts,
		logger:   logger,
		now:      time.Now,
		mode:     ModeSearch,
		current:  -1,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case searchDoneMsg:
		m.handleSearchDone(msg)
		return m, nil

	case authDoneMsg:
		m.handleAuthDone(msg)
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.help {
			m.help = false
			return m, nil
		}

		var cmd tea.Cmd
		switch m.mode {
		case ModeSearch:
			cmd = m.handleSearchKey(msg)
		case ModeResults:
			cmd = m.handleResultsKey(msg)
		case ModeCard:
			cmd = m.handleCardKey(msg)
		case ModeMove:
			m.handleMoveKey(msg)
		case ModeTextInput:
			cmd = m.handleInputKey(msg)
		case ModeConfirm:
			cmd = m.handleConfirmKey(msg)
		case ModeAlert:
			m.alertMessage = ""
			m.mode = m.prevMode
		case ModeDashboard:
			switch msg.String() {
			case "esc", "q", "D", "enter":
				m.mode = m.prevMode
			}
		}
		return m, cmd
	}
	return m, nil
}

func (m *model) clearMessages() {
	m.errorMessage = ""
	m.successMessage = ""
}

func (m *model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		if m.searching {
			return nil
		}
		query := strings.TrimSpace(m.query)
		if query == "" {
			m.errorMessage = "Type a player name to search"
			return nil
		}
		m.clearMessages()
		m.notFound = ""
		m.searching = true
		m.logger.Info("searching", "query", query)
		return searchCmd(m.provider, query)
	case tea.KeyEsc:
		switch {
		case m.card != nil:
			m.mode = ModeCard
		case m.player != nil:
			m.mode = ModeResults
		}
		return nil
	case tea.KeyCtrlV:
		if text, err := readClipboardText(); err == nil {
			m.query += cleanClipboardText(text)
		}
		return nil
	}
	m.query = editInput(m.query, msg)
	return nil
}

func (m *model) handleSearchDone(msg searchDoneMsg) {
	m.searching = false
	if msg.err != nil {
		switch {
		case errors.Is(msg.err, stats.ErrNotFound):
			m.notFound = fmt.Sprintf("Player not found. Try searching for: %s",
				strings.Join(stats.Suggestions(3), ", "))
			m.logger.Info("player not found", "query", msg.query)
		case errors.Is(msg.err, stats.ErrEmptyQuery):
			m.errorMessage = "Type a player name to search"
		default:
			m.errorMessage = fmt.Sprintf("Search failed: %v", msg.err)
			m.logger.Error("search failed", "query", msg.query, "err", msg.err)
		}
		return
	}

	player := msg.player
	m.player = &player
	m.games = msg.games
	m.selectedGame = 0
	m.notFound = ""
	m.logger.Info("player found", "query", msg.query, "player", player.Name, "games", len(msg.games))
	if m.mode == ModeSearch {
		m.mode = ModeResults
	}
}

func (m *model) handleResultsKey(msg tea.KeyMsg) tea.Cmd {
	m.clearMessages()
	key := msg.String()
	switch key {
	case "j", "down":
		if m.selectedGame < len(m.games)-1 {
			m.selectedGame++
		}
	case "k", "up":
		if m.selectedGame > 0 {
			m.selectedGame--
		}
	case "enter", "g":
		return m.requestCard(m.selectedGame)
	case "/", "s":
		m.query = ""
		m.mode = ModeSearch
	case "esc":
		if m.card != nil {
			m.mode = ModeCard
		} else {
			m.mode = ModeSearch
		}
	case "D":
		m.openDashboard()
	case "a":
		return m.toggleSignIn()
	case "A":
		m.startSignUp()
	case "?":
		m.help = true
	case "q":
		return m.ask(ConfirmQuit)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if i < len(m.games) {
				m.selectedGame = i
				return m.requestCard(i)
			}
		}
	}
	return nil
}

// requestCard generates a card for game i, asking first when that would
// throw away edits on the current card.
func (m *model) requestCard(i int) tea.Cmd {
	if i < 0 || i >= len(m.games) || m.player == nil {
		return nil
	}
	m.selectedGame = i
	if m.card != nil && m.card.Log().Len() > 1 {
		return m.ask(ConfirmReplaceCard)
	}
	m.generateCard()
	return nil
}

func (m *model) generateCard() {
	game := m.games[m.selectedGame]
	m.card = card.Generate(*m.player, game, card.Options{
		Mode:    m.cfg.Layout,
		Bounds:  m.cfg.Bounds(),
		Measure: compositor.Measure,
		Now:     m.now,
	})
	m.selected = card.PlayerName
	m.recent = append(m.recent, auth.RecentCard{Player: m.player.Name, CreatedAt: m.card.CreatedAt})
	m.current = len(m.recent) - 1
	m.mode = ModeCard
	m.clearMessages()
	m.successMessage = "Post Generated"
	m.logger.Info("card generated",
		"card", m.card.ID.String(),
		"player", m.player.Name,
		"game", game.Game,
		"layout", m.cfg.Layout.String())
}

// recordAction reports the entry appended to the card's log since it held
// before entries, if any.
func (m *model) recordAction(before int) {
	if m.card == nil || m.card.Log().Len() <= before {
		return
	}
	e, _ := m.card.Log().Last()
	m.successMessage = e.String()
	m.logger.Info("card edited",
		"card", m.card.ID.String(),
		"entry", e.ID,
		"action", e.Action,
		"detail", e.Detail)
}

func (m *model) handleCardKey(msg tea.KeyMsg) tea.Cmd {
	m.clearMessages()
	key := msg.String()
	before := m.card.Log().Len()

	switch key {
	case "tab":
		m.cycleSelection(1)
	case "shift+tab":
		m.cycleSelection(-1)
	case "h", "j", "k", "l", "left", "right", "up", "down",
		"H", "J", "K", "L", "shift+left", "shift+right", "shift+up", "shift+down":
		m.nudgeSelected(key, m.getMoveSpeed(key))
	case "m":
		m.startMove()
	case "f":
		m.cycleFont()
	case "+", "=":
		m.resizeFont(fontStep)
	case "-", "_":
		m.resizeFont(-fontStep)
	case "b":
		m.toggleStyle(true)
	case "i":
		m.toggleStyle(false)
	case "w":
		m.swapSelected()
	case "x":
		if m.card.Layout().SecondaryHidden() {
			m.errorMessage = "Secondary stats are already hidden"
			return nil
		}
		return m.ask(ConfirmHideSecondary)
	case "e":
		m.startInput(InputPlayerName, m.card.Name())
	case "d":
		m.startInput(InputGameDate, m.card.Date())
	case "B":
		m.startInput(InputBackground, "")
	case "]":
		m.scaleBackground(bgScaleStep)
	case "[":
		m.scaleBackground(1 / bgScaleStep)
	case "r":
		if _, ok := m.card.Layout().Background(); !ok {
			m.errorMessage = card.ErrNoBackground.Error()
			return nil
		}
		return m.ask(ConfirmRemoveBackground)
	case "S":
		m.exportCard()
	case "y":
		m.copyTranscript()
	case "G":
		m.mode = ModeResults
	case "/":
		m.query = ""
		m.mode = ModeSearch
	case "D":
		m.openDashboard()
	case "a":
		return m.toggleSignIn()
	case "A":
		m.startSignUp()
	case "esc":
		m.card.Drag().Cancel()
	case "?":
		m.help = true
	case "q":
		return m.ask(ConfirmQuit)
	}
	m.recordAction(before)
	return nil
}

func (m *model) cycleSelection(step int) {
	ids := []card.ElementID{card.PlayerName, card.GameInfo, card.StatBlock}
	if _, ok := m.card.Layout().Background(); ok {
		ids = append(ids, card.Background)
	}
	idx := 0
	for i, id := range ids {
		if id == m.selected {
			idx = i
		}
	}
	m.selected = ids[(idx+step+len(ids))%len(ids)]
}

func (m *model) textSelected() bool {
	if m.selected == card.Background {
		m.errorMessage = "Select a text element to style it"
		return false
	}
	return true
}

func (m *model) cycleFont() {
	if !m.textSelected() {
		return
	}
	e, _ := m.card.Layout().Element(m.selected)
	next := card.FontFamilies[0]
	for i, f := range card.FontFamilies {
		if f == e.Style.FontFamily {
			next = card.FontFamilies[(i+1)%len(card.FontFamilies)]
		}
	}
	m.setStyle(card.StylePatch{FontFamily: &next})
}

func (m *model) resizeFont(delta float64) {
	if !m.textSelected() {
		return
	}
	e, _ := m.card.Layout().Element(m.selected)
	size := e.Style.FontSize + delta
	m.setStyle(card.StylePatch{FontSize: &size})
}

func (m *model) toggleStyle(bold bool) {
	if !m.textSelected() {
		return
	}
	e, _ := m.card.Layout().Element(m.selected)
	var patch card.StylePatch
	if bold {
		v := !e.Style.Bold
		patch.Bold = &v
	} else {
		v := !e.Style.Italic
		patch.Italic = &v
	}
	m.setStyle(patch)
}

func (m *model) setStyle(patch card.StylePatch) {
	if err := m.card.SetStyle(m.selected, patch); err != nil {
		m.errorMessage = err.Error()
	}
}

func (m *model) swapSelected() {
	if m.selected == card.Background {
		m.errorMessage = card.ErrNothingToSwap.Error()
		return
	}
	p, err := m.card.Layout().Placement(m.selected)
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	if err := m.card.Swap(p.Section); err != nil {
		m.errorMessage = err.Error()
	}
}

func (m *model) scaleBackground(factor float64) {
	if err := m.card.ScaleBackground(factor); err != nil {
		m.errorMessage = err.Error()
	}
}

// ask runs action straight away when confirmations are off, otherwise
// switches to the confirm prompt.
func (m *model) ask(action ConfirmAction) tea.Cmd {
	if !m.cfg.Confirmations {
		return m.perform(action)
	}
	m.confirmAction = action
	m.prevMode = m.mode
	m.mode = ModeConfirm
	return nil
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = m.prevMode
		return m.perform(m.confirmAction)
	case "n", "N", "esc":
		m.mode = m.prevMode
	}
	return nil
}

func (m *model) perform(action ConfirmAction) tea.Cmd {
	switch action {
	case ConfirmQuit:
		return tea.Quit
	case ConfirmReplaceCard:
		m.generateCard()
	case ConfirmHideSecondary:
		before := m.card.Log().Len()
		m.card.HideSecondaryStats()
		m.recordAction(before)
	case ConfirmRemoveBackground:
		before := m.card.Log().Len()
		if err := m.card.RemoveBackground(); err != nil {
			m.errorMessage = err.Error()
		}
		if m.selected == card.Background {
			m.selected = card.PlayerName
		}
		m.recordAction(before)
	}
	return nil
}

func (m *model) startInput(field InputField, initial string) {
	m.prevMode = m.mode
	m.mode = ModeTextInput
	m.inputField = field
	m.inputText = initial
}

func (m *model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		return m.submitInput()
	case tea.KeyEsc:
		m.inputText = ""
		m.mode = m.prevMode
		return nil
	case tea.KeyCtrlV:
		text, err := readClipboardText()
		if err != nil {
			m.errorMessage = "Clipboard is empty or unavailable"
			return nil
		}
		m.inputText += cleanClipboardText(text)
		return nil
	}
	m.inputText = editInput(m.inputText, msg)
	return nil
}

func (m *model) submitInput() tea.Cmd {
	text := m.inputText
	m.inputText = ""
	m.clearMessages()

	switch m.inputField {
	case InputEmail:
		m.email = strings.TrimSpace(text)
		m.inputField = InputPassword
		return nil
	case InputPassword:
		m.mode = m.prevMode
		return authCmd(m.auth, m.email, text, m.signingUp)
	}

	m.mode = m.prevMode
	before := m.card.Log().Len()
	switch m.inputField {
	case InputPlayerName:
		m.card.SetName(text)
	case InputGameDate:
		m.card.SetDate(text)
	case InputBackground:
		m.loadBackground(text)
	}
	m.recordAction(before)
	return nil
}

// loadBackground installs the image at path. Files that are not images are
// ignored without a message.
func (m *model) loadBackground(path string) {
	path = strings.Trim(strings.TrimSpace(path), `"'`)
	if path == "" {
		return
	}
	home, _ := os.UserHomeDir()
	path = expandPath(path, home)

	bg, err := compositor.LoadImage(path)
	if err != nil {
		if errors.Is(err, compositor.ErrNotImage) {
			m.logger.Info("ignored background upload", "path", path, "err", err)
			return
		}
		m.errorMessage = err.Error()
		return
	}
	m.card.SetBackground(bg)
	m.selected = card.Background
}
