package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"statcard/internal/auth"
	"statcard/internal/stats"
)

const requestTimeout = 10 * time.Second

// searchCmd looks the player up and fetches their recent games.
func searchCmd(provider stats.Provider, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		player, err := provider.Search(ctx, query)
		if err != nil {
			return searchDoneMsg{query: query, err: err}
		}
		games, err := provider.FetchGames(ctx, player)
		return searchDoneMsg{query: query, player: player, games: games, err: err}
	}
}

func authCmd(provider auth.Provider, email, password string, signUp bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var (
			user *auth.User
			err  error
		)
		if signUp {
			user, err = provider.SignUp(ctx, email, password)
		} else {
			user, err = provider.SignIn(ctx, email, password)
		}
		return authDoneMsg{user: user, signUp: signUp, err: err}
	}
}

func (m *model) handleAuthDone(msg authDoneMsg) {
	m.clearMessages()
	if msg.err != nil {
		m.errorMessage = msg.err.Error()
		m.logger.Info("auth failed", "email", m.email, "sign_up", msg.signUp, "err", msg.err)
		return
	}
	if msg.signUp {
		m.successMessage = "Account created for " + msg.user.Email + ", press a to sign in"
	} else {
		m.successMessage = "Signed in as " + msg.user.Email
	}
	m.logger.Info("auth", "email", msg.user.Email, "sign_up", msg.signUp)
}

func (m *model) toggleSignIn() tea.Cmd {
	if u := m.auth.CurrentUser(); u != nil {
		if err := m.auth.SignOut(context.Background()); err != nil {
			m.errorMessage = err.Error()
			return nil
		}
		m.successMessage = "Signed out"
		m.logger.Info("signed out", "email", u.Email)
		return nil
	}
	m.signingUp = false
	m.startInput(InputEmail, m.email)
	return nil
}

func (m *model) startSignUp() {
	m.signingUp = true
	m.startInput(InputEmail, "")
}

func (m *model) openDashboard() {
	if m.auth.CurrentUser() == nil {
		m.errorMessage = "Sign in (a) to see your dashboard"
		return
	}
	m.prevMode = m.mode
	m.mode = ModeDashboard
}

func (m model) dashboard() auth.Dashboard {
	return auth.Summarize(m.auth.CurrentUser(), m.recent)
}
