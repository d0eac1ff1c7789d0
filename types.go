package main

import (
	"image"
	"log/slog"
	"time"

	"statcard/internal/auth"
	"statcard/internal/card"
	"statcard/internal/stats"
)

type model struct {
	width  int
	height int

	cfg      *Config
	provider stats.Provider
	auth     auth.Provider
	logger   *slog.Logger
	now      func() time.Time

	mode     Mode
	prevMode Mode
	help     bool

	query        string
	searching    bool
	notFound     string
	player       *stats.Player
	games        []stats.GameStat
	selectedGame int

	card      *card.Card
	selected  card.ElementID
	movePoint image.Point
	recent    []auth.RecentCard
	current   int

	inputField InputField
	inputText  string
	email      string
	signingUp  bool

	confirmAction  ConfirmAction
	alertMessage   string
	errorMessage   string
	successMessage string
}

// searchDoneMsg carries the result of a player search and its games.
type searchDoneMsg struct {
	query  string
	player stats.Player
	games  []stats.GameStat
	err    error
}

type authDoneMsg struct {
	user   *auth.User
	signUp bool
	err    error
}

// viewport maps the terminal preview of the card onto canvas pixels.
// Terminal cells are about twice as tall as they are wide.
type viewport struct {
	left, top  int
	cols, rows int
	bounds     card.Size
}

func (v viewport) contains(x, y int) bool {
	return x >= v.left && x < v.left+v.cols && y >= v.top && y < v.top+v.rows
}

// toCanvas returns the canvas pixel at the centre of screen cell (x, y).
func (v viewport) toCanvas(x, y int) image.Point {
	cx, cy := x-v.left, y-v.top
	return image.Pt(
		(2*cx+1)*v.bounds.W/(2*v.cols),
		(2*cy+1)*v.bounds.H/(2*v.rows),
	)
}

// toCell returns the preview cell, relative to the preview, covering p.
func (v viewport) toCell(p image.Point) (int, int) {
	return p.X * v.cols / v.bounds.W, p.Y * v.rows / v.bounds.H
}

// cellSize is the number of canvas pixels one cell spans on each axis.
func (v viewport) cellSize() (int, int) {
	w, h := v.bounds.W/v.cols, v.bounds.H/v.rows
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
