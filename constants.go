package main

type Mode int

const (
	ModeSearch Mode = iota
	ModeResults
	ModeCard
	ModeMove
	ModeTextInput
	ModeConfirm
	ModeAlert
	ModeDashboard
)

type InputField int

const (
	InputPlayerName InputField = iota
	InputGameDate
	InputBackground
	InputEmail
	InputPassword
)

type ConfirmAction int

const (
	ConfirmHideSecondary ConfirmAction = iota
	ConfirmRemoveBackground
	ConfirmReplaceCard
	ConfirmQuit
)

const (
	panelWidth   = 38
	titleHeight  = 1
	statusHeight = 1
	fontStep     = 2.0
	bgScaleStep  = 1.1
	logPanelRows = 8
)
