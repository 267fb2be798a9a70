package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tunestats/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSessionStarted MsgKind = iota
	MsgSessionChanged
	MsgLoginFinished
	MsgWatchClosed
)

type loginResult struct {
	user *models.User
	err  error
}

// sessionStartedMsg is the constructor for [MsgSessionStarted]
func sessionStartedMsg(state models.SessionState) Msg {
	return Msg{kind: MsgSessionStarted, data: state}
}

// sessionChangedMsg is the constructor for [MsgSessionChanged]
func sessionChangedMsg(state models.SessionState) Msg {
	return Msg{kind: MsgSessionChanged, data: state}
}

// loginFinishedMsg is the constructor for [MsgLoginFinished]
func loginFinishedMsg(user *models.User, err error) Msg {
	return Msg{kind: MsgLoginFinished, data: loginResult{user: user, err: err}}
}

// watchClosedMsg is the constructor for [MsgWatchClosed]
func watchClosedMsg() Msg {
	return Msg{kind: MsgWatchClosed}
}
