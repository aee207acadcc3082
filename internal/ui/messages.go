package ui

import (
	"github.com/altinukshini/hound-tui/internal/config"
	"github.com/altinukshini/hound-tui/internal/history"
	"github.com/altinukshini/hound-tui/internal/results"
)

// ReplyMsg carries a finished server round trip back to Update, where the
// session applies it.
type ReplyMsg struct {
	Reply results.Reply
}

type HistoryLoadedMsg struct {
	Entries []history.Entry
	Err     error
}

type HistoryRecordedMsg struct {
	Err error
}

// Action result messages
type ActionResultMsg struct {
	Action string
	Err    error
}

type ConfigReloadedMsg struct {
	Config config.Config
}

type StatusMsg struct {
	Text string
}
