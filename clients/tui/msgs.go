package tui

import (
	"github.com/dohr-michael/taskchat/internal/conversation"
	"github.com/dohr-michael/taskchat/internal/monitor"
	"github.com/dohr-michael/taskchat/internal/startup"
)

// ReadyMsg signals that the startup load has settled and the chat may open.
type ReadyMsg struct {
	Result startup.Result
}

// NoticeMsg carries a pending-count notice published by the monitor.
type NoticeMsg struct {
	Notice monitor.Notice
}

// ReplyMsg carries the agent message that closed a submission.
type ReplyMsg struct {
	Message conversation.Message
}
