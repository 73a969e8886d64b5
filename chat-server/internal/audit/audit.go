// Package audit writes security relevant actions to the log stream, tagged so
// they can be shipped separately from request logs.
package audit

import (
	"context"

	"github.com/wrxx97/chat/pkg/log"
)

const (
	ActionSignup       = "user.signup"
	ActionSignin       = "user.signin"
	ActionSigninFailed = "user.signin_failed"
	ActionCreateChat   = "chat.create"
	ActionUpdateChat   = "chat.update"
	ActionDeleteChat   = "chat.delete"
	ActionSendMessage  = "message.send"
	ActionUploadFile   = "file.upload"
)

const (
	FieldAction = "action"
	FieldDetail = "detail"
)

// Entry describes one audited action. Zero ids and an empty detail are left
// out of the log line.
type Entry struct {
	Action    string
	UserID    int64
	ChatID    int64
	MessageID int64
	Detail    string
}

func Record(ctx context.Context, e Entry, msg string) {
	l := log.Ctx(ctx)
	evt := l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, e.Action)
	if e.UserID != 0 {
		evt = evt.Int64(log.FieldUserID, e.UserID)
	}
	if e.ChatID != 0 {
		evt = evt.Int64(log.FieldChatID, e.ChatID)
	}
	if e.MessageID != 0 {
		evt = evt.Int64(log.FieldMessageID, e.MessageID)
	}
	if e.Detail != "" {
		evt = evt.Str(FieldDetail, e.Detail)
	}
	evt.Msg(msg)
}
