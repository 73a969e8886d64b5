package pubsub

import (
	"encoding/json"
	"time"

	"github.com/wrxx97/chat/pkg/model"
)

// Channel names. The kafka driver uses them as topic names.
const (
	ChannelChatUpdated        = "chat_updated"
	ChannelChatMessageCreated = "chat_message_created"
)

// Channels lists every channel the notify server listens on.
func Channels() []string {
	return []string{ChannelChatUpdated, ChannelChatMessageCreated}
}

// Row operations carried by chat_updated.
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// ChatUpdated is the chat_updated payload. Old is nil on INSERT, New on DELETE.
type ChatUpdated struct {
	Op  string      `json:"op"`
	Old *model.Chat `json:"old"`
	New *model.Chat `json:"new"`
}

// MessageCreated is the chat_message_created payload: the message row with
// the owning chat's ws_id, name, type and members merged in.
type MessageCreated struct {
	ID        int64          `json:"id"`
	ChatID    int64          `json:"chat_id"`
	SenderID  int64          `json:"sender_id"`
	Content   string         `json:"content"`
	Files     []string       `json:"files"`
	CreatedAt time.Time      `json:"created_at"`
	WsID      int64          `json:"ws_id"`
	Name      *string        `json:"name"`
	Type      model.ChatType `json:"type"`
	Members   []int64        `json:"members"`
}

// Message extracts the message record.
func (m *MessageCreated) Message() *model.Message {
	return &model.Message{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Files:     m.Files,
		CreatedAt: m.CreatedAt,
	}
}

// EncodeChatUpdated renders the chat_updated payload.
func EncodeChatUpdated(op string, prev, next *model.Chat) ([]byte, error) {
	return json.Marshal(ChatUpdated{Op: op, Old: prev, New: next})
}

// EncodeMessageCreated renders the chat_message_created payload.
func EncodeMessageCreated(msg *model.Message, chat *model.Chat) ([]byte, error) {
	return json.Marshal(MessageCreated{
		ID:        msg.ID,
		ChatID:    msg.ChatID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		Files:     msg.Files,
		CreatedAt: msg.CreatedAt,
		WsID:      chat.WsID,
		Name:      chat.Name,
		Type:      chat.Type,
		Members:   chat.Members,
	})
}
