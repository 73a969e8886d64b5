package domain

import (
	"time"

	"github.com/wrxx97/chat/pkg/database"
	"github.com/wrxx97/chat/pkg/model"
)

// WorkspaceModel is the GORM model for the workspaces table.
type WorkspaceModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	OwnerID   int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (WorkspaceModel) TableName() string { return "workspaces" }

func (m *WorkspaceModel) ToRecord() *model.Workspace {
	return &model.Workspace{ID: m.ID, Name: m.Name, OwnerID: m.OwnerID, CreatedAt: m.CreatedAt}
}

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	WsID         int64     `gorm:"index;not null"`
	Fullname     string    `gorm:"type:varchar(64);not null"`
	Email        string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(97);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) ToDomain() *User {
	return &User{
		User: model.User{
			ID:        m.ID,
			WsID:      m.WsID,
			Fullname:  m.Fullname,
			Email:     m.Email,
			CreatedAt: m.CreatedAt,
		},
		PasswordHash: m.PasswordHash,
	}
}

func UserToModel(u *User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		WsID:         u.WsID,
		Fullname:     u.Fullname,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

// ChatModel is the GORM model for the chats table. Members is bigint[] on
// postgres so the notify triggers emit it as a JSON array.
type ChatModel struct {
	ID        int64               `gorm:"primaryKey;autoIncrement"`
	WsID      int64               `gorm:"index;not null"`
	Name      *string             `gorm:"type:varchar(64)"`
	Type      string              `gorm:"type:varchar(32);not null"`
	Members   database.Int64Array `gorm:"not null"`
	CreatedAt time.Time           `gorm:"autoCreateTime"`
}

func (ChatModel) TableName() string { return "chats" }

func (m *ChatModel) ToRecord() *model.Chat {
	return &model.Chat{
		ID:        m.ID,
		WsID:      m.WsID,
		Name:      m.Name,
		Type:      model.ChatType(m.Type),
		Members:   []int64(m.Members),
		CreatedAt: m.CreatedAt,
	}
}

func ChatToModel(c *model.Chat) *ChatModel {
	return &ChatModel{
		ID:        c.ID,
		WsID:      c.WsID,
		Name:      c.Name,
		Type:      string(c.Type),
		Members:   database.Int64Array(c.Members),
		CreatedAt: c.CreatedAt,
	}
}

// MessageModel is the GORM model for the messages table.
type MessageModel struct {
	ID        int64                `gorm:"primaryKey;autoIncrement"`
	ChatID    int64                `gorm:"index;not null"`
	SenderID  int64                `gorm:"not null"`
	Content   string               `gorm:"type:text;not null"`
	Files     database.StringArray `gorm:"not null"`
	CreatedAt time.Time            `gorm:"autoCreateTime"`
}

func (MessageModel) TableName() string { return "messages" }

func (m *MessageModel) ToRecord() *model.Message {
	files := []string(m.Files)
	if files == nil {
		files = []string{}
	}
	return &model.Message{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Files:     files,
		CreatedAt: m.CreatedAt,
	}
}

func MessageToModel(msg *model.Message) *MessageModel {
	files := database.StringArray(msg.Files)
	if files == nil {
		files = database.StringArray{}
	}
	return &MessageModel{
		ID:        msg.ID,
		ChatID:    msg.ChatID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		Files:     files,
		CreatedAt: msg.CreatedAt,
	}
}

// Models lists every table for auto-migration.
func Models() []any {
	return []any{&WorkspaceModel{}, &UserModel{}, &ChatModel{}, &MessageModel{}}
}
