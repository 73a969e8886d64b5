package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/wrxx97/chat/chat-server/internal/domain"
	"github.com/wrxx97/chat/pkg/model"
)

type GormChatRepository struct {
	db *gorm.DB
}

func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	return &GormChatRepository{db: db}
}

func (r *GormChatRepository) Create(ctx context.Context, chat *model.Chat) error {
	m := domain.ChatToModel(chat)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	chat.ID = m.ID
	chat.CreatedAt = m.CreatedAt
	return nil
}

func (r *GormChatRepository) GetByID(ctx context.Context, id int64) (*model.Chat, error) {
	var m domain.ChatModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToRecord(), nil
}

func (r *GormChatRepository) ListByWorkspace(ctx context.Context, wsID int64) ([]*model.Chat, error) {
	var rows []domain.ChatModel
	if err := r.db.WithContext(ctx).Where("ws_id = ?", wsID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	chats := make([]*model.Chat, 0, len(rows))
	for i := range rows {
		chats = append(chats, rows[i].ToRecord())
	}
	return chats, nil
}

// Update writes name, type and members of chat.
func (r *GormChatRepository) Update(ctx context.Context, chat *model.Chat) error {
	m := domain.ChatToModel(chat)
	result := r.db.WithContext(ctx).Model(&domain.ChatModel{}).
		Where("id = ?", chat.ID).
		Updates(map[string]any{
			"name":    m.Name,
			"type":    m.Type,
			"members": m.Members,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the chat and its messages.
func (r *GormChatRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", id).Delete(&domain.MessageModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.ChatModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
