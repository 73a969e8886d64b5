package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/wrxx97/chat/chat-server/internal/domain"
	"github.com/wrxx97/chat/pkg/model"
)

type GormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	m := domain.MessageToModel(msg)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	msg.ID = m.ID
	msg.CreatedAt = m.CreatedAt
	msg.Files = []string(m.Files)
	return nil
}

func (r *GormMessageRepository) List(ctx context.Context, chatID int64, lastID *int64, limit int) ([]*model.Message, error) {
	q := r.db.WithContext(ctx).Where("chat_id = ?", chatID)
	if lastID != nil {
		q = q.Where("id < ?", *lastID)
	}

	var rows []domain.MessageModel
	if err := q.Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	msgs := make([]*model.Message, 0, len(rows))
	for i := range rows {
		msgs = append(msgs, rows[i].ToRecord())
	}
	return msgs, nil
}
