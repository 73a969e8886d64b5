package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/wrxx97/chat/chat-server/internal/domain"
	"github.com/wrxx97/chat/pkg/model"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts user and fills in its id and creation time.
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	m := domain.UserToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return err
	}
	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	return nil
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m domain.UserModel
	if err := r.db.WithContext(ctx).First(&m, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func (r *GormUserRepository) ListByWorkspace(ctx context.Context, wsID int64) ([]*model.ChatUser, error) {
	var users []*model.ChatUser
	err := r.db.WithContext(ctx).Model(&domain.UserModel{}).
		Select("id", "fullname", "email").
		Where("ws_id = ?", wsID).
		Order("id").
		Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormUserRepository) CountInWorkspace(ctx context.Context, wsID int64, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.UserModel{}).
		Where("ws_id = ? AND id IN ?", wsID, ids).
		Count(&n).Error
	return int(n), err
}
