package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/wrxx97/chat/chat-server/internal/domain"
	"github.com/wrxx97/chat/pkg/model"
)

type GormWorkspaceRepository struct {
	db *gorm.DB
}

func NewGormWorkspaceRepository(db *gorm.DB) *GormWorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

func (r *GormWorkspaceRepository) FindByName(ctx context.Context, name string) (*model.Workspace, error) {
	var m domain.WorkspaceModel
	if err := r.db.WithContext(ctx).First(&m, "name = ?", name).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToRecord(), nil
}

func (r *GormWorkspaceRepository) Create(ctx context.Context, ws *model.Workspace) error {
	m := domain.WorkspaceModel{Name: ws.Name, OwnerID: ws.OwnerID}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*ws = *m.ToRecord()
	return nil
}

func (r *GormWorkspaceRepository) UpdateOwner(ctx context.Context, wsID, ownerID int64) error {
	result := r.db.WithContext(ctx).Model(&domain.WorkspaceModel{}).
		Where("id = ?", wsID).
		Update("owner_id", ownerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
