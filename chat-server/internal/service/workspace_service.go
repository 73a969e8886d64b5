package service

import (
	"context"

	"github.com/wrxx97/chat/chat-server/internal/repository"
	"github.com/wrxx97/chat/pkg/model"
)

type workspaceServiceImpl struct {
	users repository.UserRepository
}

func NewWorkspaceService(users repository.UserRepository) WorkspaceService {
	return &workspaceServiceImpl{users: users}
}

func (s *workspaceServiceImpl) ListUsers(ctx context.Context, user *model.User) ([]*model.ChatUser, error) {
	users, err := s.users.ListByWorkspace(ctx, user.WsID)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*model.ChatUser{}
	}
	return users, nil
}
