package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/wrxx97/chat/chat-server/internal/audit"
	"github.com/wrxx97/chat/chat-server/internal/domain"
	"github.com/wrxx97/chat/chat-server/internal/repository"
	"github.com/wrxx97/chat/pkg/log"
	"github.com/wrxx97/chat/pkg/model"
)

type authServiceImpl struct {
	users      repository.UserRepository
	workspaces repository.WorkspaceRepository
	signer     TokenSigner
}

func NewAuthService(users repository.UserRepository, workspaces repository.WorkspaceRepository, signer TokenSigner) AuthService {
	return &authServiceImpl{users: users, workspaces: workspaces, signer: signer}
}

// Signup creates the user, creating the named workspace on first use. The
// first user of a workspace becomes its owner.
func (s *authServiceImpl) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	_, err := s.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		l.Error().Err(err).Msg("failed to look up email")
		return nil, err
	}

	ws, err := s.findOrCreateWorkspace(ctx, req.Workspace)
	if err != nil {
		l.Error().Err(err).Str("workspace", req.Workspace).Msg("failed to resolve workspace")
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := &domain.User{
		User: model.User{
			WsID:     ws.ID,
			Fullname: req.Fullname,
			Email:    req.Email,
		},
		PasswordHash: string(hashedPassword),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		l.Error().Err(err).Msg("failed to create user")
		return nil, err
	}

	if ws.OwnerID == 0 {
		if err := s.workspaces.UpdateOwner(ctx, ws.ID, user.ID); err != nil {
			l.Error().Err(err).Int64(log.FieldWorkspaceID, ws.ID).Msg("failed to set workspace owner")
			return nil, err
		}
	}

	token, err := s.signer.Sign(&user.User)
	if err != nil {
		l.Error().Err(err).Int64(log.FieldUserID, user.ID).Msg("failed to sign token after signup")
		return nil, err
	}

	audit.Record(ctx, audit.Entry{Action: audit.ActionSignup, UserID: user.ID}, "user signed up")

	return &domain.AuthResponse{Token: token}, nil
}

func (s *authServiceImpl) Signin(ctx context.Context, req *domain.SigninRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			audit.Record(ctx, audit.Entry{Action: audit.ActionSigninFailed, Detail: req.Email}, "signin failed: user not found")
			return nil, ErrInvalidCredentials
		}
		l.Error().Err(err).Msg("failed to get user by email")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		audit.Record(ctx, audit.Entry{Action: audit.ActionSigninFailed, UserID: user.ID, Detail: req.Email}, "signin failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	token, err := s.signer.Sign(&user.User)
	if err != nil {
		l.Error().Err(err).Int64(log.FieldUserID, user.ID).Msg("failed to sign token after signin")
		return nil, err
	}

	audit.Record(ctx, audit.Entry{Action: audit.ActionSignin, UserID: user.ID}, "user signed in")

	return &domain.AuthResponse{Token: token}, nil
}

func (s *authServiceImpl) findOrCreateWorkspace(ctx context.Context, name string) (*model.Workspace, error) {
	ws, err := s.workspaces.FindByName(ctx, name)
	if err == nil {
		return ws, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	ws = &model.Workspace{Name: name}
	if err := s.workspaces.Create(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}
