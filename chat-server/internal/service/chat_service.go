package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/wrxx97/chat/chat-server/internal/audit"
	"github.com/wrxx97/chat/chat-server/internal/cache"
	"github.com/wrxx97/chat/chat-server/internal/domain"
	"github.com/wrxx97/chat/chat-server/internal/repository"
	"github.com/wrxx97/chat/pkg/log"
	"github.com/wrxx97/chat/pkg/model"
	"github.com/wrxx97/chat/pkg/pubsub"
)

const (
	minChatMembers  = 2
	maxGroupMembers = 8
)

type chatServiceImpl struct {
	chats     repository.ChatRepository
	users     repository.UserRepository
	cache     cache.ChatCache
	publisher pubsub.Publisher
	sf        singleflight.Group
}

func NewChatService(chats repository.ChatRepository, users repository.UserRepository, c cache.ChatCache, publisher pubsub.Publisher) ChatService {
	if c == nil {
		c = cache.NopChatCache{}
	}
	if publisher == nil {
		publisher = pubsub.NopPublisher{}
	}
	return &chatServiceImpl{chats: chats, users: users, cache: c, publisher: publisher}
}

func (s *chatServiceImpl) List(ctx context.Context, user *model.User) ([]*model.Chat, error) {
	all, err := s.chats.ListByWorkspace(ctx, user.WsID)
	if err != nil {
		return nil, err
	}

	visible := make([]*model.Chat, 0, len(all))
	for _, c := range all {
		if c.Type == model.ChatTypePublicChannel || c.HasMember(user.ID) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

func (s *chatServiceImpl) Get(ctx context.Context, user *model.User, chatID int64) (*model.Chat, error) {
	chat, err := s.load(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.WsID != user.WsID {
		return nil, ErrChatNotFound
	}
	if chat.Type != model.ChatTypePublicChannel && !chat.HasMember(user.ID) {
		return nil, ErrNotMember
	}
	return chat, nil
}

// getAsMember loads a chat the caller must belong to, public or not.
func (s *chatServiceImpl) getAsMember(ctx context.Context, user *model.User, chatID int64) (*model.Chat, error) {
	chat, err := s.Get(ctx, user, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasMember(user.ID) {
		return nil, ErrNotMember
	}
	return chat, nil
}

func (s *chatServiceImpl) Create(ctx context.Context, user *model.User, req *domain.CreateChatRequest) (*model.Chat, error) {
	members, err := s.validateMembers(ctx, user.WsID, req.Members)
	if err != nil {
		return nil, err
	}

	name := normalizeName(req.Name)
	chatType, err := chatTypeFor(name, len(members), req.Public)
	if err != nil {
		return nil, err
	}

	chat := &model.Chat{
		WsID:    user.WsID,
		Name:    name,
		Type:    chatType,
		Members: members,
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Msg("failed to create chat")
		return nil, err
	}

	s.publishChat(ctx, pubsub.OpInsert, nil, chat)
	audit.Record(ctx, audit.Entry{Action: audit.ActionCreateChat, UserID: user.ID, ChatID: chat.ID, Detail: string(chat.Type)}, "chat created")

	return chat, nil
}

// Update replaces the name and members of a chat the caller belongs to. The
// chat keeps its type; a nil name keeps the current one.
func (s *chatServiceImpl) Update(ctx context.Context, user *model.User, chatID int64, req *domain.UpdateChatRequest) (*model.Chat, error) {
	prev, err := s.getAsMember(ctx, user, chatID)
	if err != nil {
		return nil, err
	}

	members, err := s.validateMembers(ctx, user.WsID, req.Members)
	if err != nil {
		return nil, err
	}
	if len(members) < minChatMembers {
		return nil, fmt.Errorf("%w: at least %d members are required", ErrInvalidInput, minChatMembers)
	}

	next := *prev
	next.Members = members
	if name := normalizeName(req.Name); name != nil {
		next.Name = name
	}

	if err := s.chats.Update(ctx, &next); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Int64(log.FieldChatID, chatID).Msg("failed to update chat")
		return nil, err
	}
	s.invalidate(ctx, chatID)

	s.publishChat(ctx, pubsub.OpUpdate, prev, &next)
	audit.Record(ctx, audit.Entry{Action: audit.ActionUpdateChat, UserID: user.ID, ChatID: chatID}, "chat updated")

	return &next, nil
}

func (s *chatServiceImpl) Delete(ctx context.Context, user *model.User, chatID int64) error {
	chat, err := s.getAsMember(ctx, user, chatID)
	if err != nil {
		return err
	}

	if err := s.chats.Delete(ctx, chatID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrChatNotFound
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Int64(log.FieldChatID, chatID).Msg("failed to delete chat")
		return err
	}
	s.invalidate(ctx, chatID)

	s.publishChat(ctx, pubsub.OpDelete, chat, nil)
	audit.Record(ctx, audit.Entry{Action: audit.ActionDeleteChat, UserID: user.ID, ChatID: chatID}, "chat deleted")

	return nil
}

func (s *chatServiceImpl) load(ctx context.Context, chatID int64) (*model.Chat, error) {
	l := log.Ctx(ctx)

	chat, err := s.cache.Get(ctx, chatID)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		l.Warn().Err(err).Int64(log.FieldChatID, chatID).Msg("chat cache read failed")
	}

	// Concurrent misses for the same chat share one query.
	result, err, _ := s.sf.Do(strconv.FormatInt(chatID, 10), func() (any, error) {
		chat, err := s.chats.GetByID(ctx, chatID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, chat); err != nil {
			l.Warn().Err(err).Int64(log.FieldChatID, chatID).Msg("chat cache write failed")
		}
		return chat, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	chat, ok := result.(*model.Chat)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from singleflight")
	}
	return chat, nil
}

func (s *chatServiceImpl) invalidate(ctx context.Context, chatID int64) {
	if err := s.cache.Delete(ctx, chatID); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Int64(log.FieldChatID, chatID).Msg("chat cache invalidation failed")
	}
}

// validateMembers drops duplicate ids and checks every member belongs to wsID.
func (s *chatServiceImpl) validateMembers(ctx context.Context, wsID int64, ids []int64) ([]int64, error) {
	seen := make(map[int64]struct{}, len(ids))
	members := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}

	n, err := s.users.CountInWorkspace(ctx, wsID, members)
	if err != nil {
		return nil, err
	}
	if n != len(members) {
		return nil, fmt.Errorf("%w: members must belong to the workspace", ErrInvalidInput)
	}
	return members, nil
}

func (s *chatServiceImpl) publishChat(ctx context.Context, op string, prev, next *model.Chat) {
	payload, err := pubsub.EncodeChatUpdated(op, prev, next)
	if err == nil {
		err = s.publisher.Publish(ctx, pubsub.ChannelChatUpdated, payload)
	}
	if err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).
			Str(log.FieldChannel, pubsub.ChannelChatUpdated).
			Str(log.FieldEvent, op).
			Msg("failed to publish chat change")
	}
}

func chatTypeFor(name *string, members int, public bool) (model.ChatType, error) {
	switch {
	case members < minChatMembers:
		return "", fmt.Errorf("%w: at least %d members are required", ErrInvalidInput, minChatMembers)
	case name != nil && public:
		return model.ChatTypePublicChannel, nil
	case name != nil:
		return model.ChatTypePrivateChannel, nil
	case members == minChatMembers:
		return model.ChatTypeSingle, nil
	case members <= maxGroupMembers:
		return model.ChatTypeGroup, nil
	default:
		return "", fmt.Errorf("%w: name is required when members are more than %d", ErrInvalidInput, maxGroupMembers)
	}
}

func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
