package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/wrxx97/chat/chat-server/internal/audit"
	"github.com/wrxx97/chat/chat-server/internal/domain"
	"github.com/wrxx97/chat/chat-server/internal/repository"
	"github.com/wrxx97/chat/pkg/log"
	"github.com/wrxx97/chat/pkg/model"
	"github.com/wrxx97/chat/pkg/pubsub"
	"github.com/wrxx97/chat/pkg/storage"
)

const (
	DefaultMessageLimit = 20
	MaxMessageLimit     = 100
)

type messageServiceImpl struct {
	messages  repository.MessageRepository
	chats     ChatService
	store     storage.Storage
	publisher pubsub.Publisher
}

func NewMessageService(messages repository.MessageRepository, chats ChatService, store storage.Storage, publisher pubsub.Publisher) MessageService {
	if publisher == nil {
		publisher = pubsub.NopPublisher{}
	}
	return &messageServiceImpl{messages: messages, chats: chats, store: store, publisher: publisher}
}

func (s *messageServiceImpl) Send(ctx context.Context, user *model.User, chatID int64, req *domain.SendMessageRequest) (*model.Message, error) {
	l := log.Ctx(ctx)

	chat, err := s.chats.Get(ctx, user, chatID)
	if err != nil {
		return nil, err
	}
	// Public channels are readable by the workspace, writable by members only.
	if !chat.HasMember(user.ID) {
		return nil, ErrNotMember
	}

	if strings.TrimSpace(req.Content) == "" && len(req.Files) == 0 {
		return nil, fmt.Errorf("%w: content or files are required", ErrInvalidInput)
	}
	for _, url := range req.Files {
		if err := s.checkFile(ctx, user.WsID, url); err != nil {
			return nil, err
		}
	}

	files := req.Files
	if files == nil {
		files = []string{}
	}
	msg := &model.Message{
		ChatID:   chat.ID,
		SenderID: user.ID,
		Content:  req.Content,
		Files:    files,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		l.Error().Err(err).Int64(log.FieldChatID, chatID).Msg("failed to create message")
		return nil, err
	}

	payload, err := pubsub.EncodeMessageCreated(msg, chat)
	if err == nil {
		err = s.publisher.Publish(ctx, pubsub.ChannelChatMessageCreated, payload)
	}
	if err != nil {
		l.Warn().Err(err).
			Str(log.FieldChannel, pubsub.ChannelChatMessageCreated).
			Int64(log.FieldMessageID, msg.ID).
			Msg("failed to publish message")
	}

	audit.Record(ctx, audit.Entry{Action: audit.ActionSendMessage, UserID: user.ID, ChatID: chat.ID, MessageID: msg.ID}, "message sent")

	return msg, nil
}

func (s *messageServiceImpl) List(ctx context.Context, user *model.User, chatID int64, query *domain.ListMessagesQuery) ([]*model.Message, error) {
	if _, err := s.chats.Get(ctx, user, chatID); err != nil {
		return nil, err
	}

	limit := query.Limit
	switch {
	case limit <= 0:
		limit = DefaultMessageLimit
	case limit > MaxMessageLimit:
		limit = MaxMessageLimit
	}

	msgs, err := s.messages.List(ctx, chatID, query.LastID, limit)
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// checkFile requires url to name a file of wsID that has been uploaded.
func (s *messageServiceImpl) checkFile(ctx context.Context, wsID int64, url string) error {
	f, err := model.ParseChatFile(url)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if f.WsID != wsID {
		return fmt.Errorf("%w: file %s belongs to another workspace", ErrInvalidInput, url)
	}

	ok, err := s.store.Exists(ctx, f.Key())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: file %s does not exist", ErrInvalidInput, url)
	}
	return nil
}
