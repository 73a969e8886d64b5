// Package notify turns raw change notifications into typed events and the
// set of users they concern.
package notify

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wrxx97/chat/notify-server/internal/domain"
	"github.com/wrxx97/chat/pkg/pubsub"
)

var (
	ErrUnknownChannel   = errors.New("unknown channel")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrUnknownOperation = errors.New("unknown operation")
)

// Decode classifies one notification. It has no side effects.
func Decode(channel, payload string) (domain.ChangeEvent, domain.UserSet, error) {
	switch channel {
	case pubsub.ChannelChatUpdated:
		return decodeChatUpdated(payload)
	case pubsub.ChannelChatMessageCreated:
		return decodeMessageCreated(payload)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
	}
}

func decodeChatUpdated(payload string) (domain.ChangeEvent, domain.UserSet, error) {
	var p pubsub.ChatUpdated
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, pubsub.ChannelChatUpdated, err)
	}

	var evt domain.ChangeEvent
	switch p.Op {
	case pubsub.OpInsert:
		if p.New == nil {
			return nil, nil, fmt.Errorf("%w: INSERT without new record", ErrMalformedPayload)
		}
		evt = &domain.NewChat{Chat: p.New}
	case pubsub.OpUpdate:
		if p.New == nil {
			return nil, nil, fmt.Errorf("%w: UPDATE without new record", ErrMalformedPayload)
		}
		evt = &domain.UpdatedChat{Chat: p.New}
	case pubsub.OpDelete:
		if p.Old == nil {
			return nil, nil, fmt.Errorf("%w: DELETE without old record", ErrMalformedPayload)
		}
		evt = &domain.RemovedFromChat{Chat: p.Old}
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownOperation, p.Op)
	}

	// Members dropped by an UPDATE are in old only and still need to hear about it.
	users := domain.NewUserSet()
	if p.Old != nil {
		users.Add(p.Old.Members...)
	}
	if p.New != nil {
		users.Add(p.New.Members...)
	}

	return evt, users, nil
}

func decodeMessageCreated(payload string) (domain.ChangeEvent, domain.UserSet, error) {
	var p struct {
		pubsub.MessageCreated
		Members *[]int64 `json:"members"`
	}
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, pubsub.ChannelChatMessageCreated, err)
	}
	if p.Members == nil {
		return nil, nil, fmt.Errorf("%w: message without chat members", ErrMalformedPayload)
	}

	return &domain.NewMessage{Message: p.MessageCreated.Message()}, domain.NewUserSet(*p.Members...), nil
}
