package domain

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/wrxx97/chat/pkg/model"
)

// Stream labels sent as the SSE event name.
const (
	LabelNewChat        = "NewChat"
	LabelAddToChat      = "AddToChat"
	LabelRemoveFromChat = "RemoveFromChat"
	LabelNewMessage     = "NewMessage"
)

// ChangeEvent is one of *NewChat, *UpdatedChat, *RemovedFromChat or
// *NewMessage. Events are shared between subscribers and must not be
// mutated after decoding.
type ChangeEvent interface {
	changeEvent()
}

type NewChat struct{ Chat *model.Chat }

type UpdatedChat struct{ Chat *model.Chat }

type RemovedFromChat struct{ Chat *model.Chat }

type NewMessage struct{ Message *model.Message }

func (*NewChat) changeEvent()         {}
func (*UpdatedChat) changeEvent()     {}
func (*RemovedFromChat) changeEvent() {}
func (*NewMessage) changeEvent()      {}

// Label returns the stream event name. Updates go out as AddToChat.
func Label(e ChangeEvent) string {
	switch e.(type) {
	case *NewChat:
		return LabelNewChat
	case *UpdatedChat:
		return LabelAddToChat
	case *RemovedFromChat:
		return LabelRemoveFromChat
	case *NewMessage:
		return LabelNewMessage
	default:
		return ""
	}
}

// Encode renders the carried record. The label travels separately as the
// stream event name.
func Encode(e ChangeEvent) ([]byte, error) {
	switch ev := e.(type) {
	case *NewChat:
		return encodeChat(LabelNewChat, ev.Chat)
	case *UpdatedChat:
		return encodeChat(LabelAddToChat, ev.Chat)
	case *RemovedFromChat:
		return encodeChat(LabelRemoveFromChat, ev.Chat)
	case *NewMessage:
		if ev.Message == nil {
			return nil, fmt.Errorf("%s: nil message", LabelNewMessage)
		}
		return json.Marshal(ev.Message)
	default:
		return nil, fmt.Errorf("unknown event %T", e)
	}
}

func encodeChat(label string, chat *model.Chat) ([]byte, error) {
	if chat == nil {
		return nil, fmt.Errorf("%s: nil chat", label)
	}
	return json.Marshal(chat)
}

// UserSet is the set of user ids an event is delivered to.
type UserSet map[int64]struct{}

func NewUserSet(ids ...int64) UserSet {
	s := make(UserSet, len(ids))
	s.Add(ids...)
	return s
}

func (s UserSet) Add(ids ...int64) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s UserSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in ascending order.
func (s UserSet) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
