package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wrxx97/chat/notify-server/internal/domain"
	"github.com/wrxx97/chat/pkg/model"
	"github.com/wrxx97/chat/pkg/pubsub"
)

func TestDecode_ChatUpdated(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		label   string
		chatID  int64
		users   []int64
	}{
		{
			name:    "insert notifies all new members",
			payload: `{"op":"INSERT","old":null,"new":{"id":5,"ws_id":1,"type":"group","members":[1,2,3]}}`,
			label:   domain.LabelNewChat,
			chatID:  5,
			users:   []int64{1, 2, 3},
		},
		{
			name:    "update notifies old and new members",
			payload: `{"op":"UPDATE","old":{"id":5,"members":[1,2,3]},"new":{"id":5,"members":[1,2,4]}}`,
			label:   domain.LabelAddToChat,
			chatID:  5,
			users:   []int64{1, 2, 3, 4},
		},
		{
			name:    "delete notifies old members",
			payload: `{"op":"DELETE","old":{"id":5,"members":[1,2]},"new":null}`,
			label:   domain.LabelRemoveFromChat,
			chatID:  5,
			users:   []int64{1, 2},
		},
		{
			name:    "update without old still decodes",
			payload: `{"op":"UPDATE","new":{"id":6,"members":[7,8]}}`,
			label:   domain.LabelAddToChat,
			chatID:  6,
			users:   []int64{7, 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			evt, users, err := Decode(pubsub.ChannelChatUpdated, tt.payload)

			req.NoError(err)
			req.Equal(tt.label, domain.Label(evt))
			req.Equal(tt.users, users.IDs())

			var chat *model.Chat
			switch e := evt.(type) {
			case *domain.NewChat:
				chat = e.Chat
			case *domain.UpdatedChat:
				chat = e.Chat
			case *domain.RemovedFromChat:
				chat = e.Chat
			}
			req.NotNil(chat)
			req.Equal(tt.chatID, chat.ID)
		})
	}
}

func TestDecode_ChatUpdatedErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{name: "not json", payload: `{"op":`, want: ErrMalformedPayload},
		{name: "insert without new", payload: `{"op":"INSERT","old":null,"new":null}`, want: ErrMalformedPayload},
		{name: "update without new", payload: `{"op":"UPDATE","old":{"id":1,"members":[1]}}`, want: ErrMalformedPayload},
		{name: "delete without old", payload: `{"op":"DELETE","new":{"id":1,"members":[1]}}`, want: ErrMalformedPayload},
		{name: "unknown op", payload: `{"op":"MOVE","new":{"id":1,"members":[1]}}`, want: ErrUnknownOperation},
		{name: "bad member type", payload: `{"op":"INSERT","new":{"id":1,"members":["a"]}}`, want: ErrMalformedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			evt, users, err := Decode(pubsub.ChannelChatUpdated, tt.payload)

			req.True(errors.Is(err, tt.want), "got %v", err)
			req.Nil(evt)
			req.Nil(users)
		})
	}
}

func TestDecode_MessageCreated(t *testing.T) {
	req := require.New(t)

	// Given a flattened message + chat payload with a duplicate member
	payload := `{"id":10,"chat_id":5,"sender_id":1,"content":"hello","files":[],` +
		`"created_at":"2024-05-01T10:00:00.123456+00:00","ws_id":1,"name":null,"type":"group","members":[1,2,2,3]}`

	// When decoding
	evt, users, err := Decode(pubsub.ChannelChatMessageCreated, payload)

	// Then the message is extracted and members deduplicated
	req.NoError(err)
	msg, ok := evt.(*domain.NewMessage)
	req.True(ok)
	req.Equal(int64(10), msg.Message.ID)
	req.Equal(int64(5), msg.Message.ChatID)
	req.Equal("hello", msg.Message.Content)
	req.Equal([]int64{1, 2, 3}, users.IDs())
}

func TestDecode_MessageCreatedErrors(t *testing.T) {
	req := require.New(t)

	_, _, err := Decode(pubsub.ChannelChatMessageCreated, `{"id":10,"chat_id":5}`)
	req.True(errors.Is(err, ErrMalformedPayload))

	_, _, err = Decode(pubsub.ChannelChatMessageCreated, `nope`)
	req.True(errors.Is(err, ErrMalformedPayload))
}

func TestDecode_UnknownChannel(t *testing.T) {
	_, _, err := Decode("user_created", `{}`)
	require.ErrorIs(t, err, ErrUnknownChannel)
}

func TestDecode_RoundTripWithPublisherPayloads(t *testing.T) {
	req := require.New(t)

	chat := &model.Chat{ID: 2, WsID: 1, Type: model.ChatTypeSingle, Members: []int64{4, 9}}
	raw, err := pubsub.EncodeChatUpdated(pubsub.OpInsert, nil, chat)
	req.NoError(err)

	evt, users, err := Decode(pubsub.ChannelChatUpdated, string(raw))
	req.NoError(err)
	req.Equal(chat.ID, evt.(*domain.NewChat).Chat.ID)
	req.Equal([]int64{4, 9}, users.IDs())

	raw, err = pubsub.EncodeMessageCreated(&model.Message{ID: 3, ChatID: 2, SenderID: 4, Content: "yo"}, chat)
	req.NoError(err)

	evt, users, err = Decode(pubsub.ChannelChatMessageCreated, string(raw))
	req.NoError(err)
	req.Equal("yo", evt.(*domain.NewMessage).Message.Content)
	req.Equal([]int64{4, 9}, users.IDs())
}
