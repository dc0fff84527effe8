package http

import (
	"encoding/json"
	"time"

	"github.com/raunak51299/LocalChatApp/internal/core"
	"github.com/raunak51299/LocalChatApp/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, error) {
	switch inbound.Event {
	case proto.InboundJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind:     core.CommandJoin,
			Username: join.Username,
			RoomID:   join.RoomID,
			Password: join.Password,
		}, nil
	case proto.InboundGetOnlineUsers:
		var room proto.RoomData
		if err := json.Unmarshal(inbound.Data, &room); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind:   core.CommandGetOnlineUsers,
			RoomID: room.RoomID,
		}, nil
	case proto.InboundSendMessage:
		var msg proto.SendMessageData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind:    core.CommandSendMessage,
			Content: msg.Content,
			RoomID:  msg.RoomID,
		}, nil
	case proto.InboundTyping:
		var typing proto.TypingData
		if err := json.Unmarshal(inbound.Data, &typing); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind:     core.CommandTyping,
			RoomID:   typing.RoomID,
			IsTyping: typing.IsTyping,
		}, nil
	case proto.InboundKickUser:
		var target proto.TargetData
		if err := json.Unmarshal(inbound.Data, &target); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind:         core.CommandKickUser,
			TargetUserID: target.TargetUserID,
			RoomID:       target.RoomID,
		}, nil
	case proto.InboundBlockUser:
		var target proto.TargetData
		if err := json.Unmarshal(inbound.Data, &target); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind:         core.CommandBlockUser,
			TargetUserID: target.TargetUserID,
			RoomID:       target.RoomID,
		}, nil
	case proto.InboundClearMessages:
		var room proto.RoomData
		if err := json.Unmarshal(inbound.Data, &room); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind:   core.CommandClearMessages,
			RoomID: room.RoomID,
		}, nil
	case proto.InboundClearAllMessages:
		return &core.Command{Kind: core.CommandClearAllMessages}, nil
	default:
		// Unknown events are ignored rather than closing the connection.
		return nil, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventJoinSuccess:
		return proto.Outbound{
			Event: proto.OutboundJoinSuccess,
			Data: proto.JoinSuccess{
				UserID:   event.UserID,
				Username: event.Username,
				IsAdmin:  event.IsAdmin,
			},
		}
	case core.EventUserJoined:
		return proto.Outbound{
			Event: proto.OutboundUserJoined,
			Data: proto.UserJoined{
				Username: event.Username,
				UserID:   event.UserID,
				Message:  event.Text,
			},
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Event: proto.OutboundUserLeft,
			Data: proto.UserLeft{
				Username: event.Username,
				Message:  event.Text,
			},
		}
	case core.EventOnlineUsers:
		users := make([]proto.OnlineUser, 0, len(event.Users))
		for _, u := range event.Users {
			users = append(users, proto.OnlineUser{Username: u.Username, UserID: u.UserID})
		}
		return proto.Outbound{Event: proto.OutboundOnlineUsers, Data: users}
	case core.EventTypingUsers:
		typing := event.Typing
		if typing == nil {
			typing = []string{}
		}
		return proto.Outbound{Event: proto.OutboundTypingUsers, Data: typing}
	case core.EventNewMessage:
		return proto.Outbound{
			Event: proto.OutboundNewMessage,
			Data: proto.NewMessage{
				ID:      event.Message.ID,
				Content: event.Message.Content,
				User: proto.MessageUser{
					ID:       event.Message.UserID,
					Username: event.Message.Username,
				},
				CreatedAt: event.Message.CreatedAt.Format(time.RFC3339),
			},
		}
	case core.EventMessagesCleared:
		return proto.Outbound{Event: proto.OutboundMessagesCleared}
	case core.EventAllMessagesCleared:
		return proto.Outbound{
			Event: proto.OutboundAllMessagesCleared,
			Data: proto.AllMessagesCleared{
				Message:      event.Text,
				DeletedCount: event.DeletedCount,
			},
		}
	case core.EventKicked:
		return proto.Outbound{Event: proto.OutboundKicked, Data: event.Text}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Event: proto.OutboundError, Data: "unknown error"}
		}
		return proto.Outbound{Event: proto.OutboundError, Data: event.Error.Message}
	default:
		return proto.Outbound{Event: proto.OutboundError, Data: "unknown event"}
	}
}
