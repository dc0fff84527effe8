// Package proto defines the websocket wire envelopes and payloads.
package proto

import "encoding/json"

// Inbound is the envelope for events coming from the client.
type Inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client -> server event names.
const (
	InboundJoin             = "join"
	InboundGetOnlineUsers   = "getOnlineUsers"
	InboundSendMessage      = "sendMessage"
	InboundTyping           = "typing"
	InboundKickUser         = "kickUser"
	InboundBlockUser        = "blockUser"
	InboundClearMessages    = "clearMessages"
	InboundClearAllMessages = "clearAllMessages"
)

// Server -> client event names.
const (
	OutboundJoinSuccess        = "joinSuccess"
	OutboundError              = "error"
	OutboundUserJoined         = "userJoined"
	OutboundUserLeft           = "userLeft"
	OutboundOnlineUsers        = "onlineUsers"
	OutboundTypingUsers        = "typingUsers"
	OutboundNewMessage         = "newMessage"
	OutboundMessagesCleared    = "messagesCleared"
	OutboundAllMessagesCleared = "allMessagesCleared"
	OutboundKicked             = "kicked"
)

// JoinData requests to join a room under a username.
type JoinData struct {
	Username string `json:"username"`
	RoomID   int64  `json:"roomId"`
	Password string `json:"password,omitempty"`
}

// RoomData carries a bare room reference (getOnlineUsers, clearMessages).
type RoomData struct {
	RoomID int64 `json:"roomId"`
}

// SendMessageData is a chat message from the client.
type SendMessageData struct {
	Content string `json:"content"`
	RoomID  int64  `json:"roomId"`
}

// TypingData toggles the typing indicator.
type TypingData struct {
	RoomID   int64 `json:"roomId"`
	IsTyping bool  `json:"isTyping"`
}

// TargetData names a user for a moderation action.
type TargetData struct {
	TargetUserID int64 `json:"targetUserId"`
	RoomID       int64 `json:"roomId"`
}

// Outbound is the envelope for events sent to the client.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// JoinSuccess confirms a join to the joining connection.
type JoinSuccess struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// UserJoined notifies a room that a user joined.
type UserJoined struct {
	Username string `json:"username"`
	UserID   int64  `json:"userId"`
	Message  string `json:"message"`
}

// UserLeft notifies a room that a user left.
type UserLeft struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// OnlineUser is one entry of an onlineUsers list.
type OnlineUser struct {
	Username string `json:"username"`
	UserID   int64  `json:"userId"`
}

// NewMessage carries a chat message to room subscribers.
type NewMessage struct {
	ID        int64       `json:"id"`
	Content   string      `json:"content"`
	User      MessageUser `json:"user"`
	CreatedAt string      `json:"createdAt"`
}

// MessageUser identifies the author of a message.
type MessageUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// AllMessagesCleared announces a global history wipe.
type AllMessagesCleared struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}
