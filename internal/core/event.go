package core

import "github.com/raunak51299/LocalChatApp/internal/store"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventJoinSuccess confirms a join to the joining connection.
	EventJoinSuccess EventKind = iota
	// EventError notifies a client about a domain error.
	EventError
	// EventUserJoined notifies a room about a user joining.
	EventUserJoined
	// EventUserLeft notifies a room about a user leaving.
	EventUserLeft
	// EventOnlineUsers delivers the current online list of a room.
	EventOnlineUsers
	// EventTypingUsers delivers the usernames currently typing in a room.
	EventTypingUsers
	// EventNewMessage notifies a room about a new chat message.
	EventNewMessage
	// EventMessagesCleared notifies a room its history was cleared.
	EventMessagesCleared
	// EventAllMessagesCleared notifies every client all history was cleared.
	EventAllMessagesCleared
	// EventKicked tells a connection it was removed by an admin.
	EventKicked
)

// RoomUser is one entry of an online-users list.
type RoomUser struct {
	Username string
	UserID   int64
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind         EventKind
	UserID       int64
	Username     string
	IsAdmin      bool
	Text         string // human-readable notice for joined/left/kicked/cleared
	Users        []RoomUser
	Typing       []string
	Message      *store.Message
	DeletedCount int64
	Error        *CoreError
}
