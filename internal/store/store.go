package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups when no record matches.
var ErrNotFound = errors.New("not found")

// User represents a chat participant.
type User struct {
	ID        int64
	Username  string
	ConnID    string // last known websocket connection id, empty when offline
	IsOnline  bool
	IsAdmin   bool
	IsBlocked bool
	CreatedAt time.Time
}

// Room represents a chat room.
type Room struct {
	ID          int64
	Name        string
	Description string
	IsPrivate   bool
	MaxUsers    int
	CreatedAt   time.Time
}

// RoomSummary is a room together with its most recent message, if any.
type RoomSummary struct {
	Room
	LastMessage *Message
}

// Message represents a persisted chat message.
// Username is denormalized from the authoring user for delivery.
type Message struct {
	ID        int64
	RoomID    int64
	UserID    int64
	Username  string
	Content   string
	CreatedAt time.Time
}

// UserUpdate carries the mutable user fields. Nil fields are left untouched.
type UserUpdate struct {
	ConnID    *string
	IsOnline  *bool
	IsAdmin   *bool
	IsBlocked *bool
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user. Usernames are unique.
	CreateUser(ctx context.Context, username string, isAdmin bool) (*User, error)

	// FindUserByID retrieves a user by ID, ErrNotFound when absent.
	FindUserByID(ctx context.Context, id int64) (*User, error)

	// FindUserByUsername retrieves a user by username, ErrNotFound when absent.
	FindUserByUsername(ctx context.Context, username string) (*User, error)

	// UpdateUser applies the non-nil fields of upd to the user.
	UpdateUser(ctx context.Context, id int64, upd UserUpdate) error

	// DeleteAllUsers removes every user and returns the count deleted.
	DeleteAllUsers(ctx context.Context) (int64, error)
}

// RoomStore handles room persistence. Rooms are never deleted.
type RoomStore interface {
	// CreateRoom creates a new room. Room names are unique.
	CreateRoom(ctx context.Context, name, description string) (*Room, error)

	// FindRoomByID retrieves a room by ID, ErrNotFound when absent.
	FindRoomByID(ctx context.Context, id int64) (*Room, error)

	// FindRooms lists all rooms with their most recent message as preview.
	FindRooms(ctx context.Context) ([]*RoomSummary, error)
}

// MessageStore handles message persistence.
type MessageStore interface {
	// CreateMessage persists a message and returns it with ID, username
	// and creation time filled in.
	CreateMessage(ctx context.Context, content string, userID, roomID int64) (*Message, error)

	// FindMessagesByRoom retrieves one page of a room's messages. Pages
	// are 1-based and walk backwards from the newest message; each page
	// is returned in chronological order for display.
	FindMessagesByRoom(ctx context.Context, roomID int64, page, pageSize int) ([]*Message, error)

	// DeleteMessagesByRoom removes all messages in one room and returns
	// the count deleted.
	DeleteMessagesByRoom(ctx context.Context, roomID int64) (int64, error)

	// DeleteAllMessages removes every message and returns the count deleted.
	DeleteAllMessages(ctx context.Context) (int64, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	RoomStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
