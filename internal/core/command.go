package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin registers the connection in a room under a username.
	CommandJoin CommandKind = iota
	// CommandGetOnlineUsers asks for the current online list of a room.
	CommandGetOnlineUsers
	// CommandSendMessage delivers a chat message to room participants.
	CommandSendMessage
	// CommandTyping toggles the typing indicator for the connection.
	CommandTyping
	// CommandKickUser evicts a user from a room (admin only).
	CommandKickUser
	// CommandBlockUser blocks a user and evicts them (admin only).
	CommandBlockUser
	// CommandClearMessages deletes one room's history (admin only).
	CommandClearMessages
	// CommandClearAllMessages deletes all history (admin only).
	CommandClearAllMessages
	// CommandDisconnect cleans up after a dropped connection.
	CommandDisconnect
)

// Command represents an action requested by a client.
type Command struct {
	Kind         CommandKind
	Username     string
	Password     string
	RoomID       int64
	Content      string
	IsTyping     bool
	TargetUserID int64
}
