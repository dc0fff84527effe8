package core

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/raunak51299/LocalChatApp/internal/sanitize"
	"github.com/raunak51299/LocalChatApp/internal/store"
)

const (
	minUsernameLen = 2
	maxUsernameLen = 20
	maxMessageLen  = 2000
)

type envelope struct {
	client *Client
	cmd    *Command
}

// Hub runs the room session protocol. All presence and typing state is
// mutated on a single event loop, so no two handlers touch the registry
// concurrently. Persistence calls are the only long-latency steps; after
// each one the handler re-checks registry state before mutating it.
type Hub struct {
	store         store.Store
	adminPassword string
	log           *zerolog.Logger

	registerCh chan *Client
	inbox      chan envelope

	// Loop-owned state, only touched from Run.
	clients  map[string]*Client
	rooms    map[int64]*Room
	registry *Registry
}

// NewHub creates a hub backed by the given store. adminPassword gates the
// reserved "admin" username.
func NewHub(st store.Store, adminPassword string, logger *zerolog.Logger) *Hub {
	return &Hub{
		store:         st,
		adminPassword: adminPassword,
		log:           logger,
		registerCh:    make(chan *Client),
		inbox:         make(chan envelope, 64),
		clients:       make(map[string]*Client),
		rooms:         make(map[int64]*Room),
		registry:      NewRegistry(),
	}
}

// RegisterClient makes the hub aware of a new connection and starts
// pumping its commands into the event loop.
func (h *Hub) RegisterClient(c *Client) {
	h.registerCh <- c
}

// UnregisterClient signals that the connection dropped. The hub drains
// any commands still queued, then runs disconnect cleanup.
func (h *Hub) UnregisterClient(c *Client) {
	close(c.Commands)
}

// Run processes registrations and commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.registerCh:
			h.clients[c.ID] = c
			go h.pump(ctx, c)
		case env := <-h.inbox:
			h.handle(ctx, env.client, env.cmd)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				h.submit(ctx, c, &Command{Kind: CommandDisconnect})
				return
			}
			h.submit(ctx, c, cmd)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) submit(ctx context.Context, c *Client, cmd *Command) {
	select {
	case h.inbox <- envelope{client: c, cmd: cmd}:
	case <-ctx.Done():
	}
}

func (h *Hub) handle(ctx context.Context, c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(ctx, c, cmd)
	case CommandGetOnlineUsers:
		h.handleGetOnlineUsers(c, cmd)
	case CommandSendMessage:
		h.handleSendMessage(ctx, c, cmd)
	case CommandTyping:
		h.handleTyping(c, cmd)
	case CommandKickUser:
		h.handleKickUser(ctx, c, cmd)
	case CommandBlockUser:
		h.handleBlockUser(ctx, c, cmd)
	case CommandClearMessages:
		h.handleClearMessages(ctx, c, cmd)
	case CommandClearAllMessages:
		h.handleClearAllMessages(ctx, c)
	case CommandDisconnect:
		h.handleDisconnect(ctx, c)
	}
}

// handleJoin takes a connection from unjoined to joined. The presence
// entry and room subscription are installed together, after every
// persistence call has succeeded, so a failure leaves no partial state.
func (h *Hub) handleJoin(ctx context.Context, c *Client, cmd *Command) {
	username := sanitize.Strict(cmd.Username)
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		h.fail(c, ErrCodeValidation, "Invalid username.")
		return
	}

	user, err := h.store.FindUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.log.Error().Err(err).Str("username", username).Msg("join: user lookup failed")
		h.fail(c, ErrCodeOperationFailed, "Failed to join room")
		return
	}

	if user != nil && user.IsBlocked {
		h.fail(c, ErrCodeBlocked, "You have been blocked from the chat.")
		return
	}

	// The reserved "admin" name is gated by the configured secret and
	// always carries admin rights. An empty secret disables the name.
	if strings.EqualFold(username, "admin") {
		if h.adminPassword == "" || cmd.Password != h.adminPassword {
			h.fail(c, ErrCodeInvalidPassword, "Invalid admin password")
			return
		}
		if user == nil {
			user, err = h.store.CreateUser(ctx, username, true)
			if err != nil {
				h.log.Error().Err(err).Msg("join: create admin failed")
				h.fail(c, ErrCodeOperationFailed, "Failed to join room")
				return
			}
		} else if !user.IsAdmin {
			isAdmin := true
			if err := h.store.UpdateUser(ctx, user.ID, store.UserUpdate{IsAdmin: &isAdmin}); err != nil {
				h.log.Error().Err(err).Msg("join: grant admin failed")
				h.fail(c, ErrCodeOperationFailed, "Failed to join room")
				return
			}
			user.IsAdmin = true
		}
	}

	if user == nil {
		user, err = h.store.CreateUser(ctx, username, false)
		if err != nil {
			h.log.Error().Err(err).Str("username", username).Msg("join: create user failed")
			h.fail(c, ErrCodeOperationFailed, "Failed to join room")
			return
		}
	}

	connID := c.ID
	online := true
	if err := h.store.UpdateUser(ctx, user.ID, store.UserUpdate{ConnID: &connID, IsOnline: &online}); err != nil {
		h.log.Error().Err(err).Int64("user_id", user.ID).Msg("join: mark online failed")
		h.fail(c, ErrCodeOperationFailed, "Failed to join room")
		return
	}

	// The store calls above may have suspended this handler; the
	// connection could have disconnected in the meantime.
	if _, ok := h.clients[c.ID]; !ok {
		return
	}

	// Re-join on the same connection replaces the previous entry.
	if prev, ok := h.registry.Get(c.ID); ok && prev.RoomID != cmd.RoomID {
		h.unsubscribe(c, prev.RoomID)
	}
	h.registry.Insert(c.ID, PresenceEntry{UserID: user.ID, Username: username, RoomID: cmd.RoomID})
	h.subscribe(c, cmd.RoomID)

	h.emit(ToRoom(cmd.RoomID, c), &Event{
		Kind:     EventUserJoined,
		Username: username,
		UserID:   user.ID,
		Text:     username + " joined the chat",
	})
	h.emit(ToRoom(cmd.RoomID, nil), &Event{
		Kind:  EventOnlineUsers,
		Users: h.registry.OnlineInRoom(cmd.RoomID),
	})
	h.emit(ToClient(c), &Event{
		Kind:     EventJoinSuccess,
		UserID:   user.ID,
		Username: username,
		IsAdmin:  user.IsAdmin,
	})

	h.log.Info().Str("conn_id", c.ID).Str("username", username).Int64("room_id", cmd.RoomID).Msg("user joined")
}

func (h *Hub) handleGetOnlineUsers(c *Client, cmd *Command) {
	if cmd.RoomID == 0 {
		return
	}
	h.emit(ToClient(c), &Event{
		Kind:  EventOnlineUsers,
		Users: h.registry.OnlineInRoom(cmd.RoomID),
	})
}

func (h *Hub) handleSendMessage(ctx context.Context, c *Client, cmd *Command) {
	content := sanitize.Rich(cmd.Content)
	if content == "" {
		// Whitespace or disallowed markup only: drop silently.
		return
	}

	entry, ok := h.registry.Get(c.ID)
	if !ok {
		return
	}
	if utf8.RuneCountInString(content) > maxMessageLen {
		h.fail(c, ErrCodeValidation, "Message is too long.")
		return
	}
	if cmd.RoomID != entry.RoomID {
		h.fail(c, ErrCodeValidation, "Failed to send message")
		return
	}

	msg, err := h.store.CreateMessage(ctx, content, entry.UserID, entry.RoomID)
	if err != nil {
		h.log.Error().Err(err).Int64("room_id", entry.RoomID).Msg("send: persist message failed")
		h.fail(c, ErrCodeOperationFailed, "Failed to send message")
		return
	}

	// Re-check after the store round-trip; the sender may be gone.
	if _, ok := h.registry.Get(c.ID); !ok {
		return
	}

	h.emit(ToRoom(entry.RoomID, nil), &Event{Kind: EventNewMessage, Message: msg})
}

func (h *Hub) handleTyping(c *Client, cmd *Command) {
	entry, ok := h.registry.Get(c.ID)
	if !ok {
		return
	}
	h.registry.SetTyping(c.ID, cmd.IsTyping)
	h.emit(ToRoom(entry.RoomID, c), &Event{
		Kind:   EventTypingUsers,
		Typing: h.registry.TypingInRoom(entry.RoomID),
	})
}

func (h *Hub) handleDisconnect(ctx context.Context, c *Client) {
	entry, joined := h.registry.Remove(c.ID)
	if joined {
		offline := false
		connID := ""
		if err := h.store.UpdateUser(ctx, entry.UserID, store.UserUpdate{IsOnline: &offline, ConnID: &connID}); err != nil {
			// Cleanup continues: the connection is gone either way.
			h.log.Warn().Err(err).Int64("user_id", entry.UserID).Msg("disconnect: mark offline failed")
		}
		h.unsubscribe(c, entry.RoomID)
		h.emit(ToRoom(entry.RoomID, nil), &Event{
			Kind:     EventUserLeft,
			Username: entry.Username,
			Text:     entry.Username + " left the chat",
		})
		h.emit(ToRoom(entry.RoomID, nil), &Event{
			Kind:  EventOnlineUsers,
			Users: h.registry.OnlineInRoom(entry.RoomID),
		})
	}

	delete(h.clients, c.ID)
	close(c.Events)
	h.log.Debug().Str("conn_id", c.ID).Bool("was_joined", joined).Msg("connection closed")
}

// requireAdmin re-resolves the caller's admin flag from the store so a
// revoked admin loses moderation rights immediately. Callers that are
// not joined at all are ignored silently.
func (h *Hub) requireAdmin(ctx context.Context, c *Client, failMsg string) bool {
	entry, ok := h.registry.Get(c.ID)
	if !ok {
		return false
	}
	caller, err := h.store.FindUserByID(ctx, entry.UserID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", entry.UserID).Msg("moderation: caller lookup failed")
		h.fail(c, ErrCodeOperationFailed, failMsg)
		return false
	}
	if !caller.IsAdmin {
		h.fail(c, ErrCodeUnauthorized, "Unauthorized")
		return false
	}
	return true
}

// evict removes a live target from its room and notifies everyone.
// No-op when the target has no presence entry.
func (h *Hub) evict(targetUserID, roomID int64, kickedNotice, leftNotice string) {
	connID, target, ok := h.registry.FindByUser(targetUserID)
	if !ok {
		return
	}

	if targetClient, live := h.clients[connID]; live {
		h.emit(ToClient(targetClient), &Event{Kind: EventKicked, Text: kickedNotice})
		h.unsubscribe(targetClient, roomID)
	}
	h.registry.Remove(connID)

	h.emit(ToRoom(roomID, nil), &Event{
		Kind:     EventUserLeft,
		Username: target.Username,
		Text:     target.Username + " " + leftNotice,
	})
	h.emit(ToRoom(roomID, nil), &Event{
		Kind:  EventOnlineUsers,
		Users: h.registry.OnlineInRoom(roomID),
	})
}

func (h *Hub) handleKickUser(ctx context.Context, c *Client, cmd *Command) {
	if !h.requireAdmin(ctx, c, "Failed to kick user") {
		return
	}
	h.evict(cmd.TargetUserID, cmd.RoomID, "You have been kicked from the room", "was kicked from the chat")
	h.log.Info().Int64("target_user_id", cmd.TargetUserID).Int64("room_id", cmd.RoomID).Msg("user kicked")
}

func (h *Hub) handleBlockUser(ctx context.Context, c *Client, cmd *Command) {
	if !h.requireAdmin(ctx, c, "Failed to block user") {
		return
	}

	// Persist the block before the live eviction so a target that
	// reconnects mid-operation already sees the blocked flag.
	blocked := true
	if err := h.store.UpdateUser(ctx, cmd.TargetUserID, store.UserUpdate{IsBlocked: &blocked}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return
		}
		h.log.Error().Err(err).Int64("target_user_id", cmd.TargetUserID).Msg("block: persist failed")
		h.fail(c, ErrCodeOperationFailed, "Failed to block user")
		return
	}

	h.evict(cmd.TargetUserID, cmd.RoomID, "You have been blocked and kicked from the room.", "was blocked from the chat.")
	h.log.Info().Int64("target_user_id", cmd.TargetUserID).Int64("room_id", cmd.RoomID).Msg("user blocked")
}

func (h *Hub) handleClearMessages(ctx context.Context, c *Client, cmd *Command) {
	if !h.requireAdmin(ctx, c, "Failed to clear messages") {
		return
	}

	count, err := h.store.DeleteMessagesByRoom(ctx, cmd.RoomID)
	if err != nil {
		h.log.Error().Err(err).Int64("room_id", cmd.RoomID).Msg("clear: delete failed")
		h.fail(c, ErrCodeOperationFailed, "Failed to clear messages")
		return
	}

	h.emit(ToRoom(cmd.RoomID, nil), &Event{Kind: EventMessagesCleared})
	h.log.Info().Int64("room_id", cmd.RoomID).Int64("deleted", count).Msg("room messages cleared")
}

func (h *Hub) handleClearAllMessages(ctx context.Context, c *Client) {
	if !h.requireAdmin(ctx, c, "Failed to clear all messages") {
		return
	}

	count, err := h.store.DeleteAllMessages(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("clear all: delete failed")
		h.fail(c, ErrCodeOperationFailed, "Failed to clear all messages")
		return
	}

	h.emit(ToAll(), &Event{
		Kind:         EventAllMessagesCleared,
		Text:         "All chat history has been cleared by an administrator",
		DeletedCount: count,
	})
	h.log.Info().Int64("deleted", count).Msg("all messages cleared")
}

func (h *Hub) subscribe(c *Client, roomID int64) {
	room, ok := h.rooms[roomID]
	if !ok {
		room = NewRoom(roomID)
		h.rooms[roomID] = room
	}
	room.AddClient(c)
}

func (h *Hub) unsubscribe(c *Client, roomID int64) {
	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	room.RemoveClient(c)
	if room.Empty() {
		delete(h.rooms, roomID)
	}
}

func (h *Hub) emit(t Target, ev *Event) {
	switch t.kind {
	case targetUnicast:
		t.client.send(ev)
	case targetRoom:
		room, ok := h.rooms[t.roomID]
		if !ok {
			return
		}
		for client := range room.clients {
			if client != t.exclude {
				client.send(ev)
			}
		}
	case targetBroadcast:
		for _, client := range h.clients {
			client.send(ev)
		}
	}
}

func (h *Hub) fail(c *Client, code, msg string) {
	h.emit(ToClient(c), &Event{Kind: EventError, Error: coreError(code, msg)})
}
