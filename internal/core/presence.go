package core

import "sort"

// PresenceEntry binds a live connection to a user identity and room.
type PresenceEntry struct {
	UserID   int64
	Username string
	RoomID   int64
}

// TypingEntry marks a connection as composing a message in a room.
type TypingEntry struct {
	Username string
	RoomID   int64
}

// Registry is the in-memory authoritative map of live connections to
// users and rooms, plus who is typing per room. It is owned by the hub
// goroutine and must only be touched from the hub's event loop, which is
// why it carries no lock.
type Registry struct {
	presence map[string]PresenceEntry
	typing   map[string]TypingEntry
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		presence: make(map[string]PresenceEntry),
		typing:   make(map[string]TypingEntry),
	}
}

// Insert registers a presence entry for the connection, replacing any
// previous entry for the same connection.
func (r *Registry) Insert(connID string, entry PresenceEntry) {
	r.presence[connID] = entry
}

// Get returns the presence entry for a connection.
func (r *Registry) Get(connID string) (PresenceEntry, bool) {
	entry, ok := r.presence[connID]
	return entry, ok
}

// Remove deletes the connection's presence and typing entries. Removing
// an absent connection is a no-op.
func (r *Registry) Remove(connID string) (PresenceEntry, bool) {
	entry, ok := r.presence[connID]
	delete(r.presence, connID)
	delete(r.typing, connID)
	return entry, ok
}

// FindByUser scans for the connection a user is live on.
func (r *Registry) FindByUser(userID int64) (string, PresenceEntry, bool) {
	for connID, entry := range r.presence {
		if entry.UserID == userID {
			return connID, entry, true
		}
	}
	return "", PresenceEntry{}, false
}

// OnlineInRoom returns the online-users view of a room, sorted by
// username for stable delivery.
func (r *Registry) OnlineInRoom(roomID int64) []RoomUser {
	users := make([]RoomUser, 0)
	for _, entry := range r.presence {
		if entry.RoomID == roomID {
			users = append(users, RoomUser{Username: entry.Username, UserID: entry.UserID})
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

// SetTyping records or clears the typing entry for a connection.
func (r *Registry) SetTyping(connID string, isTyping bool) {
	entry, ok := r.presence[connID]
	if !ok {
		return
	}
	if isTyping {
		r.typing[connID] = TypingEntry{Username: entry.Username, RoomID: entry.RoomID}
	} else {
		delete(r.typing, connID)
	}
}

// TypingInRoom returns the usernames currently typing in a room, sorted
// for stable delivery.
func (r *Registry) TypingInRoom(roomID int64) []string {
	names := make([]string, 0)
	for _, entry := range r.typing {
		if entry.RoomID == roomID {
			names = append(names, entry.Username)
		}
	}
	sort.Strings(names)
	return names
}
