package core

// Room groups clients subscribed to the same broadcast channel.
type Room struct {
	ID      int64
	clients map[*Client]struct{}
}

// NewRoom constructs a room with no clients.
func NewRoom(id int64) *Room {
	return &Room{
		ID:      id,
		clients: make(map[*Client]struct{}),
	}
}

// AddClient inserts a client into the room. Returns true if newly added.
func (r *Room) AddClient(c *Client) bool {
	if _, exists := r.clients[c]; exists {
		return false
	}
	r.clients[c] = struct{}{}
	return true
}

// RemoveClient deletes a client from the room. Returns true if removed.
func (r *Room) RemoveClient(c *Client) bool {
	if _, exists := r.clients[c]; !exists {
		return false
	}
	delete(r.clients, c)
	return true
}

// Empty returns true if no clients are in the room.
func (r *Room) Empty() bool {
	return len(r.clients) == 0
}

// targetKind enumerates the fan-out addressing modes.
type targetKind int

const (
	targetUnicast targetKind = iota
	targetRoom
	targetBroadcast
)

// Target describes which connections an event is delivered to.
type Target struct {
	kind    targetKind
	client  *Client
	roomID  int64
	exclude *Client
}

// ToClient addresses a single connection.
func ToClient(c *Client) Target {
	return Target{kind: targetUnicast, client: c}
}

// ToRoom addresses every subscriber of a room; exclude may be nil.
func ToRoom(roomID int64, exclude *Client) Target {
	return Target{kind: targetRoom, roomID: roomID, exclude: exclude}
}

// ToAll addresses every connected client regardless of room.
func ToAll() Target {
	return Target{kind: targetBroadcast}
}
