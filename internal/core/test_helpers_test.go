package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/raunak51299/LocalChatApp/internal/store"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func assertNoEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event: %+v", ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// memStore is an in-memory store.Store for hub tests. It counts store
// calls so tests can assert that silent paths stay out of persistence.
type memStore struct {
	mu       sync.Mutex
	users    map[int64]*store.User
	rooms    map[int64]*store.Room
	messages []*store.Message
	nextUser int64
	nextRoom int64
	nextMsg  int64
	calls    int
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[int64]*store.User),
		rooms: make(map[int64]*store.Room),
	}
}

func (m *memStore) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *memStore) CreateUser(_ context.Context, username string, isAdmin bool) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.nextUser++
	u := &store.User{ID: m.nextUser, Username: username, IsAdmin: isAdmin, CreatedAt: time.Now()}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memStore) FindUserByID(_ context.Context, id int64) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) FindUserByUsername(_ context.Context, username string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) UpdateUser(_ context.Context, id int64, upd store.UserUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	if upd.ConnID != nil {
		u.ConnID = *upd.ConnID
	}
	if upd.IsOnline != nil {
		u.IsOnline = *upd.IsOnline
	}
	if upd.IsAdmin != nil {
		u.IsAdmin = *upd.IsAdmin
	}
	if upd.IsBlocked != nil {
		u.IsBlocked = *upd.IsBlocked
	}
	return nil
}

func (m *memStore) DeleteAllUsers(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	count := int64(len(m.users))
	m.users = make(map[int64]*store.User)
	return count, nil
}

func (m *memStore) CreateRoom(_ context.Context, name, description string) (*store.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.nextRoom++
	r := &store.Room{ID: m.nextRoom, Name: name, Description: description, CreatedAt: time.Now()}
	m.rooms[r.ID] = r
	cp := *r
	return &cp, nil
}

func (m *memStore) FindRoomByID(_ context.Context, id int64) (*store.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	r, ok := m.rooms[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) FindRooms(_ context.Context) ([]*store.RoomSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := make([]*store.RoomSummary, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, &store.RoomSummary{Room: *r})
	}
	return out, nil
}

func (m *memStore) CreateMessage(_ context.Context, content string, userID, roomID int64) (*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.nextMsg++
	username := ""
	if u, ok := m.users[userID]; ok {
		username = u.Username
	}
	msg := &store.Message{
		ID:        m.nextMsg,
		RoomID:    roomID,
		UserID:    userID,
		Username:  username,
		Content:   content,
		CreatedAt: time.Now(),
	}
	m.messages = append(m.messages, msg)
	cp := *msg
	return &cp, nil
}

func (m *memStore) FindMessagesByRoom(_ context.Context, roomID int64, page, pageSize int) ([]*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := make([]*store.Message, 0)
	for _, msg := range m.messages {
		if msg.RoomID == roomID {
			cp := *msg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) DeleteMessagesByRoom(_ context.Context, roomID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	kept := m.messages[:0]
	var count int64
	for _, msg := range m.messages {
		if msg.RoomID == roomID {
			count++
			continue
		}
		kept = append(kept, msg)
	}
	m.messages = kept
	return count, nil
}

func (m *memStore) DeleteAllMessages(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	count := int64(len(m.messages))
	m.messages = nil
	return count, nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) messageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

func (m *memStore) user(id int64) *store.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (m *memStore) userByName(username string) *store.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp
		}
	}
	return nil
}

const testAdminPassword = "sekret"

// startHub runs a hub against a fresh memStore for the duration of the test.
func startHub(t *testing.T) (*Hub, *memStore) {
	return startHubWithSecret(t, testAdminPassword)
}

func startHubWithSecret(t *testing.T, adminPassword string) (*Hub, *memStore) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	st := newMemStore()
	logger := zerolog.Nop()
	hub := NewHub(st, adminPassword, &logger)
	go hub.Run(ctx)
	return hub, st
}

// join registers a client and completes the join handshake.
func join(t *testing.T, hub *Hub, connID, username string, roomID int64) *Client {
	t.Helper()

	c := NewClient(connID)
	hub.RegisterClient(c)
	c.Commands <- &Command{Kind: CommandJoin, Username: username, RoomID: roomID, Password: passwordFor(username)}
	ev := mustEvent(t, c.Events, EventJoinSuccess)
	if ev.Username != username {
		t.Fatalf("joined as %q, expected %q", ev.Username, username)
	}
	return c
}

func passwordFor(username string) string {
	if username == "admin" {
		return testAdminPassword
	}
	return ""
}
