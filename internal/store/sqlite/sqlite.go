package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/raunak51299/LocalChatApp/internal/store"
)

// Schema holds the table definitions applied on startup.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	username   TEXT NOT NULL UNIQUE,
	conn_id    TEXT NOT NULL DEFAULT '',
	is_online  BOOLEAN NOT NULL DEFAULT 0,
	is_admin   BOOLEAN NOT NULL DEFAULT 0,
	is_blocked BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS rooms (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	is_private  BOOLEAN NOT NULL DEFAULT 0,
	max_users   INTEGER NOT NULL DEFAULT 50,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	room_id    INTEGER NOT NULL,
	user_id    INTEGER NOT NULL,
	content    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (room_id) REFERENCES rooms(id),
	FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_messages_room ON messages(room_id, created_at DESC);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(Schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply an alternative schema or seed rows.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Reset drops every table. Used by the reset CLI command.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		DROP TABLE IF EXISTS messages;
		DROP TABLE IF EXISTS users;
		DROP TABLE IF EXISTS rooms;
	`)
	if err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}

// ==== UserStore implementation ====

// CreateUser creates a new user.
func (s *SQLiteStore) CreateUser(ctx context.Context, username string, isAdmin bool) (*store.User, error) {
	query := `
		INSERT INTO users (username, is_admin)
		VALUES (?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, username, isAdmin)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.FindUserByID(ctx, id)
}

// FindUserByID retrieves a user by ID.
func (s *SQLiteStore) FindUserByID(ctx context.Context, id int64) (*store.User, error) {
	return s.findUser(ctx, "id = ?", id)
}

// FindUserByUsername retrieves a user by username.
func (s *SQLiteStore) FindUserByUsername(ctx context.Context, username string) (*store.User, error) {
	return s.findUser(ctx, "username = ?", username)
}

func (s *SQLiteStore) findUser(ctx context.Context, where string, arg any) (*store.User, error) {
	query := `
		SELECT id, username, conn_id, is_online, is_admin, is_blocked, created_at
		FROM users
		WHERE ` + where
	var user store.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.ConnID,
		&user.IsOnline,
		&user.IsAdmin,
		&user.IsBlocked,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// UpdateUser applies the non-nil fields of upd to the user.
func (s *SQLiteStore) UpdateUser(ctx context.Context, id int64, upd store.UserUpdate) error {
	set := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if upd.ConnID != nil {
		set = append(set, "conn_id = ?")
		args = append(args, *upd.ConnID)
	}
	if upd.IsOnline != nil {
		set = append(set, "is_online = ?")
		args = append(args, *upd.IsOnline)
	}
	if upd.IsAdmin != nil {
		set = append(set, "is_admin = ?")
		args = append(args, *upd.IsAdmin)
	}
	if upd.IsBlocked != nil {
		set = append(set, "is_blocked = ?")
		args = append(args, *upd.IsBlocked)
	}
	if len(set) == 0 {
		return nil
	}

	query := "UPDATE users SET "
	for i, clause := range set {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	query += " WHERE id = ?"
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteAllUsers removes every user.
func (s *SQLiteStore) DeleteAllUsers(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users`)
	if err != nil {
		return 0, fmt.Errorf("delete users: %w", err)
	}
	return result.RowsAffected()
}

// ==== RoomStore implementation ====

// CreateRoom creates a new room.
func (s *SQLiteStore) CreateRoom(ctx context.Context, name, description string) (*store.Room, error) {
	query := `
		INSERT INTO rooms (name, description)
		VALUES (?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, name, description)
	if err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.FindRoomByID(ctx, id)
}

// FindRoomByID retrieves a room by ID.
func (s *SQLiteStore) FindRoomByID(ctx context.Context, id int64) (*store.Room, error) {
	query := `
		SELECT id, name, description, is_private, max_users, created_at
		FROM rooms
		WHERE id = ?
	`
	var room store.Room
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.Description,
		&room.IsPrivate,
		&room.MaxUsers,
		&room.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query room: %w", err)
	}

	return &room, nil
}

// FindRooms lists all rooms with their most recent message as preview.
func (s *SQLiteStore) FindRooms(ctx context.Context) ([]*store.RoomSummary, error) {
	query := `
		SELECT r.id, r.name, r.description, r.is_private, r.max_users, r.created_at,
		       m.id, m.user_id, u.username, m.content, m.created_at
		FROM rooms r
		LEFT JOIN messages m ON m.id = (
			SELECT id FROM messages
			WHERE room_id = r.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		)
		LEFT JOIN users u ON u.id = m.user_id
		ORDER BY r.created_at ASC, r.id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	summaries := make([]*store.RoomSummary, 0)
	for rows.Next() {
		var rs store.RoomSummary
		var msgID, msgUserID sql.NullInt64
		var msgUsername, msgContent sql.NullString
		var msgCreatedAt sql.NullTime
		err := rows.Scan(
			&rs.ID,
			&rs.Name,
			&rs.Description,
			&rs.IsPrivate,
			&rs.MaxUsers,
			&rs.CreatedAt,
			&msgID,
			&msgUserID,
			&msgUsername,
			&msgContent,
			&msgCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		if msgID.Valid {
			rs.LastMessage = &store.Message{
				ID:        msgID.Int64,
				RoomID:    rs.Room.ID,
				UserID:    msgUserID.Int64,
				Username:  msgUsername.String,
				Content:   msgContent.String,
				CreatedAt: msgCreatedAt.Time,
			}
		}
		summaries = append(summaries, &rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}

	return summaries, nil
}

// ==== MessageStore implementation ====

// CreateMessage persists a message.
func (s *SQLiteStore) CreateMessage(ctx context.Context, content string, userID, roomID int64) (*store.Message, error) {
	query := `
		INSERT INTO messages (room_id, user_id, content)
		VALUES (?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, roomID, userID, content)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	return s.findMessage(ctx, id)
}

func (s *SQLiteStore) findMessage(ctx context.Context, id int64) (*store.Message, error) {
	query := `
		SELECT m.id, m.room_id, m.user_id, u.username, m.content, m.created_at
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.id = ?
	`
	var msg store.Message
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&msg.ID,
		&msg.RoomID,
		&msg.UserID,
		&msg.Username,
		&msg.Content,
		&msg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("query message: %w", err)
	}

	return &msg, nil
}

// FindMessagesByRoom retrieves one page of a room's messages, newest page
// first, each page reversed to chronological order for display.
func (s *SQLiteStore) FindMessagesByRoom(ctx context.Context, roomID int64, page, pageSize int) ([]*store.Message, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	query := `
		SELECT m.id, m.room_id, m.user_id, u.username, m.content, m.created_at
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.room_id = ?
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := s.db.QueryContext(ctx, query, roomID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*store.Message, 0, pageSize)
	for rows.Next() {
		var msg store.Message
		err := rows.Scan(
			&msg.ID,
			&msg.RoomID,
			&msg.UserID,
			&msg.Username,
			&msg.Content,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	// Reverse to chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// DeleteMessagesByRoom removes all messages in one room.
func (s *SQLiteStore) DeleteMessagesByRoom(ctx context.Context, roomID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE room_id = ?`, roomID)
	if err != nil {
		return 0, fmt.Errorf("delete room messages: %w", err)
	}
	return result.RowsAffected()
}

// DeleteAllMessages removes every message.
func (s *SQLiteStore) DeleteAllMessages(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM messages`)
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	return result.RowsAffected()
}
