package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/raunak51299/LocalChatApp/internal/sanitize"
	"github.com/raunak51299/LocalChatApp/internal/store"
)

const (
	defaultMessagePageSize = 50
	maxMessagePageSize     = 200
)

// RoomHandlers provides HTTP handlers for room and history endpoints.
type RoomHandlers struct {
	store    store.Store
	pageSize int
	log      *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance. pageSize is the
// history page size used when the request carries no limit parameter.
func NewRoomHandlers(st store.Store, pageSize int, logger *zerolog.Logger) *RoomHandlers {
	if pageSize < 1 {
		pageSize = defaultMessagePageSize
	}
	return &RoomHandlers{
		store:    st,
		pageSize: pageSize,
		log:      logger,
	}
}

// CreateRoomRequest represents the create room request body.
type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=200"`
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CreatedAt   string           `json:"createdAt"`
	LastMessage *MessageResponse `json:"lastMessage,omitempty"`
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	Username  string `json:"username"`
	UserID    int64  `json:"userId"`
	CreatedAt string `json:"createdAt"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateRoom handles room creation.
// POST /api/rooms
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create room request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	name := sanitize.Strict(req.Name)
	description := sanitize.Strict(req.Description)
	if len(name) < 2 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Room name cannot be empty or just HTML tags."})
		return
	}

	room, err := h.store.CreateRoom(c.Request.Context(), name, description)
	if err != nil {
		// SQLite reports duplicate names as a UNIQUE constraint failure.
		if strings.Contains(err.Error(), "UNIQUE") {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "room with this name already exists"})
			return
		}
		h.log.Error().Err(err).Str("room_name", name).Msg("failed to create room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create room"})
		return
	}

	h.log.Info().Str("room_name", room.Name).Int64("room_id", room.ID).Msg("room created")
	c.JSON(http.StatusCreated, roomResponse(&store.RoomSummary{Room: *room}))
}

// ListRooms handles listing all rooms with their latest message preview.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms, err := h.store.FindRooms(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list rooms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch rooms"})
		return
	}

	response := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		response = append(response, roomResponse(room))
	}

	c.JSON(http.StatusOK, response)
}

// ListMessages handles paginated message history for a room.
// GET /api/rooms/:roomId/messages?page=1&limit=50
func (h *RoomHandlers) ListMessages(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("roomId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", h.pageSize)
	if limit > maxMessagePageSize {
		limit = maxMessagePageSize
	}

	messages, err := h.store.FindMessagesByRoom(c.Request.Context(), roomID, page, limit)
	if err != nil {
		h.log.Error().Err(err).Int64("room_id", roomID).Msg("failed to fetch messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch messages"})
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, messageResponse(msg))
	}

	c.JSON(http.StatusOK, response)
}

func roomResponse(rs *store.RoomSummary) RoomResponse {
	resp := RoomResponse{
		ID:          rs.ID,
		Name:        rs.Name,
		Description: rs.Description,
		CreatedAt:   rs.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if rs.LastMessage != nil {
		preview := messageResponse(rs.LastMessage)
		resp.LastMessage = &preview
	}
	return resp
}

func messageResponse(msg *store.Message) MessageResponse {
	return MessageResponse{
		ID:        msg.ID,
		Content:   msg.Content,
		Username:  msg.Username,
		UserID:    msg.UserID,
		CreatedAt: msg.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
