package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
)

func createRoomRequest(t *testing.T, url, name, description string) *http.Response {
	t.Helper()

	body, _ := json.Marshal(CreateRoomRequest{Name: name, Description: description})
	resp, err := http.Post(url+"/api/rooms", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("create room request failed: %v", err)
	}
	return resp
}

func TestCreateRoom(t *testing.T) {
	ts, _ := startTestServer(t)

	resp := createRoomRequest(t, ts.URL, "General", "General discussion")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var room RoomResponse
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if room.Name != "General" || room.Description != "General discussion" || room.ID == 0 {
		t.Fatalf("unexpected room: %+v", room)
	}
}

func TestCreateRoomDuplicateName(t *testing.T) {
	ts, _ := startTestServer(t)

	resp := createRoomRequest(t, ts.URL, "General", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	resp = createRoomRequest(t, ts.URL, "General", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestCreateRoomRejectsMarkupOnlyName(t *testing.T) {
	ts, _ := startTestServer(t)

	resp := createRoomRequest(t, ts.URL, "<img src=x>", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListRoomsWithPreview(t *testing.T) {
	ts, testStore := startTestServer(t)

	resp := createRoomRequest(t, ts.URL, "General", "")
	resp.Body.Close()

	ctx := context.Background()
	rooms, err := testStore.FindRooms(ctx)
	if err != nil || len(rooms) != 1 {
		t.Fatalf("seed room missing: %v", err)
	}
	user, err := testStore.CreateUser(ctx, "alice", false)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := testStore.CreateMessage(ctx, "latest", user.ID, rooms[0].ID); err != nil {
		t.Fatalf("create message: %v", err)
	}

	listResp, err := http.Get(ts.URL + "/api/rooms")
	if err != nil {
		t.Fatalf("list rooms failed: %v", err)
	}
	defer listResp.Body.Close()

	var listed []RoomResponse
	if err := json.NewDecoder(listResp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 room, got %d", len(listed))
	}
	if listed[0].LastMessage == nil || listed[0].LastMessage.Content != "latest" {
		t.Fatalf("unexpected preview: %+v", listed[0].LastMessage)
	}
}

func TestListMessagesPaginated(t *testing.T) {
	ts, testStore := startTestServer(t)

	ctx := context.Background()
	room, err := testStore.CreateRoom(ctx, "General", "")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	user, err := testStore.CreateUser(ctx, "alice", false)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if _, err := testStore.CreateMessage(ctx, fmt.Sprintf("msg-%d", i), user.ID, room.ID); err != nil {
			t.Fatalf("create message: %v", err)
		}
	}

	resp, err := http.Get(fmt.Sprintf("%s/api/rooms/%d/messages?page=1&limit=2", ts.URL, room.ID))
	if err != nil {
		t.Fatalf("list messages failed: %v", err)
	}
	defer resp.Body.Close()

	var messages []MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(messages) != 2 || messages[0].Content != "msg-2" || messages[1].Content != "msg-3" {
		t.Fatalf("unexpected page: %+v", messages)
	}
	if messages[0].Username != "alice" {
		t.Fatalf("expected author alice, got %q", messages[0].Username)
	}
}

func TestListMessagesConfiguredPageSize(t *testing.T) {
	ts, testStore := startTestServerWithPageSize(t, 2)

	ctx := context.Background()
	room, err := testStore.CreateRoom(ctx, "General", "")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	user, err := testStore.CreateUser(ctx, "alice", false)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if _, err := testStore.CreateMessage(ctx, fmt.Sprintf("msg-%d", i), user.ID, room.ID); err != nil {
			t.Fatalf("create message: %v", err)
		}
	}

	// No limit parameter: the configured page size applies.
	resp, err := http.Get(fmt.Sprintf("%s/api/rooms/%d/messages", ts.URL, room.ID))
	if err != nil {
		t.Fatalf("list messages failed: %v", err)
	}
	defer resp.Body.Close()

	var messages []MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(messages) != 2 || messages[0].Content != "msg-2" || messages[1].Content != "msg-3" {
		t.Fatalf("unexpected page: %+v", messages)
	}
}

func TestListMessagesBadRoomID(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, err := http.Get(ts.URL + "/api/rooms/abc/messages")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestQREndpoint(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, err := http.Get(ts.URL + "/api/qr")
	if err != nil {
		t.Fatalf("qr request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var qr QRResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if qr.URL == "" || len(qr.QRCode) < len("data:image/png;base64,") {
		t.Fatalf("unexpected qr response: %+v", qr)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}
