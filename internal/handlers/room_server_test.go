// internal/handlers/room_server_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	HealthHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListRoomsHandler(t *testing.T) {
	srv := NewRoomServer()
	srv.Store.GetOrCreate("ZED")
	srv.Store.GetOrCreate("ACE")

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	rec := httptest.NewRecorder()
	ListRoomsHandler(srv)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Rooms []struct {
			Code   string `json:"code"`
			Status string `json:"status"`
			Seats  int    `json:"seats"`
		} `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rooms, 2)
	assert.Equal(t, "ACE", body.Rooms[0].Code)
	assert.Equal(t, "WAITING", body.Rooms[0].Status)
	assert.Equal(t, 0, body.Rooms[0].Seats)
}

func TestListRoomsHandlerRejectsNonGet(t *testing.T) {
	srv := NewRoomServer()

	req := httptest.NewRequest(http.MethodPost, "/rooms", nil)
	rec := httptest.NewRecorder()
	ListRoomsHandler(srv)(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
