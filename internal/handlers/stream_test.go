package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialStream(t *testing.T, h *Handler, query string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleJourneyStream))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/journeys/stream" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if conn != nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

func TestHandleJourneyStream(t *testing.T) {
	h := setupTestHandler(t)

	conn, _, err := dialStream(t, h, "?city=c0&country=country0&days=10")
	require.NoError(t, err)

	var msgs []StreamMessage
	for {
		var msg StreamMessage
		require.NoError(t, conn.ReadJSON(&msg))
		msgs = append(msgs, msg)
		if msg.Type != "hop" {
			break
		}
	}

	require.Len(t, msgs, 5)
	for i, msg := range msgs[:4] {
		assert.Equal(t, "hop", msg.Type)
		assert.Equal(t, i+1, msg.Seq)
		require.NotNil(t, msg.Hop)
		assert.Equal(t, 4, msg.Hop.Hours)
	}
	assert.Equal(t, "c0", msgs[0].Hop.From)
	assert.Equal(t, "c0", msgs[3].Hop.To)

	summary := msgs[4]
	assert.Equal(t, "summary", summary.Type)
	require.NotNil(t, summary.Journey)
	assert.True(t, summary.Journey.Complete)
	assert.Equal(t, 16, summary.Journey.TotalHours)
	assert.NotEmpty(t, summary.Journey.ID)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestHandleJourneyStreamUnknownCity(t *testing.T) {
	h := setupTestHandler(t)

	conn, _, err := dialStream(t, h, "?city=Atlantis&country=country0")
	require.NoError(t, err)

	var msg StreamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	require.NotNil(t, msg.Error)
	assert.Equal(t, "CITY_NOT_FOUND", msg.Error.Code)
}

func TestHandleJourneyStreamInvalidDays(t *testing.T) {
	h := setupTestHandler(t)

	for _, query := range []string{"?days=soon", "?days=NaN", "?days=Inf", "?days=0", "?days=-2"} {
		_, resp, err := dialStream(t, h, query)
		require.ErrorIs(t, err, websocket.ErrBadHandshake, query)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
	}
}

func TestHandleJourneyStreamRejectsForeignOrigin(t *testing.T) {
	h := setupTestHandler(t)
	srv := httptest.NewServer(http.HandlerFunc(h.HandleJourneyStream))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/journeys/stream"
	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header = http.Header{"Origin": []string{"http://localhost:5173"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	conn.Close()
}

func TestAllowedOrigin(t *testing.T) {
	assert.True(t, AllowedOrigin(""))
	assert.True(t, AllowedOrigin("http://localhost:8080"))
	assert.True(t, AllowedOrigin("http://127.0.0.1:3000"))
	assert.False(t, AllowedOrigin("http://localhost.evil.example"))
	assert.False(t, AllowedOrigin("https://example.com"))
}
