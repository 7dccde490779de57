package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"world-travel-router/internal/journey"
	"world-travel-router/internal/metrics"
	"world-travel-router/internal/models"
	"world-travel-router/internal/routing"
)

const streamWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool {
	return AllowedOrigin(r.Header.Get("Origin"))
}}

// AllowedOrigin reports whether a browser origin may call the API: requests
// without an Origin header and localhost pages only.
func AllowedOrigin(origin string) bool {
	return origin == "" ||
		strings.HasPrefix(origin, "http://localhost:") ||
		strings.HasPrefix(origin, "http://127.0.0.1:")
}

// StreamMessage is one message sent on the journey stream.
// Type is "hop", "summary" or "error".
type StreamMessage struct {
	Type    string          `json:"type"`
	Seq     int             `json:"seq,omitempty"`
	Hop     *models.Hop     `json:"hop,omitempty"`
	Journey *models.Journey `json:"journey,omitempty"`
	Error   *ErrorDetail    `json:"error,omitempty"`
}

// streamRequest reads a journey request from query parameters
func streamRequest(r *http.Request) (journey.Request, bool) {
	q := r.URL.Query()
	req := journey.Request{
		StartCity:    q.Get("city"),
		StartCountry: q.Get("country"),
		Strategy:     q.Get("strategy"),
	}
	if days := q.Get("days"); days != "" {
		v, err := strconv.ParseFloat(days, 64)
		if err != nil || !routing.ValidBudget(v) {
			return req, false
		}
		req.MaxDays = v
	}
	return req, true
}

// HandleJourneyStream handles GET /api/v1/journeys/stream
//
// The journey is planned and recorded, then replayed hop by hop over a
// websocket, ending with a summary message.
func (h *Handler) HandleJourneyStream(w http.ResponseWriter, r *http.Request) {
	req, ok := streamRequest(r)
	if !ok {
		h.handleValidationError(w, "days must be a positive number")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[STREAM] Upgrade failed: err=%v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Client messages are ignored; a read error means the client went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(msg StreamMessage) error {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		return conn.WriteJSON(msg)
	}

	log.Printf("[STREAM] Client connected: start=%s country=%s max_days=%v strategy=%s",
		req.StartCity, req.StartCountry, req.MaxDays, req.Strategy)

	j, err := h.Planner.Plan(ctx, req)
	if err != nil {
		_, detail := h.searchError(err, req)
		_ = write(StreamMessage{Type: "error", Error: &detail})
		h.closeStream(conn)
		return
	}

	for i := range j.Hops {
		if h.HopInterval > 0 {
			select {
			case <-ctx.Done():
				log.Printf("[STREAM] Client disconnected: journey=%s sent=%d", j.ID, i)
				return
			case <-time.After(h.HopInterval):
			}
		}
		if err := write(StreamMessage{Type: "hop", Seq: i + 1, Hop: &j.Hops[i]}); err != nil {
			log.Printf("[STREAM] Write failed: journey=%s err=%v", j.ID, err)
			return
		}
	}

	if err := write(StreamMessage{Type: "summary", Journey: j}); err != nil {
		log.Printf("[STREAM] Write failed: journey=%s err=%v", j.ID, err)
		return
	}
	h.closeStream(conn)
	log.Printf("[STREAM] Journey streamed: id=%s hops=%d", j.ID, len(j.Hops))
}

func (h *Handler) closeStream(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}
