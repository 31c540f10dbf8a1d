package events

import (
	"net/http"
	"time"

	"github.com/mcoot/banker/internal/model"
)

const (
	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client represents a connected SSE client
type Client struct {
	playerFilter model.PlayerID // empty receives everything
	remoteAddr   string
	connectedAt  time.Time
	send         chan []byte
}

// NewClient creates a new SSE client.
// A non-empty playerFilter limits delivery to that player's events plus session-wide ones.
func NewClient(playerFilter model.PlayerID, remoteAddr string) *Client {
	return &Client{
		playerFilter: playerFilter,
		remoteAddr:   remoteAddr,
		connectedAt:  time.Now(),
		send:         make(chan []byte, sendBufferSize),
	}
}

// wants reports whether an event about playerID should reach this client
func (c *Client) wants(playerID model.PlayerID) bool {
	return c.playerFilter == "" || playerID == "" || playerID == c.playerFilter
}

// ServeSSE handles the SSE connection for a client
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, playerFilter model.PlayerID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient(playerFilter, r.RemoteAddr)
	hub.Register(client)
	defer hub.Unregister(client)

	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				// Hub closed the channel
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
