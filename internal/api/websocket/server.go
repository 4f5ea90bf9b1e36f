package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/herolabs/hokhub/internal/contrib"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development (TODO: restrict in production)
	},
}

// Server pushes moderation events to connected admin clients.
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
}

// NewServer creates the WebSocket server.
func NewServer() *Server {
	return &Server{hub: NewHub()}
}

// Start starts the WebSocket server.
func (s *Server) Start(port string) error {
	s.port = port

	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/moderation", s.handleModeration)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	log.Printf("WebSocket server listening on :%s", port)
	return s.server.ListenAndServe()
}

// handleModeration upgrades a connection onto the moderation feed.
func (s *Server) handleModeration(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// event is the wire shape of one feed message.
type event struct {
	Event        string                `json:"event"`
	Contribution *contrib.Contribution `json:"contribution"`
}

// ContributionSubmitted broadcasts a new pending contribution. Part of
// the pipeline's notifier fan-out.
func (s *Server) ContributionSubmitted(ctx context.Context, c *contrib.Contribution) {
	s.broadcastEvent("contribution.submitted", c)
}

// ContributionResolved broadcasts a moderation decision.
func (s *Server) ContributionResolved(ctx context.Context, c *contrib.Contribution) {
	s.broadcastEvent("contribution."+string(c.Status), c)
}

func (s *Server) broadcastEvent(name string, c *contrib.Contribution) {
	data, err := json.Marshal(event{Event: name, Contribution: c})
	if err != nil {
		log.Printf("⚠️  encoding %s event failed: %v", name, err)
		return
	}
	s.hub.Broadcast(data)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
