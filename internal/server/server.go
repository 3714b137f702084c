// Package server exposes a WebSocket feed of game events so spectators can
// watch a match from a browser or external tool. The server implements
// display.Sink: every board notification becomes a JSON event broadcast to
// all connected clients.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Server represents the WebSocket spectator server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewServer creates a new WebSocket spectator server
func NewServer(addr string, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Spectator feed is read-only; allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the WebSocket server
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

// Stop stops the WebSocket server
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Spectator connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close() // Ignore close errors during unregistration
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Spectator disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

// broadcast sends an event to every connected spectator
func (s *Server) broadcast(ev Event) {
	ev.Timestamp = time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if err := conn.SendEvent(ev); err != nil {
			s.logger.Debug("Failed to send event to spectator", "error", err)
		}
	}
}

// Spectators receive every display notification as a broadcast event, so
// the server satisfies display.Sink directly.

func (s *Server) CardPlaced(card, slot int) {
	s.broadcast(Event{Type: EventCardPlaced, Card: card, Slot: slot})
}

func (s *Server) CardRemoved(slot int) {
	s.broadcast(Event{Type: EventCardRemoved, Slot: slot})
}

func (s *Server) TokenPlaced(player, slot int) {
	s.broadcast(Event{Type: EventTokenPlaced, Player: player, Slot: slot})
}

func (s *Server) TokenRemoved(player, slot int) {
	s.broadcast(Event{Type: EventTokenRemoved, Player: player, Slot: slot})
}

func (s *Server) ScoreUpdated(player, score int) {
	s.broadcast(Event{Type: EventScore, Player: player, Score: score})
}

func (s *Server) FreezeUpdated(player int, remaining time.Duration) {
	s.broadcast(Event{Type: EventFreeze, Player: player, Millis: remaining.Milliseconds()})
}

func (s *Server) CountdownUpdated(remaining time.Duration, urgent bool) {
	s.broadcast(Event{Type: EventCountdown, Millis: remaining.Milliseconds(), Urgent: urgent})
}

func (s *Server) WinnersAnnounced(players []int) {
	s.broadcast(Event{Type: EventWinners, Winners: players})
}
