package server

import (
	"encoding/json"
	"net/http"
	"time"

	"crypto-analyst/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop
func (s *APIServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.stateMutex.Lock()
			s.clients[client] = struct{}{}
			latest := s.latestReport
			s.stateMutex.Unlock()

			// Late joiners get the last delivered report
			if latest != nil {
				client.send <- models.MRefreshEvent{Type: EventReport, Report: latest, Timestamp: latest.GeneratedAt.Unix()}
			}

		case client := <-s.unregister:
			s.stateMutex.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			s.stateMutex.Unlock()

		case event := <-s.broadcast:
			s.stateMutex.Lock()
			for client := range s.clients {
				select {
				case client.send <- event:
				default:
					// Slow consumer, drop it rather than block the hub
					delete(s.clients, client)
					close(client.send)
				}
			}
			s.stateMutex.Unlock()

		case <-s.done:
			s.stateMutex.Lock()
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}
			s.stateMutex.Unlock()
			return
		}
	}
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast queues an event for every connected dashboard.
func (s *APIServer) Broadcast(event models.MRefreshEvent) {
	select {
	case s.broadcast <- event:
	case <-s.done:
	}
}

// -----------------------------------------------------------------------------

// UpdateLatestReport replaces the report served by GET /api/report.
func (s *APIServer) UpdateLatestReport(report *models.MReport) {
	s.stateMutex.Lock()
	s.latestReport = report
	s.stateMutex.Unlock()
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *APIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		send: make(chan models.MRefreshEvent, 16),
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

func (s *APIServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MRefreshCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command != CommandRefresh {
		client.trySend(models.MRefreshEvent{
			Type:      EventError,
			ErrorKind: "UnknownCommand",
			Message:   "unsupported command: " + cmd.Command,
			Timestamp: time.Now().Unix(),
		})
		return
	}

	// The outcome reaches every dashboard through the hub
	go func() {
		if _, err := s.RunRefresh(s.ctx, cmd.Options); err != nil {
			s.Logger.Debug("WebSocket refresh ended with %v", err)
		}
	}()
}
