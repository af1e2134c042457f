package server

import (
	"net/http"
	"time"

	"portfolio-simulator/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop
func (s *DashboardServer) handleWebsockets() {
	for {
		select {
		case <-s.done:
			return

		case client := <-s.register:
			s.stateMutex.Lock()
			s.clients[client] = struct{}{}
			state := s.latestState
			s.stateMutex.Unlock()

			// Send latest completed run on connect
			client.send <- state

		case client := <-s.unregister:
			s.stateMutex.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			s.stateMutex.Unlock()

		case message := <-s.broadcast:
			// Completed runs replace the hub state; progress events pass through
			if latest, isRun := message.(*models.MLatestRun); isRun {
				s.stateMutex.Lock()
				s.latestState = latest
				s.stateMutex.Unlock()
			}

			s.stateMutex.Lock()
			for client := range s.clients {
				select {
				case client.send <- message:
					// Message sent successfully
				default:
					// Client too slow, disconnect to prevent Hub blocking
					delete(s.clients, client)
					close(client.send)
				}
			}
			s.stateMutex.Unlock()
		}
	}
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// BroadcastProgress queues a pipeline milestone for connected clients.
func (s *DashboardServer) BroadcastProgress(event models.MProgressEvent) {
	select {
	case s.broadcast <- event:
	default:
		// Queue full: progress events are advisory, drop instead of blocking
		s.Logger.Debug("Broadcast queue full, dropped progress event for %s", event.RunID)
	}
}

// -----------------------------------------------------------------------------

// PublishRun updates the latest-run state and broadcasts the summary.
func (s *DashboardServer) PublishRun(summary models.MRunSummary) {
	state := &models.MLatestRun{
		Type:      "RESULT",
		Run:       &summary,
		Timestamp: time.Now().Unix(),
	}
	select {
	case s.broadcast <- state:
	case <-s.done:
	}
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

func (s *DashboardServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan interface{}, 256),
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}
