package server

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/zipsift/zipsift/analyze"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// hub fans analysis events out to connected websocket clients.
type hub struct {
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	events     chan AnalysisEvent
	done       chan struct{}
	logger     analyze.Logger
}

func newHub(logger analyze.Logger) *hub {
	return &hub{
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		events:     make(chan AnalysisEvent, 16),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *hub) run() {
	clients := make(map[*websocket.Conn]bool)

	for {
		select {
		case conn := <-h.register:
			clients[conn] = true

		case conn := <-h.unregister:
			if clients[conn] {
				delete(clients, conn)
				conn.Close()
			}

		case event := <-h.events:
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			for conn := range clients {
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					delete(clients, conn)
					conn.Close()
				}
			}

		case <-h.done:
			for conn := range clients {
				conn.Close()
			}
			return
		}
	}
}

// broadcast queues an event without blocking the analysis path. Slow
// or absent consumers drop events rather than stalling uploads.
func (h *hub) broadcast(event AnalysisEvent) {
	select {
	case h.events <- event:
	default:
	}
}

func (h *hub) close() {
	close(h.done)
}

func (s *Server) handleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Printf("websocket upgrade failed: %v", err)
			return
		}

		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		select {
		case s.hub.register <- conn:
		case <-s.hub.done:
			conn.Close()
			return
		}

		// Reader loop only detects disconnect; clients never send data.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					select {
					case s.hub.unregister <- conn:
					case <-s.hub.done:
					}
					return
				}
			}
		}()
	}
}
