// README: Websocket hub; rebroadcasts every state change to connected UI instances.
package ws

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"fleetbook/internal/modules/state"
)

const StateChangedType = "STATE_CHANGED"

// Message is the wire format pushed to clients. Payload carries the full
// state snapshot, the same shape as the persisted slot, so a tab can adopt
// a sibling's write without a follow-up fetch.
type Message struct {
	Type    string      `json:"type"`
	Payload state.State `json:"payload"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub tracks connected clients and fans state changes out to them.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{conns: map[*websocket.Conn]bool{}}
}

// Handle upgrades the connection and keeps it registered until it closes.
// Clients are listen-only; inbound frames are drained and dropped.
func (h *Hub) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}
	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// BroadcastState pushes the new state to every client, dropping any
// connection that fails to take the write. Credentials are blanked before
// the snapshot goes over the wire.
func (h *Hub) BroadcastState(st state.State) {
	msg := Message{Type: StateChangedType, Payload: st.Redacted()}
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(msg); err != nil {
			h.drop(conn)
		}
	}
}
