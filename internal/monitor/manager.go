package monitor

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Manager handles dashboard client registration and event fan-out,
// adapted from the teacher's feed session.Manager: a locked client map
// plus broadcast-by-predicate, generalized from locate-code subscription
// to session-ID subscription and from ITCH ticks to FIX lifecycle events
// and message mirrors.
type Manager struct {
	mu         sync.RWMutex
	clients    map[uint64]*Client
	bufferSize int
}

// NewManager creates a monitor manager. bufferSize sets each client's
// per-connection send buffer depth.
func NewManager(bufferSize int) *Manager {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Manager{clients: make(map[uint64]*Client), bufferSize: bufferSize}
}

// Register adds a new client.
func (m *Manager) Register(conn *websocket.Conn) *Client {
	c := NewClient(conn, m.bufferSize)
	m.mu.Lock()
	m.clients[c.ID] = c
	m.mu.Unlock()
	log.Printf("monitor: client %d connected (%s)", c.ID, conn.RemoteAddr())
	return c
}

// Unregister removes and closes a client.
func (m *Manager) Unregister(c *Client) {
	m.mu.Lock()
	delete(m.clients, c.ID)
	m.mu.Unlock()
	c.Close()
	log.Printf("monitor: client %d disconnected", c.ID)
}

// ClientCount returns the number of connected dashboard clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// PublishLifecycle fans a lifecycle event out to every client subscribed
// to its session.
func (m *Manager) PublishLifecycle(ev LifecycleEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("monitor: marshal lifecycle event: %v", err)
		return
	}
	m.broadcast(ev.SessionID, data)
}

// PublishMessage fans a decoded-message mirror out to every client
// subscribed to its session.
func (m *Manager) PublishMessage(mm MessageMirror) {
	data, err := json.Marshal(mm)
	if err != nil {
		log.Printf("monitor: marshal message mirror: %v", err)
		return
	}
	m.broadcast(mm.SessionID, data)
}

func (m *Manager) broadcast(sessionID string, data []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		if !c.IsSubscribed(sessionID) {
			continue
		}
		if !c.Send(data) {
			// buffer full, message dropped
		}
	}
}
