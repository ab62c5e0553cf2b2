package monitor

import (
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// Client is a connected dashboard subscriber. It mirrors the teacher's
// feed-subscriber client, with locate-code subscriptions replaced by
// session-ID subscriptions.
type Client struct {
	ID   uint64
	Conn *websocket.Conn

	mu         sync.RWMutex
	sessions   map[string]bool
	allSession bool

	sendCh     chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	bufferSize int

	Dropped uint64
}

var clientIDCounter uint64

// NewClient creates a new dashboard client wrapping a WebSocket connection.
func NewClient(conn *websocket.Conn, bufferSize int) *Client {
	return &Client{
		ID:         atomic.AddUint64(&clientIDCounter, 1),
		Conn:       conn,
		sessions:   make(map[string]bool),
		sendCh:     make(chan []byte, bufferSize),
		done:       make(chan struct{}),
		bufferSize: bufferSize,
	}
}

// Subscribe adds session IDs to the client's subscription set.
func (c *Client) Subscribe(sessionIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range sessionIDs {
		c.sessions[id] = true
	}
}

// SubscribeAll subscribes the client to every session.
func (c *Client) SubscribeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.allSession = true
}

// Unsubscribe removes session IDs from the client's subscription set.
func (c *Client) Unsubscribe(sessionIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range sessionIDs {
		delete(c.sessions, id)
	}
}

// IsSubscribed reports whether the client wants events for sessionID.
func (c *Client) IsSubscribed(sessionID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.allSession {
		return true
	}
	return c.sessions[sessionID]
}

// Send enqueues data for the write pump. Returns false, incrementing
// Dropped, if the client's buffer is full.
func (c *Client) Send(data []byte) bool {
	select {
	case c.sendCh <- data:
		return true
	default:
		atomic.AddUint64(&c.Dropped, 1)
		return false
	}
}

// SendCh returns the send channel for the write pump.
func (c *Client) SendCh() <-chan []byte { return c.sendCh }

// Done returns a channel closed when the client disconnects.
func (c *Client) Done() <-chan struct{} { return c.done }

// Close terminates the client connection.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.Conn != nil {
			c.Conn.Close()
		}
	})
}
