package monitor

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// controlMessage is a dashboard client -> monitor control message.
type controlMessage struct {
	Action   string   `json:"action"`
	Sessions []string `json:"sessions,omitempty"`
}

// Handler creates the HTTP handler for dashboard WebSocket upgrades.
func Handler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("monitor: websocket upgrade error: %v", err)
			return
		}

		client := mgr.Register(conn)
		go writePump(client)
		go readPump(client, mgr)
	}
}

// readPump processes incoming control messages from a dashboard client.
func readPump(c *Client, mgr *Manager) {
	defer mgr.Unregister(c)

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("monitor: client %d read error: %v", c.ID, err)
			}
			return
		}

		var ctrl controlMessage
		if err := json.Unmarshal(message, &ctrl); err != nil {
			log.Printf("monitor: client %d invalid message: %v", c.ID, err)
			continue
		}
		handleControl(c, &ctrl)
	}
}

func handleControl(c *Client, ctrl *controlMessage) {
	switch ctrl.Action {
	case "subscribe":
		if len(ctrl.Sessions) == 1 && ctrl.Sessions[0] == "*" {
			c.SubscribeAll()
			log.Printf("monitor: client %d subscribed to all sessions", c.ID)
			return
		}
		c.Subscribe(ctrl.Sessions)
		log.Printf("monitor: client %d subscribed to %v", c.ID, ctrl.Sessions)

	case "unsubscribe":
		c.Unsubscribe(ctrl.Sessions)
		log.Printf("monitor: client %d unsubscribed from %v", c.ID, ctrl.Sessions)

	default:
		log.Printf("monitor: client %d unknown action: %s", c.ID, ctrl.Action)
	}
}

// writePump sends messages from the client's send channel to the
// WebSocket, with periodic pings to keep the connection alive.
func writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.SendCh():
			if !ok {
				return
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.Done():
			return
		}
	}
}
