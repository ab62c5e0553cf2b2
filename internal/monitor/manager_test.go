package monitor

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ndrandal/fixengine/internal/fixcodec"
	"github.com/ndrandal/fixengine/internal/fixfield"
	"github.com/ndrandal/fixengine/internal/fixtypes"
)

func newTestManager() *Manager {
	return NewManager(100)
}

// addClient inserts a client directly, bypassing the websocket upgrade
// Register performs, so broadcast logic can be tested without a real
// connection.
func addClient(m *Manager, c *Client) {
	m.mu.Lock()
	m.clients[c.ID] = c
	m.mu.Unlock()
}

func TestPublishLifecycleFiltersBySession(t *testing.T) {
	m := newTestManager()
	subscribed := newTestClient(10)
	subscribed.Subscribe([]string{"sess-1"})
	addClient(m, subscribed)

	other := newTestClient(10)
	other.Subscribe([]string{"sess-2"})
	addClient(m, other)

	m.PublishLifecycle(LifecycleEvent{SessionID: "sess-1", Source: "session", Kind: "LoggedOn", At: time.Now()})

	select {
	case data := <-subscribed.SendCh():
		var ev LifecycleEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.SessionID != "sess-1" || ev.Kind != "LoggedOn" {
			t.Fatalf("event = %+v, want sess-1/LoggedOn", ev)
		}
	default:
		t.Fatal("subscribed client should have received the event")
	}

	select {
	case data := <-other.SendCh():
		t.Fatalf("unsubscribed client should not have received anything, got %s", data)
	default:
	}
}

func TestPublishLifecycleReachesAllSubscriber(t *testing.T) {
	m := newTestManager()
	c := newTestClient(10)
	c.SubscribeAll()
	addClient(m, c)

	m.PublishLifecycle(LifecycleEvent{SessionID: "any-session", Kind: "Connected", At: time.Now()})

	select {
	case <-c.SendCh():
	default:
		t.Fatal("all-subscriber should receive events for any session")
	}
}

func TestPublishMessageEncodesFields(t *testing.T) {
	m := newTestManager()
	c := newTestClient(10)
	c.Subscribe([]string{"sess-1"})
	addClient(m, c)

	reg := fixfield.BuildCoreRegistry()
	reg.Seal()
	msg := fixcodec.NewMessage(fixtypes.MsgTypeNewOrderSingle)
	msg.Add(fixfield.StringField(fixfield.TagClOrdID, "ClOrdID", "C-1"))

	mm := MirrorMessage("sess-1", DirectionOutbound, msg, time.Now())
	m.PublishMessage(mm)

	select {
	case data := <-c.SendCh():
		var got MessageMirror
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Fields["ClOrdID"] != "C-1" {
			t.Fatalf("Fields[ClOrdID] = %q, want C-1", got.Fields["ClOrdID"])
		}
		if got.Direction != DirectionOutbound {
			t.Fatalf("Direction = %q, want out", got.Direction)
		}
	default:
		t.Fatal("subscribed client should have received the mirrored message")
	}
}

func TestClientCount(t *testing.T) {
	m := newTestManager()
	if m.ClientCount() != 0 {
		t.Fatalf("ClientCount() = %d, want 0", m.ClientCount())
	}
	addClient(m, newTestClient(10))
	addClient(m, newTestClient(10))
	if m.ClientCount() != 2 {
		t.Fatalf("ClientCount() = %d, want 2", m.ClientCount())
	}
}

func TestUnregisterRemovesClient(t *testing.T) {
	m := newTestManager()
	c := newTestClient(10)
	addClient(m, c)
	m.Unregister(c)
	if m.ClientCount() != 0 {
		t.Fatalf("ClientCount() = %d after Unregister, want 0", m.ClientCount())
	}
	select {
	case <-c.Done():
	default:
		t.Fatal("Unregister should close the client")
	}
}
