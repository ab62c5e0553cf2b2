package fixsession

import (
	"sync"

	"github.com/ndrandal/fixengine/internal/fixfield"
	"github.com/ndrandal/fixengine/internal/fixtypes"
)

// sentMessage is one cached outbound application message, kept so a
// ResendRequest can be answered without re-deriving it from business logic.
// bodyFields holds the original (pre-header) fields so a resend can
// reconstruct the message fresh rather than replaying stale wire bytes.
type sentMessage struct {
	seqNum      int
	msgType     string
	bodyFields  []fixfield.Field
	sendingTime fixtypes.UTCTimestamp
}

// resendHistory is a bounded FIFO cache of sent messages keyed by sequence
// number, generalized from the teacher's orderbook.Book locked-map pattern:
// a map for O(1) lookup by key plus a parallel ordered slice of keys that
// is trimmed from the front once the cache exceeds its capacity.
type resendHistory struct {
	mu       sync.RWMutex
	capacity int
	byID     map[int]*sentMessage
	order    []int
}

// defaultHistoryCapacity is used when a session is configured with no
// explicit history size.
const defaultHistoryCapacity = 1024

func newResendHistory(capacity int) *resendHistory {
	if capacity <= 0 {
		capacity = defaultHistoryCapacity
	}
	return &resendHistory{
		capacity: capacity,
		byID:     make(map[int]*sentMessage, capacity),
	}
}

// Put records a sent message, evicting the oldest entry if the cache is
// at capacity.
func (h *resendHistory) Put(m *sentMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.byID[m.seqNum]; !exists {
		h.order = append(h.order, m.seqNum)
	}
	h.byID[m.seqNum] = m

	for len(h.order) > h.capacity {
		oldest := h.order[0]
		h.order = h.order[1:]
		delete(h.byID, oldest)
	}
}

// Get returns the cached message for seqNum, if still held.
func (h *resendHistory) Get(seqNum int) (*sentMessage, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	m, ok := h.byID[seqNum]
	return m, ok
}

// OldestHeld returns the lowest sequence number still in the cache, and
// whether the cache holds anything at all.
func (h *resendHistory) OldestHeld() (int, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.order) == 0 {
		return 0, false
	}
	return h.order[0], true
}

// Range returns cached messages with seqNum in [from, to], in ascending
// order, skipping any sequence numbers the cache no longer holds.
func (h *resendHistory) Range(from, to int) []*sentMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*sentMessage
	for seq := from; seq <= to; seq++ {
		if m, ok := h.byID[seq]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Len reports how many messages the cache currently holds.
func (h *resendHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.order)
}
