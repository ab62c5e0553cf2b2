package journal

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ndrandal/fixengine/internal/fixcodec"
)

// WireMessage is a journaled wire message, exposed to callers in a form
// independent of the bson tags the store uses internally.
type WireMessage struct {
	SessionID  string
	Direction  string // "in" or "out"
	SeqNum     int
	MsgType    string
	Raw        []byte
	RecordedAt time.Time
}

// LifecycleRecord is a journaled session/connector lifecycle transition.
type LifecycleRecord struct {
	SessionID string
	Source    string
	Kind      string
	Reason    string
	At        time.Time
}

// Journal records FIX session activity to a Store. It is the write side
// of the audit trail; the session engine and connector never reference
// it: cmd/fixcli feeds it from their event channels.
type Journal struct {
	store *Store
}

// New wraps a Store as a Journal.
func New(store *Store) *Journal {
	return &Journal{store: store}
}

// Recorder is the narrow write interface that *Journal satisfies, for
// callers that record activity without needing the concrete Mongo types.
type Recorder interface {
	RecordMessage(ctx context.Context, m WireMessage) error
	RecordLifecycle(ctx context.Context, r LifecycleRecord) error
}

// RecordMessage appends one wire message to the journal.
func (j *Journal) RecordMessage(ctx context.Context, m WireMessage) error {
	doc := wireMessageDoc{
		SessionID:  m.SessionID,
		Direction:  m.Direction,
		SeqNum:     m.SeqNum,
		MsgType:    m.MsgType,
		Raw:        m.Raw,
		RecordedAt: m.RecordedAt,
	}
	if doc.RecordedAt.IsZero() {
		doc.RecordedAt = time.Now()
	}
	_, err := j.store.db.Collection(collectionWireMessages).InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("journal: insert wire message: %w", err)
	}
	return nil
}

// RecordLifecycle appends one lifecycle transition to the journal.
func (j *Journal) RecordLifecycle(ctx context.Context, r LifecycleRecord) error {
	doc := lifecycleDoc{
		SessionID: r.SessionID,
		Source:    r.Source,
		Kind:      r.Kind,
		Reason:    r.Reason,
		At:        r.At,
	}
	if doc.At.IsZero() {
		doc.At = time.Now()
	}
	_, err := j.store.db.Collection(collectionLifecycle).InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("journal: insert lifecycle record: %w", err)
	}
	return nil
}

// QueryMessages returns the most recent wire messages for a session, in
// descending recorded-at order, capped at limit; a limit outside 1..1000
// is replaced by 100.
func (j *Journal) QueryMessages(ctx context.Context, sessionID string, limit int) ([]WireMessage, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := j.store.db.Collection(collectionWireMessages).Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("journal: query wire messages: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []wireMessageDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("journal: decode wire messages: %w", err)
	}

	out := make([]WireMessage, len(docs))
	for i, d := range docs {
		out[i] = WireMessage{
			SessionID:  d.SessionID,
			Direction:  d.Direction,
			SeqNum:     d.SeqNum,
			MsgType:    d.MsgType,
			Raw:        d.Raw,
			RecordedAt: d.RecordedAt,
		}
	}
	return out, nil
}

// MessageFromMirror is a convenience constructor for a WireMessage from a
// decoded fixcodec.Message and its raw wire bytes, used by callers that
// already hold both (cmd/fixcli's bridge of the session's inbound and
// outbound wire events).
func MessageFromMirror(sessionID, direction string, seqNum int, msg *fixcodec.Message, raw []byte, at time.Time) WireMessage {
	return WireMessage{
		SessionID:  sessionID,
		Direction:  direction,
		SeqNum:     seqNum,
		MsgType:    string(msg.MsgType),
		Raw:        raw,
		RecordedAt: at,
	}
}
