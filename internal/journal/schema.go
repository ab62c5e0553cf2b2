package journal

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	collectionWireMessages = "wire_messages"
	collectionLifecycle    = "lifecycle_events"
)

// EnsureIndexes creates idempotent indexes on the journal collections.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	type idx struct {
		collection string
		model      mongo.IndexModel
	}

	indexes := []idx{
		{
			collection: collectionWireMessages,
			model: mongo.IndexModel{
				Keys: bson.D{
					{Key: "session_id", Value: 1},
					{Key: "recorded_at", Value: 1},
				},
			},
		},
		{
			collection: collectionWireMessages,
			model: mongo.IndexModel{
				Keys: bson.D{
					{Key: "session_id", Value: 1},
					{Key: "seq_num", Value: 1},
				},
			},
		},
		{
			collection: collectionLifecycle,
			model: mongo.IndexModel{
				Keys: bson.D{
					{Key: "session_id", Value: 1},
					{Key: "at", Value: 1},
				},
			},
		},
	}

	for _, i := range indexes {
		_, err := db.Collection(i.collection).Indexes().CreateOne(ctx, i.model)
		if err != nil {
			return fmt.Errorf("create index on %s: %w", i.collection, err)
		}
	}

	log.Println("journal: MongoDB indexes ensured")
	return nil
}

// wireMessageDoc is one persisted wire message.
type wireMessageDoc struct {
	SessionID  string    `bson:"session_id"`
	Direction  string    `bson:"direction"`
	SeqNum     int       `bson:"seq_num"`
	MsgType    string    `bson:"msg_type"`
	Raw        []byte    `bson:"raw"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// lifecycleDoc is one persisted session/connector lifecycle transition.
type lifecycleDoc struct {
	SessionID string    `bson:"session_id"`
	Source    string    `bson:"source"`
	Kind      string    `bson:"kind"`
	Reason    string    `bson:"reason,omitempty"`
	At        time.Time `bson:"at"`
}
