package journal

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// RunRetention periodically deletes journal entries older than the
// retention window. Blocks until ctx is cancelled. Pass retentionDays <= 0
// to disable (keep forever).
func RunRetention(ctx context.Context, store *Store, retentionDays int) {
	if retentionDays <= 0 {
		log.Println("journal: retention disabled (keep forever)")
		return
	}

	interval := 1 * time.Hour
	log.Printf("journal: pruning entries older than %d days every %v", retentionDays, interval)

	prune(ctx, store, retentionDays)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune(ctx, store, retentionDays)
		}
	}
}

func prune(ctx context.Context, store *Store, retentionDays int) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	wireResult, err := store.db.Collection(collectionWireMessages).DeleteMany(ctx, bson.M{
		"recorded_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		log.Printf("journal: retention prune (wire_messages) error: %v", err)
	} else if wireResult.DeletedCount > 0 {
		log.Printf("journal: pruned %d wire messages older than %s", wireResult.DeletedCount, cutoff.Format(time.DateOnly))
	}

	lifecycleResult, err := store.db.Collection(collectionLifecycle).DeleteMany(ctx, bson.M{
		"at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		log.Printf("journal: retention prune (lifecycle_events) error: %v", err)
	} else if lifecycleResult.DeletedCount > 0 {
		log.Printf("journal: pruned %d lifecycle events older than %s", lifecycleResult.DeletedCount, cutoff.Format(time.DateOnly))
	}
}
