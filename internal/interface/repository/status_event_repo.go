package repository

import (
	"context"
	"fmt"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStatusEventRepository implements StatusEventRepository
type MongoStatusEventRepository struct {
	collection *mongo.Collection
}

// NewMongoStatusEventRepository creates a new status event repository
func NewMongoStatusEventRepository(db *mongo.Database) repository.StatusEventRepository {
	collection := db.Collection("status_events")

	// Unique compound index on (ident, receivedAt): the storage key that makes
	// Append idempotent under provider redelivery.
	ctx := context.Background()
	keyIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "ident", Value: 1}, {Key: "receivedAt", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, keyIndex)

	// Index for per-kind latest lookups
	kindIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "ident", Value: 1}, {Key: "kind", Value: 1}, {Key: "receivedAt", Value: -1}},
	}
	collection.Indexes().CreateOne(ctx, kindIndex)

	return &MongoStatusEventRepository{
		collection: collection,
	}
}

// Append stores an event. A duplicate (ident, receivedAt) key is treated as
// success: the original row already holds the same accepted delivery.
func (r *MongoStatusEventRepository) Append(ctx context.Context, event *entity.StatusEvent) error {
	if event.ID == "" {
		event.ID = primitive.NewObjectID().Hex()
	}
	event.CreatedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	return nil
}

// LatestEvents returns, per event kind, the event with the greatest receivedAt
// for the identifier. Ties on receivedAt resolve last-write-wins via _id.
func (r *MongoStatusEventRepository) LatestEvents(ctx context.Context, ident string) (map[entity.EventKind]entity.StatusEvent, error) {
	latest := make(map[entity.EventKind]entity.StatusEvent)

	for _, kind := range entity.EventKinds {
		var event entity.StatusEvent
		opts := options.FindOne().SetSort(bson.D{{Key: "receivedAt", Value: -1}, {Key: "_id", Value: -1}})
		err := r.collection.FindOne(ctx, bson.M{"ident": ident, "kind": kind}, opts).Decode(&event)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
		}
		latest[kind] = event
	}
	return latest, nil
}

// History returns the full event sequence for an identifier, newest first.
func (r *MongoStatusEventRepository) History(ctx context.Context, ident string) ([]entity.StatusEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "receivedAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"ident": ident}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	var events []entity.StatusEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	return events, nil
}

// PruneExpired removes events whose expireAt has passed, except when the event
// is still the latest of its kind for its identifier. The only known state for
// a flight is never silently dropped.
func (r *MongoStatusEventRepository) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	expiredFilter := bson.M{"expireAt": bson.M{"$ne": nil, "$lte": now}}

	idents, err := r.collection.Distinct(ctx, "ident", expiredFilter)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}

	var removed int64
	for _, raw := range idents {
		ident, ok := raw.(string)
		if !ok {
			continue
		}

		latest, err := r.LatestEvents(ctx, ident)
		if err != nil {
			return removed, err
		}
		keep := make([]string, 0, len(latest))
		for _, event := range latest {
			keep = append(keep, event.ID)
		}

		filter := bson.M{
			"ident":    ident,
			"expireAt": bson.M{"$ne": nil, "$lte": now},
			"_id":      bson.M{"$nin": keep},
		}
		result, err := r.collection.DeleteMany(ctx, filter)
		if err != nil {
			return removed, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
		}
		removed += result.DeletedCount
	}
	return removed, nil
}
