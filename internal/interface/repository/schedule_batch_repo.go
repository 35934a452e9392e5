package repository

import (
	"context"
	"time"

	"autocare-service/internal/domain/entity"
	"autocare-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoScheduleBatchRepository implements ScheduleBatchRepository
type MongoScheduleBatchRepository struct {
	collection *mongo.Collection
}

// NewMongoScheduleBatchRepository creates a new schedule batch repository
func NewMongoScheduleBatchRepository(db *mongo.Database) repository.ScheduleBatchRepository {
	collection := db.Collection("schedule_batches")

	ctx := context.Background()
	collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"scheduledDate": 1},
	})
	collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"bookingIds": 1},
	})

	return &MongoScheduleBatchRepository{
		collection: collection,
	}
}

// Create inserts a new schedule batch
func (r *MongoScheduleBatchRepository) Create(ctx context.Context, batch *entity.ScheduleBatch) error {
	_, err := r.collection.InsertOne(ctx, batch)
	return err
}

// FindByID finds a schedule batch by id
func (r *MongoScheduleBatchRepository) FindByID(ctx context.Context, id string) (*entity.ScheduleBatch, error) {
	var batch entity.ScheduleBatch
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&batch)
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// Update replaces a schedule batch document
func (r *MongoScheduleBatchRepository) Update(ctx context.Context, batch *entity.ScheduleBatch) error {
	batch.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": batch.ID}, batch)
	return err
}

// FindByScheduledDate returns the batches scheduled on the given day
func (r *MongoScheduleBatchRepository) FindByScheduledDate(ctx context.Context, day time.Time) ([]*entity.ScheduleBatch, error) {
	start, end := dayRange(day)
	cursor, err := r.collection.Find(ctx, bson.M{
		"scheduledDate": bson.M{"$gte": start, "$lt": end},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var batches []*entity.ScheduleBatch
	for cursor.Next(ctx) {
		var batch entity.ScheduleBatch
		if err := cursor.Decode(&batch); err != nil {
			return nil, err
		}
		batches = append(batches, &batch)
	}
	return batches, cursor.Err()
}

// MemberBookingIDs returns every booking id referenced by any batch
func (r *MongoScheduleBatchRepository) MemberBookingIDs(ctx context.Context) (map[string]struct{}, error) {
	values, err := r.collection.Distinct(ctx, "bookingIds", bson.M{})
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}
