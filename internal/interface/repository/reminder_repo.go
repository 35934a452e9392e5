package repository

import (
	"context"
	"time"

	"autocare-service/internal/domain/entity"
	"autocare-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoReminderRepository implements ReminderRepository
type MongoReminderRepository struct {
	collection *mongo.Collection
}

// NewMongoReminderRepository creates a new reminder repository
func NewMongoReminderRepository(db *mongo.Database) repository.ReminderRepository {
	collection := db.Collection("reminders")

	ctx := context.Background()
	collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "isSent", Value: 1}, {Key: "scheduledSendDate", Value: 1}},
	})
	collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "vehicleId", Value: 1}, {Key: "type", Value: 1}},
	})

	return &MongoReminderRepository{
		collection: collection,
	}
}

// Create inserts a new reminder
func (r *MongoReminderRepository) Create(ctx context.Context, reminder *entity.Reminder) error {
	if reminder.ID == "" {
		reminder.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, reminder)
	return err
}

// FindDue returns unsent reminders due on or before the given day
func (r *MongoReminderRepository) FindDue(ctx context.Context, day time.Time) ([]*entity.Reminder, error) {
	_, end := dayRange(day)
	cursor, err := r.collection.Find(ctx, bson.M{
		"isSent":            false,
		"scheduledSendDate": bson.M{"$lt": end},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reminders []*entity.Reminder
	for cursor.Next(ctx) {
		var reminder entity.Reminder
		if err := cursor.Decode(&reminder); err != nil {
			return nil, err
		}
		reminders = append(reminders, &reminder)
	}
	return reminders, cursor.Err()
}

// ClaimSent marks a reminder sent and reports whether this call made the
// change
func (r *MongoReminderRepository) ClaimSent(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "isSent": false},
		bson.M{"$set": bson.M{
			"isSent": true,
			"sentAt": sentAt,
		}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// HasPending reports whether an unsent reminder of the given type exists
// for the vehicle
func (r *MongoReminderRepository) HasPending(ctx context.Context, vehicleID string, t entity.ReminderType) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"vehicleId": vehicleID,
		"type":      string(t),
		"isSent":    false,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
