package repository

import (
	"context"
	"time"

	"autocare-service/internal/domain/entity"
	"autocare-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepository implements BookingRepository
type MongoBookingRepository struct {
	collection *mongo.Collection
}

// NewMongoBookingRepository creates a new booking repository
func NewMongoBookingRepository(db *mongo.Database) repository.BookingRepository {
	collection := db.Collection("bookings")

	// Create unique index on bookingNumber
	ctx := context.Background()
	numberIndex := mongo.IndexModel{
		Keys:    bson.M{"bookingNumber": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, numberIndex)

	// Indexes for the day sweeps and vehicle lookups
	collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduledDate", Value: 1}},
	})
	collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"vehicleId": 1},
	})

	return &MongoBookingRepository{
		collection: collection,
	}
}

// Create inserts a new booking
func (r *MongoBookingRepository) Create(ctx context.Context, b *entity.Booking) error {
	if b.ID == "" {
		b.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, b)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return err
}

// FindByID finds a booking by id
func (r *MongoBookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	var b entity.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindByNumber finds a booking by its booking number
func (r *MongoBookingRepository) FindByNumber(ctx context.Context, bookingNumber string) (*entity.Booking, error) {
	var b entity.Booking
	err := r.collection.FindOne(ctx, bson.M{"bookingNumber": bookingNumber}).Decode(&b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindByIDs finds the bookings whose ids are in the given set
func (r *MongoBookingRepository) FindByIDs(ctx context.Context, ids []string) ([]*entity.Booking, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cursor)
}

// FindByVehicle finds all bookings for a vehicle, newest first
func (r *MongoBookingRepository) FindByVehicle(ctx context.Context, vehicleID string) ([]*entity.Booking, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"vehicleId": vehicleID}, opts)
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cursor)
}

// Update writes the booking's fields except the notification guard
// flags. The flags are owned by ClaimFlag and ResetReminderFlags; writing
// them here could race a concurrent claim and resurrect a spent flag.
func (r *MongoBookingRepository) Update(ctx context.Context, b *entity.Booking) error {
	b.UpdatedAt = time.Now()
	raw, err := bson.Marshal(b)
	if err != nil {
		return err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	delete(doc, "_id")
	delete(doc, repository.FlagConfirmationSent)
	delete(doc, repository.FlagReminderSent)
	delete(doc, repository.FlagFollowUpSent)
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": b.ID}, bson.M{"$set": doc})
	return err
}

// ResetReminderFlags re-arms the day reminders after the booking gives up
// its slot
func (r *MongoBookingRepository) ResetReminderFlags(ctx context.Context, id string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			repository.FlagReminderSent: false,
			repository.FlagFollowUpSent: false,
			"updatedAt":                 time.Now(),
		}},
	)
	return err
}

// FindActiveOnDate returns bookings holding a slot on the given day.
// Scheduled bookings match on scheduledDate; the rest match on their
// preferred date while no slot is assigned yet.
func (r *MongoBookingRepository) FindActiveOnDate(ctx context.Context, day time.Time) ([]*entity.Booking, error) {
	start, end := dayRange(day)
	filter := bson.M{
		"status": bson.M{"$in": []string{
			string(entity.StatusConfirmed),
			string(entity.StatusScheduled),
			string(entity.StatusInProgress),
		}},
		"$or": []bson.M{
			{"scheduledDate": bson.M{"$gte": start, "$lt": end}},
			{"scheduledDate": nil, "preferredDate": bson.M{"$gte": start, "$lt": end}},
		},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cursor)
}

// FindScheduledOnDay returns scheduled bookings whose reminder date is
// the given day
func (r *MongoBookingRepository) FindScheduledOnDay(ctx context.Context, day time.Time) ([]*entity.Booking, error) {
	start, end := dayRange(day)
	filter := bson.M{
		"status": string(entity.StatusScheduled),
		"$or": []bson.M{
			{"scheduledDate": bson.M{"$gte": start, "$lt": end}},
			{"scheduledDate": nil, "preferredDate": bson.M{"$gte": start, "$lt": end}},
		},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cursor)
}

// ClaimFlag flips a notification guard flag from false to true and
// reports whether this call made the change
func (r *MongoBookingRepository) ClaimFlag(ctx context.Context, id, flag string) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, flag: false},
		bson.M{"$set": bson.M{
			flag:        true,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func decodeBookings(ctx context.Context, cursor *mongo.Cursor) ([]*entity.Booking, error) {
	defer cursor.Close(ctx)
	var bookings []*entity.Booking
	for cursor.Next(ctx) {
		var b entity.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, err
		}
		bookings = append(bookings, &b)
	}
	return bookings, cursor.Err()
}

// dayRange returns the [start, end) UTC bounds of the calendar day
func dayRange(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
