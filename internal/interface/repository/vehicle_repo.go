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

// MongoVehicleRepository implements VehicleRepository
type MongoVehicleRepository struct {
	collection *mongo.Collection
}

// NewMongoVehicleRepository creates a new vehicle repository
func NewMongoVehicleRepository(db *mongo.Database) repository.VehicleRepository {
	collection := db.Collection("vehicles")

	// Unique compound index on (vin, plateNumber)
	ctx := context.Background()
	vinPlateIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "vin", Value: 1}, {Key: "plateNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, vinPlateIndex)

	collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"customerId": 1},
	})
	collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"warrantyEndDate": 1},
	})

	return &MongoVehicleRepository{
		collection: collection,
	}
}

// Create inserts a new vehicle record
func (r *MongoVehicleRepository) Create(ctx context.Context, v *entity.VehicleRecord) error {
	if v.ID == "" {
		v.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, v)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return err
}

// FindByID finds a vehicle record by id
func (r *MongoVehicleRepository) FindByID(ctx context.Context, id string) (*entity.VehicleRecord, error) {
	var v entity.VehicleRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByVINAndPlate finds a vehicle record by its unique VIN and plate pair
func (r *MongoVehicleRepository) FindByVINAndPlate(ctx context.Context, vin, plate string) (*entity.VehicleRecord, error) {
	var v entity.VehicleRecord
	err := r.collection.FindOne(ctx, bson.M{"vin": vin, "plateNumber": plate}).Decode(&v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByCustomer finds all vehicle records owned by a customer
func (r *MongoVehicleRepository) FindByCustomer(ctx context.Context, customerID string) ([]*entity.VehicleRecord, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"customerId": customerID})
	if err != nil {
		return nil, err
	}
	return decodeVehicles(ctx, cursor)
}

// Update replaces a vehicle record and bumps its version
func (r *MongoVehicleRepository) Update(ctx context.Context, v *entity.VehicleRecord) error {
	v.UpdatedAt = time.Now()
	v.Version++
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": v.ID}, v)
	return err
}

// ApplyServiceCascade writes the post-service fields guarded by the
// version the caller read. A concurrent writer bumps the version first
// and this update matches nothing.
func (r *MongoVehicleRepository) ApplyServiceCascade(ctx context.Context, id string, version int64, c repository.ServiceCascade) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "version": version},
		bson.M{
			"$set": bson.M{
				"currentOdometerKm":   c.ServiceOdometer,
				"lastServiceDate":     c.ServiceDate,
				"lastServiceOdometer": c.ServiceOdometer,
				"lastServiceType":     c.ServiceTypeLabel,
				"nextServiceDueKm":    c.NextServiceDueKm,
				"nextServiceDueDate":  c.NextServiceDueDate,
				"updatedAt":           time.Now(),
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// FindWarrantyExpiringBy returns vehicles whose warranty ends in
// [now, cutoff]
func (r *MongoVehicleRepository) FindWarrantyExpiringBy(ctx context.Context, now, cutoff time.Time) ([]*entity.VehicleRecord, error) {
	filter := bson.M{
		"hasWarranty":     true,
		"warrantyEndDate": bson.M{"$gte": now, "$lte": cutoff},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return decodeVehicles(ctx, cursor)
}

func decodeVehicles(ctx context.Context, cursor *mongo.Cursor) ([]*entity.VehicleRecord, error) {
	defer cursor.Close(ctx)
	var vehicles []*entity.VehicleRecord
	for cursor.Next(ctx) {
		var v entity.VehicleRecord
		if err := cursor.Decode(&v); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, &v)
	}
	return vehicles, cursor.Err()
}
