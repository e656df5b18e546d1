package mongo

import (
	"context"
	"errors"
	"time"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const RoutineCollectionName = "routines"

// mongoRoutineRepository implements repository.RoutineRepository.
type mongoRoutineRepository struct {
	collection *mongo.Collection
}

// NewMongoRoutineRepository creates a routine repository backed by MongoDB.
func NewMongoRoutineRepository(db *mongo.Database) repository.RoutineRepository {
	return &mongoRoutineRepository{
		collection: db.Collection(RoutineCollectionName),
	}
}

// Create inserts a new routine. Embedded exercise snapshots are stored as-is.
func (r *mongoRoutineRepository) Create(ctx context.Context, routine *domain.GymRoutine) (primitive.ObjectID, error) {
	if routine.Name == "" {
		return primitive.NilObjectID, errors.New("routine name is required")
	}

	routine.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	routine.CreatedAt = now
	routine.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, routine)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a routine by its ID.
func (r *mongoRoutineRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GymRoutine, error) {
	var routine domain.GymRoutine
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&routine)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if err := routine.Validate(); err != nil {
		return nil, err
	}
	return &routine, nil
}

// List retrieves all routines, newest first.
func (r *mongoRoutineRepository) List(ctx context.Context) ([]domain.GymRoutine, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var routines []domain.GymRoutine
	if err = cursor.All(ctx, &routines); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return routines, nil
}

// Update replaces a routine's mutable fields, including the full snapshot list.
func (r *mongoRoutineRepository) Update(ctx context.Context, routine *domain.GymRoutine) error {
	if routine.ID == primitive.NilObjectID {
		return errors.New("routine ID is required for update")
	}
	if routine.Name == "" {
		return errors.New("routine name cannot be empty")
	}

	update := bson.M{
		"$set": bson.M{
			"name":              routine.Name,
			"description":       routine.Description,
			"level":             routine.Level,
			"objective":         routine.Objective,
			"estimatedDuration": routine.EstimatedDuration,
			"exercises":         routine.Exercises,
			"isActive":          routine.IsActive,
			"isPublic":          routine.IsPublic,
			"updatedAt":         time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": routine.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a routine.
func (r *mongoRoutineRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Count counts all routines.
func (r *mongoRoutineRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// EnsureRoutineIndexes creates necessary indexes for the routines collection.
func EnsureRoutineIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "isPublic", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
