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

const SagaCollectionName = "registration_sagas"

// mongoSagaRepository implements repository.SagaRepository.
type mongoSagaRepository struct {
	collection *mongo.Collection
}

// NewMongoSagaRepository creates a saga repository backed by MongoDB.
func NewMongoSagaRepository(db *mongo.Database) repository.SagaRepository {
	return &mongoSagaRepository{
		collection: db.Collection(SagaCollectionName),
	}
}

// Create inserts a new compensation log for one registration attempt.
func (r *mongoSagaRepository) Create(ctx context.Context, saga *domain.RegistrationSaga) (primitive.ObjectID, error) {
	if saga.Email == "" {
		return primitive.NilObjectID, errors.New("saga email is required")
	}

	saga.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	saga.CreatedAt = now
	saga.UpdatedAt = now
	if saga.Status == "" {
		saga.Status = domain.SagaRunning
	}
	if saga.Steps == nil {
		saga.Steps = []domain.SagaStep{}
	}

	result, err := r.collection.InsertOne(ctx, saga)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a saga by its ID.
func (r *mongoSagaRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RegistrationSaga, error) {
	var saga domain.RegistrationSaga
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&saga)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &saga, nil
}

// ListByStatus retrieves sagas in the given state, oldest first so operators
// reconcile in order.
func (r *mongoSagaRepository) ListByStatus(ctx context.Context, status domain.SagaStatus) ([]domain.RegistrationSaga, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"status": status}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sagas []domain.RegistrationSaga
	if err = cursor.All(ctx, &sagas); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return sagas, nil
}

// Update overwrites a saga's steps, status, references and error message.
func (r *mongoSagaRepository) Update(ctx context.Context, saga *domain.RegistrationSaga) error {
	if saga.ID == primitive.NilObjectID {
		return errors.New("saga ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"steps":        saga.Steps,
			"status":       saga.Status,
			"credentialId": saga.CredentialID,
			"userId":       saga.UserID,
			"error":        saga.Error,
			"updatedAt":    time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": saga.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSagaIndexes creates necessary indexes for the registration_sagas collection.
func EnsureSagaIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
