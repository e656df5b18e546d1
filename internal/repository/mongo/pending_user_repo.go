package mongo

import (
	"context"
	"errors"
	"time"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const PendingUserCollectionName = "pendingUsers"

// mongoPendingUserRepository implements repository.PendingUserRepository.
// Documents are keyed by email, so the _id doubles as the uniqueness
// guarantee of at most one pending record per address.
type mongoPendingUserRepository struct {
	collection *mongo.Collection
}

// NewMongoPendingUserRepository creates a pending-user repository backed by MongoDB.
func NewMongoPendingUserRepository(db *mongo.Database) repository.PendingUserRepository {
	return &mongoPendingUserRepository{
		collection: db.Collection(PendingUserCollectionName),
	}
}

// Create inserts a new pending record keyed by its email.
func (r *mongoPendingUserRepository) Create(ctx context.Context, pending *domain.PendingUser) error {
	if pending.Email == "" || pending.DisplayName == "" || pending.Role == "" {
		return errors.New("pending user email, display name, and role are required")
	}

	now := time.Now().UTC()
	pending.RegistrationStatus = domain.StatusPending
	pending.IsActive = false
	if pending.CreatedAt.IsZero() {
		pending.CreatedAt = now
	}
	pending.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, pending)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByEmail retrieves a pending record by the email it is keyed on.
func (r *mongoPendingUserRepository) GetByEmail(ctx context.Context, email string) (*domain.PendingUser, error) {
	var pending domain.PendingUser
	err := r.collection.FindOne(ctx, bson.M{"_id": email}).Decode(&pending)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if err := pending.Validate(); err != nil {
		return nil, err
	}
	return &pending, nil
}

// List retrieves all pending records, newest first.
func (r *mongoPendingUserRepository) List(ctx context.Context) ([]domain.PendingUser, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pending []domain.PendingUser
	if err = cursor.All(ctx, &pending); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return pending, nil
}

// Delete removes a pending record by email.
func (r *mongoPendingUserRepository) Delete(ctx context.Context, email string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": email})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Count counts all pending records.
func (r *mongoPendingUserRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
