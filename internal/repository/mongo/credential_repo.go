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

const CredentialCollectionName = "credentials"

// mongoCredentialRepository implements repository.CredentialRepository.
type mongoCredentialRepository struct {
	collection *mongo.Collection
}

// NewMongoCredentialRepository creates a credential repository backed by MongoDB.
func NewMongoCredentialRepository(db *mongo.Database) repository.CredentialRepository {
	return &mongoCredentialRepository{
		collection: db.Collection(CredentialCollectionName),
	}
}

// Create inserts a new account record. The generated ID is the canonical
// user key for the rest of the system.
func (r *mongoCredentialRepository) Create(ctx context.Context, cred *domain.Credential) (primitive.ObjectID, error) {
	if cred.Email == "" || cred.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("credential email and password hash are required")
	}

	cred.ID = primitive.NewObjectID()
	cred.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, cred)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByEmail retrieves an account record by its email address.
func (r *mongoCredentialRepository) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	var cred domain.Credential
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&cred)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &cred, nil
}

// Delete removes an account record. Used by saga compensation.
func (r *mongoCredentialRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCredentialIndexes creates necessary indexes for the credentials collection.
func EnsureCredentialIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
