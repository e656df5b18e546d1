package repository

import (
	"context"
	"time"

	"ironhub/gym-admin/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// CredentialRepository manages the credential store's account records.
type CredentialRepository interface {
	Create(ctx context.Context, cred *domain.Credential) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.Credential, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserRepository defines the interface for interacting with completed users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByStatus(ctx context.Context, status domain.RegistrationStatus) ([]domain.User, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	SetMembershipEnd(ctx context.Context, id primitive.ObjectID, end time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// PendingUserRepository manages administrator-provisioned onboarding records,
// keyed by email.
type PendingUserRepository interface {
	Create(ctx context.Context, pending *domain.PendingUser) error
	GetByEmail(ctx context.Context, email string) (*domain.PendingUser, error)
	List(ctx context.Context) ([]domain.PendingUser, error)
	Delete(ctx context.Context, email string) error
	Count(ctx context.Context) (int64, error)
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// RoutineRepository defines the interface for interacting with routine data.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.GymRoutine) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GymRoutine, error)
	List(ctx context.Context) ([]domain.GymRoutine, error)
	Update(ctx context.Context, routine *domain.GymRoutine) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

// SagaRepository persists registration compensation logs.
type SagaRepository interface {
	Create(ctx context.Context, saga *domain.RegistrationSaga) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RegistrationSaga, error)
	ListByStatus(ctx context.Context, status domain.SagaStatus) ([]domain.RegistrationSaga, error)
	Update(ctx context.Context, saga *domain.RegistrationSaga) error
}
