package service

import (
	"context"
	"errors"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrSagaNotFound        = errors.New("registration saga not found")
	ErrSagaNotReconcilable = errors.New("only failed sagas can be reconciled")
)

// RegistrationSagaService exposes the compensation log of partial
// registrations and the operation that rolls them forward or back.
type RegistrationSagaService interface {
	ListFailed(ctx context.Context) ([]domain.RegistrationSaga, error)
	Reconcile(ctx context.Context, sagaID primitive.ObjectID) (*domain.RegistrationSaga, error)
}

type registrationSagaService struct {
	sagaRepo    repository.SagaRepository
	pendingRepo repository.PendingUserRepository
	userRepo    repository.UserRepository
	auth        AuthService
	logger      *zap.Logger
}

// NewRegistrationSagaService creates the saga reconciliation service.
func NewRegistrationSagaService(
	sagaRepo repository.SagaRepository,
	pendingRepo repository.PendingUserRepository,
	userRepo repository.UserRepository,
	auth AuthService,
	logger *zap.Logger,
) RegistrationSagaService {
	return &registrationSagaService{
		sagaRepo:    sagaRepo,
		pendingRepo: pendingRepo,
		userRepo:    userRepo,
		auth:        auth,
		logger:      logger,
	}
}

// ListFailed returns sagas awaiting reconciliation, oldest first.
func (s *registrationSagaService) ListFailed(ctx context.Context) ([]domain.RegistrationSaga, error) {
	return s.sagaRepo.ListByStatus(ctx, domain.SagaFailed)
}

// Reconcile resolves a failed registration. When the credential and user
// document both exist and only the pending delete is missing, the saga is
// rolled forward to completion. Any other partial state is reverted:
// committed steps are undone newest-first so the system returns to the
// state before Complete() ran.
func (s *registrationSagaService) Reconcile(ctx context.Context, sagaID primitive.ObjectID) (*domain.RegistrationSaga, error) {
	saga, err := s.sagaRepo.GetByID(ctx, sagaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSagaNotFound
		}
		return nil, err
	}
	if saga.Status != domain.SagaFailed {
		return nil, ErrSagaNotReconcilable
	}

	if saga.HasStep(domain.StepCredentialCreated) && saga.HasStep(domain.StepUserCreated) {
		// Everything durable already exists; finish the pending delete.
		if err := s.pendingRepo.Delete(ctx, saga.Email); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		saga.Steps = append(saga.Steps, domain.StepPendingDeleted)
		saga.Status = domain.SagaCompleted
		saga.Error = ""
		if err := s.sagaRepo.Update(ctx, saga); err != nil {
			return nil, err
		}
		s.logger.Info("saga rolled forward", zap.String("saga", saga.ID.Hex()), zap.String("email", saga.Email))
		return saga, nil
	}

	if saga.HasStep(domain.StepUserCreated) {
		if err := s.userRepo.Delete(ctx, saga.UserID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if saga.HasStep(domain.StepCredentialCreated) {
		if err := s.auth.DeleteAccount(ctx, saga.CredentialID); err != nil {
			return nil, err
		}
	}

	saga.Status = domain.SagaReverted
	if err := s.sagaRepo.Update(ctx, saga); err != nil {
		return nil, err
	}
	s.logger.Info("saga reverted", zap.String("saga", saga.ID.Hex()), zap.String("email", saga.Email))
	return saga, nil
}
