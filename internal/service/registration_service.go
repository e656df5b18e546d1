package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/repository"

	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrPendingNotFound = errors.New("no pending registration exists for this email; contact an administrator")
	ErrNameMismatch    = errors.New("the name does not match the pending registration; it must be entered exactly as provisioned")
	ErrInviteInvalid   = errors.New("the invitation code is invalid or has expired")
	ErrRegistration    = errors.New("registration could not be completed")
)

// LookupResult is the deliberately narrow read-only probe of a pending
// registration. It never carries membership dates, timestamps or internal
// identifiers: the caller is unauthenticated.
type LookupResult struct {
	Exists      bool        `json:"exists"`
	DisplayName string      `json:"displayName,omitempty"`
	Role        domain.Role `json:"role,omitempty"`
}

// CompleteRequest carries the end user's side of the registration handshake.
type CompleteRequest struct {
	Email       string
	DisplayName string
	Age         int
	Password    string
	InviteCode  string
}

// RegistrationService converts an admin-provisioned pending record into a
// fully authenticated, active user.
type RegistrationService interface {
	Lookup(ctx context.Context, email string) (*LookupResult, error)
	Complete(ctx context.Context, req CompleteRequest) (*domain.User, error)
}

type registrationService struct {
	pendingRepo repository.PendingUserRepository
	userRepo    repository.UserRepository
	sagaRepo    repository.SagaRepository
	auth        AuthService
	logger      *zap.Logger
}

// NewRegistrationService creates a new registration handshake service.
func NewRegistrationService(
	pendingRepo repository.PendingUserRepository,
	userRepo repository.UserRepository,
	sagaRepo repository.SagaRepository,
	auth AuthService,
	logger *zap.Logger,
) RegistrationService {
	return &registrationService{
		pendingRepo: pendingRepo,
		userRepo:    userRepo,
		sagaRepo:    sagaRepo,
		auth:        auth,
		logger:      logger,
	}
}

// HashInviteCode produces the stored form of an invitation code. Only the
// hash is persisted; the clear code is shown to the administrator once.
func HashInviteCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func inviteCodeMatches(code, storedHash string) bool {
	computed := HashInviteCode(code)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

// Lookup probes whether a pending registration exists for the email.
// Absence is a normal negative result, not an error.
func (s *registrationService) Lookup(ctx context.Context, email string) (*LookupResult, error) {
	pending, err := s.pendingRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &LookupResult{Exists: false}, nil
		}
		return nil, err
	}
	return &LookupResult{
		Exists:      true,
		DisplayName: pending.DisplayName,
		Role:        pending.Role,
	}, nil
}

// Complete claims a pending registration. The sequence is:
//
//  1. re-fetch the pending record
//  2. byte-exact display-name match
//  3. invitation code check (single-use, time-bound)
//  4. create a credential-store account
//  5. create the user document keyed by the new account ID
//  6. delete the pending record
//
// Steps 4-6 are separate network round trips with no transaction across
// them. Each committed step is recorded in a saga document so a failure
// partway through can later be reconciled; see RegistrationSagaService.
func (s *registrationService) Complete(ctx context.Context, req CompleteRequest) (*domain.User, error) {
	pending, err := s.pendingRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPendingNotFound
		}
		return nil, err
	}

	// The exact-match check is intentionally case-sensitive.
	if pending.DisplayName != req.DisplayName {
		return nil, ErrNameMismatch
	}

	now := time.Now().UTC()
	if !inviteCodeMatches(req.InviteCode, pending.InviteCodeHash) || now.After(pending.InviteExpiresAt) {
		return nil, ErrInviteInvalid
	}

	credID, err := s.auth.CreateAccount(ctx, req.Email, req.Password)
	if err != nil {
		// Policy failures commit nothing, so no compensation log is opened.
		return nil, err
	}

	// The saga opens with the first durable write already recorded. If the
	// log itself cannot be written the credential is removed again: a
	// committed write without a compensation entry could never be reconciled.
	saga := &domain.RegistrationSaga{
		Email:        req.Email,
		Status:       domain.SagaRunning,
		CredentialID: credID,
		Steps:        []domain.SagaStep{domain.StepCredentialCreated},
	}
	if saga.ID, err = s.sagaRepo.Create(ctx, saga); err != nil {
		if delErr := s.auth.DeleteAccount(ctx, credID); delErr != nil {
			s.logger.Error("registration left a credential with no saga log",
				zap.String("email", req.Email), zap.Error(delErr))
		}
		return nil, err
	}

	user := &domain.User{
		ID:                 credID,
		Email:              req.Email,
		DisplayName:        req.DisplayName,
		Age:                req.Age,
		Role:               pending.Role,
		RegistrationStatus: domain.StatusCompleted,
		IsActive:           true,
		MembershipType:     pending.MembershipType,
		MembershipStart:    pending.MembershipStart,
		MembershipEnd:      pending.MembershipEnd,
		CreatedAt:          pending.CreatedAt,
		UpdatedAt:          now,
	}
	if user.MembershipType == "" {
		user.MembershipType = domain.MembershipBasic
	}

	if _, err = s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("registration left a credential without a user document",
			zap.String("email", req.Email),
			zap.String("saga", saga.ID.Hex()),
			zap.Error(err))
		s.failSaga(ctx, saga, err)
		return nil, ErrRegistration
	}
	saga.UserID = user.ID
	s.commitStep(ctx, saga, domain.StepUserCreated)

	if err = s.pendingRepo.Delete(ctx, req.Email); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("registration completed but pending record remains",
			zap.String("email", req.Email),
			zap.String("saga", saga.ID.Hex()),
			zap.Error(err))
		s.failSaga(ctx, saga, err)
		return nil, ErrRegistration
	}
	s.commitStep(ctx, saga, domain.StepPendingDeleted)

	saga.Status = domain.SagaCompleted
	if err := s.sagaRepo.Update(ctx, saga); err != nil {
		s.logger.Warn("failed to close registration saga", zap.String("saga", saga.ID.Hex()), zap.Error(err))
	}

	s.logger.Info("registration completed",
		zap.String("email", req.Email),
		zap.String("userId", user.ID.Hex()))
	return user, nil
}

func (s *registrationService) commitStep(ctx context.Context, saga *domain.RegistrationSaga, step domain.SagaStep) {
	saga.Steps = append(saga.Steps, step)
	if err := s.sagaRepo.Update(ctx, saga); err != nil {
		// The step itself committed; a stale saga log only degrades later
		// reconciliation, so the sequence continues.
		s.logger.Warn("failed to record saga step",
			zap.String("saga", saga.ID.Hex()),
			zap.String("step", string(step)),
			zap.Error(err))
	}
}

func (s *registrationService) failSaga(ctx context.Context, saga *domain.RegistrationSaga, cause error) {
	saga.Status = domain.SagaFailed
	saga.Error = cause.Error()
	if err := s.sagaRepo.Update(ctx, saga); err != nil {
		s.logger.Error("failed to mark saga as failed", zap.String("saga", saga.ID.Hex()), zap.Error(err))
	}
}
