package service

import (
	"context"
	"errors"
	"time"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Default membership length granted when an administrator leaves the end
// date blank.
const defaultMembershipDays = 30

var (
	ErrEmailTaken     = errors.New("a user or pending registration already exists for this email")
	ErrUserNotFound   = errors.New("user not found")
	ErrUserValidation = errors.New("user validation failed")
)

// CreatePendingInput is the administrator's provisioning form.
type CreatePendingInput struct {
	Email           string
	DisplayName     string
	Role            domain.Role
	MembershipType  domain.MembershipType
	MembershipStart time.Time
	MembershipEnd   time.Time
}

// UserService covers the administrator's user-management screens: the
// pending-user provisioning flow and CRUD over completed users.
type UserService interface {
	CreatePendingUser(ctx context.Context, input CreatePendingInput) (*domain.PendingUser, string, error)
	ListPendingUsers(ctx context.Context) ([]domain.PendingUser, error)
	DeletePendingUser(ctx context.Context, email string) error
	ApprovePendingUser(ctx context.Context, email string) (*domain.User, error)

	ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error)
	SetUserActive(ctx context.Context, id primitive.ObjectID, active bool) error
	SetMembershipEnd(ctx context.Context, id primitive.ObjectID, end time.Time) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

type userService struct {
	userRepo    repository.UserRepository
	pendingRepo repository.PendingUserRepository
	inviteTTL   time.Duration
	logger      *zap.Logger
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository, pendingRepo repository.PendingUserRepository, inviteTTL time.Duration, logger *zap.Logger) UserService {
	if inviteTTL <= 0 {
		inviteTTL = 7 * 24 * time.Hour
	}
	return &userService{
		userRepo:    userRepo,
		pendingRepo: pendingRepo,
		inviteTTL:   inviteTTL,
		logger:      logger,
	}
}

// CreatePendingUser provisions an onboarding record and returns the
// single-use invitation code. The code is returned in clear exactly once;
// only its hash is stored.
func (s *userService) CreatePendingUser(ctx context.Context, input CreatePendingInput) (*domain.PendingUser, string, error) {
	if input.Email == "" || input.DisplayName == "" {
		return nil, "", ErrUserValidation
	}
	if input.Role != domain.RoleAdmin && input.Role != domain.RoleMember {
		return nil, "", ErrUserValidation
	}

	// One identity per email, across both collections.
	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	now := time.Now().UTC()
	pending := &domain.PendingUser{
		Email:           input.Email,
		DisplayName:     input.DisplayName,
		Role:            input.Role,
		MembershipType:  input.MembershipType,
		MembershipStart: input.MembershipStart,
		MembershipEnd:   input.MembershipEnd,
	}
	if pending.MembershipType == "" {
		pending.MembershipType = domain.MembershipBasic
	}
	if pending.MembershipStart.IsZero() {
		pending.MembershipStart = now
	}
	if pending.MembershipEnd.IsZero() {
		pending.MembershipEnd = pending.MembershipStart.AddDate(0, 0, defaultMembershipDays)
	}

	inviteCode := uuid.NewString()
	pending.InviteCodeHash = HashInviteCode(inviteCode)
	pending.InviteExpiresAt = now.Add(s.inviteTTL)

	if err := s.pendingRepo.Create(ctx, pending); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	s.logger.Info("pending user created",
		zap.String("email", pending.Email),
		zap.String("role", string(pending.Role)))
	return pending, inviteCode, nil
}

// ListPendingUsers returns all onboarding records awaiting completion.
func (s *userService) ListPendingUsers(ctx context.Context) ([]domain.PendingUser, error) {
	return s.pendingRepo.List(ctx)
}

// DeletePendingUser withdraws an onboarding record.
func (s *userService) DeletePendingUser(ctx context.Context, email string) error {
	err := s.pendingRepo.Delete(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// ApprovePendingUser completes a registration on the user's behalf,
// bypassing the handshake. No credential-store account is created, so the
// resulting user is keyed by a generated ID and cannot sign in until an
// account is provisioned for the email separately.
func (s *userService) ApprovePendingUser(ctx context.Context, email string) (*domain.User, error) {
	pending, err := s.pendingRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user := &domain.User{
		Email:              pending.Email,
		DisplayName:        pending.DisplayName,
		Role:               pending.Role,
		RegistrationStatus: domain.StatusCompleted,
		IsActive:           true,
		MembershipType:     pending.MembershipType,
		MembershipStart:    pending.MembershipStart,
		MembershipEnd:      pending.MembershipEnd,
		CreatedAt:          pending.CreatedAt,
	}
	if user.MembershipType == "" {
		user.MembershipType = domain.MembershipBasic
	}
	if user.MembershipEnd.IsZero() {
		user.MembershipEnd = time.Now().UTC()
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if err := s.pendingRepo.Delete(ctx, email); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("approved user but pending record remains",
			zap.String("email", email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("pending user approved directly", zap.String("email", email))
	return user, nil
}

// ListUsers returns completed users, optionally filtered by role.
func (s *userService) ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error) {
	users, err := s.userRepo.ListByStatus(ctx, domain.StatusCompleted)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return users, nil
	}
	filtered := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.Role == role {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

// SetUserActive toggles the active flag.
func (s *userService) SetUserActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	err := s.userRepo.SetActive(ctx, id, active)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// SetMembershipEnd changes a user's membership expiry date.
func (s *userService) SetMembershipEnd(ctx context.Context, id primitive.ObjectID, end time.Time) error {
	if end.IsZero() {
		return ErrUserValidation
	}
	err := s.userRepo.SetMembershipEnd(ctx, id, end)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// DeleteUser removes a user document. The credential record, if any, is
// left in place; deleting it is an account-store operation with its own
// screen.
func (s *userService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	err := s.userRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
