package service

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength mirrors the credential provider's observed policy.
const MinPasswordLength = 6

// --- Error Definitions ---
// These mirror the account-provider error codes the admin panel handles:
// email-already-in-use, weak-password, invalid-email, user-not-found,
// wrong-password, invalid-credential.
var (
	ErrEmailInUse        = errors.New("email is already registered")
	ErrWeakPassword      = errors.New("password must be at least 6 characters")
	ErrInvalidEmail      = errors.New("email address is malformed")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrHashingFailed     = errors.New("failed to hash password")
	ErrTokenGeneration   = errors.New("failed to generate authentication token")
	ErrAdminExists       = errors.New("an administrator account already exists")
)

// AuthService is the credential store: it owns email/password accounts and
// issues session tokens. The account ID it returns is the canonical user key.
type AuthService interface {
	CreateAccount(ctx context.Context, email, password string) (primitive.ObjectID, error)
	DeleteAccount(ctx context.Context, id primitive.ObjectID) error
	SignIn(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	BootstrapAdmin(ctx context.Context, email, password, displayName string) (*domain.User, error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	credRepo      repository.CredentialRepository
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(credRepo repository.CredentialRepository, userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &authService{
		credRepo:      credRepo,
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// CreateAccount registers a new email/password account and returns the
// issued account ID. All policy checks run before any write.
func (s *authService) CreateAccount(ctx context.Context, email, password string) (primitive.ObjectID, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return primitive.NilObjectID, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return primitive.NilObjectID, ErrWeakPassword
	}

	_, err := s.credRepo.GetByEmail(ctx, email)
	if err == nil {
		return primitive.NilObjectID, ErrEmailInUse
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return primitive.NilObjectID, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return primitive.NilObjectID, ErrHashingFailed
	}

	cred := &domain.Credential{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	id, err := s.credRepo.Create(ctx, cred)
	if err != nil {
		// The unique index catches the race between the pre-check and the insert.
		if errors.Is(err, repository.ErrDuplicate) {
			return primitive.NilObjectID, ErrEmailInUse
		}
		return primitive.NilObjectID, err
	}

	return id, nil
}

// DeleteAccount removes an account record. Only saga compensation calls this.
func (s *authService) DeleteAccount(ctx context.Context, id primitive.ObjectID) error {
	err := s.credRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		// Already gone; compensation is idempotent.
		return nil
	}
	return err
}

// SignIn authenticates an email/password pair and returns a session token
// plus the user document keyed by the account ID. A missing user document
// (possible after a partial registration) reports the same generic failure
// as a bad password, matching the provider's invalid-credential behavior.
func (s *authService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredential
	}

	cred, err := s.credRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredential
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredential
	}

	user, err := s.userRepo.GetByID(ctx, cred.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredential
		}
		return "", nil, err
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	return token, user, nil
}

// BootstrapAdmin creates the first administrator: a credential-store account
// plus the user document keyed by it. A fresh deployment has no other path
// to an ADMIN identity, since every provisioning route requires one. The
// operation refuses to run once any administrator exists.
func (s *authService) BootstrapAdmin(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	if displayName == "" {
		return nil, ErrInvalidCredential
	}

	admins, err := s.userRepo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if admins > 0 {
		return nil, ErrAdminExists
	}

	credID, err := s.CreateAccount(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:                 credID,
		Email:              email,
		DisplayName:        displayName,
		Role:               domain.RoleAdmin,
		RegistrationStatus: domain.StatusCompleted,
		IsActive:           true,
		MembershipType:     domain.MembershipBasic,
		MembershipStart:    now,
		MembershipEnd:      now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		// Two writes, no transaction. The credential is removed so a
		// retry starts clean instead of hitting the email-in-use check.
		if delErr := s.credRepo.Delete(ctx, credID); delErr != nil && !errors.Is(delErr, repository.ErrNotFound) {
			return nil, delErr
		}
		return nil, err
	}
	return user, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "gym-admin",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
