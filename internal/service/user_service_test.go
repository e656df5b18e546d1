package service

import (
	"context"
	"testing"
	"time"

	"ironhub/gym-admin/internal/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserFixture() (*stubUserRepo, *stubPendingRepo, UserService) {
	userRepo := newStubUserRepo()
	pendingRepo := newStubPendingRepo()
	svc := NewUserService(userRepo, pendingRepo, 7*24*time.Hour, zap.NewNop())
	return userRepo, pendingRepo, svc
}

func TestCreatePendingUserDefaults(t *testing.T) {
	_, _, svc := newUserFixture()

	before := time.Now().UTC()
	pending, code, err := svc.CreatePendingUser(context.Background(), CreatePendingInput{
		Email:       "ana@gym.test",
		DisplayName: "Ana Ruiz",
		Role:        domain.RoleMember,
	})
	require.NoError(t, err)
	require.NotEmpty(t, code)

	require.Equal(t, domain.MembershipBasic, pending.MembershipType)
	require.False(t, pending.MembershipStart.Before(before.Add(-time.Second)))
	require.Equal(t, pending.MembershipStart.AddDate(0, 0, 30), pending.MembershipEnd)

	// Only the hash of the code is stored, with a validity window attached.
	require.Equal(t, HashInviteCode(code), pending.InviteCodeHash)
	require.NotEqual(t, code, pending.InviteCodeHash)
	require.True(t, pending.InviteExpiresAt.After(before.Add(6*24*time.Hour)))
}

func TestCreatePendingUserValidation(t *testing.T) {
	_, _, svc := newUserFixture()

	_, _, err := svc.CreatePendingUser(context.Background(), CreatePendingInput{
		DisplayName: "Ana Ruiz",
		Role:        domain.RoleMember,
	})
	require.ErrorIs(t, err, ErrUserValidation)

	_, _, err = svc.CreatePendingUser(context.Background(), CreatePendingInput{
		Email:       "ana@gym.test",
		DisplayName: "Ana Ruiz",
		Role:        domain.Role("COACH"),
	})
	require.ErrorIs(t, err, ErrUserValidation)
}

func TestCreatePendingUserRejectsExistingIdentity(t *testing.T) {
	userRepo, _, svc := newUserFixture()

	_, err := userRepo.Create(context.Background(), &domain.User{
		Email:              "ana@gym.test",
		DisplayName:        "Ana Ruiz",
		Role:               domain.RoleMember,
		RegistrationStatus: domain.StatusCompleted,
	})
	require.NoError(t, err)

	_, _, err = svc.CreatePendingUser(context.Background(), CreatePendingInput{
		Email:       "ana@gym.test",
		DisplayName: "Ana Ruiz",
		Role:        domain.RoleMember,
	})
	require.ErrorIs(t, err, ErrEmailTaken)

	// Same rule against a second pending record for the address.
	_, _, err = svc.CreatePendingUser(context.Background(), CreatePendingInput{
		Email:       "bob@gym.test",
		DisplayName: "Bob Smith",
		Role:        domain.RoleMember,
	})
	require.NoError(t, err)
	_, _, err = svc.CreatePendingUser(context.Background(), CreatePendingInput{
		Email:       "bob@gym.test",
		DisplayName: "Bob Smith",
		Role:        domain.RoleMember,
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestApprovePendingUserBypassesHandshake(t *testing.T) {
	userRepo, pendingRepo, svc := newUserFixture()
	seedPending(t, pendingRepo, "ana@gym.test", "Ana Ruiz", "code-1")

	user, err := svc.ApprovePendingUser(context.Background(), "ana@gym.test")
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, user.RegistrationStatus)
	require.True(t, user.IsActive)
	require.False(t, user.ID.IsZero())

	_, err = pendingRepo.GetByEmail(context.Background(), "ana@gym.test")
	require.Error(t, err)

	stored, err := userRepo.GetByEmail(context.Background(), "ana@gym.test")
	require.NoError(t, err)
	require.Equal(t, "Ana Ruiz", stored.DisplayName)
}

func TestApprovePendingUserUnknownEmail(t *testing.T) {
	_, _, svc := newUserFixture()

	_, err := svc.ApprovePendingUser(context.Background(), "nobody@gym.test")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsersFiltersByRoleAndStatus(t *testing.T) {
	userRepo, _, svc := newUserFixture()

	seedUser := func(email string, role domain.Role, status domain.RegistrationStatus) {
		_, err := userRepo.Create(context.Background(), &domain.User{
			Email:              email,
			DisplayName:        email,
			Role:               role,
			RegistrationStatus: status,
		})
		require.NoError(t, err)
	}
	seedUser("admin@gym.test", domain.RoleAdmin, domain.StatusCompleted)
	seedUser("member@gym.test", domain.RoleMember, domain.StatusCompleted)
	seedUser("ghost@gym.test", domain.RoleMember, domain.StatusInactive)

	all, err := svc.ListUsers(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	members, err := svc.ListUsers(context.Background(), domain.RoleMember)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, "member@gym.test", members[0].Email)
}

func TestSetMembershipEndRejectsZeroTime(t *testing.T) {
	userRepo, _, svc := newUserFixture()

	id, err := userRepo.Create(context.Background(), &domain.User{
		Email:              "ana@gym.test",
		DisplayName:        "Ana Ruiz",
		Role:               domain.RoleMember,
		RegistrationStatus: domain.StatusCompleted,
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.SetMembershipEnd(context.Background(), id, time.Time{}), ErrUserValidation)

	end := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SetMembershipEnd(context.Background(), id, end))

	stored, err := userRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, end, stored.MembershipEnd)
}

func TestSetUserActiveUnknownUser(t *testing.T) {
	userRepo, _, svc := newUserFixture()

	id, err := userRepo.Create(context.Background(), &domain.User{
		Email:              "ana@gym.test",
		DisplayName:        "Ana Ruiz",
		Role:               domain.RoleMember,
		RegistrationStatus: domain.StatusCompleted,
		IsActive:           true,
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetUserActive(context.Background(), id, false))
	stored, err := userRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.False(t, stored.IsActive)

	require.NoError(t, svc.DeleteUser(context.Background(), id))
	require.ErrorIs(t, svc.SetUserActive(context.Background(), id, true), ErrUserNotFound)
}
