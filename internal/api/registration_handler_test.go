package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubRegistrationService struct {
	lookup      *service.LookupResult
	completed   *domain.User
	completeErr error
	lastReq     service.CompleteRequest
}

func (s *stubRegistrationService) Lookup(_ context.Context, _ string) (*service.LookupResult, error) {
	if s.lookup == nil {
		return &service.LookupResult{Exists: false}, nil
	}
	return s.lookup, nil
}

func (s *stubRegistrationService) Complete(_ context.Context, req service.CompleteRequest) (*domain.User, error) {
	s.lastReq = req
	if s.completeErr != nil {
		return nil, s.completeErr
	}
	return s.completed, nil
}

type stubSagaService struct {
	failed       []domain.RegistrationSaga
	reconciled   *domain.RegistrationSaga
	reconcileErr error
}

func (s *stubSagaService) ListFailed(_ context.Context) ([]domain.RegistrationSaga, error) {
	return s.failed, nil
}

func (s *stubSagaService) Reconcile(_ context.Context, _ primitive.ObjectID) (*domain.RegistrationSaga, error) {
	if s.reconcileErr != nil {
		return nil, s.reconcileErr
	}
	return s.reconciled, nil
}

func newRegistrationRouter(reg *stubRegistrationService, sagas *stubSagaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewRegistrationHandler(reg, sagas)
	router.GET("/api/v1/register/:email", handler.Lookup)
	router.POST("/api/v1/register", handler.Complete)
	return router
}

func TestLookupEndpointAbsentEmail(t *testing.T) {
	router := newRegistrationRouter(&stubRegistrationService{}, &stubSagaService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/register/nobody@gym.test", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body service.LookupResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Exists)
	require.Empty(t, body.DisplayName)
}

func TestLookupEndpointExposesOnlyNameAndRole(t *testing.T) {
	router := newRegistrationRouter(&stubRegistrationService{
		lookup: &service.LookupResult{Exists: true, DisplayName: "Ana Ruiz", Role: domain.RoleMember},
	}, &stubSagaService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/register/ana@gym.test", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Equal(t, true, raw["exists"])
	require.Equal(t, "Ana Ruiz", raw["displayName"])
	require.Equal(t, "MEMBER", raw["role"])
	require.NotContains(t, raw, "membershipEnd")
	require.NotContains(t, raw, "inviteCodeHash")
}

func TestCompleteEndpointStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"pending missing", service.ErrPendingNotFound, http.StatusNotFound},
		{"name mismatch", service.ErrNameMismatch, http.StatusConflict},
		{"invite invalid", service.ErrInviteInvalid, http.StatusConflict},
		{"email in use", service.ErrEmailInUse, http.StatusConflict},
		{"weak password", service.ErrWeakPassword, http.StatusBadRequest},
		{"invalid email", service.ErrInvalidEmail, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newRegistrationRouter(&stubRegistrationService{completeErr: tc.err}, &stubSagaService{})

			body := `{"email":"ana@gym.test","displayName":"Ana Ruiz","age":29,"password":"secret123","inviteCode":"code-1"}`
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(rec, req)

			require.Equal(t, tc.want, rec.Code)
			var resp CompleteRegistrationResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.False(t, resp.Success)
			require.NotEmpty(t, resp.Message)
		})
	}
}

func TestCompleteEndpointSuccess(t *testing.T) {
	user := &domain.User{
		ID:                 primitive.NewObjectID(),
		Email:              "ana@gym.test",
		DisplayName:        "Ana Ruiz",
		Role:               domain.RoleMember,
		RegistrationStatus: domain.StatusCompleted,
		IsActive:           true,
		MembershipType:     domain.MembershipBasic,
	}
	reg := &stubRegistrationService{completed: user}
	router := newRegistrationRouter(reg, &stubSagaService{})

	body := `{"email":"ana@gym.test","displayName":"Ana Ruiz","age":29,"password":"secret123","inviteCode":"code-1"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp CompleteRegistrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.User)
	require.Equal(t, user.ID.Hex(), resp.User.ID)

	require.Equal(t, "ana@gym.test", reg.lastReq.Email)
	require.Equal(t, "code-1", reg.lastReq.InviteCode)
	require.Equal(t, 29, reg.lastReq.Age)
}

func TestCompleteEndpointRejectsMalformedBody(t *testing.T) {
	router := newRegistrationRouter(&stubRegistrationService{}, &stubSagaService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(`{"email":"ana@gym.test"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
