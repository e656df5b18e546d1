package api

import (
	"errors"
	"fmt"
	"net/http"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegistrationHandler exposes the two-call registration handshake and the
// operator-facing saga reconciliation endpoints.
type RegistrationHandler struct {
	registrationService service.RegistrationService
	sagaService         service.RegistrationSagaService
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(registrationService service.RegistrationService, sagaService service.RegistrationSagaService) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
		sagaService:         sagaService,
	}
}

// --- DTOs ---

type CompleteRegistrationRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"displayName" binding:"required"`
	Age         int    `json:"age" binding:"required,gt=0"`
	Password    string `json:"password" binding:"required"`
	InviteCode  string `json:"inviteCode" binding:"required"`
}

type CompleteRegistrationResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    *UserResponse `json:"user,omitempty"`
}

// --- Handler Methods ---

// Lookup probes whether a pending registration exists for an email. The
// response carries only the display name and role; absence is a normal
// 200 with exists=false.
func (h *RegistrationHandler) Lookup(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		abortWithError(c, http.StatusBadRequest, "Email is required")
		return
	}

	result, err := h.registrationService.Lookup(c.Request.Context(), email)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to check pending registration")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Complete claims a pending registration: name match, invitation code,
// account creation, user document, pending cleanup.
func (h *RegistrationHandler) Complete(c *gin.Context) {
	var req CompleteRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.registrationService.Complete(c.Request.Context(), service.CompleteRequest{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Age:         req.Age,
		Password:    req.Password,
		InviteCode:  req.InviteCode,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrPendingNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrNameMismatch), errors.Is(err, service.ErrInviteInvalid):
			status = http.StatusConflict
		case errors.Is(err, service.ErrEmailInUse):
			status = http.StatusConflict
		case errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrInvalidEmail):
			status = http.StatusBadRequest
		}
		c.JSON(status, CompleteRegistrationResponse{Success: false, Message: err.Error()})
		return
	}

	resp := MapUserToResponse(user)
	c.JSON(http.StatusCreated, CompleteRegistrationResponse{
		Success: true,
		Message: "Registration completed successfully. You can now sign in.",
		User:    &resp,
	})
}

// ListFailedSagas returns registrations that stopped partway and await an
// operator decision.
func (h *RegistrationHandler) ListFailedSagas(c *gin.Context) {
	sagas, err := h.sagaService.ListFailed(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list registration sagas")
		return
	}
	if sagas == nil {
		sagas = []domain.RegistrationSaga{}
	}
	c.JSON(http.StatusOK, sagas)
}

// ReconcileSaga rolls a failed registration forward or reverts its
// committed steps.
func (h *RegistrationHandler) ReconcileSaga(c *gin.Context) {
	sagaID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid saga ID format")
		return
	}

	saga, err := h.sagaService.Reconcile(c.Request.Context(), sagaID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSagaNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSagaNotReconcilable):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to reconcile registration saga")
		}
		return
	}

	c.JSON(http.StatusOK, saga)
}
