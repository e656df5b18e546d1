package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler holds the user-management service dependency.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// --- DTOs ---

type CreatePendingUserRequest struct {
	Email           string                `json:"email" binding:"required,email"`
	DisplayName     string                `json:"displayName" binding:"required"`
	Role            domain.Role           `json:"role" binding:"required,oneof=ADMIN MEMBER"`
	MembershipType  domain.MembershipType `json:"membershipType" binding:"omitempty,oneof=basic premium vip"`
	MembershipStart *time.Time            `json:"membershipStart"`
	MembershipEnd   *time.Time            `json:"membershipEnd"`
}

type PendingUserResponse struct {
	Email              string                    `json:"email"`
	DisplayName        string                    `json:"displayName"`
	Role               domain.Role               `json:"role"`
	RegistrationStatus domain.RegistrationStatus `json:"registrationStatus"`
	IsActive           bool                      `json:"isActive"`
	MembershipType     domain.MembershipType     `json:"membershipType"`
	MembershipStart    time.Time                 `json:"membershipStart"`
	MembershipEnd      time.Time                 `json:"membershipEnd"`
	CreatedAt          time.Time                 `json:"createdAt"`
}

// CreatePendingUserResponse carries the invitation code; this is the only
// place it ever appears in clear.
type CreatePendingUserResponse struct {
	PendingUser PendingUserResponse `json:"pendingUser"`
	InviteCode  string              `json:"inviteCode"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

type SetMembershipEndRequest struct {
	MembershipEnd time.Time `json:"membershipEnd" binding:"required"`
}

// MapPendingUserToResponse converts a domain.PendingUser to its DTO.
// Invitation data is deliberately excluded.
func MapPendingUserToResponse(p *domain.PendingUser) PendingUserResponse {
	if p == nil {
		return PendingUserResponse{}
	}
	return PendingUserResponse{
		Email:              p.Email,
		DisplayName:        p.DisplayName,
		Role:               p.Role,
		RegistrationStatus: p.RegistrationStatus,
		IsActive:           p.IsActive,
		MembershipType:     p.MembershipType,
		MembershipStart:    p.MembershipStart,
		MembershipEnd:      p.MembershipEnd,
		CreatedAt:          p.CreatedAt,
	}
}

// --- Pending user handlers ---

// CreatePendingUser provisions an onboarding record and returns the
// single-use invitation code.
func (h *UserHandler) CreatePendingUser(c *gin.Context) {
	var req CreatePendingUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	input := service.CreatePendingInput{
		Email:          req.Email,
		DisplayName:    req.DisplayName,
		Role:           req.Role,
		MembershipType: req.MembershipType,
	}
	if req.MembershipStart != nil {
		input.MembershipStart = *req.MembershipStart
	}
	if req.MembershipEnd != nil {
		input.MembershipEnd = *req.MembershipEnd
	}

	pending, inviteCode, err := h.userService.CreatePendingUser(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrUserValidation):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create pending user")
		}
		return
	}

	c.JSON(http.StatusCreated, CreatePendingUserResponse{
		PendingUser: MapPendingUserToResponse(pending),
		InviteCode:  inviteCode,
	})
}

// ListPendingUsers returns all onboarding records.
func (h *UserHandler) ListPendingUsers(c *gin.Context) {
	pending, err := h.userService.ListPendingUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list pending users")
		return
	}

	responses := make([]PendingUserResponse, len(pending))
	for i := range pending {
		responses[i] = MapPendingUserToResponse(&pending[i])
	}
	c.JSON(http.StatusOK, responses)
}

// ApprovePendingUser completes a registration on the user's behalf.
func (h *UserHandler) ApprovePendingUser(c *gin.Context) {
	email := c.Param("email")

	user, err := h.userService.ApprovePendingUser(c.Request.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to approve pending user")
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// DeletePendingUser withdraws an onboarding record.
func (h *UserHandler) DeletePendingUser(c *gin.Context) {
	email := c.Param("email")

	if err := h.userService.DeletePendingUser(c.Request.Context(), email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete pending user")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Completed user handlers ---

// ListUsers returns completed users, optionally filtered with ?role=.
func (h *UserHandler) ListUsers(c *gin.Context) {
	role := domain.Role(c.Query("role"))
	if role != "" && role != domain.RoleAdmin && role != domain.RoleMember {
		abortWithError(c, http.StatusBadRequest, "Invalid role filter")
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), role)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, MapUsersToResponse(users))
}

// SetUserActive toggles a user's active flag.
func (h *UserHandler) SetUserActive(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.userService.SetUserActive(c.Request.Context(), id, *req.IsActive); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update user status")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// SetMembershipEnd changes a user's membership expiry date.
func (h *UserHandler) SetMembershipEnd(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req SetMembershipEndRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.userService.SetMembershipEnd(c.Request.Context(), id, req.MembershipEnd); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrUserValidation):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update membership")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteUser removes a user document.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete user")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
