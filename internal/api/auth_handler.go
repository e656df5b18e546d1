package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID                 string                    `json:"id"`
	Email              string                    `json:"email"`
	DisplayName        string                    `json:"displayName"`
	Age                int                       `json:"age,omitempty"`
	Role               domain.Role               `json:"role"`
	RegistrationStatus domain.RegistrationStatus `json:"registrationStatus"`
	IsActive           bool                      `json:"isActive"`
	MembershipType     domain.MembershipType     `json:"membershipType"`
	MembershipStart    time.Time                 `json:"membershipStart"`
	MembershipEnd      time.Time                 `json:"membershipEnd"`
	ProfileImage       string                    `json:"profileImage,omitempty"`
	Phone              string                    `json:"phone,omitempty"`
	CreatedAt          time.Time                 `json:"createdAt"`
	UpdatedAt          time.Time                 `json:"updatedAt"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type BootstrapAdminRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
}

// MapUserToResponse converts a domain.User to UserResponse DTO.
func MapUserToResponse(u *domain.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:                 u.ID.Hex(),
		Email:              u.Email,
		DisplayName:        u.DisplayName,
		Age:                u.Age,
		Role:               u.Role,
		RegistrationStatus: u.RegistrationStatus,
		IsActive:           u.IsActive,
		MembershipType:     u.MembershipType,
		MembershipStart:    u.MembershipStart,
		MembershipEnd:      u.MembershipEnd,
		ProfileImage:       u.ProfileImage,
		Phone:              u.Phone,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

// MapUsersToResponse converts a slice of domain.User to response DTOs.
func MapUsersToResponse(users []domain.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = MapUserToResponse(&users[i])
	}
	return responses
}

// --- Handler Methods ---

// Login authenticates an administrator or member and returns a JWT token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredential) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// BootstrapAdmin creates the first administrator on a fresh deployment.
// Refused with 409 once any administrator exists.
func (h *AuthHandler) BootstrapAdmin(c *gin.Context) {
	var req BootstrapAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.BootstrapAdmin(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminExists), errors.Is(err, service.ErrEmailInUse):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrInvalidEmail):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to bootstrap administrator")
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user))
}
