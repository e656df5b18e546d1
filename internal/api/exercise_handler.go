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

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest defines the expected JSON for creating or updating an exercise.
type ExerciseRequest struct {
	Name                  string            `json:"name" binding:"required"`
	PrimaryMuscleGroups   []string          `json:"primaryMuscleGroups" binding:"required"`
	SecondaryMuscleGroups []string          `json:"secondaryMuscleGroups"`
	Equipment             string            `json:"equipment" binding:"required"`
	Difficulty            domain.Difficulty `json:"difficulty" binding:"required,oneof=Principiante Intermedio Avanzado"`
	Description           string            `json:"description" binding:"required"`
	Instructions          string            `json:"instructions" binding:"required"`
	Tips                  string            `json:"tips"`
	IsActive              *bool             `json:"isActive"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID                    string            `json:"id"`
	Name                  string            `json:"name"`
	PrimaryMuscleGroups   []string          `json:"primaryMuscleGroups"`
	SecondaryMuscleGroups []string          `json:"secondaryMuscleGroups"`
	Equipment             string            `json:"equipment"`
	Difficulty            domain.Difficulty `json:"difficulty"`
	Description           string            `json:"description"`
	Instructions          string            `json:"instructions"`
	Tips                  string            `json:"tips,omitempty"`
	MediaType             domain.MediaType  `json:"mediaType,omitempty"`
	MediaURL              string            `json:"mediaUrl,omitempty"`
	IsActive              bool              `json:"isActive"`
	CreatedAt             time.Time         `json:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:                    ex.ID.Hex(),
		Name:                  ex.Name,
		PrimaryMuscleGroups:   ex.PrimaryMuscleGroups,
		SecondaryMuscleGroups: ex.SecondaryMuscleGroups,
		Equipment:             ex.Equipment,
		Difficulty:            ex.Difficulty,
		Description:           ex.Description,
		Instructions:          ex.Instructions,
		Tips:                  ex.Tips,
		MediaType:             ex.MediaType,
		MediaURL:              ex.MediaURL,
		IsActive:              ex.IsActive,
		CreatedAt:             ex.CreatedAt,
		UpdatedAt:             ex.UpdatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to DTOs.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

func (r *ExerciseRequest) toInput() service.ExerciseInput {
	input := service.ExerciseInput{
		Name:                  r.Name,
		PrimaryMuscleGroups:   r.PrimaryMuscleGroups,
		SecondaryMuscleGroups: r.SecondaryMuscleGroups,
		Equipment:             r.Equipment,
		Difficulty:            r.Difficulty,
		Description:           r.Description,
		Instructions:          r.Instructions,
		Tips:                  r.Tips,
		IsActive:              true,
	}
	if r.IsActive != nil {
		input.IsActive = *r.IsActive
	}
	return input
}

// --- Handler Methods ---

// CreateExercise adds a new catalog entry.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrExerciseInvalid) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// ListExercises retrieves the whole catalog.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises.")
		return
	}

	if exercises == nil {
		c.JSON(http.StatusOK, []ExerciseResponse{})
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetExercise retrieves one catalog entry.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise.")
		}
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// UpdateExercise replaces a catalog entry's form fields.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseInvalid):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update exercise.")
		}
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise removes a catalog entry.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete exercise.")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetMediaURL returns a time-bound presigned download link for the
// exercise's attached media.
func (h *ExerciseHandler) GetMediaURL(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	url, err := h.exerciseService.MediaDownloadURL(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound), errors.Is(err, service.ErrNoMedia):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate media URL.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// UploadMedia attaches an image or video to an exercise. Content type and
// the 50MB ceiling are checked before anything is sent to the blob store.
func (h *ExerciseHandler) UploadMedia(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "A 'file' form field is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	exercise, err := h.exerciseService.AttachMedia(c.Request.Context(), id, service.MediaUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrMediaType):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrMediaTooLarge):
			abortWithError(c, http.StatusRequestEntityTooLarge, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to upload media: %v", err))
		}
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}
