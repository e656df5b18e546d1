package api

import (
	"errors"
	"net/http"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineHandler holds the routine service dependency.
type RoutineHandler struct {
	routineService service.RoutineService
}

// NewRoutineHandler creates a new RoutineHandler.
func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

// --- DTOs for API (Data Transfer Objects) ---

// RoutineEntryRequest references a catalog exercise by hex ID plus the set
// scheme chosen for it.
type RoutineEntryRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required"`
	Series     int    `json:"series" binding:"required,gt=0"`
	Reps       int    `json:"reps" binding:"required,gt=0"`
	RestTime   int    `json:"restTime" binding:"gte=0"`
	Order      int    `json:"order"`
	Notes      string `json:"notes"`
}

// RoutineRequest defines the expected JSON for creating or updating a routine.
type RoutineRequest struct {
	Name              string                `json:"name" binding:"required"`
	Description       string                `json:"description"`
	Level             domain.Difficulty     `json:"level" binding:"required,oneof=Principiante Intermedio Avanzado"`
	Objective         string                `json:"objective" binding:"required"`
	EstimatedDuration int                   `json:"estimatedDuration"`
	Exercises         []RoutineEntryRequest `json:"exercises"`
	IsActive          *bool                 `json:"isActive"`
	IsPublic          *bool                 `json:"isPublic"`
}

func (r *RoutineRequest) toInput(createdBy string) (service.RoutineInput, error) {
	entries := make([]service.RoutineEntryInput, 0, len(r.Exercises))
	for _, e := range r.Exercises {
		exerciseID, err := primitive.ObjectIDFromHex(e.ExerciseID)
		if err != nil {
			return service.RoutineInput{}, err
		}
		entries = append(entries, service.RoutineEntryInput{
			ExerciseID: exerciseID,
			Series:     e.Series,
			Reps:       e.Reps,
			RestTime:   e.RestTime,
			Order:      e.Order,
			Notes:      e.Notes,
		})
	}

	input := service.RoutineInput{
		Name:              r.Name,
		Description:       r.Description,
		Level:             r.Level,
		Objective:         r.Objective,
		EstimatedDuration: r.EstimatedDuration,
		Entries:           entries,
		IsActive:          true,
		IsPublic:          true,
		CreatedBy:         createdBy,
	}
	if r.IsActive != nil {
		input.IsActive = *r.IsActive
	}
	if r.IsPublic != nil {
		input.IsPublic = *r.IsPublic
	}
	return input, nil
}

// --- Handler Methods ---

// CreateRoutine builds a routine from the submitted entries.
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	var req RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	adminID, _ := getUserIDFromContext(c)
	input, err := req.toInput(adminID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format in routine entries")
		return
	}

	routine, err := h.routineService.CreateRoutine(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoutineInvalid):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusBadRequest, "Routine references an unknown exercise")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create routine.")
		}
		return
	}

	c.JSON(http.StatusCreated, routine)
}

// ListRoutines retrieves all routines.
func (h *RoutineHandler) ListRoutines(c *gin.Context) {
	routines, err := h.routineService.ListRoutines(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve routines.")
		return
	}

	if routines == nil {
		c.JSON(http.StatusOK, []domain.GymRoutine{})
		return
	}
	c.JSON(http.StatusOK, routines)
}

// GetRoutine retrieves one routine.
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID format")
		return
	}

	routine, err := h.routineService.GetRoutine(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRoutineNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve routine.")
		}
		return
	}

	c.JSON(http.StatusOK, routine)
}

// UpdateRoutine replaces a routine's fields and rebuilds its entry snapshots.
func (h *RoutineHandler) UpdateRoutine(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID format")
		return
	}

	var req RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	adminID, _ := getUserIDFromContext(c)
	input, err := req.toInput(adminID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format in routine entries")
		return
	}

	routine, err := h.routineService.UpdateRoutine(c.Request.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoutineNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRoutineInvalid):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusBadRequest, "Routine references an unknown exercise")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update routine.")
		}
		return
	}

	c.JSON(http.StatusOK, routine)
}

// DeleteRoutine removes a routine.
func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID format")
		return
	}

	if err := h.routineService.DeleteRoutine(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrRoutineNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete routine.")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
