package service

import (
	"context"
	"errors"

	"ironhub/gym-admin/internal/domain"
	"ironhub/gym-admin/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrRoutineNotFound = errors.New("routine not found")
	ErrRoutineInvalid  = errors.New("routine validation failed")
)

// RoutineEntryInput references a live catalog exercise plus the set scheme
// the administrator chose for it.
type RoutineEntryInput struct {
	ExerciseID primitive.ObjectID
	Series     int
	Reps       int
	RestTime   int // seconds
	Order      int
	Notes      string
}

// RoutineInput carries the routine form fields.
type RoutineInput struct {
	Name              string
	Description       string
	Level             domain.Difficulty
	Objective         string
	EstimatedDuration int // minutes
	Entries           []RoutineEntryInput
	IsActive          bool
	IsPublic          bool
	CreatedBy         string
}

// RoutineService manages gym routines. Each entry embeds a snapshot of the
// referenced exercise taken at add time; the snapshot is never re-synced
// against the live catalog afterwards.
type RoutineService interface {
	CreateRoutine(ctx context.Context, input RoutineInput) (*domain.GymRoutine, error)
	GetRoutine(ctx context.Context, id primitive.ObjectID) (*domain.GymRoutine, error)
	ListRoutines(ctx context.Context) ([]domain.GymRoutine, error)
	UpdateRoutine(ctx context.Context, id primitive.ObjectID, input RoutineInput) (*domain.GymRoutine, error)
	DeleteRoutine(ctx context.Context, id primitive.ObjectID) error
}

type routineService struct {
	routineRepo  repository.RoutineRepository
	exerciseRepo repository.ExerciseRepository
	logger       *zap.Logger
}

// NewRoutineService creates a new instance of routineService.
func NewRoutineService(routineRepo repository.RoutineRepository, exerciseRepo repository.ExerciseRepository, logger *zap.Logger) RoutineService {
	return &routineService{
		routineRepo:  routineRepo,
		exerciseRepo: exerciseRepo,
		logger:       logger,
	}
}

func (s *routineService) validateInput(input *RoutineInput) error {
	if input.Name == "" || input.Objective == "" {
		return ErrRoutineInvalid
	}
	switch input.Level {
	case domain.DifficultyBeginner, domain.DifficultyIntermediate, domain.DifficultyAdvanced:
	default:
		return ErrRoutineInvalid
	}
	if input.EstimatedDuration <= 0 {
		input.EstimatedDuration = 60
	}
	return nil
}

// buildSnapshots resolves every referenced exercise and copies the fields
// the routine denormalizes. Unknown exercise IDs reject the whole request;
// once stored, snapshots are allowed to drift from the catalog.
func (s *routineService) buildSnapshots(ctx context.Context, entries []RoutineEntryInput) ([]domain.RoutineExercise, error) {
	snapshots := make([]domain.RoutineExercise, 0, len(entries))
	for i, entry := range entries {
		if entry.ExerciseID == primitive.NilObjectID {
			continue
		}
		exercise, err := s.exerciseRepo.GetByID(ctx, entry.ExerciseID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrExerciseNotFound
			}
			return nil, err
		}

		order := entry.Order
		if order <= 0 {
			order = i + 1
		}
		snapshots = append(snapshots, domain.RoutineExercise{
			ExerciseID:          exercise.ID,
			ExerciseName:        exercise.Name,
			PrimaryMuscleGroups: exercise.PrimaryMuscleGroups,
			Equipment:           exercise.Equipment,
			Difficulty:          exercise.Difficulty,
			Series:              entry.Series,
			Reps:                entry.Reps,
			RestTime:            entry.RestTime,
			Order:               order,
			Notes:               entry.Notes,
		})
	}
	return snapshots, nil
}

// CreateRoutine builds and stores a routine from the form input.
func (s *routineService) CreateRoutine(ctx context.Context, input RoutineInput) (*domain.GymRoutine, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	snapshots, err := s.buildSnapshots(ctx, input.Entries)
	if err != nil {
		return nil, err
	}

	routine := &domain.GymRoutine{
		Name:              input.Name,
		Description:       input.Description,
		Level:             input.Level,
		Objective:         input.Objective,
		EstimatedDuration: input.EstimatedDuration,
		Exercises:         snapshots,
		CreatorType:       domain.CreatorTypeGym,
		CreatedBy:         input.CreatedBy,
		IsActive:          input.IsActive,
		IsPublic:          input.IsPublic,
	}

	id, err := s.routineRepo.Create(ctx, routine)
	if err != nil {
		return nil, err
	}
	routine.ID = id
	return routine, nil
}

// GetRoutine retrieves one routine.
func (s *routineService) GetRoutine(ctx context.Context, id primitive.ObjectID) (*domain.GymRoutine, error) {
	routine, err := s.routineRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	return routine, nil
}

// ListRoutines retrieves all routines.
func (s *routineService) ListRoutines(ctx context.Context) ([]domain.GymRoutine, error) {
	return s.routineRepo.List(ctx)
}

// UpdateRoutine replaces a routine's fields and rebuilds its snapshot list
// from the submitted entries.
func (s *routineService) UpdateRoutine(ctx context.Context, id primitive.ObjectID, input RoutineInput) (*domain.GymRoutine, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	routine, err := s.routineRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}

	snapshots, err := s.buildSnapshots(ctx, input.Entries)
	if err != nil {
		return nil, err
	}

	routine.Name = input.Name
	routine.Description = input.Description
	routine.Level = input.Level
	routine.Objective = input.Objective
	routine.EstimatedDuration = input.EstimatedDuration
	routine.Exercises = snapshots
	routine.IsActive = input.IsActive
	routine.IsPublic = input.IsPublic

	if err := s.routineRepo.Update(ctx, routine); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}
	return routine, nil
}

// DeleteRoutine removes a routine.
func (s *routineService) DeleteRoutine(ctx context.Context, id primitive.ObjectID) error {
	err := s.routineRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRoutineNotFound
	}
	return err
}
