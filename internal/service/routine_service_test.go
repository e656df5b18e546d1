package service

import (
	"context"
	"testing"

	"ironhub/gym-admin/internal/domain"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newRoutineFixture(t *testing.T) (*stubRoutineRepo, *stubExerciseRepo, RoutineService, *domain.Exercise) {
	t.Helper()
	routineRepo := newStubRoutineRepo()
	exerciseRepo := newStubExerciseRepo()
	svc := NewRoutineService(routineRepo, exerciseRepo, zap.NewNop())

	exercise := &domain.Exercise{
		Name:                "Sentadilla",
		PrimaryMuscleGroups: []string{"Cuádriceps", "Glúteos"},
		Equipment:           "Barra",
		Difficulty:          domain.DifficultyAdvanced,
		Description:         "Flexión de rodilla con carga",
		Instructions:        "Baja controlado y sube",
		IsActive:            true,
	}
	id, err := exerciseRepo.Create(context.Background(), exercise)
	require.NoError(t, err)
	exercise.ID = id
	return routineRepo, exerciseRepo, svc, exercise
}

func validRoutineInput(exerciseID primitive.ObjectID) RoutineInput {
	return RoutineInput{
		Name:      "Fuerza de piernas",
		Level:     domain.DifficultyAdvanced,
		Objective: "Fuerza",
		Entries: []RoutineEntryInput{
			{ExerciseID: exerciseID, Series: 5, Reps: 5, RestTime: 180},
		},
		IsActive: true,
		IsPublic: true,
	}
}

func TestCreateRoutineSnapshotsExerciseFields(t *testing.T) {
	_, _, svc, exercise := newRoutineFixture(t)

	routine, err := svc.CreateRoutine(context.Background(), validRoutineInput(exercise.ID))
	require.NoError(t, err)
	require.Equal(t, domain.CreatorTypeGym, routine.CreatorType)
	require.Len(t, routine.Exercises, 1)

	snap := routine.Exercises[0]
	require.Equal(t, exercise.ID, snap.ExerciseID)
	require.Equal(t, "Sentadilla", snap.ExerciseName)
	require.Equal(t, []string{"Cuádriceps", "Glúteos"}, snap.PrimaryMuscleGroups)
	require.Equal(t, "Barra", snap.Equipment)
	require.Equal(t, domain.DifficultyAdvanced, snap.Difficulty)
	require.Equal(t, 5, snap.Series)
	require.Equal(t, 1, snap.Order)
}

func TestCreateRoutineDefaultsDuration(t *testing.T) {
	_, _, svc, exercise := newRoutineFixture(t)

	input := validRoutineInput(exercise.ID)
	input.EstimatedDuration = 0
	routine, err := svc.CreateRoutine(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, 60, routine.EstimatedDuration)
}

func TestCreateRoutineRejectsUnknownExercise(t *testing.T) {
	routineRepo, _, svc, _ := newRoutineFixture(t)

	input := validRoutineInput(primitive.NewObjectID())
	_, err := svc.CreateRoutine(context.Background(), input)
	require.ErrorIs(t, err, ErrExerciseNotFound)

	routines, err := routineRepo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, routines)
}

func TestCreateRoutineSkipsNilEntries(t *testing.T) {
	_, _, svc, exercise := newRoutineFixture(t)

	input := validRoutineInput(exercise.ID)
	input.Entries = append([]RoutineEntryInput{{ExerciseID: primitive.NilObjectID}}, input.Entries...)
	routine, err := svc.CreateRoutine(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, routine.Exercises, 1)
}

func TestSnapshotsDriftFromCatalog(t *testing.T) {
	routineRepo, exerciseRepo, svc, exercise := newRoutineFixture(t)

	routine, err := svc.CreateRoutine(context.Background(), validRoutineInput(exercise.ID))
	require.NoError(t, err)

	// Rename the catalog entry after the snapshot was taken.
	exercise.Name = "Sentadilla frontal"
	require.NoError(t, exerciseRepo.Update(context.Background(), exercise))

	stored, err := routineRepo.GetByID(context.Background(), routine.ID)
	require.NoError(t, err)
	require.Equal(t, "Sentadilla", stored.Exercises[0].ExerciseName)
}

func TestUpdateRoutineRebuildsSnapshots(t *testing.T) {
	_, exerciseRepo, svc, exercise := newRoutineFixture(t)

	routine, err := svc.CreateRoutine(context.Background(), validRoutineInput(exercise.ID))
	require.NoError(t, err)

	second := &domain.Exercise{
		Name:                "Peso muerto",
		PrimaryMuscleGroups: []string{"Isquiotibiales"},
		Equipment:           "Barra",
		Difficulty:          domain.DifficultyAdvanced,
		Description:         "Bisagra de cadera",
		Instructions:        "Mantén la espalda neutra",
		IsActive:            true,
	}
	secondID, err := exerciseRepo.Create(context.Background(), second)
	require.NoError(t, err)

	input := validRoutineInput(exercise.ID)
	input.Entries = []RoutineEntryInput{
		{ExerciseID: secondID, Series: 3, Reps: 8, RestTime: 120},
	}
	updated, err := svc.UpdateRoutine(context.Background(), routine.ID, input)
	require.NoError(t, err)
	require.Len(t, updated.Exercises, 1)
	require.Equal(t, "Peso muerto", updated.Exercises[0].ExerciseName)
}

func TestRoutineValidation(t *testing.T) {
	_, _, svc, exercise := newRoutineFixture(t)

	input := validRoutineInput(exercise.ID)
	input.Objective = ""
	_, err := svc.CreateRoutine(context.Background(), input)
	require.ErrorIs(t, err, ErrRoutineInvalid)

	input = validRoutineInput(exercise.ID)
	input.Level = domain.Difficulty("Elite")
	_, err = svc.CreateRoutine(context.Background(), input)
	require.ErrorIs(t, err, ErrRoutineInvalid)
}
