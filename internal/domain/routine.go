package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreatorTypeGym marks routines authored through the admin panel.
const CreatorTypeGym = "GYM"

// RoutineExercise is a denormalized snapshot of an Exercise taken at the
// moment it was added to a routine. It deliberately does not track the live
// catalog entry afterwards; the two may drift.
type RoutineExercise struct {
	ExerciseID          primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	ExerciseName        string             `bson:"exerciseName" json:"exerciseName"`
	PrimaryMuscleGroups []string           `bson:"primaryMuscleGroups" json:"primaryMuscleGroups"`
	Equipment           string             `bson:"equipment" json:"equipment"`
	Difficulty          Difficulty         `bson:"difficulty" json:"difficulty"`
	Series              int                `bson:"series" json:"series"`
	Reps                int                `bson:"reps" json:"reps"`
	RestTime            int                `bson:"restTime" json:"restTime"` // seconds
	Order               int                `bson:"order" json:"order"`
	Notes               string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// GymRoutine is a workout routine built from exercise snapshots.
type GymRoutine struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Description       string             `bson:"description" json:"description"`
	Level             Difficulty         `bson:"level" json:"level"`
	Objective         string             `bson:"objective" json:"objective"`
	EstimatedDuration int                `bson:"estimatedDuration" json:"estimatedDuration"` // minutes
	Exercises         []RoutineExercise  `bson:"exercises" json:"exercises"`
	CreatorType       string             `bson:"creatorType" json:"creatorType"`
	CreatedBy         string             `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	IsActive          bool               `bson:"isActive" json:"isActive"`
	IsPublic          bool               `bson:"isPublic" json:"isPublic"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (r *GymRoutine) Validate() error {
	switch {
	case r.Name == "":
		return &DecodeError{Collection: "routines", Field: "name"}
	case r.Level != DifficultyBeginner && r.Level != DifficultyIntermediate && r.Level != DifficultyAdvanced:
		return &DecodeError{Collection: "routines", Field: "level"}
	}
	return nil
}
