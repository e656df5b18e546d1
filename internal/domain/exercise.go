package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty levels use the catalog's original Spanish labels; they are wire
// values shared with the member-facing apps, not display strings.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Principiante"
	DifficultyIntermediate Difficulty = "Intermedio"
	DifficultyAdvanced     Difficulty = "Avanzado"
)

// MediaType of an exercise's attached media object.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Exercise represents a single exercise definition in the catalog.
type Exercise struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                  string             `bson:"name" json:"name"`
	PrimaryMuscleGroups   []string           `bson:"primaryMuscleGroups" json:"primaryMuscleGroups"`
	SecondaryMuscleGroups []string           `bson:"secondaryMuscleGroups" json:"secondaryMuscleGroups"`
	Equipment             string             `bson:"equipment" json:"equipment"`
	Difficulty            Difficulty         `bson:"difficulty" json:"difficulty"`
	Description           string             `bson:"description" json:"description"`
	Instructions          string             `bson:"instructions" json:"instructions"`
	Tips                  string             `bson:"tips,omitempty" json:"tips,omitempty"`
	MediaType             MediaType          `bson:"mediaType,omitempty" json:"mediaType,omitempty"`
	MediaURL              string             `bson:"mediaUrl,omitempty" json:"mediaUrl,omitempty"`
	IsActive              bool               `bson:"isActive" json:"isActive"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (e *Exercise) Validate() error {
	switch {
	case e.Name == "":
		return &DecodeError{Collection: "exercises", Field: "name"}
	case e.Difficulty != DifficultyBeginner && e.Difficulty != DifficultyIntermediate && e.Difficulty != DifficultyAdvanced:
		return &DecodeError{Collection: "exercises", Field: "difficulty"}
	}
	return nil
}
