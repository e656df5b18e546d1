package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SagaStep names one committed external write of the registration sequence.
type SagaStep string

const (
	StepCredentialCreated SagaStep = "credential_created"
	StepUserCreated       SagaStep = "user_created"
	StepPendingDeleted    SagaStep = "pending_deleted"
)

// SagaStatus is the lifecycle of one registration attempt's compensation log.
type SagaStatus string

const (
	SagaRunning   SagaStatus = "RUNNING"
	SagaCompleted SagaStatus = "COMPLETED"
	SagaFailed    SagaStatus = "FAILED"
	SagaReverted  SagaStatus = "REVERTED"
)

// RegistrationSaga records which steps of a Complete() call committed, so a
// failure partway through can later be rolled forward or fully reverted.
// The credential create, user create and pending delete are three separate
// round trips with no transaction across them.
type RegistrationSaga struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Steps        []SagaStep         `bson:"steps" json:"steps"`
	CredentialID primitive.ObjectID `bson:"credentialId,omitempty" json:"credentialId,omitempty"`
	UserID       primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Status       SagaStatus         `bson:"status" json:"status"`
	Error        string             `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasStep reports whether the given step already committed.
func (s *RegistrationSaga) HasStep(step SagaStep) bool {
	for _, committed := range s.Steps {
		if committed == step {
			return true
		}
	}
	return false
}
