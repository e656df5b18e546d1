package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// RegistrationStatus tracks where an account is in the onboarding flow.
type RegistrationStatus string

const (
	StatusPending   RegistrationStatus = "PENDING"
	StatusCompleted RegistrationStatus = "COMPLETED"
	StatusInactive  RegistrationStatus = "INACTIVE"
)

// MembershipType is the gym's membership tier.
type MembershipType string

const (
	MembershipBasic   MembershipType = "basic"
	MembershipPremium MembershipType = "premium"
	MembershipVIP     MembershipType = "vip"
)

// Credential is an account record in the credentials collection. Its ID is
// the canonical key for the users collection.
type Credential struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"` // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// User represents a fully registered gym member or administrator.
// Keyed by the credential ID issued when the account was created; users
// approved directly by an administrator get a generated ID instead (they
// have no credential until one is provisioned separately).
type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email              string             `bson:"email" json:"email"` // Should be unique
	DisplayName        string             `bson:"displayName" json:"displayName"`
	Age                int                `bson:"age,omitempty" json:"age,omitempty"`
	Role               Role               `bson:"role" json:"role"`
	RegistrationStatus RegistrationStatus `bson:"registrationStatus" json:"registrationStatus"`
	IsActive           bool               `bson:"isActive" json:"isActive"`
	MembershipType     MembershipType     `bson:"membershipType" json:"membershipType"`
	MembershipStart    time.Time          `bson:"membershipStart" json:"membershipStart"`
	MembershipEnd      time.Time          `bson:"membershipEnd" json:"membershipEnd"`
	ProfileImage       string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Phone              string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate checks that a decoded User document carries the fields the rest
// of the system relies on.
func (u *User) Validate() error {
	switch {
	case u.Email == "":
		return &DecodeError{Collection: "users", Field: "email"}
	case u.DisplayName == "":
		return &DecodeError{Collection: "users", Field: "displayName"}
	case u.Role != RoleAdmin && u.Role != RoleMember:
		return &DecodeError{Collection: "users", Field: "role"}
	case u.RegistrationStatus == "":
		return &DecodeError{Collection: "users", Field: "registrationStatus"}
	}
	return nil
}

// PendingUser is an administrator-provisioned account record awaiting
// self-service completion. Keyed by email: at most one per address.
type PendingUser struct {
	Email              string             `bson:"_id" json:"email"`
	DisplayName        string             `bson:"displayName" json:"displayName"`
	Role               Role               `bson:"role" json:"role"`
	RegistrationStatus RegistrationStatus `bson:"registrationStatus" json:"registrationStatus"`
	IsActive           bool               `bson:"isActive" json:"isActive"` // always false while pending
	MembershipType     MembershipType     `bson:"membershipType" json:"membershipType"`
	MembershipStart    time.Time          `bson:"membershipStart" json:"membershipStart"`
	MembershipEnd      time.Time          `bson:"membershipEnd" json:"membershipEnd"`
	InviteCodeHash     string             `bson:"inviteCodeHash" json:"-"`
	InviteExpiresAt    time.Time          `bson:"inviteExpiresAt" json:"-"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (p *PendingUser) Validate() error {
	switch {
	case p.Email == "":
		return &DecodeError{Collection: "pendingUsers", Field: "_id"}
	case p.DisplayName == "":
		return &DecodeError{Collection: "pendingUsers", Field: "displayName"}
	case p.Role != RoleAdmin && p.Role != RoleMember:
		return &DecodeError{Collection: "pendingUsers", Field: "role"}
	}
	return nil
}
