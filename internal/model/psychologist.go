package model

import "github.com/google/uuid"

type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
)

// Psychologist is the directory projection of a psychologist: profile fields
// from the linked user record plus the availability flag the reconciler flips
// when sessions start and finish.
type Psychologist struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Name         string
	Email        string
	Phone        *string
	ProfileImage *string
	Bio          *string
	Topics       []string
	Price        int64
	Availability Availability
}
