package model

import (
	"time"

	"github.com/google/uuid"
)

type ConversationStatus string

const (
	ConversationActive ConversationStatus = "active"
	ConversationClosed ConversationStatus = "closed"
)

// Conversation is the chat channel between one patient and one psychologist.
// At most one active conversation exists per (patient, psychologist) pair.
type Conversation struct {
	ID             uuid.UUID
	PatientID      uuid.UUID
	PsychologistID uuid.UUID
	Status         ConversationStatus
	CreatedAt      time.Time
}
