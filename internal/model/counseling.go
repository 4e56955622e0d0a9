package model

import (
	"time"

	"github.com/google/uuid"
)

// CounselingStatus is the lifecycle state of a counseling session.
// waiting and on_going are in-flight; finished and failed are terminal.
type CounselingStatus string

const (
	CounselingWaiting  CounselingStatus = "waiting"
	CounselingOnGoing  CounselingStatus = "on_going"
	CounselingFinished CounselingStatus = "finished"
	CounselingFailed   CounselingStatus = "failed"
)

// Terminal reports whether no further lifecycle transition may leave s.
func (s CounselingStatus) Terminal() bool {
	return s == CounselingFinished || s == CounselingFailed
}

// PaymentStatus is owned by the admin payment workflow. The reconciler only
// reads it.
type PaymentStatus string

const (
	PaymentWaiting  PaymentStatus = "waiting"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
	PaymentRefunded PaymentStatus = "refunded"
)

// Final reports whether the payment status can no longer be changed.
func (s PaymentStatus) Final() bool {
	return s == PaymentApproved || s == PaymentRejected || s == PaymentRefunded
}

type AccessType string

const (
	AccessScheduled AccessType = "scheduled"
	AccessOnDemand  AccessType = "on_demand"
)

// Counseling is one booked counseling session between a patient and a
// psychologist. Schedule fields are civil date/time strings local to the
// platform timezone ("2006-01-02" and "15:04" or "15:04:05"); they are nil
// until the session has been scheduled.
type Counseling struct {
	ID             uuid.UUID
	PatientID      uuid.UUID
	PsychologistID uuid.UUID
	ConversationID *uuid.UUID

	ScheduleDate *string
	StartTime    *string
	EndTime      *string

	AccessType    AccessType
	Status        CounselingStatus
	PaymentStatus PaymentStatus

	Price        int64
	PaymentProof *string
	PaymentNote  *string

	CreatedAt time.Time
}

// CounselingDetail is the admin view of a counseling joined with both
// participants' user records.
type CounselingDetail struct {
	Counseling

	PatientName  string
	PatientEmail string
	PatientPhone *string

	PsychologistName  string
	PsychologistEmail string
	PsychologistPhone *string
}
