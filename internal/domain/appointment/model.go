// Package appointment implements the booking core: the slot ledger that
// makes a (doctor, date, time) triple bookable at most once, and the
// appointment lifecycle with its role-gated transitions.
package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinic/booking/internal/platform/civil"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusNoShow
}

// Appointment maps to the appointment table. ActiveSlot is the ledger
// flag: exactly the rows with ActiveSlot=true participate in the
// uniqueness of (doctor_id, appointment_date, appointment_time).
type Appointment struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	PatientID    uuid.UUID       `db:"patient_id" json:"patient_id"`
	DoctorID     uuid.UUID       `db:"doctor_id" json:"doctor_id"`
	Date         civil.Date      `db:"appointment_date" json:"appointment_date"`
	Time         civil.TimeOfDay `db:"appointment_time" json:"appointment_time"`
	Status       Status          `db:"status" json:"status"`
	ActiveSlot   bool            `db:"active_slot" json:"active_slot"`
	Reason       *string         `db:"reason" json:"reason,omitempty"`
	Diagnosis    *string         `db:"diagnosis" json:"diagnosis,omitempty"`
	Prescription *string         `db:"prescription" json:"prescription,omitempty"`
	Notes        *string         `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}
