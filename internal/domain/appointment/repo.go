package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinic/booking/internal/platform/civil"
)

// ListFilter narrows a listing. Zero values mean no filtering on that
// dimension.
type ListFilter struct {
	Status Status
	Date   civil.Date
}

// StatusChange describes a conditional transition applied by
// UpdateStatusIf. Clinical fields are written only when non-nil.
type StatusChange struct {
	To           Status
	ReleaseSlot  bool
	Diagnosis    *string
	Prescription *string
	Notes        *string
}

// Repository is the persistence boundary for appointments. Reserve and
// UpdateStatusIf are the two operations the concurrency story rests on:
// Reserve must fail with ErrSlotConflict when an active slot for the
// same (doctor, date, time) already exists, and UpdateStatusIf must
// apply the change only while the row's status is one of from.
type Repository interface {
	// Reserve inserts a as a new active-slot row. ErrSlotConflict means
	// another active appointment holds the triple.
	Reserve(ctx context.Context, a *Appointment) error

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// UpdateStatusIf atomically moves the appointment to change.To
	// provided its current status is in from, returning the updated row.
	// ErrNotFound covers both a missing id and a status outside from;
	// the caller disambiguates with a follow-up read.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from []Status, change StatusChange) (*Appointment, error)

	ListByPatient(ctx context.Context, patientID uuid.UUID, f ListFilter, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, f ListFilter, limit, offset int) ([]*Appointment, int, error)
	ListByDate(ctx context.Context, date civil.Date, f ListFilter, limit, offset int) ([]*Appointment, int, error)
}
