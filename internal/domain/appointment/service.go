package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinic/booking/internal/domain/directory"
	"github.com/clinic/booking/internal/platform/auth"
	"github.com/clinic/booking/internal/platform/civil"
)

// DoctorDirectory is the slice of the directory the booking path needs.
type DoctorDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*directory.Doctor, error)
}

// AvailabilityResolver answers whether a slot falls inside the doctor's
// published weekly availability.
type AvailabilityResolver interface {
	IsBookable(ctx context.Context, doctorID uuid.UUID, date civil.Date, at civil.TimeOfDay) (bool, error)
}

type Service struct {
	repo     Repository
	doctors  DoctorDirectory
	resolver AvailabilityResolver
	now      func() time.Time
}

func NewService(repo Repository, doctors DoctorDirectory, resolver AvailabilityResolver, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, doctors: doctors, resolver: resolver, now: now}
}

// BookInput carries the client-supplied fields of a booking request.
type BookInput struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     string    `json:"appointment_date"`
	Time     string    `json:"appointment_time"`
	Reason   *string   `json:"reason"`
}

// CompleteInput carries the clinical outcome recorded on completion.
type CompleteInput struct {
	Diagnosis    string  `json:"diagnosis"`
	Prescription string  `json:"prescription"`
	Notes        *string `json:"notes"`
}

// Book reserves a slot for the calling patient. The availability check
// is advisory; the slot ledger insert is what actually serializes
// concurrent bookings for the same triple.
func (s *Service) Book(ctx context.Context, actor auth.Actor, in BookInput) (*Appointment, error) {
	if actor.Role != auth.RolePatient {
		return nil, ErrForbidden
	}
	if in.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrValidation)
	}
	date, err := civil.ParseDate(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	at, err := civil.ParseTime(in.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// Only the calendar date is checked; booking a same-day slot whose
	// time already passed is allowed, matching the date-granular rule.
	if date.Before(civil.DateOf(s.now())) {
		return nil, ErrPastDate
	}

	doctor, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	// An inactive doctor is indistinguishable from an absent one to
	// booking patients.
	if !doctor.Active {
		return nil, directory.ErrDoctorNotFound
	}

	ok, err := s.resolver.IsBookable(ctx, in.DoctorID, date, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSlotUnavailable
	}

	a := &Appointment{
		PatientID:  actor.ID,
		DoctorID:   in.DoctorID,
		Date:       date,
		Time:       at,
		Status:     StatusScheduled,
		ActiveSlot: true,
		Reason:     in.Reason,
	}
	if err := s.repo.Reserve(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanAccess(actor, a) {
		return nil, ErrForbidden
	}
	return a, nil
}

func (s *Service) ListForPatient(ctx context.Context, actor auth.Actor, patientID uuid.UUID, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	if actor.Role != auth.RoleAdmin && !(actor.Role == auth.RolePatient && actor.ID == patientID) {
		return nil, 0, ErrForbidden
	}
	if err := validFilter(f); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByPatient(ctx, patientID, f, limit, offset)
}

func (s *Service) ListForDoctor(ctx context.Context, actor auth.Actor, doctorID uuid.UUID, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	if actor.Role != auth.RoleAdmin && !(actor.Role == auth.RoleDoctor && actor.ID == doctorID) {
		return nil, 0, ErrForbidden
	}
	if err := validFilter(f); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByDoctor(ctx, doctorID, f, limit, offset)
}

func (s *Service) ListForDate(ctx context.Context, actor auth.Actor, date civil.Date, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	if actor.Role != auth.RoleAdmin {
		return nil, 0, ErrForbidden
	}
	if err := validFilter(f); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByDate(ctx, date, f, limit, offset)
}

func validFilter(f ListFilter) error {
	if f.Status != "" && !f.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	return nil
}

// Confirm moves a scheduled appointment to confirmed. Confirming an
// already confirmed appointment is a no-op success.
func (s *Service) Confirm(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireDoctorOrAdmin(actor, a); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateStatusIf(ctx, id,
		[]Status{StatusScheduled, StatusConfirmed},
		StatusChange{To: StatusConfirmed})
	if errors.Is(err, ErrNotFound) {
		return nil, s.classifyMiss(ctx, id)
	}
	return updated, err
}

// Complete records the clinical outcome and closes the appointment.
// Diagnosis and prescription are mandatory; the slot stays occupied so
// the historical record keeps its place in the ledger.
func (s *Service) Complete(ctx context.Context, actor auth.Actor, id uuid.UUID, in CompleteInput) (*Appointment, error) {
	if in.Diagnosis == "" {
		return nil, fmt.Errorf("%w: diagnosis is required", ErrValidation)
	}
	if in.Prescription == "" {
		return nil, fmt.Errorf("%w: prescription is required", ErrValidation)
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireDoctorOrAdmin(actor, a); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateStatusIf(ctx, id,
		[]Status{StatusScheduled, StatusConfirmed},
		StatusChange{
			To:           StatusCompleted,
			Diagnosis:    &in.Diagnosis,
			Prescription: &in.Prescription,
			Notes:        in.Notes,
		})
	if errors.Is(err, ErrNotFound) {
		return nil, s.classifyMiss(ctx, id)
	}
	return updated, err
}

// Cancel releases the slot. Patients and doctors may cancel their own
// scheduled or confirmed appointments; admins may cancel anything that
// is not already cancelled.
func (s *Service) Cancel(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var from []Status
	switch actor.Role {
	case auth.RoleAdmin:
		from = []Status{StatusScheduled, StatusConfirmed, StatusCompleted, StatusNoShow}
	case auth.RoleDoctor:
		if actor.ID != a.DoctorID {
			return nil, ErrForbidden
		}
		from = []Status{StatusScheduled, StatusConfirmed}
	case auth.RolePatient:
		if actor.ID != a.PatientID {
			return nil, ErrForbidden
		}
		from = []Status{StatusScheduled, StatusConfirmed}
	default:
		return nil, ErrForbidden
	}

	updated, err := s.repo.UpdateStatusIf(ctx, id, from,
		StatusChange{To: StatusCancelled, ReleaseSlot: true})
	if errors.Is(err, ErrNotFound) {
		return nil, s.classifyMiss(ctx, id)
	}
	return updated, err
}

// MarkNoShow flags an appointment whose time has passed without the
// patient turning up. The slot is released so the record no longer
// blocks rebooking analytics, though the time itself is gone anyway.
func (s *Service) MarkNoShow(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireDoctorOrAdmin(actor, a); err != nil {
		return nil, err
	}

	now := s.now()
	today := civil.DateOf(now)
	if today.Before(a.Date) {
		return nil, fmt.Errorf("%w: appointment has not occurred yet", ErrValidation)
	}
	if a.Date == today {
		nowAt := civil.TimeOfDay{Hour: now.Hour(), Minute: now.Minute()}
		if nowAt.Before(a.Time) {
			return nil, fmt.Errorf("%w: appointment has not occurred yet", ErrValidation)
		}
	}

	updated, err := s.repo.UpdateStatusIf(ctx, id,
		[]Status{StatusScheduled, StatusConfirmed},
		StatusChange{To: StatusNoShow, ReleaseSlot: true})
	if errors.Is(err, ErrNotFound) {
		return nil, s.classifyMiss(ctx, id)
	}
	return updated, err
}

func requireDoctorOrAdmin(actor auth.Actor, a *Appointment) error {
	if actor.Role == auth.RoleAdmin {
		return nil
	}
	if actor.Role == auth.RoleDoctor && actor.ID == a.DoctorID {
		return nil
	}
	return ErrForbidden
}

// classifyMiss turns a conditional-update miss into the precise error:
// the row vanished, the row is cancelled and therefore frozen, or the
// row sits in a state the transition does not accept.
func (s *Service) classifyMiss(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Status == StatusCancelled {
		return ErrCancelledImmutable
	}
	return fmt.Errorf("%w: cannot leave status %q", ErrInvalidTransition, a.Status)
}
