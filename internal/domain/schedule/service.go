package schedule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinic/booking/internal/platform/auth"
	"github.com/clinic/booking/internal/platform/civil"
)

type Service struct {
	windows Repository
}

func NewService(windows Repository) *Service {
	return &Service{windows: windows}
}

// WindowInput carries the client-supplied fields of a window. Times
// arrive as HH:MM strings and are validated here.
type WindowInput struct {
	Weekday   int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available *bool  `json:"is_available"`
}

// canManage reports whether the actor may edit doctorID's windows:
// the owning doctor or an administrator.
func canManage(actor auth.Actor, doctorID uuid.UUID) bool {
	if actor.Role == auth.RoleAdmin {
		return true
	}
	return actor.Role == auth.RoleDoctor && actor.ID == doctorID
}

func (s *Service) CreateWindow(ctx context.Context, actor auth.Actor, doctorID uuid.UUID, in WindowInput) (*Window, error) {
	if !canManage(actor, doctorID) {
		return nil, ErrForbidden
	}
	if in.Weekday < 1 || in.Weekday > 7 {
		return nil, fmt.Errorf("%w: day_of_week must be 1..7", ErrValidation)
	}
	start, err := civil.ParseTime(in.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	end, err := civil.ParseTime(in.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start_time must be before end_time", ErrValidation)
	}

	available := true
	if in.Available != nil {
		available = *in.Available
	}
	w := &Window{
		DoctorID:  doctorID,
		Weekday:   in.Weekday,
		StartTime: start,
		EndTime:   end,
		Available: available,
	}
	if err := s.windows.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) ListWindows(ctx context.Context, doctorID uuid.UUID) ([]*Window, error) {
	return s.windows.ListByDoctor(ctx, doctorID)
}

func (s *Service) UpdateWindow(ctx context.Context, actor auth.Actor, doctorID, windowID uuid.UUID, in WindowInput) (*Window, error) {
	if !canManage(actor, doctorID) {
		return nil, ErrForbidden
	}
	w, err := s.windows.GetByID(ctx, windowID)
	if err != nil {
		return nil, err
	}
	if w.DoctorID != doctorID {
		return nil, ErrNotFound
	}

	if in.Weekday != 0 {
		if in.Weekday < 1 || in.Weekday > 7 {
			return nil, fmt.Errorf("%w: day_of_week must be 1..7", ErrValidation)
		}
		w.Weekday = in.Weekday
	}
	if in.StartTime != "" {
		start, err := civil.ParseTime(in.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		w.StartTime = start
	}
	if in.EndTime != "" {
		end, err := civil.ParseTime(in.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		w.EndTime = end
	}
	if !w.StartTime.Before(w.EndTime) {
		return nil, fmt.Errorf("%w: start_time must be before end_time", ErrValidation)
	}
	if in.Available != nil {
		w.Available = *in.Available
	}

	if err := s.windows.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) DeleteWindow(ctx context.Context, actor auth.Actor, doctorID, windowID uuid.UUID) error {
	if !canManage(actor, doctorID) {
		return ErrForbidden
	}
	w, err := s.windows.GetByID(ctx, windowID)
	if err != nil {
		return err
	}
	if w.DoctorID != doctorID {
		return ErrNotFound
	}
	return s.windows.Delete(ctx, windowID)
}

// IsBookable reports whether the requested slot lies inside at least
// one available window for the weekday of date. The weekday is derived
// from the calendar date's components, the same rule the booking path
// uses. Read-only; the slot ledger stays the sole conflict authority.
func (s *Service) IsBookable(ctx context.Context, doctorID uuid.UUID, date civil.Date, at civil.TimeOfDay) (bool, error) {
	windows, err := s.windows.ListAvailable(ctx, doctorID, date.Weekday())
	if err != nil {
		return false, err
	}
	for _, w := range windows {
		if at.InRange(w.StartTime, w.EndTime) {
			return true, nil
		}
	}
	return false, nil
}
