package schedule

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("availability window not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
)

type Repository interface {
	Create(ctx context.Context, w *Window) error
	GetByID(ctx context.Context, id uuid.UUID) (*Window, error)
	Update(ctx context.Context, w *Window) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Window, error)
	// ListAvailable returns only windows with available=true for the weekday.
	ListAvailable(ctx context.Context, doctorID uuid.UUID, weekday int) ([]*Window, error)
}
