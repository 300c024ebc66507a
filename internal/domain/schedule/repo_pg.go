package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/booking/internal/platform/civil"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const windowCols = `id, doctor_id, weekday, start_time, end_time, available, created_at, updated_at`

// Times are stored as HH:MM text; the civil types own the format.
func scanWindow(row pgx.Row) (*Window, error) {
	var w Window
	var start, end string
	err := row.Scan(&w.ID, &w.DoctorID, &w.Weekday, &start, &end, &w.Available, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if w.StartTime, err = civil.ParseTime(start); err != nil {
		return nil, fmt.Errorf("corrupt start_time: %w", err)
	}
	if w.EndTime, err = civil.ParseTime(end); err != nil {
		return nil, fmt.Errorf("corrupt end_time: %w", err)
	}
	return &w, nil
}

func (r *repoPG) Create(ctx context.Context, w *Window) error {
	w.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO availability_window (id, doctor_id, weekday, start_time, end_time, available)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		w.ID, w.DoctorID, w.Weekday, w.StartTime.String(), w.EndTime.String(), w.Available).
		Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Window, error) {
	w, err := scanWindow(r.pool.QueryRow(ctx, `SELECT `+windowCols+` FROM availability_window WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get window: %w", err)
	}
	return w, nil
}

func (r *repoPG) Update(ctx context.Context, w *Window) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE availability_window
		SET weekday=$2, start_time=$3, end_time=$4, available=$5, updated_at=NOW()
		WHERE id = $1`,
		w.ID, w.Weekday, w.StartTime.String(), w.EndTime.String(), w.Available)
	if err != nil {
		return fmt.Errorf("update window: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM availability_window WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete window: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Window, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+windowCols+` FROM availability_window
		WHERE doctor_id = $1
		ORDER BY weekday, start_time`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	defer rows.Close()
	return collectWindows(rows)
}

func (r *repoPG) ListAvailable(ctx context.Context, doctorID uuid.UUID, weekday int) ([]*Window, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+windowCols+` FROM availability_window
		WHERE doctor_id = $1 AND weekday = $2 AND available
		ORDER BY start_time`, doctorID, weekday)
	if err != nil {
		return nil, fmt.Errorf("list available windows: %w", err)
	}
	defer rows.Close()
	return collectWindows(rows)
}

func collectWindows(rows pgx.Rows) ([]*Window, error) {
	var items []*Window
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, rows.Err()
}
