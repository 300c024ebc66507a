package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/booking/internal/platform/civil"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `id, patient_id, doctor_id, appointment_date, appointment_time,
	status, active_slot, reason, diagnosis, prescription, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var date time.Time
	var at string
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &date, &at,
		&a.Status, &a.ActiveSlot, &a.Reason, &a.Diagnosis, &a.Prescription, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Date = civil.DateOf(date)
	if a.Time, err = civil.ParseTime(at); err != nil {
		return nil, fmt.Errorf("corrupt appointment_time: %w", err)
	}
	return &a, nil
}

// Reserve inserts the appointment as the active holder of its slot.
// The partial unique index on (doctor_id, appointment_date,
// appointment_time) WHERE active_slot turns a concurrent duplicate
// into a 23505, which surfaces as ErrSlotConflict.
func (r *repoPG) Reserve(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointment
			(id, patient_id, doctor_id, appointment_date, appointment_time, status, active_slot, reason)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DoctorID, a.Date.Time(), a.Time.String(), a.Status, a.ActiveSlot, a.Reason).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlotConflict
		}
		return fmt.Errorf("reserve appointment: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

func (r *repoPG) UpdateStatusIf(ctx context.Context, id uuid.UUID, from []Status, change StatusChange) (*Appointment, error) {
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}
	a, err := scanAppointment(r.pool.QueryRow(ctx, `
		UPDATE appointment
		SET status = $2,
		    active_slot = CASE WHEN $3 THEN false ELSE active_slot END,
		    diagnosis = COALESCE($4, diagnosis),
		    prescription = COALESCE($5, prescription),
		    notes = COALESCE($6, notes),
		    updated_at = NOW()
		WHERE id = $1 AND status = ANY($7)
		RETURNING `+apptCols,
		id, change.To, change.ReleaseSlot, change.Diagnosis, change.Prescription, change.Notes, states))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	return a, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	conds, args := applyFilter([]string{"patient_id = $1"}, []any{patientID}, f)
	return r.list(ctx, conds, args, limit, offset)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	conds, args := applyFilter([]string{"doctor_id = $1"}, []any{doctorID}, f)
	return r.list(ctx, conds, args, limit, offset)
}

func (r *repoPG) ListByDate(ctx context.Context, date civil.Date, f ListFilter, limit, offset int) ([]*Appointment, int, error) {
	conds, args := applyFilter([]string{"appointment_date = $1"}, []any{date.Time()}, f)
	return r.list(ctx, conds, args, limit, offset)
}

func applyFilter(conds []string, args []any, f ListFilter) ([]string, []any) {
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if !f.Date.IsZero() {
		args = append(args, f.Date.Time())
		conds = append(conds, fmt.Sprintf("appointment_date = $%d", len(args)))
	}
	return conds, args
}

func (r *repoPG) list(ctx context.Context, conds []string, args []any, limit, offset int) ([]*Appointment, int, error) {
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	pageArgs := append(args, limit, offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM appointment
		WHERE %s
		ORDER BY appointment_date, appointment_time
		LIMIT $%d OFFSET $%d`,
		apptCols, where, len(args)+1, len(args)+2), pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}
