// Package schedule manages doctors' recurring weekly availability
// windows and answers whether a requested slot falls inside one.
package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinic/booking/internal/platform/civil"
)

// Window maps to the availability_window table. A doctor may hold
// several windows on the same weekday (split shifts); windows are not
// required to be disjoint.
type Window struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	DoctorID  uuid.UUID       `db:"doctor_id" json:"doctor_id"`
	Weekday   int             `db:"weekday" json:"day_of_week"` // 1=Monday .. 7=Sunday
	StartTime civil.TimeOfDay `db:"start_time" json:"start_time"`
	EndTime   civil.TimeOfDay `db:"end_time" json:"end_time"`
	Available bool            `db:"available" json:"is_available"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
