package appointment

import (
	"testing"

	"github.com/google/uuid"

	"github.com/clinic/booking/internal/platform/civil"
)

func TestApplyFilter(t *testing.T) {
	base := func() ([]string, []any) {
		return []string{"doctor_id = $1"}, []any{uuid.New()}
	}
	date, _ := civil.ParseDate("2025-03-10")

	c, a := base()
	conds, args := applyFilter(c, a, ListFilter{})
	if len(conds) != 1 || len(args) != 1 {
		t.Errorf("empty filter must add nothing: conds=%v args=%d", conds, len(args))
	}

	c, a = base()
	conds, args = applyFilter(c, a, ListFilter{Status: StatusScheduled})
	if len(conds) != 2 || conds[1] != "status = $2" || len(args) != 2 {
		t.Errorf("status filter: conds=%v args=%d", conds, len(args))
	}

	c, a = base()
	conds, args = applyFilter(c, a, ListFilter{Status: StatusScheduled, Date: date})
	if len(conds) != 3 || conds[2] != "appointment_date = $3" || len(args) != 3 {
		t.Errorf("status+date filter: conds=%v args=%d", conds, len(args))
	}
}
