package appointment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/booking/internal/platform/auth"
)

func newTestServer(t *testing.T) (*echo.Echo, *fixture, func(auth.Actor, *http.Request)) {
	t.Helper()
	f := newFixture(t)

	e := echo.New()
	api := e.Group("/api/v1")
	NewHandler(f.svc).RegisterRoutes(api)

	// Stand-in for the JWT middleware: the actor arrives via a header
	// the tests control.
	e.Pre(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := c.Request().Header.Get("X-Test-Actor"); raw != "" {
				parts := strings.SplitN(raw, ":", 2)
				actor := auth.Actor{Role: auth.Role(parts[0]), ID: uuid.MustParse(parts[1])}
				c.SetRequest(c.Request().WithContext(auth.WithActor(c.Request().Context(), actor)))
			}
			return next(c)
		}
	})

	as := func(actor auth.Actor, req *http.Request) {
		req.Header.Set("X-Test-Actor", string(actor.Role)+":"+actor.ID.String())
	}
	return e, f, as
}

func TestHandlerBook(t *testing.T) {
	e, f, as := newTestServer(t)

	body := `{"doctor_id":"` + f.doctorID.String() + `","appointment_date":"2025-03-10","appointment_time":"10:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	as(asPatient(uuid.New()), req)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusScheduled || got.Date.String() != "2025-03-10" || got.Time.String() != "10:00" {
		t.Errorf("unexpected body: %+v", got)
	}
}

func TestHandlerBook_RoleGate(t *testing.T) {
	e, f, as := newTestServer(t)

	body := `{"doctor_id":"` + f.doctorID.String() + `","appointment_date":"2025-03-10","appointment_time":"10:00"}`

	// No token at all.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}

	// Doctors do not book for patients.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	as(asDoctor(f.doctorID), req)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("doctor: status = %d, want 403", rec.Code)
	}
}

func TestHandlerBook_Conflict(t *testing.T) {
	e, f, as := newTestServer(t)
	f.book(t, uuid.New())

	body := `{"doctor_id":"` + f.doctorID.String() + `","appointment_date":"2025-03-10","appointment_time":"10:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	as(asPatient(uuid.New()), req)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestHandlerBook_UnknownDoctor(t *testing.T) {
	e, _, as := newTestServer(t)

	body := `{"doctor_id":"` + uuid.NewString() + `","appointment_date":"2025-03-10","appointment_time":"10:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	as(asPatient(uuid.New()), req)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerBook_UnprocessableInputs(t *testing.T) {
	e, f, as := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"past date", `{"doctor_id":"` + f.doctorID.String() + `","appointment_date":"2025-03-02","appointment_time":"10:00"}`},
		{"outside hours", `{"doctor_id":"` + f.doctorID.String() + `","appointment_date":"2025-03-10","appointment_time":"20:00"}`},
		{"bad time format", `{"doctor_id":"` + f.doctorID.String() + `","appointment_date":"2025-03-10","appointment_time":"10am"}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(tc.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		as(asPatient(uuid.New()), req)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want 422", tc.name, rec.Code)
		}
	}
}

func TestHandlerLifecycle(t *testing.T) {
	e, f, as := newTestServer(t)
	patientID := uuid.New()
	a := f.book(t, patientID)

	// Doctor confirms.
	req := httptest.NewRequest(http.MethodPut, "/api/v1/appointments/"+a.ID.String()+"/confirm", nil)
	as(asDoctor(f.doctorID), req)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Patients cannot reach the clinical routes at all.
	req = httptest.NewRequest(http.MethodPut, "/api/v1/appointments/"+a.ID.String()+"/complete", strings.NewReader(`{"diagnosis":"x","prescription":"y"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	as(asPatient(patientID), req)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("patient complete: status = %d, want 403", rec.Code)
	}

	// Doctor completes with the clinical record.
	req = httptest.NewRequest(http.MethodPut, "/api/v1/appointments/"+a.ID.String()+"/complete", strings.NewReader(`{"diagnosis":"flu","prescription":"rest","notes":"follow up in a week"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	as(asDoctor(f.doctorID), req)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusCompleted || got.Diagnosis == nil || *got.Diagnosis != "flu" {
		t.Errorf("unexpected body: %+v", got)
	}

	// Cancelling a completed appointment is out of the patient's reach.
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/appointments/"+a.ID.String(), nil)
	as(asPatient(patientID), req)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("cancel completed: status = %d, want 422", rec.Code)
	}
}

func TestHandlerCancel(t *testing.T) {
	e, f, as := newTestServer(t)
	patientID := uuid.New()
	a := f.book(t, patientID)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/appointments/"+a.ID.String(), nil)
	as(asPatient(patientID), req)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Second cancel hits the immutability rule.
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/appointments/"+a.ID.String(), nil)
	as(asPatient(patientID), req)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("re-cancel: status = %d, want 422", rec.Code)
	}
}

func TestHandlerListForPatient(t *testing.T) {
	e, f, as := newTestServer(t)
	patientID := uuid.New()
	f.book(t, patientID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/"+patientID.String()+"/appointments?status=scheduled", nil)
	as(asPatient(patientID), req)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data  []*Appointment `json:"data"`
		Total int            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Errorf("total=%d len=%d, want 1/1", resp.Total, len(resp.Data))
	}
}

func TestHandlerGet_NotFound(t *testing.T) {
	e, _, as := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/"+uuid.NewString(), nil)
	as(admin, req)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
