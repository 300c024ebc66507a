package directory

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/booking/internal/platform/auth"
	"github.com/clinic/booking/pkg/pagination"
)

type Handler struct {
	doctors  DoctorRepository
	patients PatientRepository
}

func NewHandler(doctors DoctorRepository, patients PatientRepository) *Handler {
	return &Handler{doctors: doctors, patients: patients}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/doctors", h.ListDoctors)
	api.GET("/doctors/:id", h.GetDoctor)
	api.GET("/patients/:id", h.GetPatient, auth.RequireRole(auth.RolePatient, auth.RoleAdmin))
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.doctors.List(c.Request().Context(), c.QueryParam("specialization"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.doctors.GetByID(c.Request().Context(), id)
	if errors.Is(err, ErrDoctorNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

// GetPatient serves a patient record to the patient themselves or an
// administrator.
func (h *Handler) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actor, _ := auth.ActorFromContext(c.Request().Context())
	if actor.Role == auth.RolePatient && actor.ID != id {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}
	p, err := h.patients.GetByID(c.Request().Context(), id)
	if errors.Is(err, ErrPatientNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}
