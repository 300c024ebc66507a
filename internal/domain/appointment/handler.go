package appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/booking/internal/domain/directory"
	"github.com/clinic/booking/internal/platform/auth"
	"github.com/clinic/booking/internal/platform/civil"
	"github.com/clinic/booking/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/appointments", h.Book, auth.RequireRole(auth.RolePatient))
	api.GET("/appointments", h.ListForDate, auth.RequireRole(auth.RoleAdmin))
	api.GET("/appointments/:id", h.Get, auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor, auth.RolePatient))
	api.DELETE("/appointments/:id", h.Cancel, auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor, auth.RolePatient))

	clinical := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleAdmin))
	clinical.PUT("/appointments/:id/confirm", h.Confirm)
	clinical.PUT("/appointments/:id/complete", h.Complete)
	clinical.PUT("/appointments/:id/no-show", h.MarkNoShow)

	api.GET("/patients/:id/appointments", h.ListForPatient, auth.RequireRole(auth.RolePatient, auth.RoleAdmin))
	api.GET("/doctors/:id/appointments", h.ListForDoctor, auth.RequireRole(auth.RoleDoctor, auth.RoleAdmin))
}

func (h *Handler) Book(c echo.Context) error {
	actor, _ := auth.ActorFromContext(c.Request().Context())

	var in BookInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Book(c.Request().Context(), actor, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	actor, _ := auth.ActorFromContext(c.Request().Context())

	a, err := h.svc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListForDate(c echo.Context) error {
	actor, _ := auth.ActorFromContext(c.Request().Context())

	date, err := civil.ParseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date query parameter must be YYYY-MM-DD")
	}
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListForDate(c.Request().Context(), actor, date, statusFilter(c), p.Limit, p.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) ListForPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	actor, _ := auth.ActorFromContext(c.Request().Context())

	p := pagination.FromContext(c)
	items, total, err := h.svc.ListForPatient(c.Request().Context(), actor, patientID, statusFilter(c), p.Limit, p.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) ListForDoctor(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	actor, _ := auth.ActorFromContext(c.Request().Context())

	f := statusFilter(c)
	if raw := c.QueryParam("date"); raw != "" {
		d, err := civil.ParseDate(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date query parameter must be YYYY-MM-DD")
		}
		f.Date = d
	}
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListForDoctor(c.Request().Context(), actor, doctorID, f, p.Limit, p.Offset)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) Confirm(c echo.Context) error {
	return h.transition(c, func(actor auth.Actor, id uuid.UUID) (*Appointment, error) {
		return h.svc.Confirm(c.Request().Context(), actor, id)
	})
}

func (h *Handler) Complete(c echo.Context) error {
	var in CompleteInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.transition(c, func(actor auth.Actor, id uuid.UUID) (*Appointment, error) {
		return h.svc.Complete(c.Request().Context(), actor, id, in)
	})
}

func (h *Handler) MarkNoShow(c echo.Context) error {
	return h.transition(c, func(actor auth.Actor, id uuid.UUID) (*Appointment, error) {
		return h.svc.MarkNoShow(c.Request().Context(), actor, id)
	})
}

func (h *Handler) Cancel(c echo.Context) error {
	return h.transition(c, func(actor auth.Actor, id uuid.UUID) (*Appointment, error) {
		return h.svc.Cancel(c.Request().Context(), actor, id)
	})
}

func (h *Handler) transition(c echo.Context, apply func(auth.Actor, uuid.UUID) (*Appointment, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	actor, _ := auth.ActorFromContext(c.Request().Context())

	a, err := apply(actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func statusFilter(c echo.Context) ListFilter {
	return ListFilter{Status: Status(c.QueryParam("status"))}
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, directory.ErrDoctorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrSlotConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrPastDate),
		errors.Is(err, ErrSlotUnavailable),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrCancelledImmutable):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
