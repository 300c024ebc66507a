package schedule

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/booking/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	manage := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleAdmin))
	manage.POST("/doctors/:id/windows", h.CreateWindow)
	manage.PUT("/doctors/:id/windows/:window_id", h.UpdateWindow)
	manage.DELETE("/doctors/:id/windows/:window_id", h.DeleteWindow)

	api.GET("/doctors/:id/windows", h.ListWindows)
}

func (h *Handler) CreateWindow(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	actor, _ := auth.ActorFromContext(c.Request().Context())

	var in WindowInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	w, err := h.svc.CreateWindow(c.Request().Context(), actor, doctorID, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, w)
}

func (h *Handler) ListWindows(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	windows, err := h.svc.ListWindows(c.Request().Context(), doctorID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, windows)
}

func (h *Handler) UpdateWindow(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	windowID, err := uuid.Parse(c.Param("window_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid window id")
	}
	actor, _ := auth.ActorFromContext(c.Request().Context())

	var in WindowInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	w, err := h.svc.UpdateWindow(c.Request().Context(), actor, doctorID, windowID, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) DeleteWindow(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	windowID, err := uuid.Parse(c.Param("window_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid window id")
	}
	actor, _ := auth.ActorFromContext(c.Request().Context())

	if err := h.svc.DeleteWindow(c.Request().Context(), actor, doctorID, windowID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
