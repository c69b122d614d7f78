package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"plantcare/entities"
	"plantcare/pkg/platform/logger"
	"plantcare/pkg/settings"
	"plantcare/pkg/settings/service"
)

type SettingsCtrl struct {
	s   service.SettingsService
	log *logger.Logger
}

func New(s service.SettingsService, log *logger.Logger) *SettingsCtrl {
	return &SettingsCtrl{s: s, log: log.With("component", "SettingsCtrl")}
}

func (h *SettingsCtrl) Get(c echo.Context) error {
	st, err := h.s.Get(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *SettingsCtrl) Put(c echo.Context) error {
	var req service.SettingsInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	st, err := h.s.Put(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *SettingsCtrl) SetPermission(c echo.Context) error {
	var req struct {
		Permission entities.NotificationPermission `json:"permission"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	st, err := h.s.SetPermission(c.Request().Context(), req.Permission)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *SettingsCtrl) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, settings.ErrInvalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, settings.ErrNotFound):
		return c.JSON(http.StatusConflict, echo.Map{"error": "finish onboarding first"})
	}
	h.log.Error("settings storage failure", "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save settings, please try again"})
}
