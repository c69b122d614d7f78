package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/advice"
	"plantcare/pkg/advice/service"
	"plantcare/pkg/plant"
	"plantcare/pkg/platform/logger"
)

type AdviceCtrl struct {
	s   service.AdviceService
	log *logger.Logger
}

func New(s service.AdviceService, log *logger.Logger) *AdviceCtrl {
	return &AdviceCtrl{s: s, log: log.With("component", "AdviceCtrl")}
}

// Get serves GET /api/plants/:id/advice; cached advice answers without a network call.
func (h *AdviceCtrl) Get(c echo.Context) error {
	sess := advice.NewSession(h.s, c.Param("id"))
	return h.reply(c, sess.Start(c.Request().Context()))
}

func (h *AdviceCtrl) Regenerate(c echo.Context) error {
	sess := advice.NewSession(h.s, c.Param("id"))
	return h.reply(c, sess.Regenerate(c.Request().Context()))
}

func (h *AdviceCtrl) reply(c echo.Context, snap advice.Snapshot) error {
	if snap.State != advice.StateError {
		return c.JSON(http.StatusOK, snap)
	}
	if errors.Is(snap.Err, plant.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"state": snap.State, "error": "not found"})
	}
	h.log.Error("advice acquisition failed", "plant_id", c.Param("id"), "error", snap.Err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"state": snap.State, "error": "could not save advice, please try again"})
}
