package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/plant"
	"plantcare/pkg/platform/logger"
	"plantcare/pkg/watering/service"
)

type WateringCtrl struct {
	s   service.WateringService
	log *logger.Logger
}

func New(s service.WateringService, log *logger.Logger) *WateringCtrl {
	return &WateringCtrl{s: s, log: log.With("component", "WateringCtrl")}
}

// Water serves POST /api/plants/:id/water
func (h *WateringCtrl) Water(c echo.Context) error {
	res, err := h.s.MarkWatered(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// History serves GET /api/plants/:id/waterings, newest first.
func (h *WateringCtrl) History(c echo.Context) error {
	logs, err := h.s.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *WateringCtrl) fail(c echo.Context, err error) error {
	if errors.Is(err, plant.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	h.log.Error("watering storage failure", "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save, please try again"})
}
