package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"plantcare/entities"
	"plantcare/pkg/plant"
	"plantcare/pkg/plant/filter"
	"plantcare/pkg/plant/service"
	"plantcare/pkg/platform/logger"
)

type PlantCtrl struct {
	s      service.PlantService
	log    *logger.Logger
	locale string
}

func New(s service.PlantService, log *logger.Logger, locale string) *PlantCtrl {
	return &PlantCtrl{s: s, log: log.With("component", "PlantCtrl"), locale: locale}
}

// List serves GET /api/plants?q=&status=&type=&sort=
func (h *PlantCtrl) List(c echo.Context) error {
	opts := filter.Options{
		Search: c.QueryParam("q"),
		Status: filter.ParseStatus(c.QueryParam("status")),
		Type:   entities.PlantType(c.QueryParam("type")),
		Sort:   filter.ParseSort(c.QueryParam("sort")),
		Locale: h.locale,
	}
	if l := c.QueryParam("locale"); l != "" {
		opts.Locale = l
	}
	list, err := h.s.List(c.Request().Context(), opts)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *PlantCtrl) Create(c echo.Context) error {
	var req service.AddPlantInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	p, err := h.s.Add(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PlantCtrl) Get(c echo.Context) error {
	v, err := h.s.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *PlantCtrl) Update(c echo.Context) error {
	var req service.UpdatePlantInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	p, err := h.s.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PlantCtrl) Delete(c echo.Context) error {
	if err := h.s.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PlantCtrl) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, plant.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, plant.ErrInvalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	h.log.Error("plant storage failure", "path", c.Path(), "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save your changes, please try again"})
}
