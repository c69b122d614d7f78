package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/ai"
	"plantcare/pkg/proxy/service"
)

type ProxyCtrl struct{ s service.ProxyService }

func New(s service.ProxyService) *ProxyCtrl { return &ProxyCtrl{s: s} }

func (h *ProxyCtrl) Advice(c echo.Context) error {
	var req service.AdviceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	adv, err := h.s.Advise(c.Request().Context(), req)
	if err != nil {
		return c.JSON(errorStatus(err), echo.Map{"error": errorMessage(err)})
	}
	return c.JSON(http.StatusOK, adv)
}

func (h *ProxyCtrl) Identify(c echo.Context) error {
	var req service.IdentifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	id, err := h.s.Identify(c.Request().Context(), req)
	if err != nil {
		return c.JSON(errorStatus(err), echo.Map{"error": errorMessage(err)})
	}
	return c.JSON(http.StatusOK, id)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrUnsupportedMediaType):
		return http.StatusBadRequest
	case errors.Is(err, ai.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ai.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func errorMessage(err error) string {
	switch errorStatus(err) {
	case http.StatusBadRequest:
		return err.Error()
	case http.StatusTooManyRequests:
		return "rate limited, please try again shortly"
	case http.StatusServiceUnavailable:
		return "ai service not configured"
	default:
		return "ai service unavailable"
	}
}
