package controllerImp

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"plantcare/pkg/export"
	"plantcare/pkg/platform/logger"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportCtrl struct {
	exp *export.Exporter
	log *logger.Logger
}

func New(exp *export.Exporter, log *logger.Logger) *ExportCtrl {
	return &ExportCtrl{exp: exp, log: log.With("component", "ExportCtrl")}
}

// History serves GET /api/export.xlsx
func (h *ExportCtrl) History(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.exp.Write(c.Request().Context(), &buf); err != nil {
		h.log.Error("export failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not build export, please try again"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, "plant-history.xlsx"))
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
