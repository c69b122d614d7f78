package controller

import "github.com/labstack/echo/v4"

type WateringController interface {
	Water(c echo.Context) error
	History(c echo.Context) error
}
