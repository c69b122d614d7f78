package controller

import "github.com/labstack/echo/v4"

type SettingsController interface {
	Get(c echo.Context) error
	Put(c echo.Context) error
	SetPermission(c echo.Context) error
}
