package controller

import "github.com/labstack/echo/v4"

type ProxyController interface {
	Advice(c echo.Context) error
	Identify(c echo.Context) error
}
