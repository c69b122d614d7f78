package router

import (
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	adviceCtrl "plantcare/pkg/advice/controller"
	"plantcare/pkg/middleware"
	plantCtrl "plantcare/pkg/plant/controller"
	"plantcare/pkg/platform/logger"
	proxyCtrl "plantcare/pkg/proxy/controller"
	settingsCtrl "plantcare/pkg/settings/controller"
	wateringCtrl "plantcare/pkg/watering/controller"
)

type Controllers struct {
	Health   interface{ Health(echo.Context) error }
	Plants   plantCtrl.PlantController
	Watering wateringCtrl.WateringController
	Advice   adviceCtrl.AdviceController
	Settings settingsCtrl.SettingsController
	Proxy    proxyCtrl.ProxyController
	Events   interface{ Stream(echo.Context) error }
	Export   interface{ History(echo.Context) error }
}

type Options struct {
	Log             *logger.Logger
	ClientToken     string
	ProxyRatePerMin int
	CORSOrigins     []string
	// StaticDir holds the built UI; skipped when missing.
	StaticDir string
}

func New(e *echo.Echo, opts Options, c Controllers) *echo.Echo {
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLogger(opts.Log))
	if len(opts.CORSOrigins) > 0 {
		e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
			AllowOrigins: opts.CORSOrigins,
			AllowHeaders: []string{echo.HeaderContentType, middleware.HeaderClientToken},
		}))
	}

	e.GET("/health", c.Health.Health)

	api := e.Group("/api", middleware.ClientToken(opts.ClientToken))

	api.GET("/plants", c.Plants.List)
	api.POST("/plants", c.Plants.Create)
	api.GET("/plants/:id", c.Plants.Get)
	api.PATCH("/plants/:id", c.Plants.Update)
	api.DELETE("/plants/:id", c.Plants.Delete)

	api.POST("/plants/:id/water", c.Watering.Water)
	api.GET("/plants/:id/waterings", c.Watering.History)

	api.GET("/plants/:id/advice", c.Advice.Get)
	api.POST("/plants/:id/advice/regenerate", c.Advice.Regenerate)

	api.GET("/settings", c.Settings.Get)
	api.PUT("/settings", c.Settings.Put)
	api.PUT("/settings/permission", c.Settings.SetPermission)

	api.GET("/events", c.Events.Stream)
	api.GET("/export.xlsx", c.Export.History)

	// LLM proxy: the only routes that spend upstream quota
	limited := api.Group("", proxyRateLimit(opts.ProxyRatePerMin))
	limited.POST("/advice", c.Proxy.Advice)
	limited.POST("/identify", c.Proxy.Identify)

	if opts.StaticDir != "" {
		if _, err := os.Stat(opts.StaticDir); err == nil {
			e.Static("/", opts.StaticDir)
		} else if opts.Log != nil {
			opts.Log.Warn("static dir not found, UI not served", "dir", opts.StaticDir, "error", err)
		}
	}
	return e
}

func proxyRateLimit(perMin int) echo.MiddlewareFunc {
	if perMin <= 0 {
		perMin = 20
	}
	store := echoMiddleware.NewRateLimiterMemoryStoreWithConfig(echoMiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMin) / 60),
		Burst:     perMin,
		ExpiresIn: 3 * time.Minute,
	})
	return echoMiddleware.RateLimiterWithConfig(echoMiddleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limited, please try again shortly"})
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "could not identify client"})
		},
	})
}
