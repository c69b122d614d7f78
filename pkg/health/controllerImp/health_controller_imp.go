package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"plantcare/entities"
)

var appStart = time.Now()

type HealthCtrl struct {
	db            *gorm.DB
	llmConfigured bool
	subscribers   func() int
}

func NewHealthCtrl(db *gorm.DB, llmConfigured bool, subscribers func() int) *HealthCtrl {
	return &HealthCtrl{db: db, llmConfigured: llmConfigured, subscribers: subscribers}
}

// Health reports store readiness. The LLM is informational: without it advice
// falls back to the static table, so it never fails the probe.
func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	type sub struct {
		OK  bool   `json:"ok"`
		Err string `json:"err,omitempty"`
	}

	db := sub{OK: true}
	var plants int64
	if h.db == nil {
		db = sub{Err: "gorm db is nil"}
	} else if sqlDB, err := h.db.DB(); err != nil {
		db = sub{Err: "db.DB(): " + err.Error()}
	} else if err := sqlDB.PingContext(ctx); err != nil {
		db = sub{Err: "ping: " + err.Error()}
	} else if err := h.db.WithContext(ctx).Model(&entities.Plant{}).Count(&plants).Error; err != nil {
		db = sub{Err: "count: " + err.Error()}
	}

	status := http.StatusOK
	if !db.OK {
		status = http.StatusServiceUnavailable
	}
	listeners := 0
	if h.subscribers != nil {
		listeners = h.subscribers()
	}

	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": db.OK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database": db,
			"llm":      sub{OK: h.llmConfigured},
		},
		"plants":          plants,
		"event_listeners": listeners,
		"time":            time.Now().Format(time.RFC3339),
	})
}
