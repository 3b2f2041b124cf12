package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"farmhelp/pkg/reference"
)

var appStart = time.Now()

// Feed reports whether the external price feed has credentials.
type Feed interface {
	Configured() bool
}

type HealthCtrl struct {
	db     *gorm.DB
	feed   Feed
	tables *reference.Tables
}

func NewHealthCtrl(db *gorm.DB, feed Feed, tables *reference.Tables) *HealthCtrl {
	return &HealthCtrl{db: db, feed: feed, tables: tables}
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	dbOK := true
	dbErr := ""
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			dbOK = false
			dbErr = "db.DB(): " + err.Error()
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbOK = false
			dbErr = "ping: " + err.Error()
		}
	} else {
		dbOK = false
		dbErr = "gorm db is nil"
	}

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}

	type sub struct {
		OK  bool   `json:"ok"`
		Err string `json:"err,omitempty"`
	}

	// the feed is optional; without it listings and refresh serve local data
	feedOK := h.feed != nil && h.feed.Configured()
	checks := map[string]any{
		"database": sub{OK: dbOK, Err: dbErr},
		"datagov":  map[string]any{"configured": feedOK},
	}
	if h.tables != nil {
		coords, storage, seasonal := h.tables.Counts()
		checks["reference"] = map[string]int{"coordinates": coords, "storage": storage, "seasonal": seasonal}
	}

	resp := map[string]any{
		"status":     map[string]any{"ok": dbOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks":     checks,
		"time":       time.Now().Format(time.RFC3339),
	}

	return c.JSON(status, resp)
}
