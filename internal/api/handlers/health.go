package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/courtlog/handball-tracker/pkg/database"
)

type HealthHandler struct {
	db    *database.DB
	redis *redis.Client
}

func NewHealthHandler(db *database.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redisClient,
	}
}

// GetHealth returns basic health status - always returns 200 if server is running
// This is used for basic liveness probes
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"service":   "handball-tracker",
	})
}

// GetReady returns readiness status - only returns 200 when the database
// and cache both answer. Used for readiness probes in container orchestration.
func (h *HealthHandler) GetReady(c *gin.Context) {
	checks := gin.H{}
	ready := true

	if sqlDB, err := h.db.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		checks["database"] = "down"
		ready = false
	} else {
		checks["database"] = "up"
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			checks["redis"] = "down"
			ready = false
		} else {
			checks["redis"] = "up"
		}
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}
	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
	})
}
