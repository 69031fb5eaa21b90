package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/leaguehq/draftsim/pkg/database"
)

type HealthHandler struct {
	db          *database.DB
	redisClient *redis.Client
}

func NewHealthHandler(db *database.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redisClient: redisClient}
}

// GetHealth reports service liveness plus dependency checks.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	checks := map[string]string{}
	status := "ok"

	if sqlDB, err := h.db.DB.DB(); err == nil && sqlDB.Ping() == nil {
		checks["database"] = "ok"
	} else {
		checks["database"] = "unavailable"
		status = "degraded"
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.redisClient.Ping(ctx).Err(); err == nil {
		checks["redis"] = "ok"
	} else {
		checks["redis"] = "unavailable"
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"time":   time.Now().UTC(),
		"checks": checks,
	})
}
