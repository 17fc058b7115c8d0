package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports DB and, when configured, Redis connectivity plus the alert
// dead-letter backlog. Redis is optional so its absence is not an error.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		body := gin.H{"db": dbStatus, "redis": "disabled"}
		healthy := dbStatus == "connected"

		if rdb != nil {
			if rdb.Ping(ctx).Err() != nil {
				body["redis"] = "error"
				healthy = false
			} else {
				body["redis"] = "connected"
				if n, err := worker.DLQLength(ctx, rdb, worker.QueueAlertas); err == nil {
					body["dlq"] = n
				}
			}
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		body["ok"] = healthy
		c.JSON(status, body)
	}
}
