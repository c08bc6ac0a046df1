package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// poolStats is the connection-pool snapshot exposed by the database
// health endpoint.
type poolStats struct {
	Total    int32  `json:"total"`
	Idle     int32  `json:"idle"`
	InUse    int32  `json:"in_use"`
	Max      int32  `json:"max"`
	WaitTime string `json:"wait_time"`
}

func snapshotPool(pool *pgxpool.Pool) poolStats {
	stat := pool.Stat()
	return poolStats{
		Total:    stat.TotalConns(),
		Idle:     stat.IdleConns(),
		InUse:    stat.AcquiredConns(),
		Max:      stat.MaxConns(),
		WaitTime: stat.AcquireDuration().String(),
	}
}

// HealthHandler pings the database with a short deadline and reports
// pool usage alongside the verdict.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
				"pool":   snapshotPool(pool),
			})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "ok",
			"pool":   snapshotPool(pool),
		})
	}
}
