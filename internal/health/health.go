package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"labstock/internal/cache"
)

// HealthChecker probes the dependencies a ready instance needs: the database
// it cannot serve without, and the cache it can.
type HealthChecker struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
	Cache    string         `json:"cache"`
}

type DatabaseHealth struct {
	Status            string `json:"status"`
	ResponseTime      int64  `json:"response_time_ms"`
	MigrationsApplied int    `json:"migrations_applied"`
}

func NewHealthChecker(db *pgxpool.Pool, c *cache.Cache) *HealthChecker {
	return &HealthChecker{db: db, cache: c}
}

func (h *HealthChecker) Check() HealthStatus {
	dbHealth := h.checkDatabase()

	return HealthStatus{
		Status:   overallStatus(dbHealth.Status),
		Database: dbHealth,
		Cache:    cacheStatus(h.cache),
	}
}

// Readiness gates on the database alone. The cache is an optional
// accelerator; its state is reported but never fails the probe.
func overallStatus(dbStatus string) string {
	if dbStatus != "healthy" {
		return "unhealthy"
	}
	return "healthy"
}

func cacheStatus(c *cache.Cache) string {
	if c.Enabled() {
		return "connected"
	}
	return "disabled"
}

func (h *HealthChecker) checkDatabase() DatabaseHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	// A reachable database without its schema is not ready either
	var applied int
	if err := h.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil || applied == 0 {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return DatabaseHealth{
		Status:            "healthy",
		ResponseTime:      responseTime,
		MigrationsApplied: applied,
	}
}
