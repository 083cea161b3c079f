package usecase

import (
	"context"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

type healthUsecase struct {
	database Pinger
	cache    Pinger // nil when Redis is not configured
}

func NewHealthUsecase(database, cache Pinger) HealthUsecase {
	return &healthUsecase{database: database, cache: cache}
}

// Check reports per-dependency status. Only the database decides overall health.
func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "database": "ok", "redis": "disabled"}
	healthy := true

	if u.database != nil {
		if err := u.database.Ping(ctx); err != nil {
			status["database"], status["status"] = "unavailable", "degraded"
			healthy = false
		}
	}
	if u.cache != nil {
		status["redis"] = "ok"
		if err := u.cache.Ping(ctx); err != nil {
			status["redis"] = "unavailable"
		}
	}
	return status, healthy
}
