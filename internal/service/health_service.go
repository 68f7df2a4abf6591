package service

import (
	"context"
	"time"

	"eunoia/internal/analysis"
)

// Pinger checks a backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthStatus is returned by GET /health
type HealthStatus struct {
	Status   string            `json:"status"`
	Database string            `json:"database"`
	Cache    string            `json:"cache"`
	Models   map[string]string `json:"models"`
	Time     time.Time         `json:"time"`
}

// HealthService reports liveness of the store, the cache and the models
type HealthService struct {
	db       Pinger
	cache    Pinger
	registry *analysis.Registry
}

// NewHealthService creates a health service. cache may be nil.
func NewHealthService(db, cache Pinger, registry *analysis.Registry) *HealthService {
	return &HealthService{db: db, cache: cache, registry: registry}
}

// Check pings dependencies. Status is "degraded" when the database is down;
// missing models or cache do not affect it.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	h := &HealthStatus{
		Status:   "ok",
		Database: "ok",
		Cache:    "disabled",
		Models:   s.registry.Status(),
		Time:     time.Now().UTC(),
	}
	if s.db == nil || s.db.Ping(ctx) != nil {
		h.Status = "degraded"
		h.Database = "unreachable"
	}
	if s.cache != nil {
		h.Cache = "ok"
		if s.cache.Ping(ctx) != nil {
			h.Cache = "unreachable"
		}
	}
	return h
}
