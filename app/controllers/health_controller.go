package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/boofino/boofino/pkg/cache"
	"github.com/boofino/boofino/pkg/database"
	"github.com/boofino/boofino/pkg/response"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// Check reports liveness plus the reachability of Mongo and Redis. The
// gRPC health service consults the same Probe.
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"mongo": "up", "redis": "up"}
	healthy := true

	if err := database.Ping(ctx); err != nil {
		status["mongo"] = "down"
		healthy = false
	}
	if client := cache.Client(); client != nil {
		if err := client.Ping(ctx).Err(); err != nil {
			status["redis"] = "down"
			healthy = false
		}
	} else {
		status["redis"] = "unconfigured"
	}

	if !healthy {
		response.Error(w, http.StatusServiceUnavailable, "unhealthy")
		return
	}
	response.Success(w, status)
}

// Probe is the shared liveness check handed to the gRPC health service.
func (c *HealthController) Probe(ctx context.Context) error {
	return database.Ping(ctx)
}
