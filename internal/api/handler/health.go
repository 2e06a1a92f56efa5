package handler

import (
	"net/http"

	"github.com/monther20/bassita/internal/api/response"
	"github.com/monther20/bassita/internal/repository/mongo"
	"github.com/monther20/bassita/internal/repository/redis"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including store and cache
// connectivity
func ReadyCheck(db *mongo.DB, cacheClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "document store not ready")
			return
		}
		if err := cacheClient.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "cache not ready")
			return
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}
