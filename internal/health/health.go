// Package health tracks service readiness and exposes it over HTTP and gRPC.
//
// Docker and Kubernetes probe /health for liveness and /readyz for readiness.
// When gRPC is enabled, the standard grpc.health.v1 service reports the same
// readiness state.
package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/nadzzz/supportdesk/internal/message"
)

// Status values reported by the health endpoints.
const (
	StatusOK       = "ok"
	StatusNotReady = "not_ready"
)

// Checker holds the readiness flag.
type Checker struct {
	ready atomic.Bool
	grpc  *health.Server
}

// New creates a Checker that starts out not ready.
func New() *Checker {
	c := &Checker{grpc: health.NewServer()}
	c.grpc.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return c
}

// SetReady marks the service as ready (or not) to accept traffic.
func (c *Checker) SetReady(ready bool) {
	c.ready.Store(ready)
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		status = healthpb.HealthCheckResponse_SERVING
	}
	c.grpc.SetServingStatus("", status)
}

// Ready reports the current readiness.
func (c *Checker) Ready() bool { return c.ready.Load() }

// GRPCServer returns the grpc.health.v1 implementation backed by this Checker.
func (c *Checker) GRPCServer() healthpb.HealthServer { return c.grpc }

// Shutdown flips every gRPC service to NOT_SERVING and ignores later updates.
func (c *Checker) Shutdown() {
	c.ready.Store(false)
	c.grpc.Shutdown()
}

// Register mounts the health endpoints on mux.
func (c *Checker) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", c.handleHealth)
	mux.HandleFunc("GET /readyz", c.handleReady)
}

// handleHealth reports liveness.
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  message.HealthResponse
// @Router   /health [get]
func (c *Checker) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, StatusOK)
}

// handleReady reports readiness.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  message.HealthResponse
// @Failure  503  {object}  message.HealthResponse
// @Router   /readyz [get]
func (c *Checker) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !c.ready.Load() {
		writeStatus(w, http.StatusServiceUnavailable, StatusNotReady)
		return
	}
	writeStatus(w, http.StatusOK, StatusOK)
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(message.HealthResponse{Status: status})
}
