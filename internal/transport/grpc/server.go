// Package grpc exposes the inventory service health over the standard gRPC health protocol.
package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name clients pass to grpc.health.v1.Health/Check.
const ServiceName = "inventory"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer keeps the gRPC health status in line with database reachability.
type HealthServer struct {
	health *health.Server
	pinger Pinger
	logger *slog.Logger
}

func NewHealthServer(pinger Pinger, logger *slog.Logger) *HealthServer {
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthServer{
		health: hs,
		pinger: pinger,
		logger: logger.With("component", "grpc-health"),
	}
}

// Register adds the health service to s.
func (h *HealthServer) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Check pings the database once and updates the serving status.
func (h *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.WarnContext(ctx, "Database ping failed", "error", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus(ServiceName, st)
	h.health.SetServingStatus("", st)
	return st
}

// Run re-checks every interval until ctx is done, then marks the service as shutting down.
func (h *HealthServer) Run(ctx context.Context, interval time.Duration) error {
	h.Check(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.health.Shutdown()
			return nil
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}
