// Package app wires the inventory service components together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/inventory/internal/config"
	"github.com/abgdnv/inventory/internal/reconcile"
	"github.com/abgdnv/inventory/internal/service"
	"github.com/abgdnv/inventory/internal/store"
	grpcImpl "github.com/abgdnv/inventory/internal/transport/grpc"
	"github.com/abgdnv/inventory/internal/transport/rest"
	"github.com/abgdnv/inventory/pkg/messaging"
	pnats "github.com/abgdnv/inventory/pkg/nats"
	"github.com/abgdnv/inventory/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
)

// StreamName is the JetStream stream that captures inventory events.
const StreamName = "INVENTORY"

type Dependencies struct {
	InventoryService service.InventoryService
	Reconciler       *reconcile.Reconciler
	Health           *grpcImpl.HealthServer
	Logger           *slog.Logger
}

func SetupDependencies(dbPool *pgxpool.Pool, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	pgStore := store.NewPgStore(dbPool, logger)
	return &Dependencies{
		InventoryService: service.NewService(pgStore, publisher),
		Reconciler:       reconcile.NewReconciler(pgStore, logger),
		Health:           grpcImpl.NewHealthServer(pgStore, logger),
		Logger:           logger,
	}
}

// SetupPublisher connects to NATS when configured and returns the event publisher with a close func.
// Without a NATS URL events are discarded.
func SetupPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.NATS.Enabled() {
		logger.Info("NATS is not configured, events will not be published")
		return messaging.NoopPublisher{}, func() {}, nil
	}
	nc, err := pnats.NewClient(cfg.NATS.Url, cfg.NATS.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := pnats.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if err = pnats.EnsureStream(ctx, js, StreamName, messaging.InventorySubjects); err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to prepare event stream: %w", err)
	}
	logger.Info("Connected to NATS", "url", cfg.NATS.Url, "stream", StreamName)
	publisher := messaging.NewBreakerPublisher(pnats.NewNatsPublisher(js), cfg.Breaker, logger)
	return publisher, nc.Close, nil
}

// SetupHttpHandler builds the router with every inventory route.
// Used by tests to exercise the full middleware chain.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return otelhttp.NewHandler(mux, "inventory-http")
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	handler := rest.NewHandler(deps.InventoryService, deps.Logger)
	handler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures the HTTP server.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

// SetupGrpcServer creates the gRPC server exposing the health service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	return server.NewGRPCServer(deps.Logger, reflectionEnabled, deps.Health.Register)
}
