package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"homecrm-backend/internal/api/grpc/interceptor"
	"homecrm-backend/internal/logger"
)

// ServiceName is the health service name probes ask about. The empty
// name reports the same status.
const ServiceName = "homecrm.Backend"

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthServer exposes the standard gRPC health protocol, backed by a
// periodic database ping.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	db     Pinger
}

func NewHealthServer(db Pinger) *HealthServer {
	s := grpc.NewServer(
		grpc.UnaryInterceptor(interceptor.NewLoggingInterceptor().Unary()),
	)
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)

	// Register reflection service for grpcurl
	reflection.Register(s)

	hs := &HealthServer{server: s, health: h, db: db}
	hs.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return hs
}

func (hs *HealthServer) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	hs.health.SetServingStatus("", status)
	hs.health.SetServingStatus(ServiceName, status)
}

// Check pings the database once and updates the serving status.
func (hs *HealthServer) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := hs.db.PingContext(ctx); err != nil {
		hs.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return err
	}
	hs.setStatus(healthpb.HealthCheckResponse_SERVING)
	return nil
}

// Watch re-checks the database every interval until ctx is done.
func (hs *HealthServer) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := hs.Check(ctx); err != nil {
			logger.Warn("Health check failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (hs *HealthServer) Serve(lis net.Listener) error {
	return hs.server.Serve(lis)
}

// Shutdown marks the service as not serving and stops accepting RPCs.
func (hs *HealthServer) Shutdown() {
	hs.health.Shutdown()
	hs.server.GracefulStop()
}
