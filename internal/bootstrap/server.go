package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/slotbooking/api"
	"github.com/Domenick1991/slotbooking/config"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const serviceName = "slotbooking"

type Servers struct {
	grpcServer *grpc.Server
	health     *health.Server
	httpServer *http.Server
}

// Run starts the gRPC health server and the HTTP API and blocks until ctx is
// canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, deps api.RouterDeps) error {
	s := newServers(cfg, deps)

	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	go func() { errCh <- s.grpcServer.Serve(lis) }()

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.health.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	logrus.WithFields(logrus.Fields{"http": cfg.HTTP.Address, "grpc": cfg.GRPC.Address}).Info("servers started")

	select {
	case err := <-errCh:
		s.stop(cfg)
		return err
	case <-ctx.Done():
		logrus.Info("shutting down")
		return s.stop(cfg)
	}
}

func newServers(cfg *config.Config, deps api.RouterDeps) *Servers {
	if cfg.HTTP.Mode != "" {
		gin.SetMode(cfg.HTTP.Mode)
	}

	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	reflection.Register(grpcSrv)

	if deps.RequestTimeout == 0 {
		deps.RequestTimeout = time.Duration(cfg.HTTP.RequestTimeout) * time.Second
	}
	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Servers{
		grpcServer: grpcSrv,
		health:     healthSrv,
		httpServer: httpSrv,
	}
}

func (s *Servers) stop(cfg *config.Config) error {
	s.health.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownTimeout)*time.Second)
	defer cancel()
	s.grpcServer.GracefulStop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
