// Package grpc runs the gRPC side endpoint of the server. It carries the
// standard grpc.health.v1 service, reporting SERVING while the backing
// store answers pings.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/herowall/internal/dbx"
	"github.com/dmitrijs2005/herowall/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the name the API reports its health under, next to the
// server-wide empty name.
const ServiceName = "herowall.v1.API"

const (
	defaultProbeInterval = 5 * time.Second
	probeTimeout         = 2 * time.Second
)

type GRPCServer struct {
	address  string
	store    dbx.Pinger
	logger   logging.Logger
	interval time.Duration
}

func NewGRPCServer(a string, l logging.Logger, store dbx.Pinger) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		store:    store,
		interval: defaultProbeInterval,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	s.probe(ctx, hs)

	go func() {
		t := time.NewTicker(s.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info(ctx, "Stopping gRPC server...")
				hs.Shutdown()
				srv.GracefulStop()
				return
			case <-t.C:
				s.probe(ctx, hs)
			}
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}

// probe pings the store and publishes the result for both the server-wide
// and the API service name.
func (s *GRPCServer) probe(ctx context.Context, hs *health.Server) {
	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := s.store.PingContext(pctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn(ctx, "store ping failed", "error", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}

	hs.SetServingStatus("", st)
	hs.SetServingStatus(ServiceName, st)
}
