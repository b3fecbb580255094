package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/gophsnap/internal/logging"
	pb "github.com/dmitrijs2005/gophsnap/internal/proto"
	"github.com/dmitrijs2005/gophsnap/internal/server/services"
	"github.com/dmitrijs2005/gophsnap/internal/server/snapshot"
)

type GRPCServer struct {
	address string
	store   *snapshot.Store
	users   *services.UserService
	casino  *services.CasinoService
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, store *snapshot.Store, us *services.UserService, cs *services.CasinoService) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		store:   store,
		users:   us,
		casino:  cs,
	}
}

// newServer creates the gRPC server with interceptors and the service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.loggingInterceptor,
		s.maintenanceInterceptor,
		s.accessTokenInterceptor,
	))
	pb.RegisterSnapshotServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv
}

// Run serves on the configured address until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
