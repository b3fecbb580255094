package grpc

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophsnap/internal/common"
	pb "github.com/dmitrijs2005/gophsnap/internal/proto"
	"github.com/dmitrijs2005/gophsnap/internal/server/auth"
	"github.com/dmitrijs2005/gophsnap/internal/server/models"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// methods that need a valid access token
var authenticated = map[string]bool{
	pb.FullMethod(pb.MethodLogout):            true,
	pb.FullMethod(pb.MethodMe):                true,
	pb.FullMethod(pb.MethodPlaceBet):          true,
	pb.FullMethod(pb.MethodRequestWithdrawal): true,
}

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok && c != nil
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "request handled", "method", info.FullMethod, "code", status.Code(err).String(), "took", time.Since(start))
	return resp, err
}

// maintenanceInterceptor rejects Snapshot calls other than ServerInfo while
// the persisted settings have maintenance on. Health checks always pass.
func (s *GRPCServer) maintenanceInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !strings.HasPrefix(info.FullMethod, "/"+pb.ServiceName+"/") || info.FullMethod == pb.FullMethod(pb.MethodServerInfo) {
		return handler(ctx, req)
	}

	var maintenance bool
	_ = s.store.View(ctx, func(g *models.Graph) error {
		maintenance = g.Settings.Maintenance
		return nil
	})
	if maintenance {
		return nil, status.Error(codes.Unavailable, common.ErrMaintenance.Error())
	}

	return handler(ctx, req)
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if authenticated[info.FullMethod] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		claims, err := s.users.Authenticate(ctx, accessToken)
		if err != nil {
			return nil, toStatus(err)
		}

		ctx = context.WithValue(ctx, claimsKey, claims)

	}

	return handler(ctx, req)
}
