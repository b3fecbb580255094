// Package proto defines the gophsnap.v1.Snapshot gRPC service shared by the
// server and the client. Messages are google.protobuf.Struct values, so no
// generated message types are needed; the descriptors below follow the
// layout protoc-gen-go-grpc produces.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "gophsnap.v1.Snapshot"

// Method names. Requests and responses are google.protobuf.Struct messages.
const (
	MethodRegister          = "Register"
	MethodLogin             = "Login"
	MethodLogout            = "Logout"
	MethodMe                = "Me"
	MethodPlaceBet          = "PlaceBet"
	MethodRequestWithdrawal = "RequestWithdrawal"
	MethodServerInfo        = "ServerInfo"
)

// FullMethod returns the path a client invokes for method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// SnapshotServer is the server API of the Snapshot service.
type SnapshotServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Me(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PlaceBet(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RequestWithdrawal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ServerInfo(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(SnapshotServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SnapshotServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(SnapshotServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// SnapshotServiceDesc describes the Snapshot service for grpc.Server.RegisterService.
var SnapshotServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SnapshotServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(MethodRegister, SnapshotServer.Register),
		unaryMethod(MethodLogin, SnapshotServer.Login),
		unaryMethod(MethodLogout, SnapshotServer.Logout),
		unaryMethod(MethodMe, SnapshotServer.Me),
		unaryMethod(MethodPlaceBet, SnapshotServer.PlaceBet),
		unaryMethod(MethodRequestWithdrawal, SnapshotServer.RequestWithdrawal),
		unaryMethod(MethodServerInfo, SnapshotServer.ServerInfo),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophsnap/v1/snapshot.proto",
}

// RegisterSnapshotServer registers srv on s.
func RegisterSnapshotServer(s grpc.ServiceRegistrar, srv SnapshotServer) {
	s.RegisterService(&SnapshotServiceDesc, srv)
}

// SnapshotClient is the client API of the Snapshot service.
type SnapshotClient interface {
	Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Logout(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Me(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	PlaceBet(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RequestWithdrawal(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ServerInfo(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type snapshotClient struct {
	cc grpc.ClientConnInterface
}

func NewSnapshotClient(cc grpc.ClientConnInterface) SnapshotClient {
	return &snapshotClient{cc}
}

func (c *snapshotClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *snapshotClient) Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodRegister, in, opts)
}

func (c *snapshotClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodLogin, in, opts)
}

func (c *snapshotClient) Logout(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodLogout, in, opts)
}

func (c *snapshotClient) Me(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodMe, in, opts)
}

func (c *snapshotClient) PlaceBet(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodPlaceBet, in, opts)
}

func (c *snapshotClient) RequestWithdrawal(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodRequestWithdrawal, in, opts)
}

func (c *snapshotClient) ServerInfo(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodServerInfo, in, opts)
}
