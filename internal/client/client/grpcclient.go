package client

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/gophsnap/internal/client/models"
	"github.com/dmitrijs2005/gophsnap/internal/common"
	pb "github.com/dmitrijs2005/gophsnap/internal/proto"
)

// Client is the API the CLI needs from the server.
type Client interface {
	Register(ctx context.Context, email, username, realName, password string) (*models.User, error)
	Login(ctx context.Context, username, email, password string) (*models.Session, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	PlaceBet(ctx context.Context, choice string, amount int64) (*models.Bet, int64, error)
	RequestWithdrawal(ctx context.Context, amount int64) (*models.Withdrawal, int64, error)
	ServerInfo(ctx context.Context) (*models.ServerInfo, error)
	Close() error
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.SnapshotClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewSnapshotClientService(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient(opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewSnapshotClient(conn)
	return nil
}

func request(m map[string]any) *structpb.Struct {
	// only strings and numbers are passed, which NewStruct always accepts
	req, _ := structpb.NewStruct(m)
	return req
}

func (s *GRPCClient) Register(ctx context.Context, email, username, realName, password string) (*models.User, error) {

	resp, err := s.client.Register(ctx, request(map[string]any{
		"email":    email,
		"username": username,
		"realName": realName,
		"password": password,
	}))
	if err != nil {
		return nil, s.mapError(err)
	}

	u := toUser(resp.GetFields()["user"].GetStructValue())
	return &u, nil
}

func (s *GRPCClient) Login(ctx context.Context, username, email, password string) (*models.Session, error) {

	resp, err := s.client.Login(ctx, request(map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	}))
	if err != nil {
		return nil, s.mapError(err)
	}

	f := resp.GetFields()
	session := &models.Session{
		AccessToken: f["accessToken"].GetStringValue(),
		SessionID:   f["sessionId"].GetStringValue(),
		ExpiresAt:   f["expiresAt"].GetStringValue(),
		User:        toUser(f["user"].GetStructValue()),
	}
	s.setToken(session.AccessToken)

	return session, nil
}

// Logout ends the server session and forgets the token even when the
// server call fails.
func (s *GRPCClient) Logout(ctx context.Context) error {
	defer s.setToken("")

	if _, err := s.client.Logout(ctx, request(nil)); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Me(ctx context.Context) (*models.User, error) {
	resp, err := s.client.Me(ctx, request(nil))
	if err != nil {
		return nil, s.mapError(err)
	}

	u := toUser(resp.GetFields()["user"].GetStructValue())
	return &u, nil
}

// PlaceBet returns the settled bet and the balance after it.
func (s *GRPCClient) PlaceBet(ctx context.Context, choice string, amount int64) (*models.Bet, int64, error) {
	resp, err := s.client.PlaceBet(ctx, request(map[string]any{
		"choice": choice,
		"amount": amount,
	}))
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	f := resp.GetFields()["bet"].GetStructValue().GetFields()
	bet := &models.Bet{
		ID:      f["id"].GetStringValue(),
		Game:    f["game"].GetStringValue(),
		Choice:  f["choice"].GetStringValue(),
		Outcome: f["outcome"].GetStringValue(),
		Amount:  int64(f["amount"].GetNumberValue()),
		Payout:  int64(f["payout"].GetNumberValue()),
		Won:     f["won"].GetBoolValue(),
	}
	return bet, int64(resp.GetFields()["balance"].GetNumberValue()), nil
}

// RequestWithdrawal returns the pending withdrawal and the balance after it.
func (s *GRPCClient) RequestWithdrawal(ctx context.Context, amount int64) (*models.Withdrawal, int64, error) {
	resp, err := s.client.RequestWithdrawal(ctx, request(map[string]any{"amount": amount}))
	if err != nil {
		return nil, 0, s.mapError(err)
	}

	f := resp.GetFields()["withdrawal"].GetStructValue().GetFields()
	w := &models.Withdrawal{
		ID:     f["id"].GetStringValue(),
		Amount: int64(f["amount"].GetNumberValue()),
		Status: f["status"].GetStringValue(),
	}
	return w, int64(resp.GetFields()["balance"].GetNumberValue()), nil
}

func (s *GRPCClient) ServerInfo(ctx context.Context) (*models.ServerInfo, error) {
	resp, err := s.client.ServerInfo(ctx, request(nil))
	if err != nil {
		return nil, s.mapError(err)
	}

	ws := resp.GetFields()["webserver"].GetStructValue().GetFields()
	st := resp.GetFields()["settings"].GetStructValue().GetFields()
	return &models.ServerInfo{
		Name:            ws["name"].GetStringValue(),
		Version:         ws["version"].GetStringValue(),
		URL:             ws["url"].GetStringValue(),
		Port:            ws["port"].GetStringValue(),
		PaymentsEnabled: st["paymentsEnabled"].GetBoolValue(),
		Maintenance:     st["maintenance"].GetBoolValue(),
	}, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func toUser(v *structpb.Struct) models.User {
	f := v.GetFields()
	return models.User{
		ID:        f["id"].GetStringValue(),
		Username:  f["username"].GetStringValue(),
		Email:     f["email"].GetStringValue(),
		RealName:  f["realName"].GetStringValue(),
		Balance:   int64(f["balance"].GetNumberValue()),
		Status:    f["status"].GetStringValue(),
		CreatedAt: f["createdAt"].GetStringValue(),
		LastLogin: f["lastLogin"].GetStringValue(),
	}
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.InvalidArgument, codes.AlreadyExists, codes.NotFound, codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
