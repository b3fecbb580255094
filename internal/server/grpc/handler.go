package grpc

import (
	"context"
	"math"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/gophsnap/internal/server/models"
	"github.com/dmitrijs2005/gophsnap/internal/server/services"
)

func str(in *structpb.Struct, key string) string {
	return in.GetFields()[key].GetStringValue()
}

// integer reads a whole number field. Missing, fractional or out of range
// values report false.
func integer(in *structpb.Struct, key string) (int64, bool) {
	v, ok := in.GetFields()[key].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	n := v.NumberValue
	if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
		return 0, false
	}
	return int64(n), true
}

func timestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func userView(u *models.User) map[string]any {
	return map[string]any{
		"id":        u.ID,
		"username":  u.Username,
		"email":     u.Email,
		"realName":  u.RealName,
		"balance":   u.Balance,
		"status":    u.Status.String(),
		"createdAt": timestamp(u.CreatedAt),
		"lastLogin": timestamp(u.LastLogin),
	}
}

func respond(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func (s *GRPCServer) claims(ctx context.Context) (string, string, error) {
	c, ok := claimsFromContext(ctx)
	if !ok {
		return "", "", status.Error(codes.Unauthenticated, "missing token")
	}
	return c.UserID, c.SessionID, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	s.logger.Info(ctx, "Registration request")

	u, err := s.users.Register(ctx, services.RegisterRequest{
		Email:    str(req, "email"),
		Username: str(req, "username"),
		RealName: str(req, "realName"),
		Password: str(req, "password"),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return respond(map[string]any{"user": userView(u)})
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	res, err := s.users.Login(ctx, services.LoginRequest{
		Username: str(req, "username"),
		Email:    str(req, "email"),
		Password: str(req, "password"),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return respond(map[string]any{
		"accessToken": res.AccessToken,
		"sessionId":   res.SessionID,
		"expiresAt":   timestamp(res.ExpiresAt),
		"user":        userView(res.User),
	})
}

func (s *GRPCServer) Logout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	_, sessionID, err := s.claims(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.users.Logout(ctx, sessionID); err != nil {
		return nil, toStatus(err)
	}

	return respond(map[string]any{"ok": true})
}

func (s *GRPCServer) Me(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, _, err := s.claims(ctx)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}

	return respond(map[string]any{"user": userView(u)})
}

func (s *GRPCServer) PlaceBet(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, _, err := s.claims(ctx)
	if err != nil {
		return nil, err
	}

	amount, ok := integer(req, "amount")
	if !ok {
		return nil, status.Error(codes.InvalidArgument, services.CodeAmountInvalid)
	}

	bet, err := s.casino.PlaceBet(ctx, userID, str(req, "choice"), amount)
	if err != nil {
		return nil, toStatus(err)
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}

	return respond(map[string]any{
		"bet": map[string]any{
			"id":        bet.ID,
			"game":      bet.Game,
			"choice":    bet.Choice,
			"outcome":   bet.Outcome,
			"amount":    bet.Amount,
			"payout":    bet.Payout,
			"won":       bet.Payout > 0,
			"createdAt": timestamp(bet.CreatedAt),
		},
		"balance": u.Balance,
	})
}

func (s *GRPCServer) RequestWithdrawal(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, _, err := s.claims(ctx)
	if err != nil {
		return nil, err
	}

	amount, ok := integer(req, "amount")
	if !ok {
		return nil, status.Error(codes.InvalidArgument, services.CodeAmountInvalid)
	}

	w, err := s.casino.RequestWithdrawal(ctx, userID, amount)
	if err != nil {
		return nil, toStatus(err)
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}

	return respond(map[string]any{
		"withdrawal": map[string]any{
			"id":        w.ID,
			"amount":    w.Amount,
			"status":    w.Status.String(),
			"createdAt": timestamp(w.CreatedAt),
		},
		"balance": u.Balance,
	})
}

func (s *GRPCServer) ServerInfo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var ws models.Webserver
	var st models.Settings
	err := s.store.View(ctx, func(g *models.Graph) error {
		ws, st = g.Webserver, g.Settings
		return nil
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return respond(map[string]any{
		"webserver": map[string]any{
			"url":         ws.URL,
			"port":        ws.Port,
			"protocol":    ws.Protocol,
			"name":        ws.Name,
			"version":     ws.Version,
			"description": ws.Description,
			"author":      ws.Author,
			"license":     ws.License,
		},
		"settings": map[string]any{
			"paymentsEnabled": st.PaymentsEnabled,
			"maintenance":     st.Maintenance,
		},
	})
}
