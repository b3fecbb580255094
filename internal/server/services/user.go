// Package services contains server-side business logic built on the shared
// snapshot store. This file implements UserService, which handles
// registration, login, sessions and issuing JWTs.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gophsnap/internal/common"
	"github.com/dmitrijs2005/gophsnap/internal/logging"
	"github.com/dmitrijs2005/gophsnap/internal/server/auth"
	"github.com/dmitrijs2005/gophsnap/internal/server/config"
	"github.com/dmitrijs2005/gophsnap/internal/server/models"
	"github.com/dmitrijs2005/gophsnap/internal/server/snapshot"
)

// RegisterRequest is the input of UserService.Register.
type RegisterRequest struct {
	Email    string
	Username string
	RealName string
	Password string
}

// LoginRequest is the input of UserService.Login.
type LoginRequest struct {
	Username string
	Email    string
	Password string
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	AccessToken string
	SessionID   string
	ExpiresAt   time.Time
	User        *models.User
}

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials, open a session and mint an access token
// - Authenticate: resolve an access token to a live session
// - Logout: close a session
type UserService struct {
	store                       *snapshot.Store
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	sessionValidityDuration     time.Duration
	bcryptCost                  int
	now                         func() time.Time
}

// NewUserService constructs a UserService on top of the shared store.
func NewUserService(store *snapshot.Store, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		store:                       store,
		logger:                      logger.With("module", "users"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		sessionValidityDuration:     cfg.SessionValidityDuration,
		bcryptCost:                  bcrypt.DefaultCost,
		now:                         time.Now,
	}
}

// Register validates r and creates an active user with the initial balance,
// recorded as a bonus transaction. Usernames and emails are unique.
func (s *UserService) Register(ctx context.Context, r RegisterRequest) (*models.User, error) {
	if err := ValidateRegister(r); err != nil {
		s.logger.Warn(ctx, "invalid registration", "username", r.Username, "email", r.Email, "error", err)
		return nil, err
	}

	// hashing is slow; keep it out of the critical section
	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var created *models.User
	err = s.store.Update(ctx, func(g *models.Graph) error {
		for _, u := range g.Users {
			if u.Username == r.Username {
				return common.ErrUsernameExists
			}
		}
		for _, u := range g.Users {
			if u.Email == r.Email {
				return common.ErrEmailExists
			}
		}

		now := s.now().UTC()
		u := &models.User{
			ID:        common.NewID(now),
			Username:  r.Username,
			Email:     r.Email,
			RealName:  r.RealName,
			Password:  string(hash),
			Balance:   common.InitialBalance,
			Status:    models.StatusActive,
			CreatedAt: now,
		}
		bonus := &models.Transaction{
			ID:           common.NewID(now),
			UserID:       u.ID,
			Kind:         models.KindBonus,
			Amount:       common.InitialBalance,
			BalanceAfter: u.Balance,
			CreatedAt:    now,
		}
		u.Transactions = []*models.Transaction{bonus}
		g.Users = append(g.Users, u)
		g.AllTransactions = append(g.AllTransactions, bonus.Clone())

		created = u.Clone()
		return nil
	})
	if err != nil {
		if !errors.Is(err, common.ErrUsernameExists) && !errors.Is(err, common.ErrEmailExists) {
			s.logger.Error(ctx, "registration failed", "username", r.Username, "error", err)
		} else {
			s.logger.Warn(ctx, "registration rejected", "username", r.Username, "error", err)
		}
		return nil, err
	}

	s.logger.Info(ctx, "registration successful", "username", created.Username, "user_id", created.ID)
	return created, nil
}

// Login verifies the credentials of an active user, records the login time,
// opens a session and returns an access token bound to it. Expired sessions
// are dropped on the way.
func (s *UserService) Login(ctx context.Context, r LoginRequest) (*LoginResult, error) {
	if err := ValidateLogin(r); err != nil {
		s.logger.Warn(ctx, "invalid login", "username", r.Username, "email", r.Email, "error", err)
		return nil, err
	}

	var userID, hash string
	err := s.store.View(ctx, func(g *models.Graph) error {
		u := g.FindUserByLogin(r.Username, r.Email)
		if u == nil {
			return common.ErrorNotFound
		}
		if !u.Active() {
			return common.ErrUserInactive
		}
		userID, hash = u.ID, u.Password
		return nil
	})
	if err != nil {
		s.logger.Warn(ctx, "login rejected", "username", r.Username, "email", r.Email, "error", err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(r.Password)); err != nil {
		s.logger.Warn(ctx, "wrong password", "username", r.Username)
		return nil, common.ErrorUnauthorized
	}

	now := s.now().UTC()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionValidityDuration),
	}

	var user *models.User
	err = s.store.Update(ctx, func(g *models.Graph) error {
		u := g.FindUser(userID)
		if u == nil {
			return common.ErrorNotFound
		}
		// the user may have been deactivated since the check above
		if !u.Active() {
			return common.ErrUserInactive
		}
		u.LastLogin = now
		g.Sessions = slices.DeleteFunc(g.Sessions, func(s *models.Session) bool { return s.Expired(now) })
		g.Sessions = append(g.Sessions, session.Clone())
		user = u.Clone()
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "login failed", "username", r.Username, "error", err)
		return nil, err
	}

	token, err := auth.GenerateToken(userID, session.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "login successful", "username", user.Username, "user_id", userID)
	return &LoginResult{AccessToken: token, SessionID: session.ID, ExpiresAt: session.ExpiresAt, User: user}, nil
}

// Authenticate resolves an access token to its claims. The token must
// verify, its session must still exist and not be expired, and its user
// must be active.
func (s *UserService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = s.store.View(ctx, func(g *models.Graph) error {
		sess := g.FindSession(claims.SessionID)
		if sess == nil || sess.UserID != claims.UserID || sess.Expired(now) {
			return common.ErrorUnauthorized
		}
		u := g.FindUser(claims.UserID)
		if u == nil {
			return common.ErrorUnauthorized
		}
		if !u.Active() {
			return common.ErrUserInactive
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Logout removes the session. Logging out of a session that no longer
// exists is not an error.
func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	err := s.store.Update(ctx, func(g *models.Graph) error {
		g.Sessions = slices.DeleteFunc(g.Sessions, func(s *models.Session) bool { return s.ID == sessionID })
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "logout failed", "session_id", sessionID, "error", err)
		return err
	}
	s.logger.Info(ctx, "logout successful", "session_id", sessionID)
	return nil
}

// Get returns a copy of the user with the given id.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	var user *models.User
	err := s.store.View(ctx, func(g *models.Graph) error {
		u := g.FindUser(userID)
		if u == nil {
			return common.ErrorNotFound
		}
		user = u.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
