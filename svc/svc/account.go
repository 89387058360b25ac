package svc

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"clipshare/cfg"
	"clipshare/metrics"
	"clipshare/pkg/domain"
	"clipshare/svc/auth"
	"clipshare/svc/db"
	"clipshare/svc/session"
	"clipshare/svc/util"
)

// Account owns signup, login and the session lifecycle on the server side.
type Account struct {
	db       *db.SQLite
	sessions session.Store
	hasher   *auth.Hasher
	cfg      *cfg.Cfg
}

func NewAccount(sqlDB *db.SQLite, sessions session.Store, h *auth.Hasher, c *cfg.Cfg) *Account {
	if sqlDB == nil || sessions == nil || h == nil || c == nil {
		panic("account service: nil dependency (db, sessions, hasher, or cfg)")
	}
	return &Account{db: sqlDB, sessions: sessions, hasher: h, cfg: c}
}

// Signup creates the account and immediately opens a session for it, the
// same way the login path does.
func (a *Account) Signup(ctx context.Context, params domain.SignupParams) (*domain.User, string, error) {
	name := strings.TrimSpace(params.Name)
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if name == "" || email == "" || params.Password == "" {
		return nil, "", domain.ErrInvalidRequest
	}
	if len(params.Password) < a.cfg.MinPasswordLen {
		return nil, "", domain.ErrPasswordTooShort
	}
	existing, err := a.db.UserByEmail(ctx, email)
	if err != nil {
		return nil, "", errors.Wrap(err, "check existing user")
	}
	if existing != nil {
		return nil, "", domain.ErrEmailTaken
	}
	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return nil, "", errors.Wrap(err, "hash password")
	}
	user, err := a.db.CreateUser(ctx, name, email, hash, strings.TrimSpace(params.LinkedIn))
	if err != nil {
		return nil, "", err
	}
	token, err := a.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	metrics.SignupTotal.Inc()
	util.Info().Int64("user_id", user.ID).Msg("account created")
	return user.Public(), token, nil
}

func (a *Account) Login(ctx context.Context, params domain.LoginParams) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	user, err := a.db.UserByEmail(ctx, email)
	if err != nil {
		return nil, "", errors.Wrap(err, "lookup user")
	}
	if user == nil {
		metrics.LoginTotal.WithLabelValues("failure").Inc()
		return nil, "", domain.ErrInvalidCredentials
	}
	match, err := a.hasher.Verify(params.Password, user.PasswordHash)
	if err != nil {
		return nil, "", errors.Wrap(err, "verify password")
	}
	if !match {
		metrics.LoginTotal.WithLabelValues("failure").Inc()
		return nil, "", domain.ErrInvalidCredentials
	}
	token, err := a.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	metrics.LoginTotal.WithLabelValues("success").Inc()
	return user.Public(), token, nil
}

func (a *Account) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return a.sessions.Delete(ctx, token)
}

// Resolve maps a session token to its user, or ErrNotAuthenticated.
func (a *Account) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	userID, ok, err := a.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, errors.Wrap(err, "lookup session")
	}
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	user, err := a.db.UserByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "lookup session user")
	}
	if user == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return user.Public(), nil
}

func (a *Account) SessionTTL() time.Duration {
	return a.cfg.SessionTTL
}

func (a *Account) openSession(ctx context.Context, userID int64) (string, error) {
	token, err := session.NewToken()
	if err != nil {
		return "", err
	}
	if err := a.sessions.Create(ctx, token, userID, a.cfg.SessionTTL); err != nil {
		return "", errors.Wrap(err, "store session")
	}
	return token, nil
}
