package client

import (
	"context"
	"strings"
	"sync"

	"clipshare/pkg/domain"
)

type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// authAPI is the slice of the gateway the session gate needs.
type authAPI interface {
	Signup(ctx context.Context, params domain.SignupParams) (*domain.User, error)
	Login(ctx context.Context, params domain.LoginParams) (*domain.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*domain.User, error)
}

// SignupForm is the raw registration input before local validation.
type SignupForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	LinkedIn        string
}

const minPasswordLen = 6

// Gate tracks who, if anyone, is signed in. It starts Unknown and never
// returns there: the first CheckSession settles it one way or the other.
// Probe failures of any sort resolve to Anonymous rather than an error, so
// the caller always gets a usable answer.
type Gate struct {
	api    authAPI
	notify *Notifier

	mu    sync.Mutex
	state State
	user  *domain.User
}

func NewGate(api authAPI, notify *Notifier) *Gate {
	if api == nil {
		panic("session gate: nil api")
	}
	return &Gate{api: api, notify: notify, state: StateUnknown}
}

// CheckSession probes the backend for an existing session. It cannot fail:
// a rejected or unreachable probe means Anonymous.
func (g *Gate) CheckSession(ctx context.Context) State {
	user, err := g.api.Me(ctx)
	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil || user == nil {
		g.state = StateAnonymous
		g.user = nil
		return g.state
	}
	g.state = StateAuthenticated
	g.user = user
	return g.state
}

// Login authenticates and transitions to Authenticated on success. On
// failure the state is unchanged.
func (g *Gate) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := g.api.Login(ctx, domain.LoginParams{Email: email, Password: password})
	if err != nil {
		g.notify.Notify(Error, errMessage(err, "Login failed"), TTLError)
		return nil, err
	}
	g.mu.Lock()
	g.state = StateAuthenticated
	g.user = user
	g.mu.Unlock()
	return user, nil
}

// Signup validates the form locally first; only a clean form reaches the
// network. Success signs the new user in directly.
func (g *Gate) Signup(ctx context.Context, form SignupForm) (*domain.User, error) {
	if err := validateSignup(form); err != nil {
		g.notify.Notify(Error, err.Error(), TTLError)
		return nil, err
	}
	user, err := g.api.Signup(ctx, domain.SignupParams{
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
		LinkedIn: strings.TrimSpace(form.LinkedIn),
	})
	if err != nil {
		g.notify.Notify(Error, errMessage(err, "Signup failed"), TTLError)
		return nil, err
	}
	g.mu.Lock()
	g.state = StateAuthenticated
	g.user = user
	g.mu.Unlock()
	return user, nil
}

// Logout transitions to Anonymous no matter what the backend says; a failed
// revocation still ends the local session. The server's error is returned
// for reporting but does not undo the transition.
func (g *Gate) Logout(ctx context.Context) error {
	err := g.api.Logout(ctx)
	g.mu.Lock()
	g.state = StateAnonymous
	g.user = nil
	g.mu.Unlock()
	return err
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// User returns the signed-in user, or nil when not Authenticated.
func (g *Gate) User() *domain.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateAuthenticated || g.user == nil {
		return nil
	}
	u := *g.user
	return &u
}

func validateSignup(form SignupForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return &ValidationError{Msg: "Name is required"}
	}
	if strings.TrimSpace(form.Email) == "" {
		return &ValidationError{Msg: "Email is required"}
	}
	if form.Password != form.ConfirmPassword {
		return &ValidationError{Msg: "Passwords do not match"}
	}
	if len(form.Password) < minPasswordLen {
		return &ValidationError{Msg: "Password must be at least 6 characters long"}
	}
	return nil
}
