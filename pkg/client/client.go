// Package client implements the application-side state machine for the
// clipboard service: a typed gateway over the REST surface, a session gate,
// an optimistic-free item store, a share code resolver, and a transient
// notification channel. All server mutations are confirm-then-apply; local
// state never runs ahead of the backend.
package client

import (
	"context"

	"clipshare/pkg/domain"
)

// Client wires the pieces together behind one handle. The zero value is not
// usable; construct with New.
type Client struct {
	Gateway  *Gateway
	Gate     *Gate
	Store    *Store
	Resolver *ShareResolver
	Notify   *Notifier
}

func New(baseURL string, opts ...GatewayOption) (*Client, error) {
	gw, err := NewGateway(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	notify := NewNotifier()
	return &Client{
		Gateway:  gw,
		Gate:     NewGate(gw, notify),
		Store:    NewStore(gw, notify),
		Resolver: NewShareResolver(gw, notify),
		Notify:   notify,
	}, nil
}

// Init settles the session question and, when a session exists, loads the
// item collection. An anonymous start is not an error.
func (c *Client) Init(ctx context.Context) error {
	if c.Gate.CheckSession(ctx) != StateAuthenticated {
		return nil
	}
	return c.Store.Load(ctx)
}

// Login authenticates and loads the fresh user's items.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := c.Gate.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := c.Store.Load(ctx); err != nil {
		return user, err
	}
	return user, nil
}

// Signup registers, signs in, and starts with an empty collection.
func (c *Client) Signup(ctx context.Context, form SignupForm) (*domain.User, error) {
	user, err := c.Gate.Signup(ctx, form)
	if err != nil {
		return nil, err
	}
	c.Store.Clear()
	return user, nil
}

// Logout ends the local session unconditionally and drops cached items, even
// when the server-side revocation fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.Gate.Logout(ctx)
	c.Store.Clear()
	return err
}

// ResolveShare looks up shared content by code.
func (c *Client) ResolveShare(ctx context.Context, code string) (*domain.SharedView, error) {
	return c.Resolver.Resolve(ctx, code)
}

// Close releases background resources. The gateway itself holds none.
func (c *Client) Close() {
	c.Notify.Stop()
}
