package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"clipshare/pkg/domain"
)

const genericErrDetail = "An error occurred"

// Gateway is the typed boundary to the backing service. The cookie jar owns
// the session credential: it is attached to every request and never handed
// to callers. The gateway does not retry; a failed attempt surfaces
// immediately and retrying is the caller's decision.
type Gateway struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

type GatewayOption func(*Gateway)

func WithHTTPClient(c *http.Client) GatewayOption {
	return func(g *Gateway) { g.http = c }
}

func WithLogger(log zerolog.Logger) GatewayOption {
	return func(g *Gateway) { g.log = log }
}

func NewGateway(baseURL string, opts ...GatewayOption) (*Gateway, error) {
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.http == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, errors.Wrap(err, "cookie jar")
		}
		g.http = &http.Client{Jar: jar}
	}
	return g, nil
}

// Call issues one request and decodes the JSON response into out when out is
// non-nil. Timeouts are the transport's business; no client-side deadline is
// imposed beyond the caller's ctx.
func (g *Gateway) Call(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return errors.Wrap(err, "encode request body")
		}
		reader = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := g.http.Do(req)
	if err != nil {
		g.log.Warn().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("transport failure")
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := genericErrDetail
		var errBody struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Detail != "" {
			detail = errBody.Detail
		}
		g.log.Debug().
			Int("status", resp.StatusCode).
			Str("method", method).
			Str("endpoint", endpoint).
			Str("detail", detail).
			Msg("request rejected")
		return &RequestError{Status: resp.StatusCode, Detail: detail}
	}
	if out == nil {
		return nil
	}
	ct := resp.Header.Get("Content-Type")
	if resp.StatusCode == http.StatusNoContent || !strings.Contains(ct, "application/json") {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response body")
	}
	return nil
}

func (g *Gateway) Signup(ctx context.Context, params domain.SignupParams) (*domain.User, error) {
	var user domain.User
	if err := g.Call(ctx, http.MethodPost, "/api/auth/signup", params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *Gateway) Login(ctx context.Context, params domain.LoginParams) (*domain.User, error) {
	var user domain.User
	if err := g.Call(ctx, http.MethodPost, "/api/auth/login", params, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *Gateway) Logout(ctx context.Context) error {
	return g.Call(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (g *Gateway) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := g.Call(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *Gateway) ListItems(ctx context.Context) ([]domain.ClipboardItem, error) {
	var items []domain.ClipboardItem
	if err := g.Call(ctx, http.MethodGet, "/api/clipboard", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (g *Gateway) CreateItem(ctx context.Context, content string) (*domain.ClipboardItem, error) {
	var item domain.ClipboardItem
	body := map[string]string{"content": content}
	if err := g.Call(ctx, http.MethodPost, "/api/clipboard", body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (g *Gateway) UpdateItem(ctx context.Context, id int64, content string) (*domain.ClipboardItem, error) {
	var item domain.ClipboardItem
	body := map[string]string{"content": content}
	if err := g.Call(ctx, http.MethodPut, fmt.Sprintf("/api/clipboard/%d", id), body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (g *Gateway) DeleteItem(ctx context.Context, id int64) error {
	return g.Call(ctx, http.MethodDelete, fmt.Sprintf("/api/clipboard/%d", id), nil, nil)
}

func (g *Gateway) ShareItem(ctx context.Context, id int64) (string, error) {
	var resp struct {
		ShareCode string `json:"share_code"`
	}
	if err := g.Call(ctx, http.MethodPost, fmt.Sprintf("/api/clipboard/%d/share", id), nil, &resp); err != nil {
		return "", err
	}
	return resp.ShareCode, nil
}

func (g *Gateway) UnshareItem(ctx context.Context, id int64) error {
	return g.Call(ctx, http.MethodDelete, fmt.Sprintf("/api/clipboard/%d/share", id), nil, nil)
}

func (g *Gateway) ValidateShareCode(ctx context.Context, code string) (*domain.SharedView, error) {
	var view domain.SharedView
	body := map[string]string{"code": code}
	if err := g.Call(ctx, http.MethodPost, "/api/share/validate", body, &view); err != nil {
		return nil, err
	}
	return &view, nil
}
