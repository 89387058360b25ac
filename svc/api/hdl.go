package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/hlog"
	"golang.org/x/text/unicode/norm"

	"clipshare/cfg"
	"clipshare/pkg/domain"
	"clipshare/svc/svc"
	"clipshare/svc/util"
)

const maxRequestSize = 256 * 1024

type Hdl struct {
	account   *svc.Account
	clipboard *svc.Clipboard
	cfg       *cfg.Cfg
}

type userCtxKey struct{}

func userFrom(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userCtxKey{}).(*domain.User)
	return u
}

// RequireUser resolves the session cookie and injects the user into the
// request context; without a valid session the request ends with a 401.
func (h *Hdl) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.account.Resolve(r.Context(), h.sessionToken(r))
		if err != nil {
			writeErr(w, domain.ErrNotAuthenticated, util.GetRequestID(r.Context()))
			return
		}
		ctx := context.WithValue(r.Context(), userCtxKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Hdl) sessionToken(r *http.Request) string {
	c, err := r.Cookie(h.cfg.SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (h *Hdl) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Hdl) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func decode(r *http.Request, w http.ResponseWriter, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			hlog.FromRequest(r).Warn().Msg("empty request body")
		} else {
			hlog.FromRequest(r).Warn().Err(err).Msg("invalid request body")
		}
		return domain.ErrInvalidRequest
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error, requestID string) {
	statusCode := domain.Status(err)
	detail := domain.Detail(err)
	if statusCode >= 500 {
		detail = "Internal server error"
		util.Error().
			Err(err).
			Str("request_id", requestID).
			Msg("internal error with detailed info")
	}
	writeJSON(w, statusCode, map[string]string{"detail": detail})
}

// sanitizeContent normalizes to NFC and drops control characters other than
// whitespace so stored snippets round-trip cleanly across clients.
func sanitizeContent(s string) string {
	s = norm.NFC.String(s)
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r != utf8.RuneError {
				v = append(v, r)
			}
		}
		s = string(v)
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}
