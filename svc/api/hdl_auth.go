package api

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"clipshare/pkg/domain"
	"clipshare/svc/util"
)

func (h *Hdl) Signup(w http.ResponseWriter, r *http.Request) {
	requestID := util.GetRequestID(r.Context())
	var params domain.SignupParams
	if err := decode(r, w, &params); err != nil {
		writeErr(w, err, requestID)
		return
	}
	user, token, err := h.account.Signup(r.Context(), params)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("signup failed")
		writeErr(w, err, requestID)
		return
	}
	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, user)
}

func (h *Hdl) Login(w http.ResponseWriter, r *http.Request) {
	requestID := util.GetRequestID(r.Context())
	var params domain.LoginParams
	if err := decode(r, w, &params); err != nil {
		writeErr(w, err, requestID)
		return
	}
	user, token, err := h.account.Login(r.Context(), params)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("email", params.Email).Msg("login failed")
		writeErr(w, err, requestID)
		return
	}
	h.setSessionCookie(w, token)
	hlog.FromRequest(r).Info().Int64("user_id", user.ID).Msg("login")
	writeJSON(w, http.StatusOK, user)
}

func (h *Hdl) Logout(w http.ResponseWriter, r *http.Request) {
	requestID := util.GetRequestID(r.Context())
	if err := h.account.Logout(r.Context(), h.sessionToken(r)); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("logout failed")
		writeErr(w, err, requestID)
		return
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Hdl) Me(w http.ResponseWriter, r *http.Request) {
	requestID := util.GetRequestID(r.Context())
	user, err := h.account.Resolve(r.Context(), h.sessionToken(r))
	if err != nil {
		writeErr(w, err, requestID)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
