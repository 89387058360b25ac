package api

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"clipshare/svc/util"
)

type validateReq struct {
	Code string `json:"code"`
}

// ValidateShareCode is the one anonymous read path: it checks the code
// against live state and returns the owner-less projection.
func (h *Hdl) ValidateShareCode(w http.ResponseWriter, r *http.Request) {
	requestID := util.GetRequestID(r.Context())
	var req validateReq
	if err := decode(r, w, &req); err != nil {
		writeErr(w, err, requestID)
		return
	}
	view, err := h.clipboard.ResolveShare(r.Context(), req.Code)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("share code validation failed")
		writeErr(w, err, requestID)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
