package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"clipshare/pkg/domain"
	"clipshare/svc/util"
)

type contentReq struct {
	Content string `json:"content"`
}

type shareResp struct {
	ShareCode string `json:"share_code"`
}

func itemID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidRequest
	}
	return id, nil
}

func (h *Hdl) ListItems(w http.ResponseWriter, r *http.Request) {
	requestID := util.GetRequestID(r.Context())
	user := userFrom(r.Context())
	items, err := h.clipboard.List(r.Context(), user.ID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list items failed")
		writeErr(w, err, requestID)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Hdl) CreateItem(w http.ResponseWriter, r *http.Request) {
	requestID := util.GetRequestID(r.Context())
	user := userFrom(r.Context())
	var req contentReq
	if err := decode(r, w, &req); err != nil {
		writeErr(w, err, requestID)
		return
	}
	item, err := h.clipboard.Create(r.Context(), user.ID, sanitizeContent(req.Content))
	if err != nil {
		writeErr(w, err, requestID)
		return
	}
	hlog.FromRequest(r).Info().Int64("item_id", item.ID).Msg("item created")
	writeJSON(w, http.StatusOK, item)
}

func (h *Hdl) GetItem(w http.ResponseWriter, r *http.Request) {
	requestID := util.GetRequestID(r.Context())
	user := userFrom(r.Context())
	id, err := itemID(r)
	if err != nil {
		writeErr(w, err, requestID)
		return
	}
	item, err := h.clipboard.Get(r.Context(), user.ID, id)
	if err != nil {
		writeErr(w, err, requestID)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Hdl) UpdateItem(w http.ResponseWriter, r *http.Request) {
	requestID := util.GetRequestID(r.Context())
	user := userFrom(r.Context())
	id, err := itemID(r)
	if err != nil {
		writeErr(w, err, requestID)
		return
	}
	var req contentReq
	if err := decode(r, w, &req); err != nil {
		writeErr(w, err, requestID)
		return
	}
	item, err := h.clipboard.Update(r.Context(), user.ID, id, sanitizeContent(req.Content))
	if err != nil {
		writeErr(w, err, requestID)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Hdl) DeleteItem(w http.ResponseWriter, r *http.Request) {
	requestID := util.GetRequestID(r.Context())
	user := userFrom(r.Context())
	id, err := itemID(r)
	if err != nil {
		writeErr(w, err, requestID)
		return
	}
	if err := h.clipboard.Delete(r.Context(), user.ID, id); err != nil {
		writeErr(w, err, requestID)
		return
	}
	hlog.FromRequest(r).Info().Int64("item_id", id).Msg("item deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Hdl) ShareItem(w http.ResponseWriter, r *http.Request) {
	requestID := util.GetRequestID(r.Context())
	user := userFrom(r.Context())
	id, err := itemID(r)
	if err != nil {
		writeErr(w, err, requestID)
		return
	}
	code, err := h.clipboard.Share(r.Context(), user.ID, id)
	if err != nil {
		writeErr(w, err, requestID)
		return
	}
	writeJSON(w, http.StatusOK, shareResp{ShareCode: code})
}

func (h *Hdl) UnshareItem(w http.ResponseWriter, r *http.Request) {
	requestID := util.GetRequestID(r.Context())
	user := userFrom(r.Context())
	id, err := itemID(r)
	if err != nil {
		writeErr(w, err, requestID)
		return
	}
	if err := h.clipboard.Unshare(r.Context(), user.ID, id); err != nil {
		writeErr(w, err, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
