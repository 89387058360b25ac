package domain

import (
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrNotAuthenticated   = NewErr("NOT_AUTHENTICATED", "Not authenticated", http.StatusUnauthorized)
	ErrInvalidCredentials = NewErr("INVALID_CREDENTIALS", "Invalid email or password", http.StatusUnauthorized)
	ErrEmailTaken         = NewErr("EMAIL_TAKEN", "Email already registered", http.StatusBadRequest)
	ErrPasswordTooShort   = NewErr("PASSWORD_TOO_SHORT", "Password must be at least 6 characters long", http.StatusBadRequest)
	ErrItemNotFound       = NewErr("ITEM_NOT_FOUND", "Clipboard item not found", http.StatusNotFound)
	ErrContentRequired    = NewErr("CONTENT_REQUIRED", "Content is required", http.StatusBadRequest)
	ErrContentTooLarge    = NewErr("CONTENT_TOO_LARGE", "Content too large", http.StatusBadRequest)
	ErrInvalidShareCode   = NewErr("INVALID_SHARE_CODE", "Invalid share code", http.StatusNotFound)
	ErrInvalidRequest     = NewErr("INVALID_REQUEST", "Invalid request body", http.StatusBadRequest)
	ErrRateLimited        = NewErr("RATE_LIMITED", "Too many attempts", http.StatusTooManyRequests)
	ErrCodeGeneration     = NewErr("CODE_GENERATION_FAILED", "Could not generate share code", http.StatusInternalServerError)
	ErrInternal           = NewErr("INTERNAL_ERROR", "Internal server error", http.StatusInternalServerError)
)

// Err is the server-side error taxonomy. Detail is the user-facing string the
// API surfaces verbatim in the {"detail": ...} body of non-2xx responses.
type Err struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
	Status int    `json:"-"`
}

func (e *Err) Error() string { return e.Detail }

func NewErr(code, detail string, status int) *Err {
	return &Err{Code: code, Detail: detail, Status: status}
}

// Detail extracts the user-facing message from an error chain, falling back
// to a generic string for anything that is not a typed *Err.
func Detail(err error) string {
	if e, ok := err.(*Err); ok {
		return e.Detail
	}
	if e, ok := errors.Cause(err).(*Err); ok {
		return e.Detail
	}
	return "Internal server error"
}

// Status maps an error chain to an HTTP status, defaulting to 500.
func Status(err error) int {
	if e, ok := err.(*Err); ok {
		return e.Status
	}
	if e, ok := errors.Cause(err).(*Err); ok {
		return e.Status
	}
	return http.StatusInternalServerError
}
