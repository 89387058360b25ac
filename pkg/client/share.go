package client

import (
	"context"
	"net/http"
	"strings"

	"clipshare/pkg/domain"
)

// shareAPI is the slice of the gateway the resolver needs.
type shareAPI interface {
	ValidateShareCode(ctx context.Context, code string) (*domain.SharedView, error)
}

// ShareResolver turns a share code into the shared content. It works for
// anonymous and signed-in callers alike; no session is consulted.
type ShareResolver struct {
	api    shareAPI
	notify *Notifier
}

func NewShareResolver(api shareAPI, notify *Notifier) *ShareResolver {
	if api == nil {
		panic("share resolver: nil api")
	}
	return &ShareResolver{api: api, notify: notify}
}

// Resolve normalizes the code, then asks the backend. Codes are issued
// uppercase, so lowercase input is folded up before the lookup. A rejected
// code comes back as *InvalidCodeError; other failures pass through.
func (r *ShareResolver) Resolve(ctx context.Context, code string) (*domain.SharedView, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		err := &InvalidCodeError{Code: code}
		r.notify.Notify(Error, "Invalid share code", TTLError)
		return nil, err
	}
	view, err := r.api.ValidateShareCode(ctx, code)
	if err != nil {
		if re, ok := err.(*RequestError); ok && re.Status == http.StatusNotFound {
			r.notify.Notify(Error, errMessage(err, "Invalid share code"), TTLError)
			return nil, &InvalidCodeError{Code: code}
		}
		r.notify.Notify(Error, errMessage(err, "Failed to resolve share code"), TTLError)
		return nil, err
	}
	return view, nil
}
