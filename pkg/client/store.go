package client

import (
	"context"
	"strings"
	"sync"

	"clipshare/pkg/domain"
)

// itemAPI is the slice of the gateway the store needs.
type itemAPI interface {
	ListItems(ctx context.Context) ([]domain.ClipboardItem, error)
	CreateItem(ctx context.Context, content string) (*domain.ClipboardItem, error)
	UpdateItem(ctx context.Context, id int64, content string) (*domain.ClipboardItem, error)
	DeleteItem(ctx context.Context, id int64) error
	ShareItem(ctx context.Context, id int64) (string, error)
	UnshareItem(ctx context.Context, id int64) error
}

// Confirmer guards destructive actions. Delete proceeds only when it
// returns true; a nil Confirmer counts as declined.
type Confirmer func(item domain.ClipboardItem) bool

// Store is the client-side cache of the signed-in user's clipboard items.
// Every mutation is confirm-then-apply: local state changes only after, and
// to exactly, what the server returned. Two rapid mutations on the same item
// are not sequenced; the last response wins, a known limitation rather than
// a guarantee.
type Store struct {
	api    itemAPI
	notify *Notifier

	mu    sync.Mutex
	items []domain.ClipboardItem
	gen   uint64
}

func NewStore(api itemAPI, notify *Notifier) *Store {
	if api == nil {
		panic("item store: nil api")
	}
	return &Store{api: api, notify: notify}
}

// Load fetches the full collection and replaces local state wholesale. On
// failure the collection is left empty; there is no partial state.
func (s *Store) Load(ctx context.Context) error {
	gen := s.generation()
	items, err := s.api.ListItems(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// Session changed while the request was in flight; drop the response.
		return err
	}
	if err != nil {
		s.items = nil
		s.notify.Notify(Error, errMessage(err, "Failed to load clipboard items"), TTLError)
		return err
	}
	s.items = append([]domain.ClipboardItem(nil), items...)
	return nil
}

// Create validates locally, then prepends the server's returned item so the
// collection stays newest-first. The order is insertion order; edits do not
// re-sort it.
func (s *Store) Create(ctx context.Context, content string) (*domain.ClipboardItem, error) {
	if strings.TrimSpace(content) == "" {
		err := &ValidationError{Msg: "Content cannot be empty"}
		s.notify.Notify(Error, err.Msg, TTLError)
		return nil, err
	}
	gen := s.generation()
	item, err := s.api.CreateItem(ctx, content)
	if err != nil {
		s.notify.Notify(Error, errMessage(err, "Failed to create item"), TTLError)
		return nil, err
	}
	s.mu.Lock()
	if s.gen == gen {
		s.items = append([]domain.ClipboardItem{*item}, s.items...)
	}
	s.mu.Unlock()
	s.notify.Notify(Success, "Item created successfully!", TTLSuccess)
	return item, nil
}

// Update sends the edit regardless of whether the id is still present
// locally; if it was concurrently deleted the server's error is surfaced and
// nothing is synthesized. On success the server's representation replaces
// the local copy in place.
func (s *Store) Update(ctx context.Context, id int64, content string) (*domain.ClipboardItem, error) {
	if strings.TrimSpace(content) == "" {
		err := &ValidationError{Msg: "Content cannot be empty"}
		s.notify.Notify(Error, err.Msg, TTLError)
		return nil, err
	}
	gen := s.generation()
	item, err := s.api.UpdateItem(ctx, id, content)
	if err != nil {
		s.notify.Notify(Error, errMessage(err, "Failed to update item"), TTLError)
		return nil, err
	}
	s.mu.Lock()
	if s.gen == gen {
		s.replaceLocked(id, *item)
	}
	s.mu.Unlock()
	s.notify.Notify(Success, "Item updated successfully!", TTLSuccess)
	return item, nil
}

// Delete asks the Confirmer first; declined means no network call and an
// unchanged collection. The local item is removed only after the server
// confirms.
func (s *Store) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	target, _ := s.Item(id)
	if confirm == nil || !confirm(target) {
		return nil
	}
	gen := s.generation()
	if err := s.api.DeleteItem(ctx, id); err != nil {
		s.notify.Notify(Error, errMessage(err, "Failed to delete item"), TTLError)
		return err
	}
	s.mu.Lock()
	if s.gen == gen {
		for i := range s.items {
			if s.items[i].ID == id {
				s.items = append(s.items[:i], s.items[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()
	s.notify.Notify(Success, "Item deleted successfully!", TTLSuccess)
	return nil
}

// Share requests a fresh code and applies it to the local item only after
// the server call succeeds.
func (s *Store) Share(ctx context.Context, id int64) (string, error) {
	gen := s.generation()
	code, err := s.api.ShareItem(ctx, id)
	if err != nil {
		s.notify.Notify(Error, errMessage(err, "Failed to generate share code"), TTLError)
		return "", err
	}
	s.mu.Lock()
	if s.gen == gen {
		for i := range s.items {
			if s.items[i].ID == id {
				c := code
				s.items[i].IsShared = true
				s.items[i].ShareCode = &c
				break
			}
		}
	}
	s.mu.Unlock()
	s.notify.Notify(Success, "Share code generated: "+code, TTLShareCode)
	return code, nil
}

func (s *Store) Unshare(ctx context.Context, id int64) error {
	gen := s.generation()
	if err := s.api.UnshareItem(ctx, id); err != nil {
		s.notify.Notify(Error, errMessage(err, "Failed to remove share code"), TTLError)
		return err
	}
	s.mu.Lock()
	if s.gen == gen {
		for i := range s.items {
			if s.items[i].ID == id {
				s.items[i].IsShared = false
				s.items[i].ShareCode = nil
				break
			}
		}
	}
	s.mu.Unlock()
	s.notify.Notify(Success, "Share code removed", TTLSuccess)
	return nil
}

// Items returns a snapshot copy of the collection, newest-first.
func (s *Store) Items() []domain.ClipboardItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ClipboardItem(nil), s.items...)
}

// Item returns a copy of the item with the given id.
func (s *Store) Item(id int64) (domain.ClipboardItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			return s.items[i], true
		}
	}
	return domain.ClipboardItem{ID: id}, false
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Clear discards the collection and bumps the generation so in-flight
// responses for the old session are dropped on arrival.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.gen++
}

func (s *Store) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Store) replaceLocked(id int64, item domain.ClipboardItem) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = item
			return
		}
	}
}
