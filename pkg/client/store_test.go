package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"clipshare/pkg/domain"
)

type fakeItemAPI struct {
	calls int

	listItems []domain.ClipboardItem
	listErr   error

	created   *domain.ClipboardItem
	createErr error

	updated   *domain.ClipboardItem
	updateErr error

	deleteErr error

	shareCode string
	shareErr  error

	unshareErr error
}

func (f *fakeItemAPI) ListItems(ctx context.Context) ([]domain.ClipboardItem, error) {
	f.calls++
	return f.listItems, f.listErr
}

func (f *fakeItemAPI) CreateItem(ctx context.Context, content string) (*domain.ClipboardItem, error) {
	f.calls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.created != nil {
		return f.created, nil
	}
	return &domain.ClipboardItem{ID: int64(f.calls), Content: content}, nil
}

func (f *fakeItemAPI) UpdateItem(ctx context.Context, id int64, content string) (*domain.ClipboardItem, error) {
	f.calls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updated != nil {
		return f.updated, nil
	}
	return &domain.ClipboardItem{ID: id, Content: content}, nil
}

func (f *fakeItemAPI) DeleteItem(ctx context.Context, id int64) error {
	f.calls++
	return f.deleteErr
}

func (f *fakeItemAPI) ShareItem(ctx context.Context, id int64) (string, error) {
	f.calls++
	return f.shareCode, f.shareErr
}

func (f *fakeItemAPI) UnshareItem(ctx context.Context, id int64) error {
	f.calls++
	return f.unshareErr
}

func TestStoreCreateWhitespaceOnlySkipsNetwork(t *testing.T) {
	api := &fakeItemAPI{}
	store := NewStore(api, nil)

	_, err := store.Create(context.Background(), "   \t\n  ")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if api.calls != 0 {
		t.Errorf("expected no network calls, got %d", api.calls)
	}
	if store.Len() != 0 {
		t.Errorf("collection changed: len = %d", store.Len())
	}
}

func TestStoreCreatePrependsNewestFirst(t *testing.T) {
	api := &fakeItemAPI{
		listItems: []domain.ClipboardItem{
			{ID: 2, Content: "second"},
			{ID: 1, Content: "first"},
		},
	}
	store := NewStore(api, nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	api.created = &domain.ClipboardItem{ID: 3, Content: "third"}
	if _, err := store.Create(context.Background(), "third"); err != nil {
		t.Fatal(err)
	}

	items := store.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	wantOrder := []int64{3, 2, 1}
	for i, want := range wantOrder {
		if items[i].ID != want {
			t.Errorf("items[%d].ID = %d, want %d", i, items[i].ID, want)
		}
	}
}

func TestStoreLoadFailureLeavesEmptyCollection(t *testing.T) {
	api := &fakeItemAPI{listErr: &NetworkError{Err: context.DeadlineExceeded}}
	notify := NewNotifier()
	defer notify.Stop()
	store := NewStore(api, notify)

	if err := store.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if store.Len() != 0 {
		t.Errorf("expected empty collection, got %d items", store.Len())
	}
	msg, ok := notify.Current(Error)
	if !ok {
		t.Fatal("expected an error notification")
	}
	if msg.Message != "Failed to load clipboard items" {
		t.Errorf("notification = %q", msg.Message)
	}
}

func TestStoreUpdateOnMissingIDStillCallsServer(t *testing.T) {
	api := &fakeItemAPI{
		updateErr: &RequestError{Status: http.StatusNotFound, Detail: "Clipboard item not found"},
	}
	store := NewStore(api, nil)

	_, err := store.Update(context.Background(), 42, "edited")
	if err == nil {
		t.Fatal("expected request error")
	}
	re, ok := err.(*RequestError)
	if !ok {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if re.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", re.Status)
	}
	if api.calls != 1 {
		t.Errorf("expected exactly one network call, got %d", api.calls)
	}
	if store.Len() != 0 {
		t.Errorf("collection changed on failure: len = %d", store.Len())
	}
}

func TestStoreUpdateReplacesInPlaceWithoutReorder(t *testing.T) {
	api := &fakeItemAPI{
		listItems: []domain.ClipboardItem{
			{ID: 3, Content: "c"},
			{ID: 2, Content: "b"},
			{ID: 1, Content: "a"},
		},
	}
	store := NewStore(api, nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	api.updated = &domain.ClipboardItem{ID: 1, Content: "a2"}
	if _, err := store.Update(context.Background(), 1, "a2"); err != nil {
		t.Fatal(err)
	}

	items := store.Items()
	if items[2].ID != 1 || items[2].Content != "a2" {
		t.Errorf("items[2] = %+v, want id 1 content a2", items[2])
	}
	if items[0].ID != 3 {
		t.Errorf("edit re-sorted the collection: items[0].ID = %d", items[0].ID)
	}
}

func TestStoreDeleteDeclinedIsNoOp(t *testing.T) {
	api := &fakeItemAPI{listItems: []domain.ClipboardItem{{ID: 1, Content: "keep"}}}
	store := NewStore(api, nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	calls := api.calls

	decline := func(domain.ClipboardItem) bool { return false }
	if err := store.Delete(context.Background(), 1, decline); err != nil {
		t.Fatal(err)
	}
	if api.calls != calls {
		t.Errorf("declined delete issued a network call")
	}
	if store.Len() != 1 {
		t.Errorf("declined delete changed the collection")
	}

	if err := store.Delete(context.Background(), 1, nil); err != nil {
		t.Fatal(err)
	}
	if api.calls != calls {
		t.Errorf("nil confirmer issued a network call")
	}
}

func TestStoreDeleteConfirmedRemovesAfterServerOK(t *testing.T) {
	api := &fakeItemAPI{listItems: []domain.ClipboardItem{
		{ID: 2, Content: "b"},
		{ID: 1, Content: "a"},
	}}
	store := NewStore(api, nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	accept := func(item domain.ClipboardItem) bool { return item.ID == 2 }
	if err := store.Delete(context.Background(), 2, accept); err != nil {
		t.Fatal(err)
	}

	items := store.Items()
	if len(items) != 1 || items[0].ID != 1 {
		t.Errorf("items after delete = %+v", items)
	}
}

func TestStoreDeleteFailureKeepsItem(t *testing.T) {
	api := &fakeItemAPI{
		listItems: []domain.ClipboardItem{{ID: 1, Content: "a"}},
		deleteErr: &RequestError{Status: http.StatusNotFound, Detail: "Clipboard item not found"},
	}
	store := NewStore(api, nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	accept := func(domain.ClipboardItem) bool { return true }
	if err := store.Delete(context.Background(), 1, accept); err == nil {
		t.Fatal("expected delete error")
	}
	if store.Len() != 1 {
		t.Errorf("failed delete removed the local item")
	}
}

func TestStoreShareUnshareRoundTrip(t *testing.T) {
	api := &fakeItemAPI{
		listItems: []domain.ClipboardItem{{ID: 1, Content: "a"}},
		shareCode: "ABCD1234",
	}
	store := NewStore(api, nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	code, err := store.Share(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if code != "ABCD1234" {
		t.Errorf("code = %q", code)
	}
	item, ok := store.Item(1)
	if !ok || !item.IsShared || item.ShareCode == nil || *item.ShareCode != "ABCD1234" {
		t.Errorf("shared item = %+v", item)
	}

	if err := store.Unshare(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	item, _ = store.Item(1)
	if item.IsShared || item.ShareCode != nil {
		t.Errorf("unshared item still carries share state: %+v", item)
	}
}

func TestStoreShareNotificationUsesBackendDetail(t *testing.T) {
	api := &fakeItemAPI{
		shareErr: &RequestError{Status: http.StatusNotFound, Detail: "Clipboard item not found"},
	}
	notify := NewNotifier()
	defer notify.Stop()
	store := NewStore(api, notify)

	if _, err := store.Share(context.Background(), 7); err == nil {
		t.Fatal("expected share error")
	}
	msg, ok := notify.Current(Error)
	if !ok {
		t.Fatal("expected an error notification")
	}
	if msg.Message != "Clipboard item not found" {
		t.Errorf("notification = %q, want backend detail verbatim", msg.Message)
	}
}

func TestStoreClearDropsInFlightResponse(t *testing.T) {
	api := &fakeItemAPI{created: &domain.ClipboardItem{ID: 9, Content: "late"}}
	store := NewStore(api, nil)

	// Simulate a response arriving after the session changed.
	gen := store.generation()
	item, err := api.CreateItem(context.Background(), "late")
	if err != nil {
		t.Fatal(err)
	}
	store.Clear()
	store.mu.Lock()
	if store.gen == gen {
		store.items = append([]domain.ClipboardItem{*item}, store.items...)
	}
	store.mu.Unlock()

	if store.Len() != 0 {
		t.Errorf("stale response applied after Clear: len = %d", store.Len())
	}
}

func TestStoreShareCodeNotificationTTL(t *testing.T) {
	api := &fakeItemAPI{shareCode: "ZZZZ9999"}
	notify := NewNotifier()
	defer notify.Stop()
	store := NewStore(api, notify)

	if _, err := store.Share(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	msg, ok := notify.Current(Success)
	if !ok {
		t.Fatal("expected a success notification")
	}
	if msg.Message != "Share code generated: ZZZZ9999" {
		t.Errorf("notification = %q", msg.Message)
	}
	remaining := time.Until(msg.ExpiresAt)
	if remaining < 4*time.Second || remaining > 5*time.Second {
		t.Errorf("share notification ttl remaining = %v, want close to 5s", remaining)
	}
}
