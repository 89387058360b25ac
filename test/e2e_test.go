package test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"clipshare/pkg/client"
	"clipshare/pkg/domain"
)

func signup(t *testing.T, cl *client.Client, email string) {
	t.Helper()
	_, err := cl.Signup(context.Background(), client.SignupForm{
		Name:            "Test User",
		Email:           email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestFreshClientStartsAnonymous(t *testing.T) {
	ts, _ := createTestServer(t)
	cl := createTestClient(t, ts)

	if err := cl.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	if cl.Gate.State() != client.StateAnonymous {
		t.Errorf("state = %v, want anonymous", cl.Gate.State())
	}
	if cl.Store.Len() != 0 {
		t.Errorf("anonymous client holds %d items", cl.Store.Len())
	}
}

func TestSignupCreateListRoundTrip(t *testing.T) {
	ts, _ := createTestServer(t)
	cl := createTestClient(t, ts)
	ctx := context.Background()

	signup(t, cl, "roundtrip@example.com")
	if cl.Gate.State() != client.StateAuthenticated {
		t.Fatalf("state = %v, want authenticated", cl.Gate.State())
	}

	if _, err := cl.Store.Create(ctx, "first snippet"); err != nil {
		t.Fatal(err)
	}
	if _, err := cl.Store.Create(ctx, "second snippet"); err != nil {
		t.Fatal(err)
	}

	items := cl.Store.Items()
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Content != "second snippet" || items[1].Content != "first snippet" {
		t.Errorf("order wrong: [%q %q]", items[0].Content, items[1].Content)
	}

	// A second client with the same cookie-less jar sees nothing without auth.
	stranger := createTestClient(t, ts)
	if err := stranger.Init(ctx); err != nil {
		t.Fatal(err)
	}
	if stranger.Gate.State() != client.StateAnonymous {
		t.Errorf("stranger state = %v", stranger.Gate.State())
	}
}

func TestSessionSurvivesReinit(t *testing.T) {
	ts, _ := createTestServer(t)
	cl := createTestClient(t, ts)
	ctx := context.Background()

	signup(t, cl, "persist@example.com")
	if _, err := cl.Store.Create(ctx, "sticky"); err != nil {
		t.Fatal(err)
	}

	// Same jar, fresh state machine pass: the cookie re-authenticates.
	if err := cl.Init(ctx); err != nil {
		t.Fatal(err)
	}
	if cl.Gate.State() != client.StateAuthenticated {
		t.Fatalf("state after reinit = %v", cl.Gate.State())
	}
	if cl.Store.Len() != 1 {
		t.Errorf("items after reinit = %d, want 1", cl.Store.Len())
	}
}

func TestShareResolveAcrossClients(t *testing.T) {
	ts, _ := createTestServer(t)
	owner := createTestClient(t, ts)
	ctx := context.Background()

	signup(t, owner, "sharer@example.com")
	item, err := owner.Store.Create(ctx, "shared across the wire")
	if err != nil {
		t.Fatal(err)
	}
	code, err := owner.Store.Share(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}

	// An anonymous client resolves the code, case-folded.
	viewer := createTestClient(t, ts)
	view, err := viewer.ResolveShare(ctx, "  "+strings.ToLower(code)+" ")
	if err != nil {
		t.Fatal(err)
	}
	if view.Content != "shared across the wire" || view.OwnerName != "Test User" {
		t.Errorf("view = %+v", view)
	}
}

func TestReshareInvalidatesOldCode(t *testing.T) {
	ts, _ := createTestServer(t)
	owner := createTestClient(t, ts)
	ctx := context.Background()

	signup(t, owner, "reshare@example.com")
	item, err := owner.Store.Create(ctx, "twice shared")
	if err != nil {
		t.Fatal(err)
	}
	first, err := owner.Store.Share(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := owner.Store.Share(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("re-share returned the same code")
	}

	viewer := createTestClient(t, ts)
	if _, err := viewer.ResolveShare(ctx, first); err == nil {
		t.Error("replaced code still resolves")
	} else if _, ok := err.(*client.InvalidCodeError); !ok {
		t.Errorf("err = %T, want *InvalidCodeError", err)
	}
	if _, err := viewer.ResolveShare(ctx, second); err != nil {
		t.Errorf("fresh code failed: %v", err)
	}
}

func TestUpdateDeletedItemSurfacesServerError(t *testing.T) {
	ts, _ := createTestServer(t)
	cl := createTestClient(t, ts)
	ctx := context.Background()

	signup(t, cl, "conflict@example.com")
	item, err := cl.Store.Create(ctx, "doomed")
	if err != nil {
		t.Fatal(err)
	}

	// Delete out-of-band via the gateway, then edit through the store.
	if err := cl.Gateway.DeleteItem(ctx, item.ID); err != nil {
		t.Fatal(err)
	}
	_, err = cl.Store.Update(ctx, item.ID, "too late")
	re, ok := err.(*client.RequestError)
	if !ok {
		t.Fatalf("err = %T (%v), want *RequestError", err, err)
	}
	if re.Status != http.StatusNotFound || re.Detail != "Clipboard item not found" {
		t.Errorf("error = %+v", re)
	}
}

func TestDeleteWithConfirmation(t *testing.T) {
	ts, _ := createTestServer(t)
	cl := createTestClient(t, ts)
	ctx := context.Background()

	signup(t, cl, "confirm@example.com")
	item, err := cl.Store.Create(ctx, "ask first")
	if err != nil {
		t.Fatal(err)
	}

	if err := cl.Store.Delete(ctx, item.ID, func(domain.ClipboardItem) bool { return false }); err != nil {
		t.Fatal(err)
	}
	if cl.Store.Len() != 1 {
		t.Fatal("declined delete removed the item")
	}

	if err := cl.Store.Delete(ctx, item.ID, func(domain.ClipboardItem) bool { return true }); err != nil {
		t.Fatal(err)
	}
	if cl.Store.Len() != 0 {
		t.Error("confirmed delete left the item")
	}
}

func TestLogoutClearsLocalState(t *testing.T) {
	ts, _ := createTestServer(t)
	cl := createTestClient(t, ts)
	ctx := context.Background()

	signup(t, cl, "logout@example.com")
	if _, err := cl.Store.Create(ctx, "gone soon"); err != nil {
		t.Fatal(err)
	}
	if err := cl.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if cl.Gate.State() != client.StateAnonymous {
		t.Errorf("state = %v", cl.Gate.State())
	}
	if cl.Store.Len() != 0 {
		t.Errorf("items after logout = %d", cl.Store.Len())
	}

	// The cookie is dead server-side too.
	if err := cl.Init(ctx); err != nil {
		t.Fatal(err)
	}
	if cl.Gate.State() != client.StateAnonymous {
		t.Error("revoked session re-authenticated")
	}
}

func TestSignupValidationNeverReachesServer(t *testing.T) {
	ts, _ := createTestServer(t)
	cl := createTestClient(t, ts)

	_, err := cl.Signup(context.Background(), client.SignupForm{
		Name:            "Test User",
		Email:           "mismatch@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret2",
	})
	if _, ok := err.(*client.ValidationError); !ok {
		t.Fatalf("err = %T, want *ValidationError", err)
	}
	// The email stayed unclaimed, so a corrected signup succeeds.
	signup(t, cl, "mismatch@example.com")
}

func TestDuplicateSignupDetailVerbatim(t *testing.T) {
	ts, _ := createTestServer(t)
	first := createTestClient(t, ts)
	signup(t, first, "taken@example.com")

	second := createTestClient(t, ts)
	_, err := second.Signup(context.Background(), client.SignupForm{
		Name:            "Other User",
		Email:           "taken@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	re, ok := err.(*client.RequestError)
	if !ok {
		t.Fatalf("err = %T, want *RequestError", err)
	}
	if re.Detail != "Email already registered" {
		t.Errorf("detail = %q", re.Detail)
	}
}
