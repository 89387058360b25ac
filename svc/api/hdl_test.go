package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"clipshare/pkg/domain"
)

func TestWriteErrDetailAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	writeErr(rec, domain.ErrItemNotFound, "req-1")

	if rec.Code != 404 {
		t.Errorf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["detail"] != "Clipboard item not found" {
		t.Errorf("detail = %q", body["detail"])
	}
}

func TestWriteErrMasksInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeErr(rec, domain.ErrInternal, "req-2")

	if rec.Code != 500 {
		t.Errorf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["detail"] != "Internal server error" {
		t.Errorf("detail = %q, internals leaked", body["detail"])
	}
}

func TestSanitizeContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"keeps whitespace", "a\nb\tc\r", "a\nb\tc\r"},
		{"drops control chars", "a\x00b\x1bc", "abc"},
		{"drops del", "a\x7fb", "ab"},
		{"unicode passes", "héllo wörld ✓", "héllo wörld ✓"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeContent(tt.in); got != tt.want {
				t.Errorf("sanitizeContent(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
