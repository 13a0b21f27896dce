package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPDirectoryLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer dir-token" {
			t.Errorf("expected directory token, got %q", got)
		}
		if got := r.URL.Query().Get("ids"); got != "a,b" {
			t.Errorf("expected ids 'a,b', got %q", got)
		}
		json.NewEncoder(w).Encode([]map[string]string{
			{"id": "a", "name": "Alice"},
			{"id": "b", "name": "", "email": "bob@hostel.edu"},
		})
	}))
	t.Cleanup(server.Close)

	dir := NewHTTPDirectory(server.URL, "dir-token")
	names, err := dir.Lookup(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if names["a"] != "Alice" {
		t.Errorf("expected Alice, got %q", names["a"])
	}
	// Email is the fallback when the name is blank.
	if names["b"] != "bob@hostel.edu" {
		t.Errorf("expected email fallback, got %q", names["b"])
	}
}

func TestHTTPDirectoryErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	dir := NewHTTPDirectory(server.URL, "")
	if _, err := dir.Lookup(context.Background(), []string{"a"}); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestHTTPDirectoryEmptyIDs(t *testing.T) {
	dir := NewHTTPDirectory("http://unreachable.invalid", "")
	names, err := dir.Lookup(context.Background(), nil)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected empty map, got %v", names)
	}
}

func TestStaticDirectory(t *testing.T) {
	dir := Static{"a": "Alice"}
	names, err := dir.Lookup(context.Background(), []string{"a", "missing"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if names["a"] != "Alice" {
		t.Errorf("expected Alice, got %q", names["a"])
	}
	if _, ok := names["missing"]; ok {
		t.Error("expected missing id to be absent")
	}
}
