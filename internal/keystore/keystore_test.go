package keystore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetGetReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Set("sb-proj-auth-token", `{"access_token":"tok"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A fresh Open sees the persisted value.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok := s2.Get("sb-proj-auth-token")
	if !ok || v != `{"access_token":"tok"}` {
		t.Fatalf("Get = %q, %v", v, ok)
	}
}

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nope", "storage.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := s.Get("anything"); ok {
		t.Fatal("missing file should start empty")
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("corrupt file should not brick Open: %v", err)
	}
	if len(s.Keys()) != 0 {
		t.Fatalf("corrupt file should start empty, got %v", s.Keys())
	}
	// And the next write replaces it cleanly.
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set after corrupt: %v", err)
	}
	if s2, _ := Open(path); len(s2.Keys()) != 1 {
		t.Fatal("rewrite after corruption failed")
	}
}

func TestRemoveMany(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "storage.json"))
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := s.Set(k, "v"); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.RemoveMany([]string{"a", "c", "missing"}); err != nil {
		t.Fatalf("RemoveMany: %v", err)
	}
	keys := s.Keys()
	if len(keys) != 1 || keys[0] != "b" {
		t.Fatalf("keys = %v", keys)
	}
}
