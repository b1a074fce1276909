package academyclient

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	store := NewFileStore(path)

	if err := store.Set("session_token", "tok-1"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if got, _ := store.Get("session_token"); got != "tok-1" {
		t.Fatalf("Get returned %q", got)
	}

	// A fresh store over the same file sees the persisted value.
	if got, _ := NewFileStore(path).Get("session_token"); got != "tok-1" {
		t.Fatalf("persisted value not visible: %q", got)
	}

	if err := store.Delete("session_token"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if got, _ := store.Get("session_token"); got != "" {
		t.Fatalf("expected empty after delete, got %q", got)
	}
}

func TestFileStore_MissingAndCorruptFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewFileStore(path)

	if got, err := store.Get("anything"); err != nil || got != "" {
		t.Fatalf("missing file must read as empty, got %q err %v", got, err)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if got, err := store.Get("anything"); err != nil || got != "" {
		t.Fatalf("corrupt file must read as empty, got %q err %v", got, err)
	}

	// Writing over the corrupt file recovers it.
	if err := store.Set("k", "v"); err != nil {
		t.Fatalf("Set over corrupt file: %v", err)
	}
	if got, _ := store.Get("k"); got != "v" {
		t.Fatalf("expected recovery, got %q", got)
	}
}

func TestFileStore_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewFileStore(path)
	if err := store.Set("k", "v"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}
}
