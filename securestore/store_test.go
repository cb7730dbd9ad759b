package securestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMemStore_SetGetDelete(t *testing.T) {
	t.Parallel()
	s := NewMemStore()

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
	if err := s.Set("auth_token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get("auth_token")
	if err != nil || !ok || v != "abc" {
		t.Fatalf("Get: %q %v %v", v, ok, err)
	}
	if err := s.Delete("auth_token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get("auth_token"); ok {
		t.Fatalf("key survived delete")
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := s.Set("current_user", `{"id":"7"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get("current_user")
	if err != nil || !ok || v != `{"id":"7"}` {
		t.Fatalf("Get: %q %v %v", v, ok, err)
	}

	// values must not be stored in the clear
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if strings.Contains(string(b), `"id":"7"`) {
			t.Fatalf("plaintext leaked into %s", e.Name())
		}
	}

	if err := s.Delete("current_user"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get("current_user"); ok {
		t.Fatalf("key survived delete")
	}
	// deleting again is a no-op
	if err := s.Delete("current_user"); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
}

func TestFileStore_ReopenSameDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s1, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := s1.Set("auth_token", "tok"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s2, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok, err := s2.Get("auth_token")
	if err != nil || !ok || v != "tok" {
		t.Fatalf("value lost across reopen: %q %v %v", v, ok, err)
	}
}

func TestFileStore_TamperDetected(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := s.Set("k", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if e.Name() == "store.key" {
			continue
		}
		p := filepath.Join(dir, e.Name())
		b, _ := os.ReadFile(p)
		b[len(b)-1] ^= 0xff
		if err := os.WriteFile(p, b, 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	if _, _, err := s.Get("k"); err == nil {
		t.Fatalf("tampered blob must not open")
	}
}

func TestFileStoreWithPassphrase_Reopen(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s1, err := NewFileStoreWithPassphrase(dir, "correct horse")
	if err != nil {
		t.Fatalf("NewFileStoreWithPassphrase: %v", err)
	}
	if err := s1.Set("k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s2, err := NewFileStoreWithPassphrase(dir, "correct horse")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, ok, err := s2.Get("k"); err != nil || !ok || v != "v" {
		t.Fatalf("same passphrase must open: %q %v %v", v, ok, err)
	}

	s3, err := NewFileStoreWithPassphrase(dir, "wrong")
	if err != nil {
		t.Fatalf("open with wrong passphrase: %v", err)
	}
	if _, _, err := s3.Get("k"); err == nil {
		t.Fatalf("wrong passphrase must not decrypt")
	}
}
