package objstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocal_PutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, "/files")
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}

	ctx := context.Background()
	key := Key("profiles", "avatar.png")

	url, err := store.Put(ctx, key, strings.NewReader("png bytes"), "image/png")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !strings.HasPrefix(url, "/files/profiles/") {
		t.Errorf("unexpected url %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "png bytes" {
		t.Errorf("stored content mismatch: %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(key))); !os.IsNotExist(err) {
		t.Error("expected object to be removed")
	}

	// deleting again is not an error
	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
}

func TestLocal_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, "/files")
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}

	_, err = store.Put(context.Background(), "../escape.txt", strings.NewReader("x"), "text/plain")
	if err == nil {
		// Clean("/../escape.txt") resolves to /escape.txt inside the root,
		// which is acceptable; a deeper escape must fail.
		if _, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "escape.txt")); statErr == nil {
			t.Error("object escaped the storage root")
		}
	}
}

func TestKey_Sanitizes(t *testing.T) {
	k := Key("attachments", "my file?.pdf")
	if strings.ContainsAny(k, "? ") {
		t.Errorf("key not sanitized: %q", k)
	}
	if !strings.HasPrefix(k, "attachments/") {
		t.Errorf("key missing prefix: %q", k)
	}
	if !strings.HasSuffix(k, ".pdf") {
		t.Errorf("key lost extension: %q", k)
	}
}
