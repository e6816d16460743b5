package store

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestExportKey(t *testing.T) {
	key := ExportKey("shelf-1", "user-2", "My Shelf: Q3 Report!")

	if !strings.HasPrefix(key, "export/shelf-1/user-2/my-shelf-q3-report-") {
		t.Errorf("key = %q", key)
	}
	if !strings.HasSuffix(key, ".docx") {
		t.Errorf("key = %q, want .docx suffix", key)
	}

	// repeated exports must not collide
	if ExportKey("shelf-1", "user-2", "My Shelf") == ExportKey("shelf-1", "user-2", "My Shelf") {
		t.Error("keys for repeated exports collide")
	}
}

func TestExportKey_EmptyName(t *testing.T) {
	key := ExportKey("s", "u", "???")
	if !strings.HasPrefix(key, "export/s/u/document-") {
		t.Errorf("key = %q, want document fallback", key)
	}
}

func TestFSStore_PutGetDelete(t *testing.T) {
	log := zaptest.NewLogger(t)
	base := t.TempDir()
	ctx := context.Background()

	st, err := NewFSStore(base, "", log)
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}

	payload := []byte("document bytes")
	if err := st.Put(ctx, "export/s/u/doc.docx", payload, ContentTypeDocx); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	stored, err := os.ReadFile(filepath.Join(base, "export", "s", "u", "doc.docx"))
	if err != nil {
		t.Fatalf("object file not written: %v", err)
	}
	if !bytes.Equal(stored, payload) {
		t.Error("stored payload mismatch")
	}

	link, err := st.PresignedGet(ctx, "export/s/u/doc.docx", DownloadTTL)
	if err != nil {
		t.Fatalf("PresignedGet() error = %v", err)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link not a URL: %v", err)
	}
	if u.Scheme != "file" {
		t.Errorf("scheme = %q, want file", u.Scheme)
	}
	if u.Query().Get("expires") == "" {
		t.Error("link has no expiry")
	}
	if u.Query().Get("sig") != "" {
		t.Error("unsigned store produced a signature")
	}

	if err := st.Delete(ctx, "export/s/u/doc.docx"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "export", "s", "u", "doc.docx")); !os.IsNotExist(err) {
		t.Error("object still present after delete")
	}
	// deleting a missing object is not an error
	if err := st.Delete(ctx, "export/s/u/doc.docx"); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestFSStore_SignedLink(t *testing.T) {
	log := zaptest.NewLogger(t)
	ctx := context.Background()

	st, err := NewFSStore(t.TempDir(), "topsecret", log)
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}
	if err := st.Put(ctx, "export/a/b/x.docx", []byte("x"), ContentTypeDocx); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	link, err := st.PresignedGet(ctx, "export/a/b/x.docx", time.Minute)
	if err != nil {
		t.Fatalf("PresignedGet() error = %v", err)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link not a URL: %v", err)
	}

	expires := u.Query().Get("expires")
	sig := u.Query().Get("sig")
	if expires == "" || sig == "" {
		t.Fatalf("link missing expiry or signature: %s", link)
	}

	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write([]byte("export/a/b/x.docx\n" + expires))
	if want := hex.EncodeToString(mac.Sum(nil)); sig != want {
		t.Errorf("sig = %s, want %s", sig, want)
	}
}

func TestFSStore_PresignedGet_Missing(t *testing.T) {
	st, err := NewFSStore(t.TempDir(), "", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}
	if _, err := st.PresignedGet(context.Background(), "export/none.docx", time.Minute); err == nil {
		t.Error("expected error for absent object")
	}
}

func TestFSStore_TraversalGuard(t *testing.T) {
	log := zaptest.NewLogger(t)
	base := t.TempDir()
	ctx := context.Background()

	st, err := NewFSStore(base, "", log)
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}

	if err := st.Put(ctx, "../escape.docx", []byte("x"), ContentTypeDocx); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	// the cleaned key must land inside the base directory
	if _, err := os.Stat(filepath.Join(base, "escape.docx")); err != nil {
		t.Errorf("traversal key not confined to base: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(base), "escape.docx")); err == nil {
		t.Error("object escaped the base directory")
	}

	if err := st.Put(ctx, "", []byte("x"), ContentTypeDocx); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestUpload(t *testing.T) {
	log := zaptest.NewLogger(t)
	st, err := NewFSStore(t.TempDir(), "k", log)
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}

	link, err := Upload(context.Background(), st, "shelf-9", "user-3", "Handbook", []byte("doc"), log)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.Contains(link, "export/shelf-9/user-3/handbook-") {
		t.Errorf("link = %q", link)
	}
}
