// Package store abstracts the object storage the exporter publishes finished
// documents to and hands back time limited download links for.
package store

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// ContentTypeDocx is the MIME type of the produced packages.
const ContentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DownloadTTL is how long a published download link stays valid.
const DownloadTTL = 15 * time.Minute

// ObjectStore is the storage surface the exporter needs: write an object,
// mint a time limited download URL, remove an object.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignedGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// FSStore keeps objects under a base directory. Used for local runs and
// tests; the presigned URL degenerates to a file URL with an expiry query,
// HMAC-signed when a key is configured.
type FSStore struct {
	base string
	key  []byte
	log  *zap.Logger
}

// NewFSStore creates the base directory if needed. signingKey may be empty,
// producing unsigned links.
func NewFSStore(base, signingKey string, log *zap.Logger) (*FSStore, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create store directory %s: %w", base, err)
	}
	return &FSStore{base: base, key: []byte(signingKey), log: log.Named("store")}, nil
}

func (s *FSStore) keyPath(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("empty object key")
	}
	return filepath.Join(s.base, filepath.FromSlash(clean[1:])), nil
}

func (s *FSStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	p, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("unable to create object directory: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("unable to write object %s: %w", key, err)
	}
	s.log.Debug("object stored", zap.String("key", key), zap.Int("size", len(data)), zap.String("content-type", contentType))
	return nil
}

func (s *FSStore) PresignedGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	p, err := s.keyPath(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("unable to stat object %s: %w", key, err)
	}
	expires := time.Now().Add(ttl).UTC().Format(time.RFC3339)
	q := url.Values{"expires": {expires}}
	if len(s.key) > 0 {
		mac := hmac.New(sha256.New, s.key)
		mac.Write([]byte(key + "\n" + expires))
		q.Set("sig", hex.EncodeToString(mac.Sum(nil)))
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(p),
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

func (s *FSStore) Delete(ctx context.Context, key string) error {
	p, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unable to delete object %s: %w", key, err)
	}
	return nil
}

// ExportKey builds the storage key for a finished export. The document name
// is slugified so the key survives presigning and header quoting; a random
// suffix keeps repeated exports of the same shelf from clobbering each other.
func ExportKey(shelfID, userID, name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "document"
	}
	return fmt.Sprintf("export/%s/%s/%s-%s.docx", shelfID, userID, base, shortID())
}

func shortID() string {
	id := uuid.NewString()
	return strings.SplitN(id, "-", 2)[0]
}

// Upload publishes a finished document and returns its download link.
func Upload(ctx context.Context, st ObjectStore, shelfID, userID, name string, data []byte, log *zap.Logger) (string, error) {
	key := ExportKey(shelfID, userID, name)
	if err := st.Put(ctx, key, data, ContentTypeDocx); err != nil {
		return "", fmt.Errorf("unable to upload export: %w", err)
	}
	link, err := st.PresignedGet(ctx, key, DownloadTTL)
	if err != nil {
		return "", fmt.Errorf("unable to presign export link: %w", err)
	}
	log.Info("export published", zap.String("key", key), zap.Duration("ttl", DownloadTTL))
	return link, nil
}
