// Package storage keeps uploaded article images on the local filesystem and
// serves them under a public URL prefix.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/essentialtimes/newsroom/internal/core/ports"
)

// URLPrefix is the public path images are served from.
const URLPrefix = "/uploads/"

var ErrForeignURL = errors.New("image url is not managed by this store")

// LocalStore writes images to Dir. File names are <unix-millis>-<uuid><ext>,
// so two uploads never collide.
type LocalStore struct {
	dir string
	now func() time.Time
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, now: time.Now}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Save(ctx context.Context, upload ports.ImageUpload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString(), extension(upload))
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(dst, upload.Body); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("close image file: %w", err)
	}
	return URLPrefix + name, nil
}

// Remove deletes the file behind url. A file that is already gone is not an
// error.
func (s *LocalStore) Remove(_ context.Context, url string) error {
	if !strings.HasPrefix(url, URLPrefix) {
		return ErrForeignURL
	}
	name := strings.TrimPrefix(url, URLPrefix)
	if name == "" || name == ".." || strings.ContainsAny(name, `/\`) {
		return ErrForeignURL
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// extension prefers the extension registered for the sniffed MIME type and
// falls back to the client file name.
func extension(upload ports.ImageUpload) string {
	if m := mimetype.Lookup(upload.ContentType); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return strings.ToLower(filepath.Ext(upload.Filename))
}
