package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes uploads under Dir/uploads and serves them from
// PublicPrefix, which the HTTP layer maps to Dir.
type LocalStore struct {
	Dir          string
	PublicPrefix string
	MaxBytes     int64
}

func NewLocalStore(dir string, maxBytes int64) *LocalStore {
	return &LocalStore{Dir: dir, PublicPrefix: "/media", MaxBytes: maxBytes}
}

func (s *LocalStore) Upload(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	if err := CheckImageName(suggestedName); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := filepath.Join(s.Dir, "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload folder: %w", err)
	}

	name := uuid.NewString() + "_" + sanitize(suggestedName)
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	src := r
	if s.MaxBytes > 0 {
		src = io.LimitReader(r, s.MaxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.MaxBytes > 0 && n > s.MaxBytes {
		err = fmt.Errorf("file too large (max %d bytes)", s.MaxBytes)
	}
	if err == nil && n == 0 {
		err = fmt.Errorf("empty file %q", suggestedName)
	}
	if err != nil {
		_ = os.Remove(filepath.Join(dir, name))
		return "", err
	}
	return path.Join(s.PublicPrefix, "uploads", name), nil
}

// Remove deletes an upload by the address Upload returned. A file that is
// already gone is not an error.
func (s *LocalStore) Remove(ctx context.Context, addr string) error {
	prefix := path.Join(s.PublicPrefix, "uploads") + "/"
	name := strings.TrimPrefix(addr, prefix)
	if !strings.HasPrefix(addr, prefix) || name == "" || name != path.Base(name) || name == ".." {
		return fmt.Errorf("not a local upload: %q", addr)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.Dir, "uploads", name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
