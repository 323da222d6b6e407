package blob

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Store keeps uploaded images and hands back a publicly resolvable address.
type Store interface {
	Upload(ctx context.Context, r io.Reader, suggestedName string) (string, error)
}

// Remover is implemented by stores that can delete an address they handed out.
type Remover interface {
	Remove(ctx context.Context, addr string) error
}

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// CheckImageName rejects names without an image extension.
func CheckImageName(name string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" || !allowedExtensions[ext] {
		return fmt.Errorf("file format not supported: %q (allowed: jpg, jpeg, png, gif, webp)", name)
	}
	return nil
}

// sanitize keeps a short, path-free version of name for storage keys.
func sanitize(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('_')
		}
		if b.Len() >= 48 {
			break
		}
	}
	if b.Len() == 0 {
		b.WriteString("image")
	}
	return b.String() + ext
}
