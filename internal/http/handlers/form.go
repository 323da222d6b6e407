package handlers

import (
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/services"
)

// adminForm is a multipart or urlencoded admin form.
type adminForm struct {
	values map[string][]string
	files  map[string][]*multipart.FileHeader
}

func readForm(c *fiber.Ctx) adminForm {
	if mf, err := c.MultipartForm(); err == nil {
		return adminForm{values: mf.Value, files: mf.File}
	}
	vals := map[string][]string{}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		vals[string(k)] = append(vals[string(k)], string(v))
	})
	return adminForm{values: vals}
}

func (f adminForm) get(key string) string {
	if v := f.values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (f adminForm) file(key string) *multipart.FileHeader {
	if fh := f.files[key]; len(fh) > 0 && fh[0].Size > 0 {
		return fh[0]
	}
	return nil
}

// indexed collects fields named prefix[Name], keyed by Name.
func (f adminForm) indexed(prefix string) map[string]string {
	out := map[string]string{}
	for k := range f.values {
		if name, ok := bracketKey(k, prefix); ok {
			out[name] = f.get(k)
		}
	}
	return out
}

func (f adminForm) indexedFiles(prefix string) map[string]*multipart.FileHeader {
	out := map[string]*multipart.FileHeader{}
	for k := range f.files {
		if name, ok := bracketKey(k, prefix); ok {
			if fh := f.file(k); fh != nil {
				out[name] = fh
			}
		}
	}
	return out
}

func bracketKey(key, prefix string) (string, bool) {
	if !strings.HasPrefix(key, prefix+"[") || !strings.HasSuffix(key, "]") {
		return "", false
	}
	name := strings.TrimSpace(key[len(prefix)+1 : len(key)-1])
	return name, name != ""
}

// uploads opens file headers as service uploads. The returned closer must be
// called once the service is done with them.
type uploads struct {
	open []io.Closer
	max  int64
}

func (u *uploads) add(fh *multipart.FileHeader) (*services.Upload, error) {
	if fh == nil {
		return nil, nil
	}
	if u.max > 0 && fh.Size > u.max {
		return nil, &services.ValidationError{Field: "image", Msg: "image is too large"}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, &services.UploadError{Name: fh.Filename, Err: err}
	}
	u.open = append(u.open, f)
	return &services.Upload{Name: fh.Filename, Body: f}, nil
}

func (u *uploads) Close() {
	for _, c := range u.open {
		_ = c.Close()
	}
}
