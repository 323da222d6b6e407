package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore builds a store from a CLOUDINARY_URL style address.
func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	if err := CheckImageName(suggestedName); err != nil {
		return "", err
	}
	publicID := uuid.NewString() + "_" + strings.TrimSuffix(sanitize(suggestedName), strings.ToLower(filepath.Ext(suggestedName)))
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:   s.folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary returned no address")
	}
	return res.SecureURL, nil
}

// Remove destroys the asset behind a SecureURL handed out by Upload.
func (s *CloudinaryStore) Remove(ctx context.Context, addr string) error {
	u, err := url.Parse(addr)
	if err != nil {
		return err
	}
	base := path.Base(u.Path)
	publicID := strings.TrimSuffix(base, path.Ext(base))
	if publicID == "" || publicID == "." || publicID == "/" {
		return fmt.Errorf("no public id in %q", addr)
	}
	if s.folder != "" {
		publicID = s.folder + "/" + publicID
	}
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}
