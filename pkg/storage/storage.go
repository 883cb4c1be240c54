package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
	ProviderNone       = "none"
)

// ErrDisabled is returned by uploads when no image host is configured.
var ErrDisabled = errors.New("image storage is disabled")

// ImageStorage defines contract for image storage provider.
type ImageStorage interface {
	// UploadImage uploads image from reader and returns its public URL.
	// folder is optional logical folder in storage (e.g. "recipes").
	UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	// DeleteImage deletes image from storage using its URL.
	DeleteImage(ctx context.Context, fileURL string) error
}

// Options selects and configures the image host.
type Options struct {
	Provider string

	CloudinaryURL       string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

// New builds the ImageStorage named by opts.Provider.
func New(ctx context.Context, opts Options) (ImageStorage, error) {
	switch strings.ToLower(opts.Provider) {
	case ProviderCloudinary, "":
		return NewCloudinaryStorage(opts)
	case ProviderS3:
		return NewS3Storage(ctx, opts)
	case ProviderNone:
		return disabledStorage{}, nil
	}
	return nil, fmt.Errorf("unknown image storage provider %q", opts.Provider)
}

// DeleteImages removes each hosted image, logging failures instead of
// returning them. A nil storage or an empty URL is skipped.
func DeleteImages(ctx context.Context, s ImageStorage, urls ...string) {
	if s == nil {
		return
	}
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := s.DeleteImage(ctx, url); err != nil {
			logrus.WithError(err).WithField("image", url).Warn("failed to delete hosted image")
		}
	}
}

type disabledStorage struct{}

func (disabledStorage) UploadImage(context.Context, io.Reader, string, string) (string, error) {
	return "", ErrDisabled
}

func (disabledStorage) DeleteImage(context.Context, string) error {
	return nil
}

// cleanFileName keeps the base name of fileName with spaces replaced, so it
// is safe inside an object key or public id.
func cleanFileName(fileName string) string {
	name := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" {
		return "image"
	}
	return strings.ReplaceAll(name, " ", "_")
}
