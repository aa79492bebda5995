package service

import (
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ashherx/coin-bounce/internal/config"
	"github.com/google/uuid"
)

// StoragePrefix is the URL path uploaded images are served from.
const StoragePrefix = "/storage"

var dataURLPrefix = regexp.MustCompile(`^data:image/(png|jpg|jpeg);base64,`)

// ImageStore writes base64 encoded blog photos to a local directory.
type ImageStore struct {
	dir       string
	publicURL string
	now       func() time.Time
}

func NewImageStore(cfg config.StorageConfig) (*ImageStore, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("%w: STORAGE_DIR is required", ErrMisconfigured)
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &ImageStore{
		dir:       cfg.Dir,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		now:       time.Now,
	}, nil
}

func (s *ImageStore) Dir() string {
	return s.dir
}

// Save decodes photo and returns the public URL of the written file.
func (s *ImageStore) Save(photo string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(dataURLPrefix.ReplaceAllString(photo, ""))
	if err != nil || len(raw) == 0 {
		return "", newError(ErrInvalidInput, `"photo" must be a base64 encoded image`)
	}

	name := fmt.Sprintf("%d-%s.png", s.now().UnixMilli(), uuid.NewString())
	if err := os.WriteFile(filepath.Join(s.dir, name), raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return s.publicURL + StoragePrefix + "/" + name, nil
}

// Delete removes the file behind a URL returned by Save. Missing files are
// ignored.
func (s *ImageStore) Delete(photoURL string) error {
	name := path.Base(photoURL)
	if name == "." || name == "/" || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
