package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"studiofit_backend/internals/configs"
)

var ErrStorageDisabled = errors.New("object storage is not configured")

// Store puts an object and returns its public URL.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
}

// NewStore picks the backend from STORAGE_DRIVER; an empty driver yields a Store that always fails.
func NewStore(ctx context.Context, cfg configs.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "oss":
		return NewOSSStore(cfg)
	case "s3":
		return NewS3Store(ctx, cfg)
	case "":
		return disabledStore{}, nil
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Driver)
}

type disabledStore struct{}

func (disabledStore) Put(context.Context, string, string, io.Reader, int64) (string, error) {
	return "", ErrStorageDisabled
}

// AvatarKey is studios/<studio>/trainers/<trainer>/<yyyymmdd>-<rand>.webp
func AvatarKey(studioID, trainerID uuid.UUID, now time.Time) string {
	return path.Join("studios", studioID.String(), "trainers", trainerID.String(),
		fmt.Sprintf("%s-%s.webp", now.UTC().Format("20060102"), strings.ReplaceAll(uuid.NewString(), "-", "")[:12]))
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
