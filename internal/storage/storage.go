package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations the snapshot loader needs.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}

// FetchFiles downloads the named files found under prefix into destDir.
// Names absent from the bucket are skipped; the downloaded names are returned.
func FetchFiles(ctx context.Context, store ObjectStorage, prefix, destDir string, names []string) ([]string, error) {
	objects, err := store.ListObjects(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed listing %s: %w", prefix, err)
	}

	available := make(map[string]string, len(objects))
	for _, obj := range objects {
		available[path.Base(obj.Key)] = obj.Key
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed creating %s: %w", destDir, err)
	}

	fetched := make([]string, 0, len(names))
	for _, name := range names {
		key, ok := available[name]
		if !ok {
			log.Warn().Str("prefix", prefix).Str("file", name).Msg("snapshot file missing from bucket")
			continue
		}

		if err := store.DownloadObject(ctx, key, filepath.Join(destDir, name)); err != nil {
			return fetched, fmt.Errorf("failed downloading %s: %w", key, err)
		}
		fetched = append(fetched, name)
	}

	log.Info().Str("prefix", prefix).Strs("files", fetched).Msg("snapshot files fetched")
	return fetched, nil
}
