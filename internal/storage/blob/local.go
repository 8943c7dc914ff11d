package blob

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"planhat-usage-sync/internal/config"
)

// localStore serves a bucket from a directory on disk. Keys are paths
// relative to the bucket directory, walked in lexical order.
type localStore struct {
	root string
}

func newLocalStore(cfg config.LocalDirConfig, bucket string) (*localStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("blob: storage.local.dir must be provided for local storage")
	}
	root := filepath.Join(cfg.Dir, bucket)
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: bucket dir %s", ErrNotFound, root)
		}
		return nil, fmt.Errorf("blob: stat bucket dir %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("blob: %s is not a directory", root)
	}
	return &localStore{root: root}, nil
}

func (l *localStore) List(ctx context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("blob: list %s: %w", l.root, err)
	}
	return keys, nil
}

func (l *localStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(l.root, filepath.FromSlash(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: object %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("blob: open %s: %w", key, err)
	}
	return f, nil
}
