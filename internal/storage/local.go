package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/Laisky/errors/v2"
)

// LocalBackend stores content as flat files under a root directory.
type LocalBackend struct {
	root string
}

// NewLocalBackend resolves root to an absolute path and creates it if absent.
func NewLocalBackend(root string) (*LocalBackend, error) {
	if root == "" {
		return nil, errors.New("empty storage root")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve storage root %q", root)
	}

	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create storage root %q", absRoot)
	}

	return &LocalBackend{root: absRoot}, nil
}

// Store writes data under name. Names are generated by the caller and unique,
// so concurrent writers never collide.
func (b *LocalBackend) Store(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "store content")
	}

	path, err := b.resolve(name)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write content %q", name)
	}

	return nil
}

// Open reads the content stored under name.
func (b *LocalBackend) Open(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "open content")
	}

	path, err := b.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotExist, "%q", name)
		}

		return nil, errors.Wrapf(err, "read content %q", name)
	}

	return data, nil
}

// resolve confines name to the root directory.
func (b *LocalBackend) resolve(name string) (string, error) {
	path := filepath.Join(b.root, filepath.Clean(name))
	if path != b.root && !strings.HasPrefix(path, b.root+string(filepath.Separator)) {
		return "", errors.Errorf("invalid content name %q", name)
	}

	return path, nil
}
