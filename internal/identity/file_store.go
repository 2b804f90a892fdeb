package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileStore keeps the identity in a TOML file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the TOML file at path.
// The file and its directory are created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and parses the file. A missing file yields ErrNotFound.
func (s *FileStore) Load(ctx context.Context) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, fmt.Errorf("read identity file: %w", err)
	}

	var id Identity
	if err := toml.Unmarshal(data, &id); err != nil {
		return Identity{}, fmt.Errorf("parse identity file: %w", err)
	}
	return id, nil
}

// Save writes the identity atomically by renaming a temp file over the target.
func (s *FileStore) Save(ctx context.Context, id Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := toml.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create identity directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".identity-*.toml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write identity file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close identity file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace identity file: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
