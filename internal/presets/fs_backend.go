package presets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FileBackend keeps each key as a JSON file under a directory
type FileBackend struct {
	fs  afero.Fs
	dir string
}

// NewFileBackend creates a new file backend rooted at dir
func NewFileBackend(fs afero.Fs, dir string) *FileBackend {
	return &FileBackend{
		fs:  fs,
		dir: dir,
	}
}

// Path returns the file that holds key
func (b *FileBackend) Path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

// Get reads the file for key. A missing file reports ok=false.
func (b *FileBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if err := validateKey(key); err != nil {
		return nil, false, err
	}

	data, err := afero.ReadFile(b.fs, b.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", b.Path(key), err)
	}
	return data, true, nil
}

// Set replaces the file for key through a temp file and rename
func (b *FileBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}

	// Create destination directory if it doesn't exist
	if err := b.fs.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("failed to create preset directory: %w", err)
	}

	tmp, err := afero.TempFile(b.fs, b.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		_ = b.fs.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = b.fs.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := b.fs.Rename(tmpName, b.Path(key)); err != nil {
		_ = b.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", b.Path(key), err)
	}
	return nil
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("storage key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
