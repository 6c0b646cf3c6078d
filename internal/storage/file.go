package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fileExt = ".json"

// FileStorage keeps one <name>.json file per timeline in a directory.
type FileStorage struct {
	dir string
}

// NewFileStorage creates the directory if needed. An empty dir means
// "./saves".
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		dir = "saves"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *FileStorage) Dir() string {
	return s.dir
}

// Path returns the file path used for name.
func (s *FileStorage) Path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// Save writes to a temporary file and renames it over the target, so a
// reader never observes a half-written timeline.
func (s *FileStorage) Save(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		return fmt.Errorf("renaming %s: %w", name, err)
	}
	return nil
}

func (s *FileStorage) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, unavailable(name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, unavailable(name, nil)
	}
	if err != nil {
		return nil, unavailable(name, err)
	}
	return data, nil
}

func (s *FileStorage) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileExt))
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStorage) Close() error { return nil }
