package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"darkmode-scheduler/internal/domain"
)

// FileRepository implements domain.SettingsRepository as a flat JSON object.
// This is a secondary adapter.
type FileRepository struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewFileRepository creates a file-based settings repository on the OS filesystem.
func NewFileRepository(path string) (*FileRepository, error) {
	return NewFileRepositoryFs(afero.NewOsFs(), path)
}

// NewFileRepositoryFs creates a file-based settings repository on fs.
func NewFileRepositoryFs(fs afero.Fs, path string) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	return &FileRepository{fs: fs, path: path}, nil
}

// Path returns the file backing the repository.
func (f *FileRepository) Path() string {
	return f.path
}

// Load reads all stored settings. A missing file yields an empty set.
func (f *FileRepository) Load() (map[string]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *FileRepository) load() (map[string]json.RawMessage, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	values := map[string]json.RawMessage{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return values, nil
}

// Save merges values into the stored settings and rewrites the file atomically.
func (f *FileRepository) Save(values map[string]json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.load()
	if err != nil {
		// A corrupt file is replaced rather than blocking every write.
		current = map[string]json.RawMessage{}
	}
	for k, v := range values {
		current[k] = v
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Atomic write
	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}

	return nil
}

var _ domain.SettingsRepository = (*FileRepository)(nil)
