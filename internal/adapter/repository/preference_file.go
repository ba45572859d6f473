package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/canton09/aisales/internal/domain/entities"
)

// FilePreferenceRepository keeps preferences in a YAML file readable only by the owner
type FilePreferenceRepository struct {
	path string
}

// NewFilePreferenceRepository creates a file-backed preference repository.
// An empty path selects DefaultPreferencesPath.
func NewFilePreferenceRepository(path string) (*FilePreferenceRepository, error) {
	if path == "" {
		p, err := DefaultPreferencesPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &FilePreferenceRepository{path: path}, nil
}

// DefaultPreferencesPath returns <user config dir>/aisales/preferences.yaml
func DefaultPreferencesPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "aisales", "preferences.yaml"), nil
}

// Path returns the file location
func (r *FilePreferenceRepository) Path() string {
	return r.path
}

// Load reads preferences. A missing file yields defaults.
func (r *FilePreferenceRepository) Load(ctx context.Context) (*entities.Preferences, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entities.NewPreferences(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	prefs := entities.NewPreferences()
	if err := yaml.Unmarshal(data, prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences %s: %w", r.path, err)
	}
	prefs.Normalize()
	return prefs, nil
}

// Save writes preferences through a temp file and rename
func (r *FilePreferenceRepository) Save(ctx context.Context, prefs *entities.Preferences) error {
	p := *prefs
	p.Normalize()

	data, err := yaml.Marshal(&p)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create preferences dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".preferences-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod preferences: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
