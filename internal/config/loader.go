package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// ConfigDir is the directory name under ~/.config. It also holds the default stores.
	ConfigDir = "wisemcp"
	// ConfigFile is the config file name inside ConfigDir.
	ConfigFile = "config.json"
)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader implements FileSystem on the real OS.
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error)         { return os.UserHomeDir() }
func (ConfigFileReader) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Loader reads the dotfile through an injected FileSystem.
type Loader struct {
	fs FileSystem
}

// NewLoader creates a Loader on the real filesystem.
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}}
}

// NewLoaderWithFS creates a Loader with a custom filesystem (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load returns DefaultConfig overlaid with ~/.config/wisemcp/config.json.
//
// Keys present in the file replace defaults, explicit zero values included; absent keys
// keep their defaults. A missing file or unknown home directory yields the defaults.
// Relative storage paths are anchored at the config directory.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := l.fs.UserHomeDir()
	if err != nil {
		return cfg, nil
	}
	dir := filepath.Join(home, ".config", ConfigDir)
	path := filepath.Join(dir, ConfigFile)

	data, err := l.fs.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg.Storage.resolve(dir)
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Storage.resolve(dir)
	return cfg, nil
}

func (s *StorageConfig) resolve(dir string) {
	for _, p := range []*string{&s.HistoryPath, &s.KnowledgePath} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// Load loads the configuration from the user's dotfile.
func Load() (*Config, error) {
	return NewLoader().Load()
}
