// Package config manages the persisted credential/model record consumed by
// the scan path. The store is injected explicitly; there is no process-wide
// singleton.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"vulnsight/internal/errs"
)

// DefaultModel is used when neither the store nor the environment names one.
const DefaultModel = "gemini-2.5-flash"

// Config is the persisted record: API credential plus model identifier.
type Config struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Store abstracts load/save/delete against a fixed location so scans can be
// tested with fakes.
type Store interface {
	Load() (*Config, error)
	Save(*Config) error
	Delete() error
	Path() string
}

// FileStore persists the config as YAML under a fixed path.
type FileStore struct {
	path string
}

// DefaultPath is ~/.vulnsight/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vulnsight", "config.yaml"), nil
}

// NewFileStore binds a store to path; empty path means DefaultPath.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string { return s.path }

// Load reads the stored config. A missing file yields an empty config, not
// an error; resolution decides whether that is fatal.
func (s *FileStore) Load() (*Config, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config with owner-only permissions.
func (s *FileStore) Save(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

// Delete removes the stored config; deleting a missing file is not an error.
func (s *FileStore) Delete() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Resolve merges the stored record with environment overrides and validates
// that a usable credential exists. Environment wins over the file so CI can
// run without a persisted config.
func Resolve(store Store) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if store != nil {
		stored, err := store.Load()
		if err != nil {
			return nil, errs.Wrap(errs.KindConfiguration, "cannot read stored configuration", err)
		}
		*cfg = *stored
	}
	if v := firstNonEmpty(os.Getenv("VULNSIGHT_API_KEY"), os.Getenv("GEMINI_API_KEY")); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("VULNSIGHT_MODEL")); v != "" {
		cfg.Model = v
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errs.New(errs.KindConfiguration, "no API key configured")
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
