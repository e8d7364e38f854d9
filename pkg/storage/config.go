package storage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/specforge/specforge/pkg/domain/scan"
)

// Config is the per-project tool configuration stored at
// .specforge/config.yaml. A missing file yields DefaultConfig.
type Config struct {
	SpecStoreDir string       `yaml:"spec_store_dir"`
	Reviewer     string       `yaml:"reviewer,omitempty"`
	Scan         scan.Options `yaml:"scan"`
}

// DefaultConfig returns the configuration used when none is persisted.
func DefaultConfig() *Config {
	return &Config{
		SpecStoreDir: "specs",
		Scan: scan.Options{
			Depth: scan.DefaultDepth,
		},
	}
}

// LoadConfig reads the project configuration, falling back to defaults when
// the file does not exist.
func (r *FilesystemRepository) LoadConfig() (*Config, error) {
	path, err := r.ResolvePath(ConfigFile)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.SpecStoreDir == "" {
		cfg.SpecStoreDir = "specs"
	}
	if cfg.Scan.Depth <= 0 {
		cfg.Scan.Depth = scan.DefaultDepth
	}
	return cfg, nil
}

// SaveConfig persists the project configuration.
func (r *FilesystemRepository) SaveConfig(cfg *Config) error {
	path, err := r.ResolvePath(ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return writeFileAtomic(path, data)
}
