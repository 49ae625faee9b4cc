package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vmkit.json"

	// DefaultInspectorAddr is the default inspector listen address.
	DefaultInspectorAddr = "localhost:6470"

	// DefaultSnapshotDir is the default directory for disk snapshots.
	DefaultSnapshotDir = ".vmkit/snapshots"
)

// Config represents the complete vmkit.json configuration.
type Config struct {
	// Name is the application name, used in logs and metrics labels.
	Name string `json:"name,omitempty"`

	// Inspector contains devtools inspector settings.
	Inspector InspectorConfig `json:"inspector,omitempty"`

	// Snapshot contains snapshot persistence settings.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// InspectorConfig contains devtools inspector settings.
type InspectorConfig struct {
	// Enabled controls whether the inspector server runs.
	Enabled bool `json:"enabled,omitempty"`

	// Addr is the listen address, e.g. "localhost:6470".
	Addr string `json:"addr,omitempty"`
}

// SnapshotConfig contains snapshot persistence settings.
type SnapshotConfig struct {
	// Backend selects the store: "memory", "disk", or "s3".
	Backend string `json:"backend,omitempty"`

	// Dir is the directory for the disk backend.
	Dir string `json:"dir,omitempty"`

	// Bucket is the S3 bucket for the s3 backend.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the S3 key prefix for the s3 backend.
	Prefix string `json:"prefix,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name: "vmkit",
		Inspector: InspectorConfig{
			Enabled: true,
			Addr:    DefaultInspectorAddr,
		},
		Snapshot: SnapshotConfig{
			Backend: "memory",
			Dir:     DefaultSnapshotDir,
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// vmkit.json in the directory and falls back to defaults when the file
// does not exist.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from, or "" when
// defaults were used.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "vmkit"
	}
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = DefaultInspectorAddr
	}
	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = "memory"
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Inspector.Addr); err != nil {
		return fmt.Errorf("invalid inspector addr %q: %w", c.Inspector.Addr, err)
	}

	switch c.Snapshot.Backend {
	case "memory", "disk":
	case "s3":
		if c.Snapshot.Bucket == "" {
			return fmt.Errorf("snapshot backend s3 requires a bucket")
		}
	default:
		return fmt.Errorf("unknown snapshot backend %q", c.Snapshot.Backend)
	}
	return nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
