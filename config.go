package multistorage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Durable drivers used outside the browser when Session is false.
const (
	DriverFile   = "file"
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// Config holds Store construction parameters. Zero values select defaults.
type Config struct {
	// MainKey namespaces the blob; defaults to "multistorage".
	MainKey string `yaml:"main_key"`
	// Session selects short-lived storage (sessionStorage in a browser,
	// a per-instance in-memory map elsewhere).
	Session bool `yaml:"session"`
	// FilePath roots the durable backend; defaults to "./" + MainKey.
	FilePath string `yaml:"file_path"`
	// Driver picks the durable backend outside the browser: file, bolt or sqlite.
	Driver string `yaml:"driver"`
	// Format picks a built-in serializer when Serializer is nil: json or yaml.
	Format string `yaml:"format"`
	// Serializer overrides Format.
	Serializer Serializer `yaml:"-"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.MainKey != "" {
		c.MainKey = source.MainKey
	}
	if source.Session {
		c.Session = true
	}
	if source.FilePath != "" {
		c.FilePath = source.FilePath
	}
	if source.Driver != "" {
		c.Driver = source.Driver
	}
	if source.Format != "" {
		c.Format = source.Format
	}
	if source.Serializer != nil {
		c.Serializer = source.Serializer
	}
}

func (c Config) withDefaults() Config {
	if c.MainKey == "" {
		c.MainKey = DefaultMainKey
	}
	if c.Driver == "" {
		c.Driver = DriverFile
	}
	if c.FilePath == "" {
		c.FilePath = "./" + c.MainKey
		if c.Driver == DriverBolt || c.Driver == DriverSQLite {
			c.FilePath += ".db"
		}
	}
	return c
}

func (c Config) storageType() string {
	if c.Session {
		return StorageTypeSession
	}
	return StorageTypeLocal
}
