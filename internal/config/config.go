package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Restore RestoreConfig `yaml:"restore" json:"restore"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type StorageConfig struct {
	// DataDir is where the storage file lives. Empty means in-memory only:
	// the list is lost on shutdown.
	DataDir string `yaml:"data_dir" json:"data_dir"`
	// Key is the storage key holding the whole task collection.
	Key string `yaml:"key" json:"key"`
}

type RestoreConfig struct {
	// WindowSeconds bounds how long a deleted task can still be restored.
	// Zero keeps it restorable until the next deletion.
	WindowSeconds int `yaml:"window_seconds" json:"window_seconds"`
}

func Default() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":8080"},
		Storage: StorageConfig{DataDir: "data", Key: "tasks"},
		Restore: RestoreConfig{WindowSeconds: 0},
	}
}

func (c *Config) ApplyDefaults() {
	d := Default()
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = d.Server.Addr
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		c.Storage.Key = d.Storage.Key
	}
	if c.Restore.WindowSeconds < 0 {
		c.Restore.WindowSeconds = 0
	}
}

// Load reads a YAML config file. A missing file is not an error: defaults
// apply, optionally overridden by environment variables (see FromEnv).
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FromEnv(Default()), nil
		}
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return FromEnv(&c), nil
}
