package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds packaging/release parameters.
// Zero values mean "unspecified" and will be replaced by defaults in the CLI.
type Config struct {
	// Addr is the listen address of the distribution server.
	Addr string `json:"addr" yaml:"addr" toml:"addr"`
	// BinDir is the staging root for built runtime libraries (bin/<os>/<arch>).
	BinDir string `json:"bin_dir" yaml:"bin_dir" toml:"bin_dir"`
	// RepoRoot is the checkout containing CMakePresets.json and third_party/.
	RepoRoot string `json:"repo_root" yaml:"repo_root" toml:"repo_root"`
	// Version is the release version stamped into the manifest.
	Version string `json:"version" yaml:"version" toml:"version"`
	// Jobs is the parallel job count passed to cmake --build.
	Jobs int `json:"jobs" yaml:"jobs" toml:"jobs"`
	// NativeLogLevel is the llama.cpp log threshold: 0=off 1=debug 2=info 3=warn 4=error.
	NativeLogLevel int `json:"native_log_level" yaml:"native_log_level" toml:"native_log_level"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
