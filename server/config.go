package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the HTTP service configuration.
type Config struct {
	// Listen is the address the HTTP server binds to.
	Listen string `yaml:"listen"`

	// RootDir is the directory conversion requests are resolved under.
	// Requests cannot reach files outside it.
	RootDir string `yaml:"root_dir"`

	// BaseURL prefixes all routes, matching deployments behind a path
	// rewriting proxy. Empty means routes mount at /.
	BaseURL string `yaml:"base_url"`

	// AuthToken, when set, must be presented by clients in the
	// Authorization header as "token <value>".
	AuthToken string `yaml:"auth_token"`

	// FontDir, when set, replaces /usr/share/fonts/truetype as the root
	// the standard font families are probed under.
	FontDir string `yaml:"font_dir"`

	// Debug enables verbose logging.
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the configuration used when no file or flags
// override it.
func DefaultConfig() Config {
	return Config{
		Listen:  "127.0.0.1:8711",
		RootDir: ".",
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
