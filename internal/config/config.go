// Package config loads and validates YAML configuration for the svg2png CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iconforge/go-svg2png/internal/fileutil"
	"github.com/iconforge/go-svg2png/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidRenderer = errors.New("invalid renderer name")
	ErrInvalidWidth    = errors.New("invalid output width")
	ErrInvalidWorkers  = errors.New("invalid worker count")
	ErrInvalidTimeout  = errors.New("invalid timeout")
	ErrColorTooLong    = errors.New("color exceeds maximum length")
)

// MaxColorLength caps the color token; colors are substituted verbatim into
// style strings, so the cap is the only guard against abuse.
const MaxColorLength = 50

// Renderer names accepted in config and flags.
var knownRenderers = map[string]bool{
	"inkscape": true,
	"magick":   true,
	"chrome":   true,
}

// Config holds all configuration for icon conversion.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Render RenderConfig `yaml:"render"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = beside source)
}

// RenderConfig defines rendering options.
type RenderConfig struct {
	Color    string `yaml:"color"`    // Fill color (default "#FFFFFF")
	Renderer string `yaml:"renderer"` // "inkscape", "magick", "chrome" (default "inkscape")
	Width    int    `yaml:"width"`    // Output width in pixels (0 = renderer default)
	Timeout  string `yaml:"timeout"`  // Per-file timeout, e.g. "30s" (empty = library default)
	Workers  int    `yaml:"workers"`  // Parallel workers (0 = auto)
}

// Validate checks that configured values are usable.
func (c *Config) Validate() error {
	if len(c.Render.Color) > MaxColorLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrColorTooLong, len(c.Render.Color), MaxColorLength)
	}
	if c.Render.Renderer != "" && !knownRenderers[c.Render.Renderer] {
		return fmt.Errorf("%w: %q (must be inkscape, magick, or chrome)", ErrInvalidRenderer, c.Render.Renderer)
	}
	if c.Render.Width < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWidth, c.Render.Width)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWorkers, c.Render.Workers)
	}
	if c.Render.Timeout != "" {
		d, err := time.ParseDuration(c.Render.Timeout)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, c.Render.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, c.Render.Timeout)
		}
	}
	return nil
}

// DefaultConfig returns a neutral configuration.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Color:    "#FFFFFF",
			Renderer: "inkscape",
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/svg2png/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "svg2png", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
