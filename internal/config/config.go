// Package config loads and validates the tool's TOML configuration. The CLI
// overrides individual fields with flags; the encode and playback packages
// never see raw argv or files, only validated values.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"glyphcast/internal/movie"
)

//go:embed sample_config.toml
var sampleConfig string

const (
	defaultCatalogPath  = "~/.local/share/glyphcast/catalog.db"
	defaultLogDir       = "~/.local/share/glyphcast/logs"
	defaultGridWidth    = 40
	defaultGridHeight   = 20
	defaultMaxFrames    = 50
	defaultWorkers      = 4
	defaultFrameRateCap = 5
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"

	// The container format caps stored rates; a cap above this would write
	// headers the player contract does not admit.
	MaxFrameRateCap = 5
)

// Paths contains file locations.
type Paths struct {
	CatalogPath string `toml:"catalog_path"`
	LogDir      string `toml:"log_dir"`
}

// Encode contains defaults for the compress pipeline.
type Encode struct {
	GridWidth    int    `toml:"grid_width"`
	GridHeight   int    `toml:"grid_height"`
	MaxFrames    int    `toml:"max_frames"`
	Workers      int    `toml:"workers"`
	Charset      string `toml:"charset"`
	FrameRateCap int    `toml:"frame_rate_cap"`
	Invert       bool   `toml:"invert"`
}

// Playback contains player behavior toggles.
type Playback struct {
	FrameCounter bool `toml:"frame_counter"`
	Loop         bool `toml:"loop"`
}

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Encode   Encode   `toml:"encode"`
	Playback Playback `toml:"playback"`
	Logging  Logging  `toml:"logging"`
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogPath: defaultCatalogPath,
			LogDir:      defaultLogDir,
		},
		Encode: Encode{
			GridWidth:    defaultGridWidth,
			GridHeight:   defaultGridHeight,
			MaxFrames:    defaultMaxFrames,
			Workers:      defaultWorkers,
			Charset:      movie.DefaultGlyphs,
			FrameRateCap: defaultFrameRateCap,
		},
		Playback: Playback{
			FrameCounter: true,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/glyphcast/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second and third
// returns report the resolved path and whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("glyphcast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		c.Paths.CatalogPath = defaultCatalogPath
	}
	if c.Paths.CatalogPath, err = ExpandPath(c.Paths.CatalogPath); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Encode.Charset) == "" {
		c.Encode.Charset = movie.DefaultGlyphs
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Encode.GridWidth < 1 || c.Encode.GridHeight < 1 {
		return errors.New("encode.grid_width and encode.grid_height must be at least 1")
	}
	if c.Encode.MaxFrames < 1 {
		return errors.New("encode.max_frames must be at least 1")
	}
	if c.Encode.Workers < 1 {
		return errors.New("encode.workers must be at least 1")
	}
	if c.Encode.FrameRateCap < 1 || c.Encode.FrameRateCap > MaxFrameRateCap {
		return fmt.Errorf("encode.frame_rate_cap must be between 1 and %d", MaxFrameRateCap)
	}
	if _, err := movie.NewCharset(c.Encode.Charset); err != nil {
		return fmt.Errorf("encode.charset: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// Charset builds the validated glyph palette from the encode section.
func (c *Config) Charset() (movie.Charset, error) {
	return movie.NewCharset(c.Encode.Charset)
}

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
