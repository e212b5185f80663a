package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shuheykoyama/tnap/internal/errors"
	"github.com/shuheykoyama/tnap/internal/render"
)

// Config represents the application configuration structure.
type Config struct {
	Slideshow struct {
		TickSeconds int    `yaml:"tick_seconds"` // Seconds each image stays on screen
		ASCII       bool   `yaml:"ascii"`        // Start in ASCII mode
		Protocol    string `yaml:"protocol"`     // auto, kitty, sixel, iterm2, halfblocks
		Palette     string `yaml:"palette"`      // Status bar colours
	} `yaml:"slideshow"`
	Acquisition struct {
		Count       int    `yaml:"count"`       // Images generated per run
		OutputDir   string `yaml:"output_dir"`  // Root of per-run session directories
		Placeholder string `yaml:"placeholder"` // Shown until the first image arrives
	} `yaml:"acquisition"`
	Generation struct {
		APIKeyEnv string `yaml:"api_key_env"` // Environment variable holding the API key
		BaseURL   string `yaml:"base_url"`
		Model     string `yaml:"model"`
		Size      string `yaml:"size"`
	} `yaml:"generation"`
	Themes struct {
		Dir string `yaml:"dir"` // Directory holding one sub-directory per theme
	} `yaml:"themes"`
	Prompts struct {
		Catalog string `yaml:"catalog"` // TOML prompt catalog
	} `yaml:"prompts"`
	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
		JSON  bool   `yaml:"json"`
	} `yaml:"logging"`
}

// DefaultPath returns ~/.config/tnap/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tnap", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.InvalidConfig, err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}
	cfg.merge(&loaded)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// merge copies every set field of loaded over c.
func (c *Config) merge(loaded *Config) {
	if loaded.Slideshow.TickSeconds != 0 {
		c.Slideshow.TickSeconds = loaded.Slideshow.TickSeconds
	}
	c.Slideshow.ASCII = loaded.Slideshow.ASCII
	setString(&c.Slideshow.Protocol, loaded.Slideshow.Protocol)
	setString(&c.Slideshow.Palette, loaded.Slideshow.Palette)

	if loaded.Acquisition.Count != 0 {
		c.Acquisition.Count = loaded.Acquisition.Count
	}
	setString(&c.Acquisition.OutputDir, loaded.Acquisition.OutputDir)
	setString(&c.Acquisition.Placeholder, loaded.Acquisition.Placeholder)

	setString(&c.Generation.APIKeyEnv, loaded.Generation.APIKeyEnv)
	setString(&c.Generation.BaseURL, loaded.Generation.BaseURL)
	setString(&c.Generation.Model, loaded.Generation.Model)
	setString(&c.Generation.Size, loaded.Generation.Size)

	setString(&c.Themes.Dir, loaded.Themes.Dir)
	setString(&c.Prompts.Catalog, loaded.Prompts.Catalog)

	setString(&c.Logging.Level, loaded.Logging.Level)
	setString(&c.Logging.File, loaded.Logging.File)
	c.Logging.JSON = loaded.Logging.JSON
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// defaultConfig returns the configuration used when no file is present.
// Relative paths resolve against the working directory.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Slideshow.TickSeconds = 3
	cfg.Slideshow.ASCII = false
	cfg.Slideshow.Protocol = "auto"
	cfg.Slideshow.Palette = "default"

	cfg.Acquisition.Count = 5
	cfg.Acquisition.OutputDir = "generated_images"
	cfg.Acquisition.Placeholder = filepath.Join("examples", "girl_with_headphone.png")

	cfg.Generation.APIKeyEnv = "OPENAI_API_KEY"
	cfg.Generation.BaseURL = "https://api.openai.com/v1"
	cfg.Generation.Model = "dall-e-3"
	cfg.Generation.Size = "1024x1024"

	cfg.Themes.Dir = "themes"
	cfg.Prompts.Catalog = "config.toml"

	cfg.Logging.Level = "info"
	cfg.Logging.File = defaultLogFile()

	return cfg
}

func defaultLogFile() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "tnap", "tnap.log")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "tnap", "tnap.log")
	}
	return filepath.Join(os.TempDir(), "tnap.log")
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrInvalidConfig
	}
	if c.Slideshow.TickSeconds < 1 {
		return errors.NewConfigError("tick_seconds must be >= 1", "slideshow.tick_seconds", errors.InvalidConfig, nil)
	}
	if _, err := render.Negotiate(c.Slideshow.Protocol); err != nil {
		return err
	}
	if _, ok := palettes[c.Slideshow.Palette]; !ok {
		return errors.NewConfigError("unknown palette "+c.Slideshow.Palette, "slideshow.palette", errors.InvalidConfig, nil)
	}
	if c.Acquisition.Count < 1 {
		return errors.NewConfigError("count must be >= 1", "acquisition.count", errors.InvalidConfig, nil)
	}
	if c.Acquisition.OutputDir == "" {
		return errors.NewConfigError("output_dir is required", "acquisition.output_dir", errors.InvalidConfig, nil)
	}
	if c.Acquisition.Placeholder == "" {
		return errors.NewConfigError("placeholder is required", "acquisition.placeholder", errors.InvalidConfig, nil)
	}
	if c.Generation.APIKeyEnv == "" {
		return errors.NewConfigError("api_key_env is required", "generation.api_key_env", errors.InvalidConfig, nil)
	}
	if c.Themes.Dir == "" {
		return errors.NewConfigError("themes dir is required", "themes.dir", errors.InvalidConfig, nil)
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return errors.NewConfigError("invalid log level "+c.Logging.Level, "logging.level", errors.InvalidConfig, nil)
	}
	return nil
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// TickInterval returns the slideshow tick as a duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Slideshow.TickSeconds) * time.Second
}

// APIKey reads the generation API key from the configured environment
// variable.
func (c *Config) APIKey() string {
	return strings.TrimSpace(os.Getenv(c.Generation.APIKeyEnv))
}
