package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mmcdole/netkin/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Parental ParentalConfig `mapstructure:"parental"`
	Playback PlaybackConfig `mapstructure:"playback"`
	Remix    RemixConfig    `mapstructure:"remix"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// StorageConfig holds durable storage configuration
type StorageConfig struct {
	Dir string `mapstructure:"dir"` // Empty keeps everything in memory
}

// CatalogConfig holds catalog source configuration
type CatalogConfig struct {
	File string `mapstructure:"file"` // JSON catalog; empty uses the bundled titles
}

// ParentalConfig holds parental gate configuration
type ParentalConfig struct {
	PIN          string `mapstructure:"pin" validate:"required,numeric"`
	KidMaxRating string `mapstructure:"kid_max_rating" validate:"omitempty,content_rating"`
}

// PlaybackConfig holds simulated playback timings
type PlaybackConfig struct {
	LoadInterval      time.Duration `mapstructure:"load_interval" validate:"gt=0"`
	MaxLoadStep       int           `mapstructure:"max_load_step" validate:"gte=1,lte=100"`
	TickInterval      time.Duration `mapstructure:"tick_interval" validate:"gt=0"`
	CountdownInterval time.Duration `mapstructure:"countdown_interval" validate:"gt=0"`
	NextUpThreshold   time.Duration `mapstructure:"next_up_threshold" validate:"gt=0"`
	NextUpCountdown   int           `mapstructure:"next_up_countdown" validate:"gte=1"`
	DefaultDuration   time.Duration `mapstructure:"default_duration" validate:"gt=0"`
}

// RemixConfig holds generative remix service configuration
type RemixConfig struct {
	BaseURL      string        `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"gt=0"`
	OutputDir    string        `mapstructure:"output_dir"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	NotificationTimeout time.Duration `mapstructure:"notification_timeout" validate:"gt=0"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level" validate:"omitempty,oneof=DEBUG INFO WARN WARNING ERROR debug info warn warning error"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir: defaultDataPath(),
		},
		Parental: ParentalConfig{
			PIN:          "1234",
			KidMaxRating: string(domain.RatingPG),
		},
		Playback: PlaybackConfig{
			LoadInterval:      30 * time.Millisecond,
			MaxLoadStep:       7,
			TickInterval:      time.Second,
			CountdownInterval: time.Second,
			NextUpThreshold:   10 * time.Second,
			NextUpCountdown:   10,
			DefaultDuration:   2*time.Hour + 44*time.Minute,
		},
		Remix: RemixConfig{
			Timeout:      2 * time.Minute,
			PollInterval: 5 * time.Second,
			OutputDir:    filepath.Join(defaultDataPath(), "remix"),
		},
		UI: UIConfig{
			NotificationTimeout: 3 * time.Second,
		},
		Logging: LoggingConfig{
			File:       filepath.Join(defaultDataPath(), "netkin.log"),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "netkin")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "netkin")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "netkin")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "netkin")
	}
}

// LoadConfig loads configuration from the default locations and environment
func LoadConfig() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(defaultConfigPath())
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}
	return decode(v)
}

// LoadConfigFrom loads configuration from an explicit file
func LoadConfigFrom(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return decode(v)
}

// newViper returns a viper instance seeded with every default, so that
// NETKIN_SECTION_KEY environment overrides apply to nested keys
func newViper() *viper.Viper {
	v := viper.New()
	setAll(DefaultConfig(), v.SetDefault)

	v.SetEnvPrefix("NETKIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.Storage.Dir = expandHome(cfg.Storage.Dir)
	cfg.Catalog.File = expandHome(cfg.Catalog.File)
	cfg.Remix.OutputDir = expandHome(cfg.Remix.OutputDir)
	cfg.Logging.File = expandHome(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("content_rating", func(fl validator.FieldLevel) bool {
		return domain.ContentRating(fl.Field().String()).Normalize().Known()
	}); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SaveConfig saves the configuration to the default config file
func SaveConfig(cfg *Config) error {
	return saveConfigTo(cfg, defaultConfigPath())
}

func saveConfigTo(cfg *Config, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	setAll(cfg, v.Set)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setAll applies every key individually to ensure snake_case key names
func setAll(cfg *Config, set func(key string, value any)) {
	set("storage.dir", cfg.Storage.Dir)
	set("catalog.file", cfg.Catalog.File)

	set("parental.pin", cfg.Parental.PIN)
	set("parental.kid_max_rating", cfg.Parental.KidMaxRating)

	set("playback.load_interval", cfg.Playback.LoadInterval.String())
	set("playback.max_load_step", cfg.Playback.MaxLoadStep)
	set("playback.tick_interval", cfg.Playback.TickInterval.String())
	set("playback.countdown_interval", cfg.Playback.CountdownInterval.String())
	set("playback.next_up_threshold", cfg.Playback.NextUpThreshold.String())
	set("playback.next_up_countdown", cfg.Playback.NextUpCountdown)
	set("playback.default_duration", cfg.Playback.DefaultDuration.String())

	set("remix.base_url", cfg.Remix.BaseURL)
	set("remix.api_key", cfg.Remix.APIKey)
	set("remix.timeout", cfg.Remix.Timeout.String())
	set("remix.poll_interval", cfg.Remix.PollInterval.String())
	set("remix.output_dir", cfg.Remix.OutputDir)

	set("ui.notification_timeout", cfg.UI.NotificationTimeout.String())

	set("logging.file", cfg.Logging.File)
	set("logging.level", cfg.Logging.Level)
	set("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	set("logging.max_backups", cfg.Logging.MaxBackups)
	set("logging.max_age_days", cfg.Logging.MaxAgeDays)
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
