// Package settings loads application settings from defaults, an optional YAML
// file and JSONEDITOR_* environment variables.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "JSONEDITOR"

// Picker kinds.
const (
	PickerDialog = "dialog"
	PickerPrompt = "prompt"
)

// Settings holds application configuration.
type Settings struct {
	Addr           string        `mapstructure:"addr"`
	BasePath       string        `mapstructure:"base_path"`
	Root           string        `mapstructure:"root"`
	Picker         string        `mapstructure:"picker"`
	Watch          bool          `mapstructure:"watch"`
	WatchDebounce  time.Duration `mapstructure:"watch_debounce"`
	Remote         bool          `mapstructure:"remote"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Store          StoreSettings `mapstructure:"store"`
	Log            LogSettings   `mapstructure:"log"`
	Theme          ThemeSettings `mapstructure:"theme"`
}

// StoreSettings locates the persisted editor config.
type StoreSettings struct {
	Path string `mapstructure:"path"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
	Source bool   `mapstructure:"source"`
}

// ThemeSettings describes an inline go-theme manifest.
type ThemeSettings struct {
	Name     string                       `mapstructure:"name"`
	Variant  string                       `mapstructure:"variant"`
	Tokens   map[string]string            `mapstructure:"tokens"`
	Variants map[string]map[string]string `mapstructure:"variants"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("addr", "127.0.0.1:7777")
	v.SetDefault("base_path", "/")
	v.SetDefault("root", "")
	v.SetDefault("picker", PickerDialog)
	v.SetDefault("watch", false)
	v.SetDefault("watch_debounce", 200*time.Millisecond)
	v.SetDefault("remote", true)
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("store.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.source", false)
	v.SetDefault("theme.name", "")
	v.SetDefault("theme.variant", "")
}

// Load reads settings. path, or JSONEDITOR_SETTINGS when path is empty, names
// an explicit file that must exist; otherwise settings.yaml is looked up in
// the user config directory and skipped when absent.
func Load(path string) (Settings, error) {
	v := viper.New()
	defaults(v)
	v.SetConfigType("yaml")

	if path == "" {
		path = os.Getenv(EnvPrefix + "_SETTINGS")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "jsoneditor"))
		}
		v.SetConfigName("settings")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("settings: read: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("settings: unmarshal: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks enumerated values.
func (s Settings) Validate() error {
	switch s.Picker {
	case PickerDialog, PickerPrompt:
	default:
		return fmt.Errorf("settings: picker must be %q or %q, got %q", PickerDialog, PickerPrompt, s.Picker)
	}
	if s.RequestTimeout < 0 || s.WatchDebounce < 0 {
		return errors.New("settings: durations must not be negative")
	}
	return nil
}

// ThemeSelection builds a go-theme selection from the inline manifest. It
// returns nil when no theme is configured and an error for an unknown variant.
func (s Settings) ThemeSelection() (*theme.Selection, error) {
	name := strings.TrimSpace(s.Theme.Name)
	if name == "" {
		return nil, nil
	}
	manifest := &theme.Manifest{
		Name:     name,
		Version:  "1.0.0",
		Tokens:   copyTokens(s.Theme.Tokens),
		Variants: map[string]theme.Variant{},
	}
	for variant, tokens := range s.Theme.Variants {
		manifest.Variants[variant] = theme.Variant{Tokens: copyTokens(tokens)}
	}
	variant := strings.TrimSpace(s.Theme.Variant)
	if _, ok := manifest.Variants[variant]; variant != "" && !ok {
		return nil, fmt.Errorf("settings: theme %q has no variant %q", name, variant)
	}
	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

func copyTokens(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
