// Package config loads and validates application settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/dashboard"
	"github.com/evgengiga/dashbord/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// EnvPrefix prefixes every environment variable read by viper.
const EnvPrefix = "DASHBORD"

// Settings is the full application configuration.
type Settings struct {
	Tables  map[string]TableSettings `mapstructure:"tables" validate:"dive"`
	Links   LinkSettings             `mapstructure:"links"`
	Storage StorageSettings          `mapstructure:"storage"`
	Logging LoggingSettings          `mapstructure:"logging"`
	Fixture FixtureSettings          `mapstructure:"fixture"`
	Display DisplaySettings          `mapstructure:"display"`
	API     APISettings              `mapstructure:"api"`
}

// APISettings configures the dashboard backend client.
type APISettings struct {
	BaseURL         string        `mapstructure:"base_url" validate:"required,url"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RetryAttempts   int           `mapstructure:"retry_attempts" validate:"gte=1,lte=10"`
	OfflineFallback bool          `mapstructure:"offline_fallback"`
}

// StorageSettings configures the local database.
type StorageSettings struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LinkSettings configures external links of detail records.
type LinkSettings struct {
	TaskURLTemplate string `mapstructure:"task_url_template" validate:"required,contains={id}"`
}

// DisplaySettings configures rendering.
type DisplaySettings struct {
	Locale    string `mapstructure:"locale" validate:"required"`
	Theme     string `mapstructure:"theme" validate:"oneof=dark light"`
	CellWidth int    `mapstructure:"cell_width" validate:"gte=1,lte=64"`
}

// TableSettings overrides the rendering of one dashboard item.
type TableSettings struct {
	ExpandAll *bool  `mapstructure:"expand_all"`
	Polarity  string `mapstructure:"polarity" validate:"omitempty,oneof=decrease-is-good increase-is-good"`
	Expand    string `mapstructure:"expand" validate:"omitempty,oneof=multi accordion"`
}

// FixtureSettings configures the local fixture backend.
type FixtureSettings struct {
	// Users maps allowed emails to display names. Empty allows any email.
	Users       map[string]string `mapstructure:"users"`
	Addr        string            `mapstructure:"addr" validate:"required,hostname_port"`
	Secret      string            `mapstructure:"secret"`
	CORSOrigins []string          `mapstructure:"cors_origins"`
	TokenTTL    time.Duration     `mapstructure:"token_ttl" validate:"gt=0"`
}

// LoggingSettings configures slog.
type LoggingSettings struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json text"`
	File   string `mapstructure:"file"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.retry_attempts", 3)
	v.SetDefault("api.offline_fallback", true)
	v.SetDefault("storage.path", filepath.Join(DefaultDir(), "dashbord.db"))
	v.SetDefault("links.task_url_template", dashboard.DefaultLinkTemplate)
	v.SetDefault("display.locale", "ru")
	v.SetDefault("display.theme", "dark")
	v.SetDefault("display.cell_width", dashboard.DefaultCellWidth)
	v.SetDefault("fixture.addr", "127.0.0.1:8000")
	v.SetDefault("fixture.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("fixture.token_ttl", 24*time.Hour)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", filepath.Join(DefaultDir(), "dashbord.log"))
}

// Load applies defaults, decodes v and validates the result.
func Load(v *viper.Viper) (*Settings, error) {
	SetDefaults(v)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	s.Storage.Path = ExpandPath(s.Storage.Path)
	s.Logging.File = ExpandPath(s.Logging.File)
	s.API.BaseURL = strings.TrimRight(s.API.BaseURL, "/")

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

var validate = validator.New()

// Validate checks every field constraint and the locale tag.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	if _, err := language.Parse(s.Display.Locale); err != nil {
		return fmt.Errorf("%w: display.locale: %w", common.ErrInvalidConfig, err)
	}
	return nil
}

// DashboardOptions converts the display and table settings for the renderer.
func (s *Settings) DashboardOptions() (dashboard.Options, error) {
	tag, err := language.Parse(s.Display.Locale)
	if err != nil {
		return dashboard.Options{}, fmt.Errorf("%w: display.locale: %w", common.ErrInvalidConfig, err)
	}

	opts := dashboard.Options{
		LinkTemplate: s.Links.TaskURLTemplate,
		Locale:       tag,
		Overrides:    make(map[string]dashboard.Override, len(s.Tables)),
	}
	for id, t := range s.Tables {
		var o dashboard.Override
		if t.Polarity != "" {
			p, err := dashboard.ParsePolarity(t.Polarity)
			if err != nil {
				return dashboard.Options{}, fmt.Errorf("%w: tables.%s: %w", common.ErrInvalidConfig, id, err)
			}
			o.Polarity = &p
		}
		if t.Expand != "" {
			p, err := dashboard.ParsePolicy(t.Expand)
			if err != nil {
				return dashboard.Options{}, fmt.Errorf("%w: tables.%s: %w", common.ErrInvalidConfig, id, err)
			}
			o.Policy = &p
		}
		o.ExpandAll = t.ExpandAll
		opts.Overrides[id] = o
	}
	return opts, nil
}

// RetryOptions returns the backoff policy for backend calls.
func (s *Settings) RetryOptions() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  s.API.RetryAttempts,
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2,
	}
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped; existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(ExpandPath(p)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// DefaultDir is the per-user configuration directory.
func DefaultDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "dashbord")
	}
	return filepath.Join("~", ".config", "dashbord")
}

// ExpandPath expands a leading ~ and environment variables in path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + strings.TrimPrefix(path, "~")
		}
	}
	return os.ExpandEnv(path)
}
