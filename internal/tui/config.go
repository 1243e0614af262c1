package tui

import (
	"context"
	"time"

	"github.com/evgengiga/dashbord/internal/dashboard"
	"github.com/evgengiga/dashbord/internal/model"
	"github.com/evgengiga/dashbord/internal/service"
	"github.com/evgengiga/dashbord/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Context      context.Context
	Fetcher      service.DashboardFetcher
	Changes      <-chan struct{}
	Board        dashboard.Options
	Filters      model.Filters
	Theme        themes.Theme
	FetchTimeout time.Duration
	Width        int
	Height       int
	CellWidth    int
	AltScreen    bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Context:      context.Background(),
		Filters:      model.DefaultFilters(),
		Theme:        themes.Dark,
		FetchTimeout: 30 * time.Second,
		Width:        120,
		Height:       40,
		CellWidth:    dashboard.DefaultCellWidth,
		AltScreen:    true,
	}
}

// WithFetcher sets the dashboard data source.
func WithFetcher(f service.DashboardFetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}

// WithChanges refetches whenever ch delivers a value.
func WithChanges(ch <-chan struct{}) Option {
	return func(c *Config) {
		c.Changes = ch
	}
}

// WithBoardOptions sets the per-item rendering options.
func WithBoardOptions(opts dashboard.Options) Option {
	return func(c *Config) {
		c.Board = opts
	}
}

// WithFilters sets the initial filters.
func WithFilters(f model.Filters) Option {
	return func(c *Config) {
		c.Filters = f
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithCellWidth sets the pixel width of one terminal column used for
// viewport classification.
func WithCellWidth(px int) Option {
	return func(c *Config) {
		if px > 0 {
			c.CellWidth = px
		}
	}
}

// WithFetchTimeout bounds each fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.FetchTimeout = d
		}
	}
}

// WithContext sets the parent context of fetches.
func WithContext(ctx context.Context) Option {
	return func(c *Config) {
		c.Context = ctx
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
