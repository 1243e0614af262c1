package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/evgengiga/dashbord/internal/api"
	"github.com/evgengiga/dashbord/internal/cli"
	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/dashboard"
	"github.com/evgengiga/dashbord/internal/model"
	"github.com/evgengiga/dashbord/internal/service"
	"github.com/evgengiga/dashbord/internal/source"
	"github.com/evgengiga/dashbord/internal/storage"
	"github.com/spf13/cobra"
)

// Terminal size used when stdout is not a terminal.
const (
	fallbackWidth  = 120
	fallbackHeight = 40
)

// initStorage opens the local database and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.Open(ctx, settings.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return store, nil
}

func newAPIClient(token string) *api.Client {
	return api.NewClient(settings.API.BaseURL,
		api.WithToken(token),
		api.WithRetryOptions(settings.RetryOptions()),
		api.WithTimeout(settings.API.Timeout),
	)
}

// addFilterFlags registers --period and --status on cmd.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("period", string(model.PeriodCurrent), "fiscal year (current, previous)")
	cmd.Flags().String("status", string(model.OrderStatusActive), "order status (active, completed, all)")
}

func filtersFromFlags(cmd *cobra.Command) (model.Filters, error) {
	period, _ := cmd.Flags().GetString("period")
	status, _ := cmd.Flags().GetString("status")

	f := model.Filters{Period: model.Period(period), OrderStatus: model.OrderStatus(status)}
	if err := f.Validate(); err != nil {
		return model.Filters{}, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return f, nil
}

// dashboardSource is where a command reads payloads from.
type dashboardSource struct {
	fetcher service.DashboardFetcher
	store   *storage.SQLiteStorage
	file    *source.FileSource
}

func (s *dashboardSource) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// openSource reads payloads from path when it is set, or from the backend
// with the stored session and snapshot fallback.
func openSource(ctx context.Context, path string) (*dashboardSource, error) {
	if path != "" {
		file := source.NewFileSource(path)
		return &dashboardSource{fetcher: file, file: file}, nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}
	session, err := store.GetSession(ctx)
	if err != nil {
		_ = store.Close()
		if errors.Is(err, common.ErrNoSession) {
			return nil, common.NewUserError("Сначала выполните вход: dashbord login --email <email>", err)
		}
		return nil, err
	}

	client := newAPIClient(session.Token)
	return &dashboardSource{
		fetcher: &sessionGuard{
			next:  source.NewCachingFetcher(client, store, settings.API.OfflineFallback),
			store: store,
		},
		store: store,
	}, nil
}

const reloginMessage = "Сессия истекла, выполните вход заново: dashbord login --email <email>"

// sessionGuard forgets the stored session once the backend rejects it.
type sessionGuard struct {
	next  service.DashboardFetcher
	store service.SessionStore
}

func (g *sessionGuard) FetchDashboard(ctx context.Context, filters model.Filters) (*model.Payload, error) {
	payload, err := g.next.FetchDashboard(ctx, filters)
	if err != nil && api.IsUnauthorized(err) {
		return nil, expireSession(ctx, g.store, err)
	}
	return payload, err
}

// expireSession deletes the stored session and wraps err with a hint to log in again.
func expireSession(ctx context.Context, store service.SessionStore, err error) error {
	if delErr := store.DeleteSession(context.WithoutCancel(ctx)); delErr != nil {
		slog.Warn("Failed to delete expired session", "error", delErr)
	} else {
		slog.Info("Deleted expired session")
	}
	return common.NewUserError(reloginMessage, err)
}

// renderOptions returns the configured options with every group open when
// expand is set.
func renderOptions(p *model.Payload, expand bool) (dashboard.Options, error) {
	opts, err := settings.DashboardOptions()
	if err != nil {
		return dashboard.Options{}, err
	}
	if expand {
		opts = opts.ExpandAll(p.Items)
	}
	return opts, nil
}

// terminalSize returns the size of f in cells, or the fallback size.
func terminalSize(f *os.File) (int, int) {
	if !term.IsTerminal(f.Fd()) {
		return fallbackWidth, fallbackHeight
	}
	w, h, err := term.GetSize(f.Fd())
	if err != nil || w <= 0 || h <= 0 {
		return fallbackWidth, fallbackHeight
	}
	return w, h
}

// viewportClass picks the class from flags, falling back to the width.
func viewportClass(compact, full bool, width int) dashboard.ViewportClass {
	switch {
	case compact:
		return dashboard.ViewportCompact
	case full:
		return dashboard.ViewportFull
	default:
		return dashboard.Classify(dashboard.CellsToPixels(width, settings.Display.CellWidth))
	}
}

// fetchWithProgress fetches the dashboard while a spinner runs on w.
func fetchWithProgress(ctx context.Context, w *os.File, fetcher service.DashboardFetcher, filters model.Filters) (*model.Payload, error) {
	var payload *model.Payload
	err := cli.WithSpinner(w, "Загрузка данных...", func() error {
		var err error
		payload, err = fetcher.FetchDashboard(ctx, filters)
		return err
	})
	return payload, err
}
