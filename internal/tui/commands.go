package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/evgengiga/dashbord/internal/model"
	"github.com/evgengiga/dashbord/internal/service"
)

// fetchDashboard loads the dashboard for filters. The result carries seq so
// superseded responses can be dropped.
func fetchDashboard(ctx context.Context, fetcher service.DashboardFetcher, timeout time.Duration, filters model.Filters, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		payload, err := fetcher.FetchDashboard(ctx, filters)
		return fetchResultMsg{seq: seq, filters: filters, payload: payload, err: err}
	}
}

// waitForChange blocks until the payload file changes.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return watchClosedMsg{}
		}
		return payloadChangedMsg{}
	}
}
