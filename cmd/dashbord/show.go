package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/evgengiga/dashbord/internal/cli"
	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/dashboard"
	"github.com/evgengiga/dashbord/internal/model"
	"github.com/evgengiga/dashbord/internal/tui/components"
	"github.com/evgengiga/dashbord/internal/tui/themes"
	"github.com/spf13/cobra"
)

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the dashboard once",
		Long: `Fetch the dashboard and print every table to stdout.

The layout follows the terminal width unless --compact or --full is given.
Groups stay collapsed unless --expand is set.`,
		RunE: runShow,
	}

	addFilterFlags(cmd)
	addTableFlags(cmd, false)
	cmd.Flags().Bool("full", false, "force the wide layout")
	cmd.MarkFlagsMutuallyExclusive("compact", "full")

	return cmd
}

// addTableFlags registers the flags shared by show and export.
func addTableFlags(cmd *cobra.Command, expand bool) {
	cmd.Flags().String("payload", "", "read payloads from a JSON file or directory")
	cmd.Flags().StringSlice("item", nil, "only these item ids (repeatable)")
	cmd.Flags().Bool("expand", expand, "open every group")
	cmd.Flags().Bool("compact", false, "force the narrow layout")
}

func runShow(cmd *cobra.Command, _ []string) error {
	compact, _ := cmd.Flags().GetBool("compact")
	full, _ := cmd.Flags().GetBool("full")
	width, _ := terminalSize(os.Stdout)

	tables, err := loadTables(cmd, viewportClass(compact, full, width))
	if err != nil {
		return err
	}

	view := components.NewTableView(themes.GetTheme(settings.Display.Theme))
	if len(tables) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSubtle("Дашборды пока не настроены"))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), view.RenderAll(tables))
	return nil
}

// loadTables fetches the dashboard and renders the selected items.
func loadTables(cmd *cobra.Command, class dashboard.ViewportClass) ([]dashboard.RenderedTable, error) {
	ctx := cmd.Context()

	filters, err := filtersFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	payloadPath, _ := cmd.Flags().GetString("payload")
	ids, _ := cmd.Flags().GetStringSlice("item")
	expand, _ := cmd.Flags().GetBool("expand")

	src, err := openSource(ctx, payloadPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := src.Close(); err != nil {
			slog.Warn("Failed to close storage", "error", err)
		}
	}()

	payload, err := fetchWithProgress(ctx, os.Stderr, src.fetcher, filters)
	if err != nil {
		return nil, err
	}
	if payload.Stale {
		fmt.Fprintln(os.Stderr, cli.FormatWarning("Нет связи с сервером, показан снимок от "+payload.FetchedAt.Local().Format(timeFormat)))
	}

	payload, err = selectItems(payload, ids)
	if err != nil {
		return nil, err
	}

	opts, err := renderOptions(payload, expand)
	if err != nil {
		return nil, err
	}

	common.LogDebug("Rendering dashboard", common.Fields{
		"filters": filters.Key(),
		"items":   len(payload.Items),
		"class":   class.String(),
		"expand":  expand,
	})
	return opts.Render(payload, class), nil
}

// selectItems keeps the items listed in ids, in payload order. An empty
// list keeps everything.
func selectItems(p *model.Payload, ids []string) (*model.Payload, error) {
	if len(ids) == 0 {
		return p, nil
	}

	out := *p
	out.Items = nil
	for _, id := range ids {
		if _, ok := p.Item(id); !ok {
			return nil, common.NewUserError(fmt.Sprintf("Таблица %q не найдена", id), common.ErrNotFound)
		}
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, it := range p.Items {
		if want[it.ID] {
			out.Items = append(out.Items, it)
		}
	}
	return &out, nil
}
