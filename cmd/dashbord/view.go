package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/evgengiga/dashbord/internal/cli"
	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/source"
	"github.com/evgengiga/dashbord/internal/tui"
	"github.com/evgengiga/dashbord/internal/tui/themes"
	"github.com/spf13/cobra"
)

func viewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive dashboard",
		Long: `Open the dashboard in full-screen mode.

Use arrows to move between rows, enter to open a group, p and o to switch
filters, / to jump to a table and ? for all keys.

With --payload the dashboard is read from a local JSON file or directory
instead of the backend; --watch reloads it whenever it changes.`,
		RunE: runView,
	}

	addFilterFlags(cmd)
	cmd.Flags().String("payload", "", "read payloads from a JSON file or directory")
	cmd.Flags().Bool("watch", false, "reload when the payload file changes (requires --payload)")
	cmd.Flags().String("record", "", "write every rendered frame to this directory")
	cmd.Flags().String("theme", "", "color theme (dark, light)")

	return cmd
}

func runView(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	filters, err := filtersFromFlags(cmd)
	if err != nil {
		return err
	}
	payloadPath, _ := cmd.Flags().GetString("payload")
	watch, _ := cmd.Flags().GetBool("watch")
	if watch && payloadPath == "" {
		return common.NewUserError("--watch работает только вместе с --payload", common.ErrInvalidConfig)
	}

	src, err := openSource(ctx, payloadPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := src.Close(); err != nil {
			slog.Warn("Failed to close storage", "error", err)
		}
	}()

	boardOpts, err := settings.DashboardOptions()
	if err != nil {
		return err
	}

	themeName := settings.Display.Theme
	if t, _ := cmd.Flags().GetString("theme"); t != "" {
		themeName = t
	}

	width, height := terminalSize(os.Stdout)

	opts := []tui.Option{
		tui.WithFetcher(src.fetcher),
		tui.WithBoardOptions(boardOpts),
		tui.WithFilters(filters),
		tui.WithTheme(themes.GetTheme(themeName)),
		tui.WithCellWidth(settings.Display.CellWidth),
		tui.WithFetchTimeout(settings.API.Timeout),
		tui.WithSize(width, height),
	}
	if watch {
		changes := source.NewWatcher(src.file.Path(), 0).Changes(ctx)
		opts = append(opts, tui.WithChanges(changes))
	}

	var rec *tui.Recorder
	if dir, _ := cmd.Flags().GetString("record"); dir != "" {
		rec, err = tui.NewRecorder(dir)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				slog.Warn("Failed to close recorder", "error", err)
			}
			fmt.Fprintln(os.Stderr, cli.FormatInfo(fmt.Sprintf("Записано кадров: %d (%s)", rec.Frames(), dir)))
		}()
	}

	slog.Info("Starting dashboard view", "filters", filters.Key(), "payload", payloadPath, "watch", watch)
	return tui.Run(ctx, rec, opts...)
}
