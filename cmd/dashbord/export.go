package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/evgengiga/dashbord/internal/cli"
	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/dashboard"
	"github.com/evgengiga/dashbord/internal/export"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dashboard tables to a file",
		Long: `Export every dashboard table with its detail records.

The format defaults to the extension of --out. Use --out - to write to stdout.`,
		RunE: runExport,
	}

	addFilterFlags(cmd)
	addTableFlags(cmd, true)
	cmd.Flags().String("format", "", "output format (xlsx, csv, json)")
	cmd.Flags().StringP("out", "o", "", "output file, or - for stdout")
	cmd.Flags().String("separator", ",", "CSV field separator")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	out, _ := cmd.Flags().GetString("out")
	formatName, _ := cmd.Flags().GetString("format")
	compact, _ := cmd.Flags().GetBool("compact")

	format, err := resolveFormat(formatName, out)
	if err != nil {
		return err
	}
	exporter, err := newExporter(cmd, format)
	if err != nil {
		return err
	}

	class := dashboard.ViewportFull
	if compact {
		class = dashboard.ViewportCompact
	}
	tables, err := loadTables(cmd, class)
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(cmd, out)
	if err != nil {
		return err
	}
	if err := exporter.Export(w, tables); err != nil {
		_ = closeOut()
		return fmt.Errorf("export failed: %w", err)
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("failed to close %s: %w", out, err)
	}

	common.LogInfo("Dashboard exported", common.Fields{"format": string(format), "tables": len(tables), "out": out})
	if out != "-" {
		fmt.Fprintln(os.Stderr, cli.FormatSuccess("Сохранено: "+out))
	}
	return nil
}

func resolveFormat(name, out string) (export.Format, error) {
	if name != "" {
		return export.ParseFormat(name)
	}
	if f, ok := export.FormatFromPath(out); ok {
		return f, nil
	}
	return "", common.NewUserError("Укажите --format: xlsx, csv или json", common.ErrMissingConfig)
}

func newExporter(cmd *cobra.Command, format export.Format) (export.Exporter, error) {
	if format != export.FormatCSV {
		return export.New(format)
	}
	sep, _ := cmd.Flags().GetString("separator")
	r := []rune(sep)
	if len(r) != 1 {
		return nil, common.NewUserError("Разделитель CSV должен быть одним символом", common.ErrInvalidConfig)
	}
	return export.NewCSVExporter().WithSeparator(r[0]), nil
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, func() error {
		if err := f.Close(); err != nil {
			slog.Warn("Failed to close export file", "path", path, "error", err)
			return err
		}
		return nil
	}, nil
}
