// Package export writes rendered dashboard tables to files.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/dashboard"
)

// Format is an output file format.
type Format string

// Supported formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Exporter writes tables to w.
type Exporter interface {
	Export(w io.Writer, tables []dashboard.RenderedTable) error
}

// ParseFormat parses a format name. An empty name is an error.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q (want xlsx, csv or json)", common.ErrInvalidConfig, s)
	}
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	return f, err == nil
}

// New returns the exporter for f.
func New(f Format) (Exporter, error) {
	switch f {
	case FormatXLSX:
		return NewXLSXExporter(), nil
	case FormatCSV:
		return NewCSVExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", common.ErrInvalidConfig, f)
	}
}

// detailRow flattens one detail line into spreadsheet-style cells.
func detailRow(l dashboard.DetailLine) []string {
	return []string{l.Name, l.Amount, l.Status, l.DaysLabel, l.URL}
}

func subtotalRow(block *dashboard.DetailBlock) []string {
	return []string{"Итого", block.Subtotal}
}
