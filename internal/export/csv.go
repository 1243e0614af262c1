package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/evgengiga/dashbord/internal/dashboard"
)

// CSVExporter writes all tables into one CSV stream. Each table starts
// with its title on a line of its own and ends with an empty line.
type CSVExporter struct {
	comma rune
}

// NewCSVExporter creates a comma separated exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{comma: ','}
}

// WithSeparator sets the field separator.
func (e *CSVExporter) WithSeparator(r rune) *CSVExporter {
	e.comma = r
	return e
}

// Export implements Exporter.
func (e *CSVExporter) Export(w io.Writer, tables []dashboard.RenderedTable) error {
	cw := csv.NewWriter(w)
	cw.Comma = e.comma

	for i, t := range tables {
		if i > 0 {
			if err := cw.Write([]string{""}); err != nil {
				return fmt.Errorf("writing csv: %w", err)
			}
		}
		if err := writeCSVTable(cw, t); err != nil {
			return fmt.Errorf("writing csv table %s: %w", t.ItemID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

func writeCSVTable(cw *csv.Writer, t dashboard.RenderedTable) error {
	records := [][]string{{t.Title}}
	if t.Description != "" {
		records = append(records, []string{t.Description})
	}
	if t.Empty() {
		records = append(records, []string{t.Placeholder})
		return cw.WriteAll(records)
	}

	if len(t.Rows) > 0 {
		records = append(records, t.Headers)
	}
	for _, r := range t.Rows {
		if r.Kind == dashboard.RowDetail {
			records = append(records, blockRecords(r.Detail)...)
			continue
		}
		cells := make([]string, len(r.Cells))
		for i, c := range r.Cells {
			cells[i] = c.Text
		}
		records = append(records, cells)
	}
	if t.List != nil {
		records = append(records, blockRecords(t.List)...)
	}

	for _, rec := range records {
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func blockRecords(block *dashboard.DetailBlock) [][]string {
	if block == nil {
		return nil
	}
	var out [][]string
	if block.Heading != "" {
		out = append(out, []string{block.Heading})
	}
	if len(block.Lines) == 0 {
		out = append(out, []string{dashboard.EmptyDetailText})
	}
	for _, l := range block.Lines {
		out = append(out, detailRow(l))
	}
	if block.Subtotal != "" {
		out = append(out, subtotalRow(block))
	}
	return out
}
