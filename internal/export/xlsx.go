package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/evgengiga/dashbord/internal/dashboard"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet   = "Sheet1"
	maxSheetName   = 31
	columnWidth    = 18
	detailColumns  = 5
	hyperlinkType  = "External"
	favorableColor = "047857"
	unfavorColor   = "B91C1C"
	heatHighFill   = "D1FAE5"
	heatMidFill    = "FEF3C7"
	heatLowFill    = "FEE2E2"
	headerFill     = "E5E7EB"
	linkColor      = "1D4ED8"
	mutedColor     = "737373"
)

var sheetNameCleaner = strings.NewReplacer("[", "", "]", "", ":", "", "*", "", "?", "", "/", "", "\\", "")

// XLSXExporter writes one worksheet per table.
type XLSXExporter struct{}

// NewXLSXExporter creates an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Export implements Exporter.
func (e *XLSXExporter) Export(w io.Writer, tables []dashboard.RenderedTable) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing workbook: %w", cerr)
		}
	}()

	styles := newStyleCache(f)
	used := make(map[string]bool)
	for i, t := range tables {
		name := uniqueSheetName(t.Title, i, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return fmt.Errorf("renaming sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %q: %w", name, err)
		}

		sw := &sheetWriter{f: f, sheet: name, styles: styles, row: 1}
		if err := sw.table(t); err != nil {
			return fmt.Errorf("writing sheet %q: %w", name, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// sanitizeSheetName strips characters Excel rejects and truncates to 31 runes.
func sanitizeSheetName(title string) string {
	name := strings.Trim(strings.TrimSpace(sheetNameCleaner.Replace(title)), "'")
	return truncateRunes(name, maxSheetName)
}

// uniqueSheetName keeps the casing of title. Excel compares sheet names
// case-insensitively, so used holds lowercased names.
func uniqueSheetName(title string, index int, used map[string]bool) string {
	base := sanitizeSheetName(title)
	if base == "" {
		base = fmt.Sprintf("Лист %d", index+1)
	}

	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncateRunes(base, maxSheetName-utf8.RuneCountInString(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}

type styleKey struct {
	class dashboard.VisualClass
	bold  bool
}

// styleCache registers each cell style once per workbook.
type styleCache struct {
	f     *excelize.File
	cells map[styleKey]int
	named map[string]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{f: f, cells: make(map[styleKey]int), named: make(map[string]int)}
}

func (c *styleCache) cell(class dashboard.VisualClass, bold bool) (int, error) {
	k := styleKey{class: class, bold: bold}
	if id, ok := c.cells[k]; ok {
		return id, nil
	}

	st := &excelize.Style{Font: &excelize.Font{Bold: bold}}
	switch class {
	case dashboard.ClassFavorable:
		st.Font.Color = favorableColor
	case dashboard.ClassUnfavorable:
		st.Font.Color = unfavorColor
	case dashboard.ClassHeatHigh:
		st.Fill = solidFill(heatHighFill)
	case dashboard.ClassHeatMid:
		st.Fill = solidFill(heatMidFill)
	case dashboard.ClassHeatLow:
		st.Fill = solidFill(heatLowFill)
	}

	id, err := c.f.NewStyle(st)
	if err != nil {
		return 0, err
	}
	c.cells[k] = id
	return id, nil
}

func (c *styleCache) get(name string) (int, error) {
	if id, ok := c.named[name]; ok {
		return id, nil
	}

	var st *excelize.Style
	switch name {
	case "title":
		st = &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}
	case "header":
		st = &excelize.Style{Font: &excelize.Font{Bold: true}, Fill: solidFill(headerFill)}
	case "muted":
		st = &excelize.Style{Font: &excelize.Font{Italic: true, Color: mutedColor}}
	case "link":
		st = &excelize.Style{Font: &excelize.Font{Color: linkColor, Underline: "single"}}
	default:
		st = &excelize.Style{Font: &excelize.Font{Bold: true}}
	}

	id, err := c.f.NewStyle(st)
	if err != nil {
		return 0, err
	}
	c.named[name] = id
	return id, nil
}

func solidFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

// sheetWriter appends rows to one worksheet.
type sheetWriter struct {
	f      *excelize.File
	styles *styleCache
	sheet  string
	row    int
}

func (s *sheetWriter) table(t dashboard.RenderedTable) error {
	if err := s.line([]string{t.Title}, "title"); err != nil {
		return err
	}
	if t.Description != "" {
		if err := s.line([]string{t.Description}, "muted"); err != nil {
			return err
		}
	}

	width := max(len(t.Headers), detailColumns)
	defer func() {
		last, _ := excelize.ColumnNumberToName(width)
		_ = s.f.SetColWidth(s.sheet, "A", last, columnWidth)
	}()

	if t.Empty() {
		return s.line([]string{t.Placeholder}, "muted")
	}

	if len(t.Rows) > 0 {
		if err := s.line(t.Headers, "header"); err != nil {
			return err
		}
	}
	for _, r := range t.Rows {
		var err error
		if r.Kind == dashboard.RowDetail {
			err = s.block(r.Detail)
		} else {
			err = s.summary(r)
		}
		if err != nil {
			return err
		}
	}

	if t.List != nil {
		s.row++
		return s.block(t.List)
	}
	return nil
}

func (s *sheetWriter) summary(r dashboard.RenderedRow) error {
	bold := r.Kind == dashboard.RowTotal
	for i, c := range r.Cells {
		cell, err := excelize.CoordinatesToCellName(i+1, s.row)
		if err != nil {
			return err
		}
		if err := s.f.SetCellValue(s.sheet, cell, c.Text); err != nil {
			return err
		}
		if c.Class == dashboard.ClassNone && !bold {
			continue
		}
		id, err := s.styles.cell(c.Class, bold)
		if err != nil {
			return err
		}
		if err := s.f.SetCellStyle(s.sheet, cell, cell, id); err != nil {
			return err
		}
	}
	s.row++
	return nil
}

func (s *sheetWriter) block(b *dashboard.DetailBlock) error {
	if b == nil {
		return nil
	}
	if b.Heading != "" {
		if err := s.line([]string{b.Heading}, "bold"); err != nil {
			return err
		}
	}
	if len(b.Lines) == 0 {
		if err := s.line([]string{dashboard.EmptyDetailText}, "muted"); err != nil {
			return err
		}
	}

	for _, l := range b.Lines {
		row := s.row
		if err := s.line(detailRow(l), ""); err != nil {
			return err
		}
		if l.URL == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(detailColumns, row)
		if err != nil {
			return err
		}
		if err := s.f.SetCellHyperLink(s.sheet, cell, l.URL, hyperlinkType); err != nil {
			return err
		}
		if err := s.style(cell, "link"); err != nil {
			return err
		}
	}

	if b.Subtotal != "" {
		return s.line(subtotalRow(b), "bold")
	}
	return nil
}

// line writes values into the current row and advances. An empty style
// leaves cells unstyled.
func (s *sheetWriter) line(values []string, style string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, s.row)
		if err != nil {
			return err
		}
		if err := s.f.SetCellValue(s.sheet, cell, v); err != nil {
			return err
		}
		if style == "" {
			continue
		}
		if err := s.style(cell, style); err != nil {
			return err
		}
	}
	s.row++
	return nil
}

func (s *sheetWriter) style(cell, name string) error {
	id, err := s.styles.get(name)
	if err != nil {
		return err
	}
	return s.f.SetCellStyle(s.sheet, cell, cell, id)
}
