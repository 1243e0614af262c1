package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/evgengiga/dashbord/internal/dashboard"
	"github.com/evgengiga/dashbord/internal/tui/themes"
)

const (
	markerCollapsed = "▸"
	markerExpanded  = "▾"
	focusMarker     = "› "
	detailIndent    = "    "
)

// Focus marks the focused table and its cursor row.
type Focus struct {
	Key    string
	Active bool
}

// TableView renders dashboard tables for the terminal.
type TableView struct {
	theme themes.Theme
}

// NewTableView creates a table view with theme.
func NewTableView(theme themes.Theme) TableView {
	return TableView{theme: theme}
}

// Render renders t.
func (v TableView) Render(t dashboard.RenderedTable, focus Focus) string {
	out, _ := v.RenderWithCursor(t, focus)
	return out
}

// RenderAll renders every table separated by a blank line, without focus.
func (v TableView) RenderAll(tables []dashboard.RenderedTable) string {
	parts := make([]string, len(tables))
	for i, t := range tables {
		parts[i] = v.Render(t, Focus{})
	}
	return strings.Join(parts, "\n\n")
}

// RenderWithCursor renders t and returns the line index of the cursor row,
// or -1 when the cursor is not on a row of t.
func (v TableView) RenderWithCursor(t dashboard.RenderedTable, focus Focus) (string, int) {
	title := t.Title
	if focus.Active {
		title = focusMarker + title
	}
	sections := []string{v.theme.Title.Render(title)}
	if t.Description != "" {
		sections = append(sections, v.theme.Subtitle.Render(t.Description))
	}

	if t.Empty() {
		sections = append(sections, v.theme.Placeholder.Render(t.Placeholder))
		return lipgloss.JoinVertical(lipgloss.Left, sections...), -1
	}

	cursor := -1
	if len(t.Rows) > 0 {
		cursorKey := ""
		if focus.Active {
			cursorKey = focus.Key
		}
		grid, line := v.renderGrid(t, cursorKey)
		if line >= 0 {
			cursor = height(sections) + line
		}
		sections = append(sections, grid)
	}
	if t.List != nil {
		sections = append(sections, v.RenderBlock(t.List))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...), cursor
}

func height(sections []string) int {
	n := 0
	for _, s := range sections {
		n += lipgloss.Height(s)
	}
	return n
}

func (v TableView) renderGrid(t dashboard.RenderedTable, cursorKey string) (string, int) {
	marker := len(t.ToggleKeys()) > 0

	summary := make([]dashboard.RenderedRow, 0, len(t.Rows))
	details := make(map[int]*dashboard.DetailBlock)
	for _, r := range t.Rows {
		if r.Kind == dashboard.RowDetail {
			if len(summary) > 0 {
				details[len(summary)-1] = r.Detail
			}
			continue
		}
		summary = append(summary, r)
	}

	offset := 0
	headers := t.Headers
	if marker {
		offset = 1
		headers = append([]string{""}, headers...)
	}

	rows := make([][]string, len(summary))
	for i, r := range summary {
		cells := make([]string, 0, len(headers))
		if marker {
			cells = append(cells, markerFor(r))
		}
		for _, c := range r.Cells {
			cells = append(cells, singleLine(c.Text))
		}
		rows[i] = cells
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(v.theme.Border)).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return v.theme.Header
			}
			if row < 0 || row >= len(summary) {
				return v.theme.Normal.Padding(0, 1)
			}
			r := summary[row]

			style := v.theme.Normal
			if c := col - offset; c >= 0 && c < len(r.Cells) {
				style = v.theme.Cell(r.Cells[c].Class)
				if c < len(t.Kinds) && numeric(t.Kinds[c]) {
					style = style.Align(lipgloss.Right)
				}
			}
			if r.Kind == dashboard.RowTotal {
				style = style.Inherit(v.theme.Total)
			}
			if cursorKey != "" && r.Toggleable && r.Key == cursorKey {
				style = style.Inherit(v.theme.Selected)
			}
			return style.Padding(0, 1)
		})

	lines := strings.Split(strings.TrimRight(tbl.String(), "\n"), "\n")
	// The last line is the bottom border; summary rows sit right above it.
	bodyStart := len(lines) - 1 - len(summary)

	out := make([]string, 0, len(lines))
	cursor := -1
	for i, line := range lines {
		out = append(out, line)
		row := i - bodyStart
		if row < 0 || row >= len(summary) {
			continue
		}
		if cursorKey != "" && summary[row].Toggleable && summary[row].Key == cursorKey {
			cursor = len(out) - 1
		}
		if block, ok := details[row]; ok {
			for _, l := range strings.Split(v.RenderBlock(block), "\n") {
				out = append(out, detailIndent+l)
			}
		}
	}
	return strings.Join(out, "\n"), cursor
}

// RenderBlock renders a detail block as a list of records.
func (v TableView) RenderBlock(block *dashboard.DetailBlock) string {
	var lines []string
	if block.Heading != "" {
		lines = append(lines, v.theme.Bold.Render(block.Heading))
	}
	if len(block.Lines) == 0 {
		lines = append(lines, v.theme.Placeholder.Render(dashboard.EmptyDetailText))
	}
	for _, l := range block.Lines {
		parts := []string{"• " + singleLine(l.Name)}
		if l.Amount != "" {
			parts = append(parts, l.Amount)
		}
		if l.Status != "" {
			parts = append(parts, v.theme.Status(l.StatusClass).Render(l.Status))
		}
		if l.DaysLabel != "" {
			parts = append(parts, v.theme.Subtitle.Render(l.DaysLabel))
		}
		if l.URL != "" {
			parts = append(parts, v.theme.Link.Render(l.URL))
		}
		lines = append(lines, strings.Join(parts, "  "))
	}
	if block.Subtotal != "" {
		lines = append(lines, v.theme.Total.Render("Итого: "+block.Subtotal))
	}
	return strings.Join(lines, "\n")
}

func markerFor(r dashboard.RenderedRow) string {
	switch {
	case !r.Toggleable:
		return ""
	case r.Expanded:
		return markerExpanded
	default:
		return markerCollapsed
	}
}

func numeric(k dashboard.ColumnKind) bool {
	return k == dashboard.KindMoney || k == dashboard.KindChange || k == dashboard.KindPercent
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func singleLine(s string) string {
	return lineBreaks.Replace(s)
}
