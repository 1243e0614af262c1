package dashboard

// compactHeaders are the short header labels used under the compact class.
// Lookup is by exact name.
var compactHeaders = map[string]string{
	"Кол-во КП":          "КП",
	"Кол-во образцов":    "Образцы",
	"Кол-во производств": "Произв.",
	"Конверсия":          "Конв.,%",
	"Период":             "Период",
}

// ColumnAdapter adjusts headers and values for the current viewport class.
type ColumnAdapter struct {
	class       ViewportClass
	periodTable bool
}

// NewColumnAdapter creates an adapter for a table.
func NewColumnAdapter(class ViewportClass, periodTable bool) ColumnAdapter {
	return ColumnAdapter{class: class, periodTable: periodTable}
}

// Header returns the display label for a column.
func (a ColumnAdapter) Header(name string) string {
	if a.class != ViewportCompact {
		return name
	}
	if short, ok := compactHeaders[name]; ok {
		return short
	}
	return name
}

// Value returns the display text for a formatted cell in column index.
func (a ColumnAdapter) Value(index int, text string) string {
	if a.class == ViewportCompact && a.periodTable && index == 0 {
		return CompressPeriod(text)
	}
	return text
}
