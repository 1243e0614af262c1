// Package dashboard turns a dashboard payload into formatted, grouped and
// expandable tables. It has no I/O: callers feed it payloads and widths and
// draw the RenderedTable values it returns.
package dashboard

import (
	"strings"
	"unicode"

	"github.com/evgengiga/dashbord/internal/model"
)

// ColumnKind is the semantic kind of a column. It drives formatting and color.
type ColumnKind int

// Column kinds.
const (
	KindText ColumnKind = iota
	KindMoney
	KindChange
	KindPercent
	KindPeriodLabel
)

func (k ColumnKind) String() string {
	switch k {
	case KindMoney:
		return "money"
	case KindChange:
		return "change"
	case KindPercent:
		return "percent"
	case KindPeriodLabel:
		return "period-label"
	default:
		return "text"
	}
}

// Column is a named column with its resolved kind.
type Column struct {
	Name string
	Kind ColumnKind
}

// Schema is the column layout of one item, resolved once per renderer.
type Schema struct {
	Columns []Column
	// KeyColumn holds the group key for grouped tables and the sentinel
	// label for flat ones.
	KeyColumn string
}

var (
	changeNames  = []string{"изменение", "change"}
	percentHints = []string{"конверсия", "conversion", "доля", "share"}
	moneyHints   = []string{"сумма", "amount", "выручка", "revenue", "стоимость", "руб", "₽"}
)

// IsChangeColumn reports whether name denotes a signed delta column.
func IsChangeColumn(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range changeNames {
		if n == c {
			return true
		}
	}
	return false
}

// ResolveSchema infers the kind of every column of item.
func ResolveSchema(item *model.Item, v Variant) Schema {
	s := Schema{Columns: make([]Column, len(item.Columns))}
	for i, name := range item.Columns {
		s.Columns[i] = Column{Name: name, Kind: inferKind(i, name, item.Data, v)}
	}

	if len(item.Columns) > 0 {
		s.KeyColumn = item.Columns[0]
	}
	if v.GroupColumn != "" {
		for _, name := range item.Columns {
			if strings.EqualFold(strings.TrimSpace(name), v.GroupColumn) {
				s.KeyColumn = name
				break
			}
		}
	}
	return s
}

func inferKind(index int, name string, rows []model.SummaryRow, v Variant) ColumnKind {
	lower := strings.ToLower(strings.TrimSpace(name))

	switch {
	case IsChangeColumn(name):
		return KindChange
	case v.PeriodTable && index == 0:
		return KindPeriodLabel
	case containsFold(v.MoneyColumns, name):
		return KindMoney
	case strings.HasSuffix(lower, "%") || hasHint(lower, percentHints) || mostlyPercentStrings(name, rows):
		return KindPercent
	case hasHint(lower, moneyHints):
		return KindMoney
	default:
		return KindText
	}
}

// hasHint matches hints against whole words of name.
func hasHint(name string, hints []string) bool {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	for _, w := range words {
		for _, h := range hints {
			if w == h {
				return true
			}
		}
	}
	return false
}

func containsFold(list []string, name string) bool {
	name = strings.TrimSpace(name)
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return true
		}
	}
	return false
}

// mostlyPercentStrings is true when at least half of the non-empty values of
// column are strings containing "%".
func mostlyPercentStrings(column string, rows []model.SummaryRow) bool {
	seen, percent := 0, 0
	for _, row := range rows {
		v := row.Get(column)
		if v.IsEmpty() {
			continue
		}
		seen++
		if isPercentString(v) {
			percent++
		}
	}
	return seen > 0 && 2*percent >= seen
}

func isPercentString(v model.Value) bool {
	return v.Kind() == model.ValueString && strings.Contains(v.String(), "%")
}

// IsTotal reports whether label is the grand-total sentinel. Matching is
// literal after trimming.
func IsTotal(label string) bool {
	switch strings.TrimSpace(label) {
	case "ИТОГО", "TOTAL":
		return true
	}
	return false
}
