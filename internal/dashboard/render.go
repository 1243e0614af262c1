package dashboard

import (
	"fmt"
	"strings"

	"github.com/evgengiga/dashbord/internal/model"
	"github.com/shopspring/decimal"
)

// PlaceholderText is shown instead of a table with no rows.
const PlaceholderText = "Нет данных для отображения"

// DefaultLinkTemplate builds the external link of a detail record.
const DefaultLinkTemplate = "https://megamindru.planfix.ru/task/{id}"

// RowKind distinguishes rendered rows.
type RowKind int

// Row kinds.
const (
	RowSummary RowKind = iota
	RowTotal
	RowDetail
)

func (k RowKind) String() string {
	switch k {
	case RowTotal:
		return "total"
	case RowDetail:
		return "detail"
	default:
		return "summary"
	}
}

// StatusClass color-codes the status label of a detail record.
type StatusClass int

// Status classes.
const (
	StatusDefault StatusClass = iota
	StatusCompleted
	StatusWaiting
	StatusActive
)

func (s StatusClass) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusWaiting:
		return "waiting"
	case StatusActive:
		return "active"
	default:
		return "default"
	}
}

// ClassifyStatus maps a record status label to its class.
func ClassifyStatus(status string) StatusClass {
	switch strings.TrimSpace(status) {
	case "", "Без статуса":
		return StatusDefault
	case "Завершенная", "Доставлено клиенту":
		return StatusCompleted
	case "Нужно прикрепить документы":
		return StatusWaiting
	default:
		return StatusActive
	}
}

// DetailLine is one detail record ready for display.
type DetailLine struct {
	ID          string
	Name        string
	URL         string
	Amount      string
	Status      string
	DaysLabel   string
	Days        int
	StatusClass StatusClass
}

// EmptyDetailText is shown for an expanded group without records.
const EmptyDetailText = "Нет записей"

// DetailBlock lists the records behind one summary row.
type DetailBlock struct {
	Heading  string
	Subtotal string
	Lines    []DetailLine
}

// RenderedRow is one line of a rendered table.
type RenderedRow struct {
	Detail     *DetailBlock
	Key        string
	Cells      []Cell
	Kind       RowKind
	Toggleable bool
	Expanded   bool
}

// RenderedTable is the display model of one dashboard item.
type RenderedTable struct {
	List        *DetailBlock
	ItemID      string
	Title       string
	Description string
	Placeholder string
	Headers     []string
	Kinds       []ColumnKind
	Rows        []RenderedRow
	Class       ViewportClass
}

// Empty reports whether the table renders as a placeholder only.
func (t RenderedTable) Empty() bool { return t.Placeholder != "" }

// ToggleKeys returns the group keys of toggleable rows in display order.
func (t RenderedTable) ToggleKeys() []string {
	var keys []string
	for _, r := range t.Rows {
		if r.Toggleable {
			keys = append(keys, r.Key)
		}
	}
	return keys
}

// RendererOption configures a TableRenderer.
type RendererOption func(*TableRenderer)

// WithLinkTemplate sets the template for detail record links.
func WithLinkTemplate(template string) RendererOption {
	return func(r *TableRenderer) {
		if template != "" {
			r.linkTemplate = template
		}
	}
}

// WithFormatterOptions passes options to the renderer's formatter. They are
// applied after the variant's polarity.
func WithFormatterOptions(opts ...FormatterOption) RendererOption {
	return func(r *TableRenderer) { r.formatterOpts = append(r.formatterOpts, opts...) }
}

// TableRenderer renders one dashboard item. Schema, grouping and expansion
// state are computed once at construction and live as long as the item.
type TableRenderer struct {
	item          *model.Item
	schema        Schema
	index         *GroupingIndex
	expansion     *ExpansionState
	formatter     *Formatter
	linkTemplate  string
	formatterOpts []FormatterOption
	variant       Variant
}

// NewTableRenderer prepares item for rendering with variant v.
func NewTableRenderer(item *model.Item, v Variant, opts ...RendererOption) *TableRenderer {
	r := &TableRenderer{
		item:         item,
		variant:      v,
		linkTemplate: DefaultLinkTemplate,
	}
	for _, opt := range opts {
		opt(r)
	}

	fopts := append([]FormatterOption{WithPolarity(v.Polarity)}, r.formatterOpts...)
	r.formatter = NewFormatter(fopts...)
	r.schema = ResolveSchema(item, v)

	key := v.GroupKey
	if v.Layout != LayoutGrouped {
		key = nil
	}
	r.index = BuildIndex(item.Details, key)
	r.expansion = DefaultFor(r.index.Keys(), v.Policy, v.ExpandAll)
	return r
}

// Item returns the rendered item.
func (r *TableRenderer) Item() *model.Item { return r.item }

// Variant returns the variant in use.
func (r *TableRenderer) Variant() Variant { return r.variant }

// Schema returns the resolved schema.
func (r *TableRenderer) Schema() Schema { return r.schema }

// Expansion returns the expansion state.
func (r *TableRenderer) Expansion() *ExpansionState { return r.expansion }

// Index returns the grouping index.
func (r *TableRenderer) Index() *GroupingIndex { return r.index }

// Toggleable reports whether the summary row with key can expand.
func (r *TableRenderer) Toggleable(key string) bool {
	return r.variant.Layout == LayoutGrouped && !IsTotal(key) && r.index.Has(key)
}

// Toggle flips the group key and reports whether it is now open. Keys that
// cannot expand are ignored.
func (r *TableRenderer) Toggle(key string) bool {
	if !r.Toggleable(key) {
		return false
	}
	return r.expansion.Toggle(strings.TrimSpace(key))
}

// Render builds the display model for the given viewport class.
func (r *TableRenderer) Render(class ViewportClass) RenderedTable {
	t := RenderedTable{
		ItemID:      r.item.ID,
		Title:       r.item.Title,
		Description: r.item.Description,
		Class:       class,
	}

	empty := !r.item.HasData()
	if r.variant.Layout == LayoutDetailList {
		empty = len(r.item.Details) == 0
	}
	if empty {
		t.Placeholder = PlaceholderText
		return t
	}

	adapter := NewColumnAdapter(class, r.variant.PeriodTable)
	t.Headers = make([]string, len(r.schema.Columns))
	t.Kinds = make([]ColumnKind, len(r.schema.Columns))
	for i, c := range r.schema.Columns {
		t.Headers[i] = adapter.Header(c.Name)
		t.Kinds[i] = c.Kind
	}

	t.Rows = make([]RenderedRow, 0, len(r.item.Data))
	for _, data := range r.item.Data {
		row := r.renderRow(data, adapter)
		t.Rows = append(t.Rows, row)
		if row.Expanded {
			t.Rows = append(t.Rows, RenderedRow{
				Kind:   RowDetail,
				Key:    row.Key,
				Detail: r.detailBlock(row.Key, r.index.Lookup(row.Key)),
			})
		}
	}

	if r.variant.Layout == LayoutDetailList {
		t.List = r.detailBlock("", r.item.Details)
	}
	return t
}

func (r *TableRenderer) renderRow(data model.SummaryRow, adapter ColumnAdapter) RenderedRow {
	key := strings.TrimSpace(data.Get(r.schema.KeyColumn).String())
	row := RenderedRow{Kind: RowSummary, Key: key, Cells: make([]Cell, len(r.schema.Columns))}

	for i, c := range r.schema.Columns {
		cell := r.formatter.Format(data.Get(c.Name), c.Kind)
		cell.Text = adapter.Value(i, cell.Text)
		row.Cells[i] = cell
	}

	if IsTotal(key) {
		row.Kind = RowTotal
		return row
	}
	if r.Toggleable(key) {
		row.Toggleable = true
		row.Expanded = r.expansion.IsExpanded(key)
	}
	return row
}

func (r *TableRenderer) detailBlock(key string, records []model.DetailRecord) *DetailBlock {
	block := &DetailBlock{Lines: make([]DetailLine, 0, len(records))}
	if r.variant.Heading != "" && key != "" {
		block.Heading = fmt.Sprintf(r.variant.Heading, key)
	}

	entity := r.variant.Entity
	if entity == "" {
		entity = DefaultEntity
	}

	total := decimal.Zero
	for i := range records {
		rec := &records[i]
		line := DetailLine{
			ID:   rec.ID,
			Name: rec.DisplayName(entity),
			URL:  rec.URL(r.linkTemplate),
		}
		if r.variant.ShowAmount {
			line.Amount = r.formatter.FormatMoney(rec.Amount)
			total = total.Add(rec.Amount)
		}
		if r.variant.ShowStatus && strings.TrimSpace(rec.Status) != "" {
			line.Status = rec.Status
			line.StatusClass = ClassifyStatus(rec.Status)
		}
		switch r.variant.Days {
		case DaysOverdue:
			line.Days = rec.OverdueDays
			line.DaysLabel = DaysLabel(rec.OverdueDays)
		case DaysWaiting:
			line.Days = rec.WaitingDays
			line.DaysLabel = DaysLabel(rec.WaitingDays)
		}
		block.Lines = append(block.Lines, line)
	}

	if r.variant.ShowAmount && len(records) > 0 {
		block.Subtotal = r.formatter.FormatMoney(total)
	}
	return block
}

// DaysLabel renders a day count with the Russian plural form.
func DaysLabel(n int) string {
	return fmt.Sprintf("%d %s", n, pluralRu(n, "день", "дня", "дней"))
}

func pluralRu(n int, one, few, many string) string {
	if n < 0 {
		n = -n
	}
	switch {
	case n%100 >= 11 && n%100 <= 14:
		return many
	case n%10 == 1:
		return one
	case n%10 >= 2 && n%10 <= 4:
		return few
	default:
		return many
	}
}
