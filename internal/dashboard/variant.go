package dashboard

import "strings"

// Layout is the overall shape of a rendered table.
type Layout int

// Layouts.
const (
	// LayoutFlat renders summary rows only.
	LayoutFlat Layout = iota
	// LayoutGrouped renders summary rows that expand into their detail records.
	LayoutGrouped
	// LayoutDetailList renders the summary rows, if any, followed by every
	// detail record.
	LayoutDetailList
)

// DaysField selects which day counter a detail line shows.
type DaysField int

// Day counters.
const (
	DaysNone DaysField = iota
	DaysOverdue
	DaysWaiting
)

// Variant describes how one kind of dashboard item is rendered.
type Variant struct {
	GroupKey     KeyFunc
	Name         string
	GroupColumn  string
	Entity       string
	Heading      string
	MoneyColumns []string
	Layout       Layout
	Policy       Policy
	Days         DaysField
	Polarity     Polarity
	ExpandAll    bool
	ShowAmount   bool
	ShowStatus   bool
	PeriodTable  bool
}

// DefaultEntity names a detail record when nothing more specific is known.
const DefaultEntity = "Задача"

// Generic is the variant for items with no registered layout.
var Generic = Variant{Name: "generic", Layout: LayoutFlat, Entity: DefaultEntity}

var variants = map[string]Variant{
	"conversions": {
		Name:        "period",
		Layout:      LayoutFlat,
		PeriodTable: true,
		Entity:      DefaultEntity,
	},
	"production_time": {
		Name:     "production-time",
		Layout:   LayoutFlat,
		Polarity: DecreaseIsGood,
		Entity:   DefaultEntity,
	},
	"preparation_time": {
		Name:     "production-time",
		Layout:   LayoutFlat,
		Polarity: DecreaseIsGood,
		Entity:   DefaultEntity,
	},
	"overdue_tasks": {
		Name:        "category-grouped",
		Layout:      LayoutGrouped,
		GroupColumn: "Категория",
		GroupKey:    ByCategory,
		Policy:      PolicyAccordion,
		Entity:      "Задача",
		Heading:     "Просроченные задачи (%s):",
		Days:        DaysOverdue,
	},
	"client_orders": {
		Name:         "client-orders",
		Layout:       LayoutGrouped,
		GroupColumn:  "Клиент",
		GroupKey:     ByClient,
		Policy:       PolicyMulti,
		Entity:       "Заказ",
		Heading:      "Заказы от клиента: %s",
		ShowAmount:   true,
		MoneyColumns: []string{"Сумма"},
	},
	"waiting_sales": {
		Name:       "waiting-list",
		Layout:     LayoutDetailList,
		Entity:     "Задача",
		ShowStatus: true,
		Days:       DaysWaiting,
	},
}

// VariantFor returns the registered variant for an item id, or Generic.
func VariantFor(itemID string) Variant {
	if v, ok := variants[strings.TrimSpace(itemID)]; ok {
		return v
	}
	return Generic
}

// Override adjusts a variant from configuration. Nil fields keep the
// registered value.
type Override struct {
	Polarity  *Polarity
	Policy    *Policy
	ExpandAll *bool
}

// Apply returns v with o applied.
func (v Variant) Apply(o Override) Variant {
	if o.Polarity != nil {
		v.Polarity = *o.Polarity
	}
	if o.Policy != nil {
		v.Policy = *o.Policy
	}
	if o.ExpandAll != nil {
		v.ExpandAll = *o.ExpandAll
	}
	return v
}
