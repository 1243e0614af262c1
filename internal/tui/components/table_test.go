package components

import (
	"strings"
	"testing"

	"github.com/evgengiga/dashbord/internal/dashboard"
	"github.com/evgengiga/dashbord/internal/model"
	tuitest "github.com/evgengiga/dashbord/internal/tui/testing"
	"github.com/evgengiga/dashbord/internal/tui/themes"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ordersItem() *model.Item {
	return &model.Item{
		ID:          "client_orders",
		Title:       "Заказы клиентов",
		Description: "Активные заказы",
		Columns:     []string{"Клиент", "Сумма"},
		Data: []model.SummaryRow{
			{"Клиент": model.StringValue("Альфа"), "Сумма": model.NumberValue("1500")},
			{"Клиент": model.StringValue("Бета"), "Сумма": model.NumberValue("200")},
			{"Клиент": model.StringValue("ИТОГО"), "Сумма": model.NumberValue("1700")},
		},
		Details: []model.DetailRecord{
			{ID: "1", Name: "Поставка", Client: "Альфа", Amount: decimal.NewFromInt(1500)},
			{ID: "2", Name: "Образцы", Client: "Бета", Amount: decimal.NewFromInt(200)},
		},
	}
}

func TestTableView_Render(t *testing.T) {
	r := dashboard.NewTableRenderer(ordersItem(), dashboard.VariantFor("client_orders"))
	view := NewTableView(themes.Dark)

	out := tuitest.StripANSI(view.Render(r.Render(dashboard.ViewportFull), Focus{}))
	assert.True(t, tuitest.ContainsInOrder(out, "Заказы клиентов", "Активные заказы", "Клиент", "Сумма", "Альфа", "Бета", "ИТОГО"))
	assert.Contains(t, tuitest.LineWith(out, "Альфа"), markerCollapsed)
	assert.NotContains(t, tuitest.LineWith(out, "ИТОГО"), markerCollapsed)
	assert.NotContains(t, out, "Поставка")
}

func TestTableView_ExpandedDetailFollowsRow(t *testing.T) {
	r := dashboard.NewTableRenderer(ordersItem(), dashboard.VariantFor("client_orders"))
	require.True(t, r.Toggle("Альфа"))

	out := tuitest.StripANSI(NewTableView(themes.Dark).Render(r.Render(dashboard.ViewportFull), Focus{}))
	assert.True(t, tuitest.ContainsInOrder(out, "Альфа", "Заказы от клиента: Альфа", "Поставка", "/task/1", "Итого:", "Бета"))
	assert.Contains(t, tuitest.LineWith(out, "Альфа"), markerExpanded)
	assert.True(t, strings.HasPrefix(tuitest.LineWith(out, "Поставка"), detailIndent))
}

func TestTableView_Cursor(t *testing.T) {
	r := dashboard.NewTableRenderer(ordersItem(), dashboard.VariantFor("client_orders"))
	view := NewTableView(themes.Dark)
	table := r.Render(dashboard.ViewportFull)

	out, line := view.RenderWithCursor(table, Focus{Active: true, Key: "Бета"})
	require.GreaterOrEqual(t, line, 0)
	lines := strings.Split(tuitest.StripANSI(out), "\n")
	require.Less(t, line, len(lines))
	assert.Contains(t, lines[line], "Бета")
	assert.Contains(t, lines[0], focusMarker)

	_, line = view.RenderWithCursor(table, Focus{Key: "Бета"})
	assert.Equal(t, -1, line, "inactive focus has no cursor")

	_, line = view.RenderWithCursor(table, Focus{Active: true, Key: "ИТОГО"})
	assert.Equal(t, -1, line, "total rows are not cursor targets")
}

func TestTableView_Placeholder(t *testing.T) {
	item := &model.Item{ID: "conversions", Title: "Конверсия"}
	r := dashboard.NewTableRenderer(item, dashboard.VariantFor(item.ID))

	out, line := NewTableView(themes.Light).RenderWithCursor(r.Render(dashboard.ViewportCompact), Focus{Active: true})
	assert.Contains(t, tuitest.StripANSI(out), dashboard.PlaceholderText)
	assert.Equal(t, -1, line)
}

func TestTableView_RenderBlock(t *testing.T) {
	view := NewTableView(themes.Dark)

	out := tuitest.StripANSI(view.RenderBlock(&dashboard.DetailBlock{
		Heading: "Ожидают оплаты",
		Lines: []dashboard.DetailLine{
			{ID: "5", Name: "Заказ\nс переносом", Status: "Завершенная", StatusClass: dashboard.StatusCompleted, DaysLabel: "2 дня"},
		},
	}))
	assert.True(t, tuitest.ContainsInOrder(out, "Ожидают оплаты", "Заказ с переносом", "Завершенная", "2 дня"))

	empty := tuitest.StripANSI(view.RenderBlock(&dashboard.DetailBlock{}))
	assert.Equal(t, dashboard.EmptyDetailText, empty)
}

func TestTableView_RenderAll(t *testing.T) {
	a := dashboard.NewTableRenderer(ordersItem(), dashboard.VariantFor("client_orders")).Render(dashboard.ViewportFull)
	b := dashboard.RenderedTable{Title: "Пусто", Placeholder: dashboard.PlaceholderText}

	out := tuitest.StripANSI(NewTableView(themes.Dark).RenderAll([]dashboard.RenderedTable{a, b}))
	assert.True(t, tuitest.ContainsInOrder(out, "Заказы клиентов", "\n\n", "Пусто", dashboard.PlaceholderText))
	assert.NotContains(t, out, focusMarker)
}
