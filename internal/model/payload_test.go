package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "user_name": "Анна",
  "items": [
    {
      "id": "client_orders",
      "title": "Заказы клиентов",
      "columns": ["Клиент", "Сумма"],
      "data": [
        {"Клиент": "ООО Ромашка", "Сумма": 1250000.5},
        {"Клиент": "ИТОГО", "Сумма": 1250000.5}
      ],
      "details": [
        {"task_id": 101, "order_name": "Поставка", "client": "ООО Ромашка", "amount": "1250000.50"},
        {"task_id": "102", "client": "ООО Ромашка"}
      ]
    },
    {
      "id": "conversions",
      "title": "Конверсия",
      "columns": ["Период", "Конверсия"],
      "data": [{"Период": "Текущий квартал (01.10.2024 - 31.12.2024)", "Конверсия": "45.2%"}]
    }
  ]
}`

func TestDecodePayload(t *testing.T) {
	p, err := DecodePayload([]byte(samplePayload))
	require.NoError(t, err)

	assert.Equal(t, "Анна", p.UserName)
	require.Len(t, p.Items, 2)

	orders, ok := p.Item("client_orders")
	require.True(t, ok)
	assert.Equal(t, []string{"Клиент", "Сумма"}, orders.Columns)
	assert.True(t, orders.Data[0].Get("Сумма").IsNumber())
	assert.Equal(t, "1250000.5", orders.Data[0].Get("Сумма").String())

	require.Len(t, orders.Details, 2)
	assert.Equal(t, "101", orders.Details[0].ID)
	assert.Equal(t, "Поставка", orders.Details[0].Name)
	assert.True(t, decimal.RequireFromString("1250000.50").Equal(orders.Details[0].Amount))

	assert.Equal(t, "102", orders.Details[1].ID)
	assert.True(t, orders.Details[1].Amount.IsZero())
	assert.Equal(t, "Заказ #102", orders.Details[1].DisplayName("Заказ"))

	_, ok = p.Item("missing")
	assert.False(t, ok)
}

func TestDecodePayload_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>"},
		{name: "item without id", body: `{"user_name":"x","items":[{"title":"t"}]}`},
		{name: "items wrong type", body: `{"items":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePayload([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDecodePayload_InfersColumns(t *testing.T) {
	p, err := DecodePayload([]byte(`{"items":[{"id":"x","data":[{"b":1,"a":2}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.Items[0].Columns)
}

func TestValue_JSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKind  ValueKind
		wantRaw   string
		wantEmpty bool
	}{
		{name: "null", input: `null`, wantKind: ValueNull, wantEmpty: true},
		{name: "empty string", input: `"  "`, wantKind: ValueString, wantRaw: "  ", wantEmpty: true},
		{name: "integer", input: `42`, wantKind: ValueNumber, wantRaw: "42"},
		{name: "decimal keeps literal", input: `12.50`, wantKind: ValueNumber, wantRaw: "12.50"},
		{name: "string", input: `"45.2%"`, wantKind: ValueString, wantRaw: "45.2%"},
		{name: "bool", input: `true`, wantKind: ValueBool, wantRaw: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tt.input), &v))
			assert.Equal(t, tt.wantKind, v.Kind())
			assert.Equal(t, tt.wantRaw, v.String())
			assert.Equal(t, tt.wantEmpty, v.IsEmpty())

			out, err := json.Marshal(v)
			require.NoError(t, err)
			assert.JSONEq(t, tt.input, string(out))
		})
	}
}

func TestSummaryRow_MissingColumnIsNull(t *testing.T) {
	var row SummaryRow
	assert.True(t, row.Get("x").IsNull())

	row = SummaryRow{"a": StringValue("1")}
	assert.True(t, row.Get("b").IsNull())
}

func TestLeadingFloat(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"45.2%", 45.2, true},
		{"  -3", -3, true},
		{"+7.5 дн.", 7.5, true},
		{".5", 0.5, true},
		{"1e3", 1000, true},
		{"abc", 0, false},
		{"", 0, false},
		{"%12", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := LeadingFloat(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDetailRecord_URL(t *testing.T) {
	d := DetailRecord{ID: "555"}
	assert.Equal(t, "https://megamindru.planfix.ru/task/555", d.URL("https://megamindru.planfix.ru/task/{id}"))

	assert.Empty(t, (&DetailRecord{}).URL("https://x/{id}"))
}

func TestDetailRecord_NumericDefaults(t *testing.T) {
	var d DetailRecord
	require.NoError(t, json.Unmarshal([]byte(`{"task_id": 1, "prosr_day": "12", "waiting_days": null}`), &d))
	assert.Equal(t, 12, d.OverdueDays)
	assert.Equal(t, 0, d.WaitingDays)
	assert.True(t, d.Amount.IsZero())
}

func TestFilters(t *testing.T) {
	f := DefaultFilters()
	require.NoError(t, f.Validate())
	assert.Equal(t, "current/active", f.Key())

	f = f.NextPeriod()
	assert.Equal(t, PeriodPrevious, f.Period)
	f = f.NextOrderStatus().NextOrderStatus()
	assert.Equal(t, OrderStatusAll, f.OrderStatus)
	f = f.NextOrderStatus()
	assert.Equal(t, OrderStatusActive, f.OrderStatus)

	assert.Error(t, Filters{Period: "last", OrderStatus: OrderStatusAll}.Validate())
	assert.Error(t, Filters{Period: PeriodCurrent, OrderStatus: "open"}.Validate())
}
