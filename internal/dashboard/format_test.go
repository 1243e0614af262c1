package dashboard

import (
	"testing"

	"github.com/evgengiga/dashbord/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFormatter_Empty(t *testing.T) {
	f := NewFormatter()
	kinds := []ColumnKind{KindText, KindMoney, KindChange, KindPercent, KindPeriodLabel}
	values := []model.Value{model.Null(), model.StringValue(""), model.StringValue("   ")}

	for _, kind := range kinds {
		for _, v := range values {
			cell := f.Format(v, kind)
			assert.Equal(t, EmptyText, cell.Text, "kind %s", kind)
			assert.Equal(t, ClassNone, cell.Class, "kind %s", kind)
		}
	}
}

func TestFormatter_Change(t *testing.T) {
	tests := []struct {
		name      string
		value     model.Value
		polarity  Polarity
		wantText  string
		wantClass VisualClass
	}{
		{name: "decrease is good", value: model.StringValue("-12.5"), polarity: DecreaseIsGood, wantText: "-12.5", wantClass: ClassFavorable},
		{name: "increase is bad", value: model.NumberValue("3"), polarity: DecreaseIsGood, wantText: "+3", wantClass: ClassUnfavorable},
		{name: "inverted polarity decrease", value: model.StringValue("-12.5"), polarity: IncreaseIsGood, wantText: "-12.5", wantClass: ClassUnfavorable},
		{name: "inverted polarity increase", value: model.NumberValue("0.5"), polarity: IncreaseIsGood, wantText: "+0.5", wantClass: ClassFavorable},
		{name: "zero", value: model.NumberValue("0"), polarity: DecreaseIsGood, wantText: "0", wantClass: ClassNone},
		{name: "leading numeric", value: model.StringValue("2 дн."), polarity: DecreaseIsGood, wantText: "+2 дн.", wantClass: ClassUnfavorable},
		{name: "explicit plus kept single", value: model.StringValue("+4"), polarity: DecreaseIsGood, wantText: "+4", wantClass: ClassUnfavorable},
		{name: "unparseable", value: model.StringValue("н/д"), polarity: DecreaseIsGood, wantText: "н/д", wantClass: ClassNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := NewFormatter(WithPolarity(tt.polarity)).Format(tt.value, KindChange)
			assert.Equal(t, tt.wantText, cell.Text)
			assert.Equal(t, tt.wantClass, cell.Class)
		})
	}
}

func TestFormatter_PercentTiers(t *testing.T) {
	tests := []struct {
		value string
		want  VisualClass
	}{
		{"85%", ClassHeatHigh},
		{"70%", ClassHeatHigh},
		{"69.99%", ClassHeatMid},
		{"55%", ClassHeatMid},
		{"40%", ClassHeatMid},
		{"39.9%", ClassHeatLow},
		{"0.1%", ClassHeatLow},
		{"0%", ClassNone},
		{"-5%", ClassNone},
		{"нет%", ClassNone},
	}

	f := NewFormatter()
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cell := f.Format(model.StringValue(tt.value), KindPercent)
			assert.Equal(t, tt.value, cell.Text)
			assert.Equal(t, tt.want, cell.Class)
		})
	}

	cell := f.Format(model.NumberValue("45.2"), KindPercent)
	assert.Equal(t, "45.2", cell.Text)
	assert.Equal(t, ClassHeatMid, cell.Class)
}

func TestFormatter_Money(t *testing.T) {
	f := NewFormatter(WithLocale(language.English))

	tests := []struct {
		name  string
		value model.Value
		want  string
	}{
		{name: "integer", value: model.NumberValue("1234"), want: "1,234"},
		{name: "fraction", value: model.NumberValue("1234.5"), want: "1,234.5"},
		{name: "rounds to two places", value: model.NumberValue("1234.567"), want: "1,234.57"},
		{name: "trailing zeros dropped", value: model.NumberValue("1000.00"), want: "1,000"},
		{name: "numeric string", value: model.StringValue("2500000"), want: "2,500,000"},
		{name: "unparseable passes through", value: model.StringValue("около 5 млн"), want: "около 5 млн"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := f.Format(tt.value, KindMoney)
			assert.Equal(t, tt.want, cell.Text)
			assert.Equal(t, ClassNone, cell.Class)
		})
	}
}

func TestFormatter_MoneyIdempotent(t *testing.T) {
	for _, tag := range []language.Tag{language.English, language.Russian} {
		f := NewFormatter(WithLocale(tag))
		for _, literal := range []string{"1234567.891", "0.5", "-98765", "100"} {
			once := f.Format(model.NumberValue(literal), KindMoney).Text
			twice := f.Format(model.StringValue(once), KindMoney).Text
			assert.Equal(t, once, twice, "%s %s", tag, literal)

			canonical := f.FormatMoney(decimal.RequireFromString(literal))
			assert.Equal(t, once, canonical)
		}
	}
}

func TestFormatter_RussianGrouping(t *testing.T) {
	text := NewFormatter().FormatMoney(decimal.RequireFromString("1234.5"))
	assert.NotEqual(t, "1,234.5", text)
	assert.Contains(t, text, ",5")
}

func TestFormatter_TextKinds(t *testing.T) {
	f := NewFormatter()
	assert.Equal(t, Cell{Text: "Срочные"}, f.Format(model.StringValue("Срочные"), KindText))
	assert.Equal(t, Cell{Text: "42"}, f.Format(model.NumberValue("42"), KindText))
	assert.Equal(t, Cell{Text: "Текущий квартал"}, f.Format(model.StringValue("Текущий квартал"), KindPeriodLabel))
}

func TestParsePolarity(t *testing.T) {
	p, err := ParsePolarity("")
	assert.NoError(t, err)
	assert.Equal(t, DecreaseIsGood, p)

	p, err = ParsePolarity("Increase-Is-Good")
	assert.NoError(t, err)
	assert.Equal(t, IncreaseIsGood, p)

	_, err = ParsePolarity("sideways")
	assert.Error(t, err)
}
