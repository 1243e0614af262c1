package dashboard

import (
	"fmt"
	"strings"

	"github.com/evgengiga/dashbord/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Polarity says which direction of a change column is good news.
type Polarity int

// Polarities.
const (
	DecreaseIsGood Polarity = iota
	IncreaseIsGood
)

func (p Polarity) String() string {
	if p == IncreaseIsGood {
		return "increase-is-good"
	}
	return "decrease-is-good"
}

// ParsePolarity parses a polarity name. Empty means the default.
func ParsePolarity(s string) (Polarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "decrease-is-good", "decrease":
		return DecreaseIsGood, nil
	case "increase-is-good", "increase":
		return IncreaseIsGood, nil
	}
	return DecreaseIsGood, fmt.Errorf("unknown polarity %q", s)
}

// VisualClass is the color-coding attached to a formatted cell.
type VisualClass int

// Visual classes.
const (
	ClassNone VisualClass = iota
	ClassFavorable
	ClassUnfavorable
	ClassHeatHigh
	ClassHeatMid
	ClassHeatLow
)

func (c VisualClass) String() string {
	switch c {
	case ClassFavorable:
		return "favorable"
	case ClassUnfavorable:
		return "unfavorable"
	case ClassHeatHigh:
		return "high"
	case ClassHeatMid:
		return "mid"
	case ClassHeatLow:
		return "low"
	default:
		return ""
	}
}

// Cell is a formatted value ready for display.
type Cell struct {
	Text  string
	Class VisualClass
}

// EmptyText is shown for null, absent and blank values.
const EmptyText = "-"

// Percent heat thresholds. Both are inclusive on the high side.
const (
	HeatHighThreshold = 70.0
	HeatMidThreshold  = 40.0
)

// Formatter formats cell values. It is safe for concurrent use.
type Formatter struct {
	printer  *message.Printer
	polarity Polarity
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithPolarity sets the favorable direction for change columns.
func WithPolarity(p Polarity) FormatterOption {
	return func(f *Formatter) { f.polarity = p }
}

// WithLocale sets the locale used for digit grouping of money values.
func WithLocale(tag language.Tag) FormatterOption {
	return func(f *Formatter) { f.printer = message.NewPrinter(tag) }
}

// NewFormatter creates a formatter. The default locale is Russian and the
// default polarity is DecreaseIsGood.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		printer:  message.NewPrinter(language.Russian),
		polarity: DecreaseIsGood,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Polarity returns the configured change polarity.
func (f *Formatter) Polarity() Polarity { return f.polarity }

// Format renders v according to kind.
func (f *Formatter) Format(v model.Value, kind ColumnKind) Cell {
	if v.IsEmpty() {
		return Cell{Text: EmptyText}
	}

	switch kind {
	case KindChange:
		return f.formatChange(v)
	case KindPercent:
		return Cell{Text: v.String(), Class: HeatClass(v)}
	case KindMoney:
		d, ok := ParseMoney(v)
		if !ok {
			return Cell{Text: v.String()}
		}
		return Cell{Text: f.FormatMoney(d)}
	case KindText:
		if isPercentString(v) {
			return Cell{Text: v.String(), Class: HeatClass(v)}
		}
		return Cell{Text: v.String()}
	default:
		return Cell{Text: v.String()}
	}
}

func (f *Formatter) formatChange(v model.Value) Cell {
	n, ok := v.Float()
	if !ok {
		return Cell{Text: v.String()}
	}

	text := v.String()
	// A literal that already carries "+" is left as is, so "+5" stays "+5"
	// rather than "++5".
	if n > 0 && !strings.HasPrefix(strings.TrimSpace(text), "+") {
		text = "+" + text
	}
	return Cell{Text: text, Class: f.changeClass(n)}
}

func (f *Formatter) changeClass(n float64) VisualClass {
	if n == 0 {
		return ClassNone
	}
	decreased := n < 0
	if decreased == (f.polarity == DecreaseIsGood) {
		return ClassFavorable
	}
	return ClassUnfavorable
}

// HeatClass tiers a percent value: at least 70 is high, at least 40 is mid,
// anything else above zero is low.
func HeatClass(v model.Value) VisualClass {
	n, ok := v.Float()
	switch {
	case !ok || n <= 0:
		return ClassNone
	case n >= HeatHighThreshold:
		return ClassHeatHigh
	case n >= HeatMidThreshold:
		return ClassHeatMid
	default:
		return ClassHeatLow
	}
}

// ParseMoney converts a cell to its canonical decimal form. Strings must be
// plain numbers, so an already grouped string is rejected.
func ParseMoney(v model.Value) (decimal.Decimal, bool) {
	if v.Kind() != model.ValueNumber && v.Kind() != model.ValueString {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v.String()))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// FormatMoney renders d with locale grouping and at most two fraction digits.
// Integral values have no fraction part.
func (f *Formatter) FormatMoney(d decimal.Decimal) string {
	rounded := d.Round(2)
	if rounded.IsZero() {
		rounded = decimal.Zero
	}
	value, _ := rounded.Float64()
	return f.printer.Sprintf("%v", number.Decimal(value, number.MaxFractionDigits(2)))
}
