package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ValueKind describes which JSON type a cell value arrived as.
type ValueKind int

// Value kinds.
const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
)

// Value is a single summary-table cell. It keeps the literal it was decoded
// from so numbers like "12.50" round-trip without float noise.
type Value struct {
	raw  string
	kind ValueKind
}

// Null returns the absent value.
func Null() Value { return Value{} }

// StringValue creates a string value.
func StringValue(s string) Value { return Value{kind: ValueString, raw: s} }

// NumberValue creates a numeric value from its literal form.
func NumberValue(literal string) Value { return Value{kind: ValueNumber, raw: literal} }

// FloatValue creates a numeric value from a float.
func FloatValue(f float64) Value {
	return Value{kind: ValueNumber, raw: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Kind returns the JSON type of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is null or absent.
func (v Value) IsNull() bool { return v.kind == ValueNull }

// IsNumber reports whether the value was a JSON number.
func (v Value) IsNumber() bool { return v.kind == ValueNumber }

// IsEmpty reports whether the value has nothing to display.
func (v Value) IsEmpty() bool {
	return v.kind == ValueNull || (v.kind == ValueString && strings.TrimSpace(v.raw) == "")
}

// String returns the literal form of the value. Null renders as "".
func (v Value) String() string { return v.raw }

// Float parses the leading numeric portion of the value, so "45.2%" yields 45.2.
func (v Value) Float() (float64, bool) {
	if v.kind == ValueNull {
		return 0, false
	}
	return LeadingFloat(v.raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = Value{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding string cell: %w", err)
		}
		*v = StringValue(s)
	case bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")):
		*v = Value{kind: ValueBool, raw: string(data)}
	case data[0] == '{' || data[0] == '[':
		// Nested structures are not cells; keep their text so nothing is lost.
		*v = StringValue(string(data))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decoding numeric cell: %w", err)
		}
		*v = NumberValue(n.String())
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueNull:
		return []byte("null"), nil
	case ValueNumber, ValueBool:
		return []byte(v.raw), nil
	default:
		return json.Marshal(v.raw)
	}
}

var leadingFloat = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// LeadingFloat parses the longest numeric prefix of s, ignoring leading
// whitespace and any trailing text.
func LeadingFloat(s string) (float64, bool) {
	m := leadingFloat.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
