package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DetailRecord is a single row-level record behind a summary row.
type DetailRecord struct {
	ID          string
	Name        string
	Client      string
	Category    string
	Status      string
	Amount      decimal.Decimal
	OverdueDays int
	WaitingDays int
}

type rawDetail struct {
	TaskID      json.RawMessage `json:"task_id"`
	ID          json.RawMessage `json:"id"`
	TaskName    *string         `json:"task_name"`
	OrderName   *string         `json:"order_name"`
	Name        *string         `json:"name"`
	Client      *string         `json:"client"`
	Category    *string         `json:"category"`
	Status      *string         `json:"status"`
	Amount      Value           `json:"amount"`
	ProsrDay    Value           `json:"prosr_day"`
	WaitingDays Value           `json:"waiting_days"`
}

// UnmarshalJSON decodes the backend's detail shape. Missing numeric fields
// default to zero.
func (d *DetailRecord) UnmarshalJSON(data []byte) error {
	var raw rawDetail
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding detail record: %w", err)
	}

	id := rawID(raw.TaskID)
	if id == "" {
		id = rawID(raw.ID)
	}

	*d = DetailRecord{
		ID:          id,
		Name:        firstNonEmpty(raw.TaskName, raw.OrderName, raw.Name),
		Client:      deref(raw.Client),
		Category:    deref(raw.Category),
		Status:      deref(raw.Status),
		Amount:      decimalOf(raw.Amount),
		OverdueDays: intOf(raw.ProsrDay),
		WaitingDays: intOf(raw.WaitingDays),
	}
	return nil
}

// MarshalJSON writes the record back in the backend's shape.
func (d DetailRecord) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"task_id":      d.ID,
		"task_name":    d.Name,
		"client":       d.Client,
		"category":     d.Category,
		"status":       d.Status,
		"amount":       json.Number(d.Amount.String()),
		"prosr_day":    d.OverdueDays,
		"waiting_days": d.WaitingDays,
	}
	return json.Marshal(out)
}

// DisplayName returns the record name, falling back to "<entity> #<id>".
func (d *DetailRecord) DisplayName(entity string) string {
	if strings.TrimSpace(d.Name) != "" {
		return d.Name
	}
	return fmt.Sprintf("%s #%s", entity, d.ID)
}

// URL builds the external link for the record from a template containing
// "{id}". Records without an id have no link.
func (d *DetailRecord) URL(template string) string {
	if d.ID == "" || template == "" {
		return ""
	}
	return strings.ReplaceAll(template, "{id}", d.ID)
}

func rawID(msg json.RawMessage) string {
	if len(msg) == 0 {
		return ""
	}
	var v Value
	if err := json.Unmarshal(msg, &v); err != nil {
		return ""
	}
	return strings.TrimSpace(v.String())
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && strings.TrimSpace(*v) != "" {
			return *v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func decimalOf(v Value) decimal.Decimal {
	if v.IsEmpty() {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v.String()))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func intOf(v Value) int {
	f, ok := v.Float()
	if !ok {
		return 0
	}
	return int(f)
}

func sortStrings(s []string) { sort.Strings(s) }
