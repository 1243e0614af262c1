// Package model defines the data contracts exchanged with the dashboard backend.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// SummaryRow is one row of an item's summary table keyed by column name.
type SummaryRow map[string]Value

// Get returns the cell for column, or Null when it is absent.
func (r SummaryRow) Get(column string) Value {
	if r == nil {
		return Null()
	}
	return r[column]
}

// Item is a single dashboard table.
type Item struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Columns     []string       `json:"columns"`
	Data        []SummaryRow   `json:"data"`
	Details     []DetailRecord `json:"details,omitempty"`
}

// HasData reports whether the item has any summary rows.
func (i *Item) HasData() bool {
	return len(i.Data) > 0
}

// Payload is the full dashboard response for one user and filter selection.
type Payload struct {
	FetchedAt time.Time `json:"-"`
	UserName  string    `json:"user_name"`
	Items     []Item    `json:"items"`
	// Stale is set when the payload was served from a local snapshot
	// because the backend could not be reached.
	Stale bool `json:"-"`
}

// Item returns the item with the given id.
func (p *Payload) Item(id string) (*Item, bool) {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return &p.Items[i], true
		}
	}
	return nil, false
}

// DecodePayload parses a dashboard response body.
func DecodePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding dashboard payload: %w", err)
	}
	for i := range p.Items {
		if p.Items[i].ID == "" {
			return nil, fmt.Errorf("decoding dashboard payload: item %d has no id", i)
		}
		if len(p.Items[i].Columns) == 0 && len(p.Items[i].Data) > 0 {
			p.Items[i].Columns = inferColumns(p.Items[i].Data[0])
		}
	}
	return &p, nil
}

// inferColumns is used when the backend omits the column list. Map order is
// random, so columns are sorted to keep output stable.
func inferColumns(row SummaryRow) []string {
	cols := make([]string, 0, len(row))
	for k := range row {
		cols = append(cols, k)
	}
	sortStrings(cols)
	return cols
}
