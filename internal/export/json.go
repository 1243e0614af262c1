package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/evgengiga/dashbord/internal/dashboard"
)

type jsonCell struct {
	Text  string `json:"text"`
	Class string `json:"class,omitempty"`
}

type jsonLine struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url,omitempty"`
	Amount string `json:"amount,omitempty"`
	Status string `json:"status,omitempty"`
	Class  string `json:"status_class,omitempty"`
	Days   string `json:"days,omitempty"`
}

type jsonBlock struct {
	Heading  string     `json:"heading,omitempty"`
	Subtotal string     `json:"subtotal,omitempty"`
	Lines    []jsonLine `json:"lines"`
}

type jsonRow struct {
	Detail   *jsonBlock `json:"detail,omitempty"`
	Kind     string     `json:"kind"`
	Key      string     `json:"key,omitempty"`
	Cells    []jsonCell `json:"cells,omitempty"`
	Expanded bool       `json:"expanded,omitempty"`
}

type jsonTable struct {
	List        *jsonBlock `json:"list,omitempty"`
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Placeholder string     `json:"placeholder,omitempty"`
	Viewport    string     `json:"viewport"`
	Headers     []string   `json:"headers,omitempty"`
	Kinds       []string   `json:"kinds,omitempty"`
	Rows        []jsonRow  `json:"rows,omitempty"`
}

// JSONExporter writes tables as an indented JSON array.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export implements Exporter.
func (e *JSONExporter) Export(w io.Writer, tables []dashboard.RenderedTable) error {
	out := make([]jsonTable, len(tables))
	for i, t := range tables {
		out[i] = toJSONTable(t)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding json export: %w", err)
	}
	return nil
}

func toJSONTable(t dashboard.RenderedTable) jsonTable {
	jt := jsonTable{
		ID:          t.ItemID,
		Title:       t.Title,
		Description: t.Description,
		Placeholder: t.Placeholder,
		Viewport:    t.Class.String(),
		Headers:     t.Headers,
		List:        toJSONBlock(t.List),
	}
	for _, k := range t.Kinds {
		jt.Kinds = append(jt.Kinds, k.String())
	}
	for _, r := range t.Rows {
		row := jsonRow{Kind: r.Kind.String(), Key: r.Key, Expanded: r.Expanded, Detail: toJSONBlock(r.Detail)}
		for _, c := range r.Cells {
			row.Cells = append(row.Cells, jsonCell{Text: c.Text, Class: c.Class.String()})
		}
		jt.Rows = append(jt.Rows, row)
	}
	return jt
}

func toJSONBlock(b *dashboard.DetailBlock) *jsonBlock {
	if b == nil {
		return nil
	}
	jb := &jsonBlock{Heading: b.Heading, Subtotal: b.Subtotal, Lines: make([]jsonLine, len(b.Lines))}
	for i, l := range b.Lines {
		jb.Lines[i] = jsonLine{
			ID:     l.ID,
			Name:   l.Name,
			URL:    l.URL,
			Amount: l.Amount,
			Status: l.Status,
			Days:   l.DaysLabel,
		}
		if l.Status != "" {
			jb.Lines[i].Class = l.StatusClass.String()
		}
	}
	return jb
}
