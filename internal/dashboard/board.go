package dashboard

import (
	"sync"

	"github.com/evgengiga/dashbord/internal/model"
	"golang.org/x/text/language"
)

// Sequencer issues increasing fetch numbers so late responses can be dropped.
type Sequencer struct {
	mu   sync.Mutex
	last uint64
}

// Next issues a new sequence number. It becomes the only current one.
func (s *Sequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return s.last
}

// IsCurrent reports whether seq is the most recently issued number.
func (s *Sequencer) IsCurrent(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.last
}

// Options builds renderers for every item of a payload.
type Options struct {
	Overrides    map[string]Override
	LinkTemplate string
	Locale       language.Tag
}

// VariantFor returns the configured variant for an item id.
func (o Options) VariantFor(itemID string) Variant {
	v := VariantFor(itemID)
	if ov, ok := o.Overrides[itemID]; ok {
		v = v.Apply(ov)
	}
	return v
}

// Renderer creates a renderer for item.
func (o Options) Renderer(item *model.Item) *TableRenderer {
	opts := []RendererOption{WithLinkTemplate(o.LinkTemplate)}
	if o.Locale != language.Und {
		opts = append(opts, WithFormatterOptions(WithLocale(o.Locale)))
	}
	return NewTableRenderer(item, o.VariantFor(item.ID), opts...)
}

// ExpandAll returns a copy of o that opens every group of items at once,
// for output that cannot be toggled.
func (o Options) ExpandAll(items []model.Item) Options {
	multi, yes := PolicyMulti, true
	overrides := make(map[string]Override, len(o.Overrides)+len(items))
	for id, ov := range o.Overrides {
		overrides[id] = ov
	}
	for _, item := range items {
		ov := overrides[item.ID]
		ov.Policy, ov.ExpandAll = &multi, &yes
		overrides[item.ID] = ov
	}
	o.Overrides = overrides
	return o
}

// Render renders every item of p for class.
func (o Options) Render(p *model.Payload, class ViewportClass) []RenderedTable {
	renderers := o.Renderers(p)
	out := make([]RenderedTable, len(renderers))
	for i, r := range renderers {
		out[i] = r.Render(class)
	}
	return out
}

// Renderers creates one renderer per payload item, in payload order.
func (o Options) Renderers(p *model.Payload) []*TableRenderer {
	if p == nil {
		return nil
	}
	out := make([]*TableRenderer, len(p.Items))
	for i := range p.Items {
		out[i] = o.Renderer(&p.Items[i])
	}
	return out
}

// BoardState is the lifecycle state of the whole dashboard.
type BoardState int

// Board states.
const (
	BoardLoading BoardState = iota
	BoardReady
	BoardError
)

func (s BoardState) String() string {
	switch s {
	case BoardReady:
		return "ready"
	case BoardError:
		return "error"
	default:
		return "loading"
	}
}

// Board holds the current payload and its renderers and applies fetch
// results in order. It is driven from a single goroutine.
type Board struct {
	payload  *model.Payload
	err      error
	tables   []*TableRenderer
	seq      Sequencer
	opts     Options
	filters  model.Filters
	pending  model.Filters
	state    BoardState
	fetching bool
}

// NewBoard creates a board in the loading state.
func NewBoard(opts Options, filters model.Filters) *Board {
	return &Board{opts: opts, filters: filters, pending: filters, state: BoardLoading}
}

// BeginFetch records a fetch for filters and returns its sequence number.
// The shown filters change only once the fetch succeeds, unless nothing has
// been loaded yet.
func (b *Board) BeginFetch(filters model.Filters) uint64 {
	b.pending = filters
	b.fetching = true
	if b.payload == nil {
		b.filters = filters
		b.state = BoardLoading
	}
	return b.seq.Next()
}

// Retry re-issues the fetch with the requested filters.
func (b *Board) Retry() (model.Filters, uint64) {
	return b.pending, b.BeginFetch(b.pending)
}

// Complete applies a fetch result. Results of superseded fetches are
// ignored and Complete returns false for them.
func (b *Board) Complete(seq uint64, payload *model.Payload, err error) bool {
	if !b.seq.IsCurrent(seq) {
		return false
	}
	b.fetching = false

	if err != nil {
		b.err = err
		if b.payload == nil {
			b.state = BoardError
		} else {
			b.pending = b.filters
		}
		return true
	}

	b.err = nil
	b.filters = b.pending
	b.payload = payload
	b.tables = b.opts.Renderers(payload)
	b.state = BoardReady
	return true
}

// State returns the board state.
func (b *Board) State() BoardState { return b.state }

// Err returns the error of the last fetch, if it failed.
func (b *Board) Err() error { return b.err }

// Fetching reports whether a fetch is outstanding.
func (b *Board) Fetching() bool { return b.fetching }

// Filters returns the filters of the shown payload, or of the first fetch
// while nothing is loaded.
func (b *Board) Filters() model.Filters { return b.filters }

// Requested returns the filters of the latest fetch.
func (b *Board) Requested() model.Filters { return b.pending }

// Payload returns the last successfully fetched payload.
func (b *Board) Payload() *model.Payload { return b.payload }

// Tables returns one renderer per payload item.
func (b *Board) Tables() []*TableRenderer { return b.tables }
