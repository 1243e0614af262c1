package dashboard

import "sync"

// ViewportClass is the coarse width class tables adapt to.
type ViewportClass int

// Viewport classes.
const (
	ViewportFull ViewportClass = iota
	ViewportCompact
)

func (c ViewportClass) String() string {
	if c == ViewportCompact {
		return "compact"
	}
	return "full"
}

// CompactBreakpoint is the widest width, in logical pixels, still treated as compact.
const CompactBreakpoint = 768

// DefaultCellWidth is the number of logical pixels one terminal cell counts for.
const DefaultCellWidth = 8

// Classify maps a width in logical pixels to a class.
func Classify(width int) ViewportClass {
	if width <= CompactBreakpoint {
		return ViewportCompact
	}
	return ViewportFull
}

// CellsToPixels converts a terminal width to logical pixels.
func CellsToPixels(cells, cellWidth int) int {
	if cellWidth <= 0 {
		cellWidth = DefaultCellWidth
	}
	return cells * cellWidth
}

// ViewportMonitor re-classifies the width on every resize and notifies
// subscribers when the class changes.
type ViewportMonitor struct {
	subs  map[int]func(ViewportClass)
	mu    sync.Mutex
	width int
	next  int
	class ViewportClass
}

// NewViewportMonitor creates a monitor for the initial width.
func NewViewportMonitor(width int) *ViewportMonitor {
	return &ViewportMonitor{
		width: width,
		class: Classify(width),
		subs:  make(map[int]func(ViewportClass)),
	}
}

// Resize records a new width. It returns the class after the resize.
func (m *ViewportMonitor) Resize(width int) ViewportClass {
	m.mu.Lock()
	m.width = width
	class := Classify(width)
	changed := class != m.class
	m.class = class
	var notify []func(ViewportClass)
	if changed {
		notify = make([]func(ViewportClass), 0, len(m.subs))
		for _, fn := range m.subs {
			notify = append(notify, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range notify {
		fn(class)
	}
	return class
}

// Class returns the current class.
func (m *ViewportMonitor) Class() ViewportClass {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.class
}

// Width returns the last recorded width.
func (m *ViewportMonitor) Width() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width
}

// Subscribe registers fn for class changes. The returned function removes
// the subscription and may be called more than once.
func (m *ViewportMonitor) Subscribe(fn func(ViewportClass)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.next
	m.next++
	m.subs[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (m *ViewportMonitor) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}
