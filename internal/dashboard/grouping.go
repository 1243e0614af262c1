package dashboard

import (
	"strings"

	"github.com/evgengiga/dashbord/internal/model"
)

// KeyFunc extracts the group key of a detail record.
type KeyFunc func(*model.DetailRecord) string

// ByClient groups order records by client.
func ByClient(d *model.DetailRecord) string { return strings.TrimSpace(d.Client) }

// ByCategory groups task records by category.
func ByCategory(d *model.DetailRecord) string { return strings.TrimSpace(d.Category) }

// GroupingIndex maps group keys to detail records in arrival order. Records
// whose key matches no summary row stay in the index but are never shown.
type GroupingIndex struct {
	groups map[string][]model.DetailRecord
	keys   []string
	size   int
}

// BuildIndex groups details in a single pass.
func BuildIndex(details []model.DetailRecord, key KeyFunc) *GroupingIndex {
	idx := &GroupingIndex{groups: make(map[string][]model.DetailRecord)}
	if key == nil {
		return idx
	}
	for i := range details {
		k := key(&details[i])
		if _, ok := idx.groups[k]; !ok {
			idx.keys = append(idx.keys, k)
		}
		idx.groups[k] = append(idx.groups[k], details[i])
		idx.size++
	}
	return idx
}

// Lookup returns the records for key.
func (g *GroupingIndex) Lookup(key string) []model.DetailRecord {
	return g.groups[strings.TrimSpace(key)]
}

// Has reports whether key has at least one record.
func (g *GroupingIndex) Has(key string) bool {
	return len(g.Lookup(key)) > 0
}

// Keys returns the group keys in first-seen order.
func (g *GroupingIndex) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Len returns the number of groups.
func (g *GroupingIndex) Len() int { return len(g.keys) }

// Size returns the number of indexed records.
func (g *GroupingIndex) Size() int { return g.size }
