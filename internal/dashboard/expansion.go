package dashboard

import (
	"fmt"
	"sort"
	"strings"
)

// Policy controls how many groups may be open at once.
type Policy int

// Expansion policies.
const (
	PolicyMulti Policy = iota
	PolicyAccordion
)

func (p Policy) String() string {
	if p == PolicyAccordion {
		return "accordion"
	}
	return "multi"
}

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multi", "multi-expand":
		return PolicyMulti, nil
	case "accordion", "single":
		return PolicyAccordion, nil
	}
	return PolicyMulti, fmt.Errorf("unknown expansion policy %q", s)
}

// ExpansionState tracks which groups of one table are open. It lives as long
// as the table's payload; a new payload gets a new state.
type ExpansionState struct {
	open   map[string]struct{}
	policy Policy
}

// NewExpansionState creates an empty state with the given policy.
func NewExpansionState(policy Policy) *ExpansionState {
	return &ExpansionState{policy: policy, open: make(map[string]struct{})}
}

// DefaultFor creates the initial state for a table whose groups are keys.
// With expandAll every key starts open; accordion tables open only the first.
func DefaultFor(keys []string, policy Policy, expandAll bool) *ExpansionState {
	s := NewExpansionState(policy)
	if !expandAll {
		return s
	}
	for _, k := range keys {
		s.open[k] = struct{}{}
		if policy == PolicyAccordion {
			break
		}
	}
	return s
}

// Policy returns the state's policy.
func (s *ExpansionState) Policy() Policy { return s.policy }

// Toggle flips key and returns whether it is now open. Opening a key under
// the accordion policy closes every other key.
func (s *ExpansionState) Toggle(key string) bool {
	if _, ok := s.open[key]; ok {
		delete(s.open, key)
		return false
	}
	if s.policy == PolicyAccordion {
		clear(s.open)
	}
	s.open[key] = struct{}{}
	return true
}

// IsExpanded reports whether key is open.
func (s *ExpansionState) IsExpanded(key string) bool {
	_, ok := s.open[key]
	return ok
}

// Expanded returns the open keys, sorted.
func (s *ExpansionState) Expanded() []string {
	out := make([]string, 0, len(s.open))
	for k := range s.open {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
