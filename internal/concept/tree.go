package concept

import (
	"slices"
	"strings"

	"github.com/frahmantamala/ontology-client/internal"
)

var (
	ErrNotFound       = internal.NewNotFoundError("Concept not found", internal.ErrCodeConceptNotFound)
	ErrParentNotFound = internal.NewValidationError("Parent concept not found", internal.ErrCodeParentNotFound)
	ErrCycle          = internal.NewValidationError("A concept cannot be moved under itself or one of its descendants", internal.ErrCodeConceptCycle)
)

// BuildTree turns a flat list into a forest. Children keep the order of the
// input. A concept whose parent is missing from the input becomes a root, as
// does a self-parented one. Duplicate ids after the first are ignored.
//
// Parent links may form cycles. Each cycle is broken at the member that
// appears first in the input, which becomes a root.
func BuildTree(flat []Concept) []*TreeConcept {
	nodes := make(map[int64]*TreeConcept, len(flat))
	index := make(map[int64]int, len(flat))
	order := make([]*TreeConcept, 0, len(flat))

	for _, c := range flat {
		if _, dup := nodes[c.ID]; dup {
			continue
		}
		n := &TreeConcept{Concept: c, Children: []*TreeConcept{}}
		nodes[c.ID] = n
		index[c.ID] = len(order)
		order = append(order, n)
	}

	parentOf := make(map[int64]*TreeConcept, len(order))
	roots := make([]*TreeConcept, 0)

	for _, n := range order {
		pid := n.ParentID
		if pid == nil || *pid == n.ID {
			roots = append(roots, n)
			continue
		}
		p, ok := nodes[*pid]
		if !ok {
			roots = append(roots, n)
			continue
		}
		p.Children = append(p.Children, n)
		parentOf[n.ID] = p
	}

	reached := make(map[int64]bool, len(order))
	for _, r := range roots {
		markReached(r, reached)
	}
	if len(reached) == len(order) {
		return roots
	}

	for _, n := range order {
		if reached[n.ID] {
			continue
		}
		head := cycleHead(n, parentOf, index)
		detach(head, parentOf[head.ID])
		delete(parentOf, head.ID)
		roots = append(roots, head)
		markReached(head, reached)
	}

	slices.SortStableFunc(roots, func(a, b *TreeConcept) int {
		return index[a.ID] - index[b.ID]
	})
	return roots
}

// cycleHead follows parent links from n until one repeats and returns the
// cycle member that comes first in the input.
func cycleHead(n *TreeConcept, parentOf map[int64]*TreeConcept, index map[int64]int) *TreeConcept {
	seen := make(map[int64]bool)
	cur := n
	for !seen[cur.ID] {
		seen[cur.ID] = true
		cur = parentOf[cur.ID]
	}

	head := cur
	for m := parentOf[cur.ID]; m != cur; m = parentOf[m.ID] {
		if index[m.ID] < index[head.ID] {
			head = m
		}
	}
	return head
}

func detach(n, parent *TreeConcept) {
	if parent == nil {
		return
	}
	parent.Children = slices.DeleteFunc(parent.Children, func(c *TreeConcept) bool { return c == n })
}

func markReached(n *TreeConcept, reached map[int64]bool) {
	if reached[n.ID] {
		return
	}
	reached[n.ID] = true
	for _, c := range n.Children {
		markReached(c, reached)
	}
}

// AncestorChain returns the concepts from the root down to id, inclusive.
// The walk stops at a nil or unknown parent, and where an id repeats.
// An unknown id yields an empty chain.
func AncestorChain(id int64, lookup func(int64) (Concept, bool)) []Concept {
	c, ok := lookup(id)
	if !ok {
		return []Concept{}
	}

	chain := []Concept{c}
	seen := map[int64]bool{c.ID: true}
	for c.ParentID != nil {
		p, ok := lookup(*c.ParentID)
		if !ok || seen[p.ID] {
			break
		}
		seen[p.ID] = true
		chain = append(chain, p)
		c = p
	}

	slices.Reverse(chain)
	return chain
}

// IndexLookup builds an AncestorChain lookup over flat. The first occurrence
// of an id wins.
func IndexLookup(flat []Concept) func(int64) (Concept, bool) {
	byID := make(map[int64]Concept, len(flat))
	for _, c := range flat {
		if _, dup := byID[c.ID]; !dup {
			byID[c.ID] = c
		}
	}
	return func(id int64) (Concept, bool) {
		c, ok := byID[id]
		return c, ok
	}
}

type DepthCount struct {
	Depth int `json:"depth"`
	Count int `json:"count"`
}

type Stats struct {
	Total    int          `json:"total"`
	Roots    int          `json:"roots"`
	MaxDepth int          `json:"maxDepth"`
	ByDepth  []DepthCount `json:"byDepth"`
}

// TreeStats counts nodes per level of the built forest. Level 0 is a root.
func TreeStats(forest []*TreeConcept) Stats {
	var counts []int
	var walk func(n *TreeConcept, level int)
	walk = func(n *TreeConcept, level int) {
		for len(counts) <= level {
			counts = append(counts, 0)
		}
		counts[level]++
		for _, c := range n.Children {
			walk(c, level+1)
		}
	}
	for _, r := range forest {
		walk(r, 0)
	}

	s := Stats{Roots: len(forest), ByDepth: make([]DepthCount, 0, len(counts))}
	for level, count := range counts {
		s.Total += count
		s.ByDepth = append(s.ByDepth, DepthCount{Depth: level, Count: count})
	}
	if len(counts) > 0 {
		s.MaxDepth = len(counts) - 1
	}
	return s
}

// ValidateMove reports whether id may be re-parented under newParent.
// A nil newParent makes it a root.
func ValidateMove(flat []Concept, id int64, newParent *int64) error {
	lookup := IndexLookup(flat)
	if _, ok := lookup(id); !ok {
		return ErrNotFound
	}
	if newParent == nil {
		return nil
	}
	if *newParent == id {
		return ErrCycle
	}
	if _, ok := lookup(*newParent); !ok {
		return ErrParentNotFound
	}

	for _, ancestor := range AncestorChain(*newParent, lookup) {
		if ancestor.ID == id {
			return ErrCycle
		}
	}
	return nil
}

// FilterByMaxDepth returns a copy of forest without nodes below level maxDepth.
func FilterByMaxDepth(forest []*TreeConcept, maxDepth int) []*TreeConcept {
	if maxDepth < 0 {
		return []*TreeConcept{}
	}
	out := make([]*TreeConcept, 0, len(forest))
	for _, n := range forest {
		out = append(out, prune(n, maxDepth))
	}
	return out
}

func prune(n *TreeConcept, remaining int) *TreeConcept {
	cp := &TreeConcept{Concept: n.Concept, Children: []*TreeConcept{}}
	if remaining == 0 {
		return cp
	}
	for _, c := range n.Children {
		cp.Children = append(cp.Children, prune(c, remaining-1))
	}
	return cp
}

// Search matches query against paths, ignoring case. A blank query matches nothing.
func Search(flat []Concept, query string) []Concept {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Concept, 0)
	if q == "" {
		return out
	}
	for _, c := range flat {
		if strings.Contains(strings.ToLower(c.Path), q) {
			out = append(out, c)
		}
	}
	return out
}
