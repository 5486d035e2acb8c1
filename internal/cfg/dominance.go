package cfg

import "coolc/internal/ir"

// Graph is a function's CFG together with its dominance information:
// reverse-post-order, immediate dominators, the dominator tree and
// dominance frontiers (spec.md §4.5).
type Graph struct {
	Entry *ir.Block
	RPO   []*ir.Block

	// Idom maps each block to its immediate dominator; Idom[Entry] ==
	// Entry.
	Idom map[*ir.Block]*ir.Block
}

// Build computes reverse-post-order and immediate dominators for the
// CFG rooted at entry, using the Cooper-Harvey-Kennedy iterative
// fixed-point (spec.md §4.5): post-order numbers are assigned first,
// then idom(b) is refined by folding each already-processed
// predecessor via intersect until no block changes.
func Build(entry *ir.Block) *Graph {
	postOrder(entry) // assigns PostOrderNum, required by intersect
	rpo := Traverse(entry, ReversePostOrder)

	idom := make(map[*ir.Block]*ir.Block, len(rpo))
	idom[entry] = entry

	changed := true
	for changed {
		changed = false
		for _, b := range rpo {
			if b == entry {
				continue
			}
			var newIdom *ir.Block
			for _, p := range b.Preds {
				if idom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = intersect(newIdom, p, idom)
			}
			if idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}

	return &Graph{Entry: entry, RPO: rpo, Idom: idom}
}

// intersect walks both fingers toward higher post-order numbers until
// they meet, per spec.md §4.5's "intersect" description.
func intersect(a, b *ir.Block, idom map[*ir.Block]*ir.Block) *ir.Block {
	for a != b {
		for a.PostOrderNum < b.PostOrderNum {
			a = idom[a]
		}
		for b.PostOrderNum < a.PostOrderNum {
			b = idom[b]
		}
	}
	return a
}

// Dominates reports whether a dominates b (a == b counts as dominating).
func (g *Graph) Dominates(a, b *ir.Block) bool {
	for b != nil {
		if b == a {
			return true
		}
		if b == g.Entry {
			return b == a
		}
		b = g.Idom[b]
	}
	return false
}

// Tree returns the dominator tree as a map from each block to its
// immediate children ("the dominator tree is the inverted idom map",
// spec.md §4.5).
func (g *Graph) Tree() map[*ir.Block][]*ir.Block {
	children := make(map[*ir.Block][]*ir.Block)
	for _, b := range g.RPO {
		if b == g.Entry {
			continue
		}
		p := g.Idom[b]
		children[p] = append(children[p], b)
	}
	return children
}

// Frontier computes the dominance frontier of every block: for every
// join node b, for every predecessor p, walk runner = p upward via
// idom until it reaches idom(b), adding b to DF(runner) at each step
// (spec.md §4.5).
func (g *Graph) Frontier() map[*ir.Block][]*ir.Block {
	sets := make(map[*ir.Block]*Set[*ir.Block])
	for _, b := range g.RPO {
		if len(b.Preds) < 2 {
			continue
		}
		idomB := g.Idom[b]
		for _, p := range b.Preds {
			runner := p
			for runner != idomB {
				if sets[runner] == nil {
					sets[runner] = NewSet[*ir.Block]()
				}
				sets[runner].Add(b)
				runner = g.Idom[runner]
			}
		}
	}
	df := make(map[*ir.Block][]*ir.Block, len(sets))
	for b, s := range sets {
		df[b] = SortedBy(s, func(b *ir.Block) int { return b.PostOrderNum })
	}
	return df
}
