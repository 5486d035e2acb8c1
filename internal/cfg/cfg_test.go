package cfg

import (
	"testing"

	"coolc/internal/ir"
)

// diamond builds entry -> {left, right} -> merge.
func diamond() (fn *ir.Function, entry, left, right, merge *ir.Block) {
	fn = ir.NewFunction("f", nil, ir.Int64)
	entry = fn.NewBlock("entry")
	left = fn.NewBlock("left")
	right = fn.NewBlock("right")
	merge = fn.NewBlock("merge")
	fn.Entry = entry

	ir.Connect(entry, left)
	ir.Connect(entry, right)
	ir.Connect(left, merge)
	ir.Connect(right, merge)
	return
}

func TestReversePostOrderVisitsEntryFirst(t *testing.T) {
	_, entry, _, _, _ := diamond()
	rpo := Traverse(entry, ReversePostOrder)
	if len(rpo) != 4 {
		t.Fatalf("len(rpo) = %d, want 4", len(rpo))
	}
	if rpo[0] != entry {
		t.Fatalf("rpo[0] = %v, want entry", rpo[0])
	}
}

func TestPostOrderAssignsIncreasingNumbers(t *testing.T) {
	_, entry, _, _, merge := diamond()
	Traverse(entry, PostOrder)
	if merge.PostOrderNum != 0 {
		t.Fatalf("merge.PostOrderNum = %d, want 0 (visited before its predecessors in post-order)", merge.PostOrderNum)
	}
	if entry.PostOrderNum != 3 {
		t.Fatalf("entry.PostOrderNum = %d, want 3 (visited last in post-order)", entry.PostOrderNum)
	}
}

func TestBuildDiamondDominance(t *testing.T) {
	_, entry, left, right, merge := diamond()
	g := Build(entry)

	if g.Idom[left] != entry {
		t.Fatalf("idom(left) = %v, want entry", g.Idom[left])
	}
	if g.Idom[right] != entry {
		t.Fatalf("idom(right) = %v, want entry", g.Idom[right])
	}
	if g.Idom[merge] != entry {
		t.Fatalf("idom(merge) = %v, want entry (neither left nor right strictly dominates it)", g.Idom[merge])
	}
	if !g.Dominates(entry, merge) {
		t.Fatalf("entry should dominate merge")
	}
	if g.Dominates(left, merge) {
		t.Fatalf("left should not dominate merge")
	}
}

func TestDominatorTreeChildren(t *testing.T) {
	_, entry, left, right, merge := diamond()
	g := Build(entry)
	tree := g.Tree()

	children := tree[entry]
	if len(children) != 3 {
		t.Fatalf("len(children(entry)) = %d, want 3 (left, right, merge)", len(children))
	}
	seen := map[*ir.Block]bool{}
	for _, c := range children {
		seen[c] = true
	}
	if !seen[left] || !seen[right] || !seen[merge] {
		t.Fatalf("children(entry) = %v, want {left, right, merge}", children)
	}
}

func TestDominanceFrontierOfBranchesIsMerge(t *testing.T) {
	_, entry, left, right, merge := diamond()
	g := Build(entry)
	df := g.Frontier()

	if len(df[left]) != 1 || df[left][0] != merge {
		t.Fatalf("DF(left) = %v, want [merge]", df[left])
	}
	if len(df[right]) != 1 || df[right][0] != merge {
		t.Fatalf("DF(right) = %v, want [merge]", df[right])
	}
	if len(df[entry]) != 0 {
		t.Fatalf("DF(entry) = %v, want empty", df[entry])
	}
}

func TestSetSortedByIsDeterministic(t *testing.T) {
	_, entry, left, right, merge := diamond()
	Traverse(entry, PostOrder)

	s := NewSet[*ir.Block]()
	s.Add(merge)
	s.Add(left)
	s.Add(right)

	got := SortedBy(s, func(b *ir.Block) int { return b.PostOrderNum })
	for i := 1; i < len(got); i++ {
		if got[i-1].PostOrderNum > got[i].PostOrderNum {
			t.Fatalf("SortedBy did not produce ascending order: %v", got)
		}
	}
}
