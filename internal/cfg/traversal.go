package cfg

import "coolc/internal/ir"

// Order selects a CFG traversal order (spec.md §4.5: "Traversals are
// parameterised by order (pre/in/post/reverse-post)").
type Order int

const (
	PreOrder Order = iota
	InOrder
	PostOrder
	ReversePostOrder
)

// Traverse walks the CFG rooted at entry in the given order and
// returns the visited blocks. Post-order numbers are written back to
// each block as a side effect of any traversal that computes a
// post-order (PostOrder, ReversePostOrder), matching spec.md §4.5.
func Traverse(entry *ir.Block, order Order) []*ir.Block {
	switch order {
	case PreOrder:
		return preOrder(entry)
	case InOrder:
		return inOrder(entry)
	case PostOrder:
		return postOrder(entry)
	case ReversePostOrder:
		po := postOrder(entry)
		return reversed(po)
	default:
		return nil
	}
}

func preOrder(entry *ir.Block) []*ir.Block {
	visited := make(map[*ir.Block]bool)
	var out []*ir.Block
	var walk func(b *ir.Block)
	walk = func(b *ir.Block) {
		if visited[b] {
			return
		}
		visited[b] = true
		out = append(out, b)
		for _, s := range b.Succs {
			walk(s)
		}
	}
	walk(entry)
	return out
}

// inOrder visits a block's first successor, then the block itself,
// then its remaining successors — the natural generalisation of
// binary in-order traversal to blocks with more than two successors.
func inOrder(entry *ir.Block) []*ir.Block {
	visited := make(map[*ir.Block]bool)
	var out []*ir.Block
	var walk func(b *ir.Block)
	walk = func(b *ir.Block) {
		if visited[b] {
			return
		}
		visited[b] = true
		if len(b.Succs) > 0 {
			walk(b.Succs[0])
		}
		out = append(out, b)
		for _, s := range b.Succs[min(1, len(b.Succs)):] {
			walk(s)
		}
	}
	walk(entry)
	return out
}

// postOrder visits every successor before the block itself, writing
// each block's post-order number as it is appended.
func postOrder(entry *ir.Block) []*ir.Block {
	visited := make(map[*ir.Block]bool)
	var out []*ir.Block
	var walk func(b *ir.Block)
	walk = func(b *ir.Block) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range b.Succs {
			walk(s)
		}
		b.PostOrderNum = len(out)
		out = append(out, b)
	}
	walk(entry)
	return out
}

func reversed(bs []*ir.Block) []*ir.Block {
	out := make([]*ir.Block, len(bs))
	for i, b := range bs {
		out[len(bs)-1-i] = b
	}
	return out
}
