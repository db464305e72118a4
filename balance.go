package subtree

// compress performs count left-spine rotations on a chain of
// same-symbol repetition nodes, moving each grandchild up one level and
// pushing its parent down as the grandchild's last child. Rotated nodes
// are re-summarized bottom-up afterwards. Only exclusively-owned nodes
// with at least two children participate.
func compress(self MutableSubtree, count uint32, lang *Language, stack *[]MutableSubtree) {
	initialStackSize := len(*stack)
	tree := self
	symbol := tree.ptr.symbol
	for i := uint32(0); i < count; i++ {
		if tree.ptr.refCount > 1 || tree.ptr.childCount < 2 {
			break
		}
		child := tree.ptr.children[0].mut()
		if child.data.isInline || child.ptr.childCount < 2 ||
			child.ptr.refCount > 1 || child.ptr.symbol != symbol {
			break
		}
		grandchild := child.ptr.children[0].mut()
		if grandchild.data.isInline || grandchild.ptr.childCount < 2 ||
			grandchild.ptr.refCount > 1 || grandchild.ptr.symbol != symbol {
			break
		}

		tree.ptr.children[0] = grandchild.Subtree()
		child.ptr.children[0] = grandchild.ptr.children[grandchild.ptr.childCount-1]
		grandchild.ptr.children[grandchild.ptr.childCount-1] = child.Subtree()
		*stack = append(*stack, tree)
		tree = grandchild
	}

	for len(*stack) > initialStackSize {
		tree = (*stack)[len(*stack)-1]
		*stack = (*stack)[:len(*stack)-1]
		child := tree.ptr.children[0].mut()
		grandchild := child.ptr.children[child.ptr.childCount-1].mut()
		grandchild.SummarizeChildren(lang)
		child.SummarizeChildren(lang)
		tree.SummarizeChildren(lang)
	}
}

// Balance restructures repetition chains whose repeat depth has grown
// lopsided, rotating the left spine until the depth difference between
// the outermost children is gone. Long right-recursive reductions
// otherwise degenerate into O(n)-deep chains; after balancing, depth is
// logarithmic in the chain length. Nodes shared with another tree
// revision are left alone.
func (s Subtree) Balance(pool *SubtreePool, lang *Language) {
	pool.treeStack = pool.treeStack[:0]
	if s.ChildCount() > 0 && s.refCount() == 1 {
		pool.treeStack = append(pool.treeStack, s.mut())
	}

	for len(pool.treeStack) > 0 {
		tree := pool.treeStack[len(pool.treeStack)-1]
		pool.treeStack = pool.treeStack[:len(pool.treeStack)-1]

		if tree.ptr.repeatDepth > 0 {
			child1 := tree.ptr.children[0]
			child2 := tree.ptr.children[tree.ptr.childCount-1]
			repeatDelta := int64(child1.RepeatDepth()) - int64(child2.RepeatDepth())
			if repeatDelta > 0 {
				n := uint32(repeatDelta)
				for i := n / 2; i > 0; i /= 2 {
					compress(tree, i, lang, &pool.treeStack)
					n -= i
				}
			}
		}

		for _, child := range tree.ptr.children {
			if child.ChildCount() > 0 && child.refCount() == 1 {
				pool.treeStack = append(pool.treeStack, child.mut())
			}
		}
	}
}
