package subtree

import "sync/atomic"

// maxPoolSize bounds how many freed records the pool keeps for reuse;
// beyond that, records are left for the garbage collector.
const maxPoolSize = 32

// SubtreePool amortizes allocation of heap subtree records. Freed
// records (and their children slices) are kept on a free list and handed
// back out by the next construction call. Pools are parser-instance
// local and not safe for concurrent use.
type SubtreePool struct {
	freeTrees []*SubtreeHeapData
	treeStack []MutableSubtree
}

// NewPool creates a pool whose free list is pre-reserved to capacity.
func NewPool(capacity uint32) *SubtreePool {
	return &SubtreePool{
		freeTrees: make([]*SubtreeHeapData, 0, capacity),
		treeStack: make([]MutableSubtree, 0, 16),
	}
}

// Delete releases all pooled memory. Call once at parser shutdown.
func (p *SubtreePool) Delete() {
	p.freeTrees = nil
	p.treeStack = nil
}

// allocate returns a zeroed heap record, reusing a freed one when
// available. A recycled record keeps its children slice capacity.
func (p *SubtreePool) allocate() *SubtreeHeapData {
	if n := len(p.freeTrees); n > 0 {
		data := p.freeTrees[n-1]
		p.freeTrees = p.freeTrees[:n-1]
		return data
	}
	return &SubtreeHeapData{}
}

// free returns a record to the free list, or drops it once the list is
// full. The children slice is cleared but its capacity is retained.
func (p *SubtreePool) free(data *SubtreeHeapData) {
	children := data.children[:0]
	for i := range children[:cap(children)] {
		children[:cap(children)][i] = Subtree{}
	}
	*data = SubtreeHeapData{children: children}
	if len(p.freeTrees) < maxPoolSize {
		p.freeTrees = append(p.freeTrees, data)
	}
}

// MakeMut returns an exclusively-owned handle to the subtree. Inline
// values are owned by value already; a heap record with a single owner
// is reinterpreted in place; a shared record is shallow-cloned with each
// child retained, and the original reference is released.
func (p *SubtreePool) MakeMut(s Subtree) MutableSubtree {
	if s.data.isInline {
		return MutableSubtree{data: s.data}
	}
	if atomic.LoadInt32(&s.ptr.refCount) == 1 {
		return s.mut()
	}

	result := p.allocate()
	recycled := result.children
	*result = *s.ptr
	result.refCount = 1
	result.children = append(recycled[:0], s.ptr.children...)
	for _, child := range result.children {
		child.Retain()
	}
	if result.childCount == 0 && result.hasExternalTokens {
		result.externalScannerState = s.ptr.externalScannerState.clone()
	}
	p.Release(s)
	return MutableSubtree{ptr: result}
}

// Release drops one reference to the subtree, freeing the record (and
// recursively releasing its children first) when the count reaches zero.
func (p *SubtreePool) Release(s Subtree) {
	if s.data.isInline || s.ptr == nil {
		return
	}
	p.treeStack = p.treeStack[:0]
	if atomic.AddInt32(&s.ptr.refCount, -1) == 0 {
		p.treeStack = append(p.treeStack, s.mut())
	}
	for len(p.treeStack) > 0 {
		tree := p.treeStack[len(p.treeStack)-1]
		p.treeStack = p.treeStack[:len(p.treeStack)-1]

		for _, child := range tree.ptr.children {
			if child.data.isInline || child.ptr == nil {
				continue
			}
			if atomic.AddInt32(&child.ptr.refCount, -1) == 0 {
				p.treeStack = append(p.treeStack, child.mut())
			}
		}
		if tree.ptr.childCount == 0 && tree.ptr.hasExternalTokens {
			tree.ptr.externalScannerState.Delete()
		}
		p.free(tree.ptr)
	}
}
