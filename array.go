package subtree

// SubtreeArray is an ordered sequence of subtree handles, used to
// accumulate children during bottom-up construction.
type SubtreeArray []Subtree

// Copy returns a duplicate of the array with every element retained.
func (a SubtreeArray) Copy() SubtreeArray {
	if len(a) == 0 {
		return nil
	}
	result := make(SubtreeArray, len(a))
	copy(result, a)
	for _, tree := range result {
		tree.Retain()
	}
	return result
}

// Clear releases every element and empties the array, keeping its
// capacity for reuse.
func (a *SubtreeArray) Clear(pool *SubtreePool) {
	for _, tree := range *a {
		pool.Release(tree)
	}
	*a = (*a)[:0]
}

// Delete releases every element and frees the array.
func (a *SubtreeArray) Delete(pool *SubtreePool) {
	for _, tree := range *a {
		pool.Release(tree)
	}
	*a = nil
}

// RemoveTrailingExtras pops trailing elements flagged extra (comments,
// whitespace tokens) into destination, preserving their source order.
// It separates a production's meaningful children from trailing
// supplementary content.
func (a *SubtreeArray) RemoveTrailingExtras(destination *SubtreeArray) {
	*destination = (*destination)[:0]
	for len(*a) > 0 {
		last := (*a)[len(*a)-1]
		if !last.Extra() {
			break
		}
		*a = (*a)[:len(*a)-1]
		*destination = append(*destination, last)
	}
	destination.Reverse()
}

// Reverse reverses the array in place. Children gathered while popping a
// parse stack arrive in reverse order.
func (a SubtreeArray) Reverse() {
	for i, j := 0, len(a)-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
}
