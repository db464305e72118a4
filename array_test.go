package subtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// extraLeaf builds an inline leaf flagged as supplementary content.
func extraLeaf(p *SubtreePool, sym Symbol, sizeBytes uint32, lang *Language) Subtree {
	leaf := newTestLeaf(p, sym, sizeBytes, lang)
	mut := p.MakeMut(leaf)
	mut.SetExtra(true)
	return mut.Subtree()
}

func TestArrayCopyRetains(t *testing.T) {
	lang := testLanguage()
	pool := NewPool(8)

	heap := pool.NewLeaf(symIdentifier, LengthZero(), columnLen(300), 0, 1, false, false, false, lang)
	array := SubtreeArray{heap, newTestLeaf(pool, symNumber, 2, lang)}

	duplicate := array.Copy()
	require.Len(t, duplicate, 2)
	assert.Same(t, heap.ptr, duplicate[0].ptr)
	assert.Equal(t, int32(2), heap.refCount())

	duplicate.Delete(pool)
	assert.Equal(t, int32(1), heap.refCount())
	assert.Nil(t, []Subtree(duplicate))

	assert.Nil(t, SubtreeArray(nil).Copy())
}

func TestArrayClearKeepsCapacity(t *testing.T) {
	lang := testLanguage()
	pool := NewPool(8)

	heap := pool.NewLeaf(symIdentifier, LengthZero(), columnLen(300), 0, 1, false, false, false, lang)
	array := SubtreeArray{heap, newTestLeaf(pool, symNumber, 2, lang)}
	wantCap := cap(array)

	array.Clear(pool)
	assert.Empty(t, array)
	assert.Equal(t, wantCap, cap(array))
	assert.Len(t, pool.freeTrees, 1, "released heap record is reclaimed")
}

func TestRemoveTrailingExtras(t *testing.T) {
	lang := testLanguage()
	pool := NewPool(8)

	a := newTestLeaf(pool, symIdentifier, 1, lang)
	b := newTestLeaf(pool, symNumber, 2, lang)
	c := extraLeaf(pool, symComment, 3, lang)
	d := extraLeaf(pool, symComment, 4, lang)
	array := SubtreeArray{a, b, c, d}

	var trailing SubtreeArray
	array.RemoveTrailingExtras(&trailing)

	require.Len(t, array, 2)
	assert.Equal(t, uint32(1), array[0].Size().Bytes)
	assert.Equal(t, uint32(2), array[1].Size().Bytes)

	// Trailing extras come back in source order.
	require.Len(t, trailing, 2)
	assert.Equal(t, uint32(3), trailing[0].Size().Bytes)
	assert.Equal(t, uint32(4), trailing[1].Size().Bytes)
}

func TestRemoveTrailingExtrasStopsAtStructuralChild(t *testing.T) {
	lang := testLanguage()
	pool := NewPool(8)

	array := SubtreeArray{
		extraLeaf(pool, symComment, 1, lang),
		newTestLeaf(pool, symIdentifier, 2, lang),
	}
	var trailing SubtreeArray
	array.RemoveTrailingExtras(&trailing)
	assert.Len(t, array, 2, "a leading extra is not trailing")
	assert.Empty(t, trailing)
}

func TestArrayReverse(t *testing.T) {
	lang := testLanguage()
	pool := NewPool(8)

	array := SubtreeArray{
		newTestLeaf(pool, symIdentifier, 1, lang),
		newTestLeaf(pool, symNumber, 2, lang),
		newTestLeaf(pool, symPlus, 3, lang),
	}
	array.Reverse()
	assert.Equal(t, uint32(3), array[0].Size().Bytes)
	assert.Equal(t, uint32(2), array[1].Size().Bytes)
	assert.Equal(t, uint32(1), array[2].Size().Bytes)
}
