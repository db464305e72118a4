package subtree

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// externalLeaf builds a heap leaf carrying the given serialized scanner
// state.
func externalLeaf(p *SubtreePool, sizeBytes uint32, state []byte, lang *Language) Subtree {
	leaf := p.NewLeaf(symString, LengthZero(), columnLen(sizeBytes), 0, 1, true, false, false, lang)
	leaf.mut().SetExternalScannerState(state)
	return leaf
}

func TestExternalScannerStateStorageBoundary(t *testing.T) {
	var short ExternalScannerState
	short.Init(bytes.Repeat([]byte{0xAB}, externalStateInlineSize))
	assert.Nil(t, short.longData, "states up to 24 bytes stay in the record")
	assert.Equal(t, uint32(externalStateInlineSize), short.Length())

	var long ExternalScannerState
	long.Init(bytes.Repeat([]byte{0xCD}, externalStateInlineSize+1))
	assert.NotNil(t, long.longData)
	assert.Equal(t, uint32(externalStateInlineSize+1), long.Length())
	assert.Equal(t, bytes.Repeat([]byte{0xCD}, externalStateInlineSize+1), long.Data())
}

func TestExternalScannerStateInitCopies(t *testing.T) {
	source := []byte("scanner state that does not fit inline!!")
	var state ExternalScannerState
	state.Init(source)
	source[0] = 'X'
	assert.Equal(t, byte('s'), state.Data()[0])
}

func TestExternalScannerStateEqBytes(t *testing.T) {
	var state ExternalScannerState
	state.Init([]byte("abc"))
	assert.True(t, state.Eq([]byte("abc")))
	assert.False(t, state.Eq([]byte("abd")))
	assert.False(t, state.Eq([]byte("abcd")))

	var empty ExternalScannerState
	assert.True(t, empty.Eq(nil))
	assert.True(t, empty.Eq([]byte{}))
}

func TestExternalScannerStateDelete(t *testing.T) {
	var state ExternalScannerState
	state.Init(bytes.Repeat([]byte{1}, 40))
	state.Delete()
	assert.Equal(t, uint32(0), state.Length())
	assert.Empty(t, state.Data())
}

func TestSubtreeExternalScannerState(t *testing.T) {
	lang := testLanguage()
	pool := NewPool(8)

	leaf := externalLeaf(pool, 4, []byte("in-string"), lang)
	state := leaf.ExternalScannerState()
	require.NotNil(t, state)
	assert.True(t, state.Eq([]byte("in-string")))

	plain := newTestLeaf(pool, symIdentifier, 2, lang)
	assert.Nil(t, plain.ExternalScannerState())

	children := SubtreeArray{leaf, newTestLeaf(pool, symIdentifier, 1, lang)}
	node := NewNode(symExpression, &children, 0, lang).Subtree()
	assert.True(t, node.HasExternalTokens())
	assert.Nil(t, node.ExternalScannerState(), "only leaves carry scanner state")
}

func TestExternalScannerStateEqSubtrees(t *testing.T) {
	lang := testLanguage()
	pool := NewPool(8)

	a := externalLeaf(pool, 4, []byte("same"), lang)
	b := externalLeaf(pool, 6, []byte("same"), lang)
	c := externalLeaf(pool, 4, []byte("different"), lang)
	assert.True(t, a.ExternalScannerStateEq(b))
	assert.False(t, a.ExternalScannerStateEq(c))

	// A stateless external leaf and a plain leaf both compare as empty.
	empty := externalLeaf(pool, 4, nil, lang)
	plain := newTestLeaf(pool, symIdentifier, 2, lang)
	assert.True(t, empty.ExternalScannerStateEq(plain))
	assert.True(t, plain.ExternalScannerStateEq(plain))
	assert.False(t, a.ExternalScannerStateEq(plain))
}

func TestMakeMutClonesLongScannerState(t *testing.T) {
	lang := testLanguage()
	pool := NewPool(8)

	payload := bytes.Repeat([]byte{7}, 40)
	leaf := externalLeaf(pool, 4, payload, lang)
	leaf.Retain()
	mut := pool.MakeMut(leaf)
	require.NotSame(t, leaf.ptr, mut.ptr)

	// The clone owns its own long buffer.
	leaf.ptr.externalScannerState.longData[0] = 99
	assert.Equal(t, byte(7), mut.ptr.externalScannerState.Data()[0])
}

func TestLastExternalToken(t *testing.T) {
	lang := testLanguage()
	pool := NewPool(8)

	target := externalLeaf(pool, 3, []byte("target"), lang)
	inner := SubtreeArray{
		externalLeaf(pool, 2, []byte("earlier"), lang),
		target,
		newTestLeaf(pool, symIdentifier, 1, lang),
	}
	mid := NewNode(symExpression, &inner, 0, lang).Subtree()

	outer := SubtreeArray{mid, newTestLeaf(pool, symNumber, 1, lang)}
	root := NewNode(symExpression, &outer, 0, lang).Subtree()

	got := root.LastExternalToken()
	require.False(t, got.IsNull())
	assert.Same(t, target.ptr, got.ptr)

	plain := newTestLeaf(pool, symIdentifier, 1, lang)
	assert.True(t, plain.LastExternalToken().IsNull())
}

func TestScannerStateChangePropagates(t *testing.T) {
	lang := testLanguage()
	pool := NewPool(8)

	changed := externalLeaf(pool, 2, []byte("new"), lang)
	changed.mut().SetHasExternalScannerStateChange(true)

	children := SubtreeArray{newTestLeaf(pool, symIdentifier, 1, lang), changed}
	node := NewNode(symExpression, &children, 0, lang).Subtree()
	assert.True(t, node.HasExternalScannerStateChange())
}
