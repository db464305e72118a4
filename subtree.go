package subtree

import (
	"sync/atomic"
	"unsafe"
)

// Geometry limits for the inline representation. A leaf whose padding,
// size, or lookahead exceeds these must be heap-allocated.
const (
	maxInlineBytes     = 255
	maxInlineRows      = 15
	maxInlineLookahead = 15
	maxInlineSymbol    = 255
)

// SubtreeInlineData is the compact representation used for small leaf
// tokens that are not errors and carry no external scanner state. It is
// copied by value and never reference-counted.
//
// In the original C layout the isInline flag aliases the low bit of the
// heap pointer; here the two representations live side by side in
// Subtree and the flag is an ordinary field.
type SubtreeInlineData struct {
	isInline   bool
	visible    bool
	named      bool
	extra      bool
	hasChanges bool
	isMissing  bool
	isKeyword  bool

	symbol     uint8
	parseState StateID

	paddingBytes   uint8
	paddingRows    uint8
	paddingColumns uint8
	sizeBytes      uint8
	lookaheadBytes uint8
}

// SubtreeHeapData is the reference-counted representation used for
// parent nodes, external tokens, errors, and leaves too large to inline.
//
// Exactly one of the payload groups is meaningful, selected the same way
// as the original union: the node fields when childCount > 0, the
// scanner state when childCount == 0 && hasExternalTokens, and the
// lookahead character when childCount == 0 && symbol == SymbolError.
type SubtreeHeapData struct {
	refCount       int32 // accessed atomically; safe for concurrent reads
	padding        Length
	size           Length
	lookaheadBytes uint32
	errorCost      uint32
	childCount     uint32
	symbol         Symbol
	parseState     StateID

	visible                       bool
	named                         bool
	extra                         bool
	fragileLeft                   bool
	fragileRight                  bool
	hasChanges                    bool
	hasExternalTokens             bool
	hasExternalScannerStateChange bool
	dependsOnColumn               bool
	isMissing                     bool
	isKeyword                     bool

	children []Subtree

	// Nonterminal payload (childCount > 0).
	visibleChildCount uint32
	namedChildCount   uint32
	nodeCount         uint32
	dynamicPrecedence int32
	repeatDepth       uint16
	productionID      uint16
	firstLeafSymbol   Symbol
	firstLeafState    StateID

	// External-token leaf payload (childCount == 0 && hasExternalTokens).
	externalScannerState ExternalScannerState

	// Error leaf payload (childCount == 0 && symbol == SymbolError).
	lookaheadChar rune
}

// Subtree is the fundamental building block of a syntax tree: either an
// inline leaf or a shared handle to a heap record. The zero value is the
// null subtree.
type Subtree struct {
	data SubtreeInlineData
	ptr  *SubtreeHeapData
}

// MutableSubtree is a Subtree whose heap record is exclusively owned and
// may be modified in place.
type MutableSubtree struct {
	data SubtreeInlineData
	ptr  *SubtreeHeapData
}

// Subtree reinterprets the handle as read-only.
func (m MutableSubtree) Subtree() Subtree {
	return Subtree{data: m.data, ptr: m.ptr}
}

// mut reinterprets a read-only handle as mutable without checking
// ownership. Callers must hold the only reference.
func (s Subtree) mut() MutableSubtree {
	return MutableSubtree{data: s.data, ptr: s.ptr}
}

// IsNull reports whether this is the null subtree.
func (s Subtree) IsNull() bool { return !s.data.isInline && s.ptr == nil }

// IsInline reports whether the subtree uses the compact in-value
// representation.
func (s Subtree) IsInline() bool { return s.data.isInline }

// Symbol returns the subtree's grammar symbol.
func (s Subtree) Symbol() Symbol {
	if s.data.isInline {
		return Symbol(s.data.symbol)
	}
	return s.ptr.symbol
}

// Visible reports whether the subtree appears in the visible tree.
func (s Subtree) Visible() bool {
	if s.data.isInline {
		return s.data.visible
	}
	return s.ptr.visible
}

// Named reports whether the subtree is a named node rather than
// anonymous syntax.
func (s Subtree) Named() bool {
	if s.data.isInline {
		return s.data.named
	}
	return s.ptr.named
}

// Extra reports whether the subtree is supplementary content such as a
// comment, not part of any production.
func (s Subtree) Extra() bool {
	if s.data.isInline {
		return s.data.extra
	}
	return s.ptr.extra
}

// HasChanges reports whether an edit touched this subtree.
func (s Subtree) HasChanges() bool {
	if s.data.isInline {
		return s.data.hasChanges
	}
	return s.ptr.hasChanges
}

// Missing reports whether the subtree was synthesized by error recovery
// rather than present in the source.
func (s Subtree) Missing() bool {
	if s.data.isInline {
		return s.data.isMissing
	}
	return s.ptr.isMissing
}

// IsKeyword reports whether the token was captured by keyword extraction.
func (s Subtree) IsKeyword() bool {
	if s.data.isInline {
		return s.data.isKeyword
	}
	return s.ptr.isKeyword
}

// ParseState returns the parser state in which the subtree was created.
func (s Subtree) ParseState() StateID {
	if s.data.isInline {
		return s.data.parseState
	}
	return s.ptr.parseState
}

// LookaheadBytes returns how many bytes beyond the subtree's end the
// lexer examined while scanning it.
func (s Subtree) LookaheadBytes() uint32 {
	if s.data.isInline {
		return uint32(s.data.lookaheadBytes)
	}
	return s.ptr.lookaheadBytes
}

// Padding returns the whitespace length preceding the subtree's content.
func (s Subtree) Padding() Length {
	if s.data.isInline {
		return Length{
			Bytes: uint32(s.data.paddingBytes),
			Extent: Point{
				Row:    uint32(s.data.paddingRows),
				Column: uint32(s.data.paddingColumns),
			},
		}
	}
	return s.ptr.padding
}

// Size returns the length of the subtree's own content.
func (s Subtree) Size() Length {
	if s.data.isInline {
		return Length{
			Bytes:  uint32(s.data.sizeBytes),
			Extent: Point{Row: 0, Column: uint32(s.data.sizeBytes)},
		}
	}
	return s.ptr.size
}

// TotalSize returns padding plus size.
func (s Subtree) TotalSize() Length {
	return s.Padding().Add(s.Size())
}

// TotalBytes returns the subtree's full byte extent including padding.
func (s Subtree) TotalBytes() uint32 {
	return s.TotalSize().Bytes
}

// ChildCount returns the number of children.
func (s Subtree) ChildCount() uint32 {
	if s.data.isInline || s.ptr == nil {
		return 0
	}
	return s.ptr.childCount
}

// Children returns the subtree's children. The returned slice is owned
// by the heap record; callers must not mutate it through a shared handle.
func (s Subtree) Children() []Subtree {
	if s.data.isInline || s.ptr == nil {
		return nil
	}
	return s.ptr.children
}

// NodeCount returns the total number of nodes in the subtree.
func (s Subtree) NodeCount() uint32 {
	if s.data.isInline || s.ptr.childCount == 0 {
		return 1
	}
	return s.ptr.nodeCount
}

// VisibleChildCount returns the number of children visible in the tree,
// counting through invisible intermediate nodes.
func (s Subtree) VisibleChildCount() uint32 {
	if s.ChildCount() == 0 {
		return 0
	}
	return s.ptr.visibleChildCount
}

// NamedChildCount returns the number of visible named children.
func (s Subtree) NamedChildCount() uint32 {
	if s.ChildCount() == 0 {
		return 0
	}
	return s.ptr.namedChildCount
}

// ErrorCost returns the recovery penalty accumulated in the subtree.
// Missing subtrees always report a fixed nonzero cost.
func (s Subtree) ErrorCost() uint32 {
	if s.Missing() {
		return ErrorCostPerMissingTree + ErrorCostPerRecovery
	}
	if s.data.isInline {
		return 0
	}
	return s.ptr.errorCost
}

// DynamicPrecedence returns the subtree's ambiguity-resolution
// tie-breaker; higher wins.
func (s Subtree) DynamicPrecedence() int32 {
	if s.data.isInline || s.ptr.childCount == 0 {
		return 0
	}
	return s.ptr.dynamicPrecedence
}

// ProductionID identifies which grammar production built this node.
func (s Subtree) ProductionID() uint16 {
	if s.ChildCount() == 0 {
		return 0
	}
	return s.ptr.productionID
}

// RepeatDepth returns the nesting level of same-symbol repetition nodes
// along the subtree's left spine.
func (s Subtree) RepeatDepth() uint32 {
	if s.data.isInline || s.ptr.childCount == 0 {
		return 0
	}
	return uint32(s.ptr.repeatDepth)
}

// IsRepetition reports whether the subtree is a hidden repetition node.
func (s Subtree) IsRepetition() bool {
	if s.data.isInline {
		return false
	}
	return !s.ptr.named && !s.ptr.visible && s.ptr.childCount != 0
}

// FragileLeft reports whether the subtree's left edge is unsafe to reuse
// without re-verification.
func (s Subtree) FragileLeft() bool {
	if s.data.isInline {
		return false
	}
	return s.ptr.fragileLeft
}

// FragileRight reports whether the subtree's right edge is unsafe to
// reuse without re-verification.
func (s Subtree) FragileRight() bool {
	if s.data.isInline {
		return false
	}
	return s.ptr.fragileRight
}

// IsFragile reports whether either edge is fragile.
func (s Subtree) IsFragile() bool {
	if s.data.isInline {
		return false
	}
	return s.ptr.fragileLeft || s.ptr.fragileRight
}

// HasExternalTokens reports whether any leaf in the subtree came from an
// external scanner.
func (s Subtree) HasExternalTokens() bool {
	if s.data.isInline || s.ptr == nil {
		return false
	}
	return s.ptr.hasExternalTokens
}

// HasExternalScannerStateChange reports whether re-lexing observed a
// different scanner state somewhere in the subtree.
func (s Subtree) HasExternalScannerStateChange() bool {
	if s.data.isInline {
		return false
	}
	return s.ptr.hasExternalScannerStateChange
}

// DependsOnColumn reports whether the subtree's validity depends on its
// starting column, as with indentation-sensitive tokens.
func (s Subtree) DependsOnColumn() bool {
	if s.data.isInline {
		return false
	}
	return s.ptr.dependsOnColumn
}

// IsError reports whether the subtree carries the reserved error symbol.
func (s Subtree) IsError() bool { return s.Symbol() == SymbolError }

// IsEOF reports whether the subtree is the end-of-input token.
func (s Subtree) IsEOF() bool { return s.Symbol() == SymbolEnd }

// LookaheadChar returns the character that caused an error leaf, or 0
// for any other subtree.
func (s Subtree) LookaheadChar() rune {
	if s.data.isInline || s.ptr.childCount > 0 || s.ptr.symbol != SymbolError {
		return 0
	}
	return s.ptr.lookaheadChar
}

// LeafSymbol returns the symbol of the subtree's leftmost leaf, cached
// on internal nodes so the parser can resume without descending.
func (s Subtree) LeafSymbol() Symbol {
	if s.data.isInline {
		return Symbol(s.data.symbol)
	}
	if s.ptr.childCount == 0 {
		return s.ptr.symbol
	}
	return s.ptr.firstLeafSymbol
}

// LeafParseState returns the parse state of the leftmost leaf.
func (s Subtree) LeafParseState() StateID {
	if s.data.isInline {
		return s.data.parseState
	}
	if s.ptr.childCount == 0 {
		return s.ptr.parseState
	}
	return s.ptr.firstLeafState
}

// Retain increments the reference count and returns an aliasing handle.
// Inline subtrees are copied by value and need no counting.
func (s Subtree) Retain() Subtree {
	if !s.data.isInline && s.ptr != nil {
		atomic.AddInt32(&s.ptr.refCount, 1)
	}
	return s
}

// refCount returns the current shared-owner count of a heap subtree.
func (s Subtree) refCount() int32 {
	if s.data.isInline || s.ptr == nil {
		return 0
	}
	return atomic.LoadInt32(&s.ptr.refCount)
}

// SetExtra marks the subtree as supplementary content.
func (m *MutableSubtree) SetExtra(extra bool) {
	if m.data.isInline {
		m.data.extra = extra
	} else {
		m.ptr.extra = extra
	}
}

// SetHasChanges marks the subtree as touched by an edit.
func (m *MutableSubtree) SetHasChanges(changed bool) {
	if m.data.isInline {
		m.data.hasChanges = changed
	} else {
		m.ptr.hasChanges = changed
	}
}

// SetSymbol reclassifies the subtree under a new symbol, refreshing the
// visibility flags from the grammar. Aggregates are not recomputed.
func (m *MutableSubtree) SetSymbol(sym Symbol, lang *Language) {
	metadata := lang.Metadata(sym)
	if m.data.isInline {
		m.data.symbol = uint8(sym)
		m.data.named = metadata.Named
		m.data.visible = metadata.Visible
	} else {
		m.ptr.symbol = sym
		m.ptr.named = metadata.Named
		m.ptr.visible = metadata.Visible
	}
}

// Compare orders two subtrees structurally: first by symbol, then by
// child count, then by children pairwise. The GLR driver uses it to
// deduplicate ambiguous stack versions.
func Compare(left, right Subtree) int {
	switch {
	case left.Symbol() < right.Symbol():
		return -1
	case left.Symbol() > right.Symbol():
		return 1
	case left.ChildCount() < right.ChildCount():
		return -1
	case left.ChildCount() > right.ChildCount():
		return 1
	}
	for i := uint32(0); i < left.ChildCount(); i++ {
		if result := Compare(left.ptr.children[i], right.ptr.children[i]); result != 0 {
			return result
		}
	}
	return 0
}

// Sizeof returns the total heap footprint of the subtree in bytes,
// counting each record, its children slice, and any separately-allocated
// scanner state buffer.
func (s Subtree) Sizeof() uint64 {
	if s.data.isInline || s.ptr == nil {
		return 0
	}
	var total uint64
	stack := []Subtree{s}
	for len(stack) > 0 {
		tree := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		total += uint64(unsafe.Sizeof(SubtreeHeapData{}))
		total += uint64(cap(tree.ptr.children)) * uint64(unsafe.Sizeof(Subtree{}))
		if tree.ptr.childCount == 0 && tree.ptr.hasExternalTokens {
			total += uint64(cap(tree.ptr.externalScannerState.longData))
		}
		for _, child := range tree.ptr.children {
			if !child.data.isInline && child.ptr != nil {
				stack = append(stack, child)
			}
		}
	}
	return total
}
