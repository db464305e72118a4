package subtree

// canInline reports whether a leaf's geometry fits the compact
// representation. The inline record stores a single byte count for its
// content, so the column extent must equal the byte count exactly; a
// multibyte token goes to the heap.
func canInline(padding, size Length, lookaheadBytes uint32) bool {
	return padding.Bytes <= maxInlineBytes &&
		padding.Extent.Row <= maxInlineRows &&
		padding.Extent.Column <= maxInlineBytes &&
		size.Extent.Row == 0 &&
		size.Extent.Column == size.Bytes &&
		size.Bytes <= maxInlineBytes &&
		lookaheadBytes <= maxInlineLookahead
}

// NewLeaf creates a leaf subtree for a token the lexer produced. Small
// ordinary tokens come back inline with no allocation; external tokens,
// column-dependent tokens, and large geometry force a heap record.
func (p *SubtreePool) NewLeaf(
	sym Symbol,
	padding, size Length,
	lookaheadBytes uint32,
	parseState StateID,
	hasExternalTokens bool,
	dependsOnColumn bool,
	isKeyword bool,
	lang *Language,
) Subtree {
	metadata := lang.Metadata(sym)
	extra := sym == SymbolEnd

	if sym <= maxInlineSymbol &&
		!hasExternalTokens &&
		!dependsOnColumn &&
		canInline(padding, size, lookaheadBytes) {
		return Subtree{data: SubtreeInlineData{
			isInline:       true,
			symbol:         uint8(sym),
			parseState:     parseState,
			paddingBytes:   uint8(padding.Bytes),
			paddingRows:    uint8(padding.Extent.Row),
			paddingColumns: uint8(padding.Extent.Column),
			sizeBytes:      uint8(size.Bytes),
			lookaheadBytes: uint8(lookaheadBytes),
			visible:        metadata.Visible,
			named:          metadata.Named,
			extra:          extra,
			isKeyword:      isKeyword,
		}}
	}

	data := p.allocate()
	data.refCount = 1
	data.padding = padding
	data.size = size
	data.lookaheadBytes = lookaheadBytes
	data.symbol = sym
	data.parseState = parseState
	data.visible = metadata.Visible
	data.named = metadata.Named
	data.extra = extra
	data.hasExternalTokens = hasExternalTokens
	data.dependsOnColumn = dependsOnColumn
	data.isKeyword = isKeyword
	return Subtree{ptr: data}
}

// NewError creates an error leaf recording the lookahead character that
// could not be parsed. Error leaves are always heap-allocated and
// fragile on both sides.
func (p *SubtreePool) NewError(
	lookaheadChar rune,
	padding, size Length,
	bytesScanned uint32,
	parseState StateID,
	lang *Language,
) Subtree {
	result := p.NewLeaf(
		SymbolError, padding, size, bytesScanned,
		parseState, false, false, false, lang,
	)
	result.ptr.fragileLeft = true
	result.ptr.fragileRight = true
	result.ptr.lookaheadChar = lookaheadChar
	return result
}

// NewMissingLeaf creates a zero-size leaf standing in for a token that
// error recovery inferred but that is absent from the source.
func (p *SubtreePool) NewMissingLeaf(
	sym Symbol,
	padding Length,
	lookaheadBytes uint32,
	parseState StateID,
	lang *Language,
) Subtree {
	result := p.NewLeaf(
		sym, padding, LengthZero(), lookaheadBytes,
		parseState, false, false, false, lang,
	)
	if result.data.isInline {
		result.data.isMissing = true
	} else {
		result.ptr.isMissing = true
	}
	return result
}

// NewNode creates an internal node from an array of children, taking
// ownership of their references, and computes all child-derived
// aggregates in one pass. The children array is consumed.
func NewNode(sym Symbol, children *SubtreeArray, productionID uint16, lang *Language) MutableSubtree {
	metadata := lang.Metadata(sym)
	fragile := sym == SymbolError || sym == SymbolErrorRepeat

	data := &SubtreeHeapData{
		refCount:     1,
		symbol:       sym,
		childCount:   uint32(len(*children)),
		visible:      metadata.Visible,
		named:        metadata.Named,
		fragileLeft:  fragile,
		fragileRight: fragile,
		productionID: productionID,
		children:     []Subtree(*children),
	}
	*children = nil

	result := MutableSubtree{ptr: data}
	result.SummarizeChildren(lang)
	return result
}

// NewErrorNode wraps unparseable children under the reserved error
// symbol. extra marks the node as supplementary rather than structural.
func NewErrorNode(children *SubtreeArray, extra bool, lang *Language) Subtree {
	result := NewNode(SymbolError, children, 0, lang)
	result.ptr.extra = extra
	return result.Subtree()
}

// SummarizeChildren recomputes every child-derived aggregate from the
// node's current children array. Used after children are spliced in
// place of full reconstruction.
func (m MutableSubtree) SummarizeChildren(lang *Language) {
	m.Summarize(m.ptr.children, lang)
}

// Summarize recomputes the node's aggregates from an explicit children
// slice, which lets the parser evaluate a speculative splice before
// committing it.
func (m MutableSubtree) Summarize(children []Subtree, lang *Language) {
	self := m.ptr
	self.padding = LengthZero()
	self.size = LengthZero()
	self.namedChildCount = 0
	self.visibleChildCount = 0
	self.errorCost = 0
	self.repeatDepth = 0
	self.nodeCount = 1
	self.hasExternalTokens = false
	self.dependsOnColumn = false
	self.hasExternalScannerStateChange = false
	self.dynamicPrecedence = lang.ProductionPrecedence(self.productionID)

	structuralIndex := 0
	aliases := lang.AliasSequence(self.productionID)
	lookaheadEndByte := uint32(0)

	for i, child := range children {
		if self.size.Extent.Row == 0 && child.DependsOnColumn() {
			self.dependsOnColumn = true
		}
		if child.HasExternalScannerStateChange() {
			self.hasExternalScannerStateChange = true
		}

		if i == 0 {
			self.padding = child.Padding()
			self.size = child.Size()
		} else {
			self.size = self.size.Add(child.TotalSize())
		}

		childLookaheadEnd := self.padding.Bytes + self.size.Bytes + child.LookaheadBytes()
		if childLookaheadEnd > lookaheadEndByte {
			lookaheadEndByte = childLookaheadEnd
		}

		if child.Symbol() != SymbolErrorRepeat {
			self.errorCost += child.ErrorCost()
		}

		grandchildCount := child.ChildCount()
		if self.symbol == SymbolError || self.symbol == SymbolErrorRepeat {
			if !child.Extra() && !(child.IsError() && grandchildCount == 0) {
				if child.Visible() {
					self.errorCost += ErrorCostPerSkippedTree
				} else if grandchildCount > 0 {
					self.errorCost += ErrorCostPerSkippedTree * child.ptr.visibleChildCount
				}
			}
		}

		if prec := child.DynamicPrecedence(); prec > self.dynamicPrecedence {
			self.dynamicPrecedence = prec
		}
		self.nodeCount += child.NodeCount()

		var alias Symbol
		if structuralIndex < len(aliases) && !child.Extra() {
			alias = aliases[structuralIndex]
		}
		if alias != 0 {
			self.visibleChildCount++
			if lang.Metadata(alias).Named {
				self.namedChildCount++
			}
		} else if child.Visible() {
			self.visibleChildCount++
			if child.Named() {
				self.namedChildCount++
			}
		} else if grandchildCount > 0 {
			self.visibleChildCount += child.ptr.visibleChildCount
			self.namedChildCount += child.ptr.namedChildCount
		}

		if child.HasExternalTokens() {
			self.hasExternalTokens = true
		}

		if child.IsError() {
			self.fragileLeft = true
			self.fragileRight = true
			self.parseState = StateNone
		}

		if !child.Extra() {
			structuralIndex++
		}
	}

	self.lookaheadBytes = lookaheadEndByte - self.size.Bytes - self.padding.Bytes

	if self.symbol == SymbolError || self.symbol == SymbolErrorRepeat {
		self.errorCost += ErrorCostPerRecovery +
			ErrorCostPerSkippedChar*self.size.Bytes +
			ErrorCostPerSkippedLine*self.size.Extent.Row
	}

	if len(children) > 0 {
		first := children[0]
		last := children[len(children)-1]

		self.firstLeafSymbol = first.LeafSymbol()
		self.firstLeafState = first.LeafParseState()

		if first.FragileLeft() {
			self.fragileLeft = true
		}
		if last.FragileRight() {
			self.fragileRight = true
		}

		if len(children) >= 2 &&
			!self.visible && !self.named &&
			first.Symbol() == self.symbol {
			self.repeatDepth = uint16(first.RepeatDepth()) + 1
		}
	}
}
