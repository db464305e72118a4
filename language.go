package subtree

// Symbol is a grammar symbol ID (terminal or nonterminal).
type Symbol uint16

// StateID is a parser state index.
type StateID uint16

// Reserved symbol and state values shared by every grammar.
const (
	// SymbolEnd marks the end-of-input token.
	SymbolEnd Symbol = 0
	// SymbolError is the symbol of error subtrees produced by recovery.
	SymbolError Symbol = 0xFFFF
	// SymbolErrorRepeat wraps runs of skipped content during recovery.
	SymbolErrorRepeat Symbol = 0xFFFE
	// StateNone marks a subtree whose parse state is no longer meaningful.
	StateNone StateID = 0xFFFF
)

// SymbolMetadata describes how a grammar symbol appears in the tree.
type SymbolMetadata struct {
	Name    string
	Visible bool
	Named   bool
}

// Language supplies the grammar metadata this layer consults during
// construction: symbol visibility and named-ness, production alias
// sequences, and per-production dynamic precedence. The parse and lex
// tables live with the parser, not here.
type Language struct {
	Name string

	// SymbolMetadata is indexed by Symbol.
	SymbolMetadata []SymbolMetadata

	// AliasSequences maps a production ID to the alias symbol for each
	// structural (non-extra) child index; 0 means no alias.
	AliasSequences [][]Symbol

	// ProductionPrecedences maps a production ID to its grammar-assigned
	// dynamic precedence; missing entries mean 0.
	ProductionPrecedences []int32
}

// Metadata returns the metadata for a symbol. The reserved error symbol
// is always visible and named; the error-repeat symbol is neither.
func (l *Language) Metadata(sym Symbol) SymbolMetadata {
	switch sym {
	case SymbolError:
		return SymbolMetadata{Name: "ERROR", Visible: true, Named: true}
	case SymbolErrorRepeat:
		return SymbolMetadata{Name: "_ERROR", Visible: false, Named: false}
	}
	if int(sym) < len(l.SymbolMetadata) {
		return l.SymbolMetadata[sym]
	}
	return SymbolMetadata{}
}

// SymbolName returns the display name for a symbol.
func (l *Language) SymbolName(sym Symbol) string {
	if sym == SymbolEnd {
		return "end"
	}
	return l.Metadata(sym).Name
}

// AliasSequence returns the alias sequence for a production, or nil if
// the production has no aliases.
func (l *Language) AliasSequence(productionID uint16) []Symbol {
	if int(productionID) < len(l.AliasSequences) {
		return l.AliasSequences[productionID]
	}
	return nil
}

// ProductionPrecedence returns the dynamic precedence assigned to a
// production by the grammar.
func (l *Language) ProductionPrecedence(productionID uint16) int32 {
	if int(productionID) < len(l.ProductionPrecedences) {
		return l.ProductionPrecedences[productionID]
	}
	return 0
}
