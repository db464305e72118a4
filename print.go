package subtree

import (
	"fmt"
	"io"
	"strings"
)

// Sexp renders the subtree as an s-expression. With includeAll false,
// only visible named nodes appear, matching the shape queries operate
// on; with includeAll true, every node is shown.
func (s Subtree) Sexp(lang *Language, includeAll bool) string {
	var b strings.Builder
	writeSexp(&b, s, lang, includeAll, 0, true)
	return b.String()
}

func writeSexp(b *strings.Builder, s Subtree, lang *Language, includeAll bool, alias Symbol, isRoot bool) {
	if s.IsNull() {
		return
	}

	visible := includeAll || s.Missing()
	if !visible {
		if alias != 0 {
			visible = lang.Metadata(alias).Named
		} else {
			visible = s.Visible() && s.Named()
		}
	}

	if visible {
		if !isRoot {
			b.WriteByte(' ')
		}
		switch {
		case s.IsError() && s.ChildCount() == 0 && s.LookaheadChar() != 0:
			fmt.Fprintf(b, "(UNEXPECTED %q", s.LookaheadChar())
		case s.Missing():
			b.WriteString("(MISSING ")
			sym := s.Symbol()
			if alias != 0 {
				sym = alias
			}
			if lang.Metadata(sym).Named {
				b.WriteString(lang.SymbolName(sym))
			} else {
				fmt.Fprintf(b, "%q", lang.SymbolName(sym))
			}
		default:
			sym := s.Symbol()
			if alias != 0 {
				sym = alias
			}
			fmt.Fprintf(b, "(%s", lang.SymbolName(sym))
		}
	}

	if s.ChildCount() > 0 {
		aliases := lang.AliasSequence(s.ProductionID())
		structuralIndex := 0
		for _, child := range s.Children() {
			var childAlias Symbol
			if !child.Extra() && structuralIndex < len(aliases) {
				childAlias = aliases[structuralIndex]
			}
			writeSexp(b, child, lang, includeAll, childAlias, false)
			if !child.Extra() {
				structuralIndex++
			}
		}
	}

	if visible {
		b.WriteByte(')')
	}
}

// dotWriter tracks the first write error and hands out node IDs.
type dotWriter struct {
	w      io.Writer
	err    error
	nextID int
}

func (d *dotWriter) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

// WriteDotGraph writes a Graphviz rendering of the subtree: one node
// per subtree with its symbol, byte range, and bookkeeping fields, and
// one edge per child. A write-only diagnostic view.
func (s Subtree) WriteDotGraph(w io.Writer, lang *Language) error {
	d := &dotWriter{w: w}
	d.printf("digraph tree {\n")
	d.printf("edge [arrowhead=none]\n")
	writeDotNode(d, s, lang, 0)
	d.printf("}\n")
	return d.err
}

func writeDotNode(d *dotWriter, s Subtree, lang *Language, startByte uint32) int {
	id := d.nextID
	d.nextID++

	contentStart := startByte + s.Padding().Bytes
	contentEnd := startByte + s.TotalBytes()
	d.printf("tree_%d [label=%q", id, lang.SymbolName(s.Symbol()))
	if !s.Visible() {
		d.printf(", fontcolor=gray")
	}
	d.printf(", tooltip=%q]\n", fmt.Sprintf(
		"range: %d - %d\nstate: %d\nerror-cost: %d\nhas-changes: %t\nrepeat-depth: %d\nlookahead-bytes: %d",
		contentStart, contentEnd,
		s.ParseState(), s.ErrorCost(), s.HasChanges(),
		s.RepeatDepth(), s.LookaheadBytes(),
	))

	childStart := startByte
	for i, child := range s.Children() {
		childID := writeDotNode(d, child, lang, childStart)
		d.printf("tree_%d -> tree_%d [tooltip=%d]\n", id, childID, i)
		childStart += child.TotalBytes()
	}
	return id
}
