// Package subtree implements the tree representation layer of an
// incremental parser: compact syntax-tree nodes, their reference-counted
// lifecycle, and the edit/balance operations that let a parser reuse
// unchanged parts of a tree after a source edit.
package subtree

// Point is a row/column position in source text.
type Point struct {
	Row    uint32
	Column uint32
}

// Add combines two position deltas. If the second delta spans a row
// boundary, its column becomes absolute within the new row.
func (p Point) Add(other Point) Point {
	if other.Row > 0 {
		return Point{Row: p.Row + other.Row, Column: other.Column}
	}
	return Point{Row: p.Row, Column: p.Column + other.Column}
}

// Sub computes the delta from other to p. Callers must ensure p >= other.
func (p Point) Sub(other Point) Point {
	if p.Row > other.Row {
		return Point{Row: p.Row - other.Row, Column: p.Column}
	}
	return Point{Row: 0, Column: p.Column - other.Column}
}

// Less reports whether p comes before other in the source text.
func (p Point) Less(other Point) bool {
	return p.Row < other.Row || (p.Row == other.Row && p.Column < other.Column)
}

// Length is a span of source text measured both in bytes and in
// rows/columns. Subtrees store their padding and size as Lengths.
type Length struct {
	Bytes  uint32
	Extent Point
}

// LengthZero returns the empty length.
func LengthZero() Length { return Length{} }

// Add returns the concatenation of two lengths.
func (l Length) Add(other Length) Length {
	return Length{
		Bytes:  l.Bytes + other.Bytes,
		Extent: l.Extent.Add(other.Extent),
	}
}

// Sub returns the length remaining after removing other from the front
// of l. Callers must ensure l >= other.
func (l Length) Sub(other Length) Length {
	return Length{
		Bytes:  l.Bytes - other.Bytes,
		Extent: l.Extent.Sub(other.Extent),
	}
}
