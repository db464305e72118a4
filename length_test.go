package subtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointArithmetic(t *testing.T) {
	// Adding within a row advances the column; adding across rows takes
	// the right-hand column.
	assert.Equal(t, Point{Row: 1, Column: 8}, Point{Row: 1, Column: 5}.Add(Point{Row: 0, Column: 3}))
	assert.Equal(t, Point{Row: 3, Column: 7}, Point{Row: 1, Column: 5}.Add(Point{Row: 2, Column: 7}))

	// Subtracting on the same row removes columns; across rows the
	// left-hand column survives.
	assert.Equal(t, Point{Row: 0, Column: 2}, Point{Row: 1, Column: 5}.Sub(Point{Row: 1, Column: 3}))
	assert.Equal(t, Point{Row: 2, Column: 7}, Point{Row: 3, Column: 7}.Sub(Point{Row: 1, Column: 5}))
}

func TestPointLess(t *testing.T) {
	assert.True(t, Point{Row: 1, Column: 9}.Less(Point{Row: 2, Column: 0}))
	assert.True(t, Point{Row: 2, Column: 3}.Less(Point{Row: 2, Column: 4}))
	assert.False(t, Point{Row: 2, Column: 4}.Less(Point{Row: 2, Column: 4}))
	assert.False(t, Point{Row: 3, Column: 0}.Less(Point{Row: 2, Column: 9}))
}

func TestLengthArithmetic(t *testing.T) {
	a := Length{Bytes: 10, Extent: Point{Row: 1, Column: 4}}
	b := Length{Bytes: 3, Extent: Point{Row: 0, Column: 3}}

	sum := a.Add(b)
	assert.Equal(t, uint32(13), sum.Bytes)
	assert.Equal(t, Point{Row: 1, Column: 7}, sum.Extent)

	// Sub removes a leading span, so taking the first operand back off
	// the front leaves the second.
	assert.Equal(t, b, sum.Sub(a))

	assert.Equal(t, uint32(0), LengthZero().Bytes)
	assert.Equal(t, Point{}, LengthZero().Extent)
}
