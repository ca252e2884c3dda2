// Package spatial implements the two spatial index structures the world
// store builds on: a dense per-room hex grid and a sparse Morton-ordered
// table keyed by axial coordinate.
package spatial

import (
	"fmt"

	"github.com/caolo-go/sim/internal/hexgeom"
)

// OutOfBoundsError is returned by HexGrid.Insert when pos falls outside
// the grid's bounding hexagon.
type OutOfBoundsError struct {
	Pos    hexgeom.Axial
	Bounds hexgeom.Hexagon
}

func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("spatial: position %v out of bounds %v", e.Pos, e.Bounds)
}

// HexGrid is a dense array-backed table over a single room's hex disc,
// always centered on the origin. Index math mirrors the teacher's
// generation-counter style, trading memory for O(1) access.
type HexGrid[T any] struct {
	bounds hexgeom.Hexagon
	values []T
	set    []bool
}

// NewHexGrid allocates a grid covering a hex disc of the given radius.
func NewHexGrid[T any](radius int32) *HexGrid[T] {
	d := hexgeom.Diameter(radius)
	return &HexGrid[T]{
		bounds: hexgeom.Hexagon{Center: hexgeom.ZeroAxial, Radius: radius},
		values: make([]T, d*d),
		set:    make([]bool, d*d),
	}
}

func (g *HexGrid[T]) Bounds() hexgeom.Hexagon { return g.bounds }

// index maps a point inside the grid's bounding square into a dense row index.
func (g *HexGrid[T]) index(pos hexgeom.Axial) (int, bool) {
	r := g.bounds.Radius
	d := int32(hexgeom.Diameter(r))
	q := pos.Q + r
	rr := pos.R + r
	if q < 0 || q >= d || rr < 0 || rr >= d {
		return 0, false
	}
	return int(rr*d + q), true
}

// ContainsKey reports whether pos is within the grid's bounding square.
// Note this is the same bounds check used for indexing, not a hex-disc
// check — callers that need the latter should consult Bounds().Contains.
func (g *HexGrid[T]) ContainsKey(pos hexgeom.Axial) bool {
	_, ok := g.index(pos)
	return ok
}

// At returns the value stored at pos, if any.
func (g *HexGrid[T]) At(pos hexgeom.Axial) (T, bool) {
	var zero T
	idx, ok := g.index(pos)
	if !ok || !g.set[idx] {
		return zero, false
	}
	return g.values[idx], true
}

// Insert stores val at pos, returning the previously stored value if any.
func (g *HexGrid[T]) Insert(pos hexgeom.Axial, val T) (T, error) {
	var old T
	idx, ok := g.index(pos)
	if !ok {
		return old, OutOfBoundsError{Pos: pos, Bounds: g.bounds}
	}
	if g.set[idx] {
		old = g.values[idx]
	}
	g.values[idx] = val
	g.set[idx] = true
	return old, nil
}

// Remove clears any value stored at pos.
func (g *HexGrid[T]) Remove(pos hexgeom.Axial) {
	if idx, ok := g.index(pos); ok {
		var zero T
		g.values[idx] = zero
		g.set[idx] = false
	}
}

// GetUnchecked returns the value at pos without bounds checking. Callers
// must have already established ContainsKey(pos) == true.
func (g *HexGrid[T]) GetUnchecked(pos hexgeom.Axial) T {
	idx, _ := g.index(pos)
	return g.values[idx]
}

// QueryHex visits every present tile inside region.
func (g *HexGrid[T]) QueryHex(region hexgeom.Hexagon, op func(hexgeom.Axial, T)) {
	region.IterPoints(func(p hexgeom.Axial) {
		if v, ok := g.At(p); ok {
			op(p, v)
		}
	})
}

// Merge combines a with b (which must share the same radius) using
// combine to resolve cells present in both grids; cells present in only
// one grid pass through unchanged.
func Merge[T any](a, b *HexGrid[T], combine func(T, T) T) (*HexGrid[T], error) {
	if a.bounds.Radius != b.bounds.Radius {
		return nil, fmt.Errorf("spatial: cannot merge grids of radius %d and %d", a.bounds.Radius, b.bounds.Radius)
	}
	out := NewHexGrid[T](a.bounds.Radius)
	for i := range a.values {
		switch {
		case a.set[i] && b.set[i]:
			out.values[i] = combine(a.values[i], b.values[i])
			out.set[i] = true
		case a.set[i]:
			out.values[i] = a.values[i]
			out.set[i] = true
		case b.set[i]:
			out.values[i] = b.values[i]
			out.set[i] = true
		}
	}
	return out, nil
}
