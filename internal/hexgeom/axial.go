// Package hexgeom implements axial/cube hex-grid coordinate math: distance,
// neighbours, rotation, and hexagon region iteration.
package hexgeom

// Axial is a point in axial hex-coordinate space. Kept as a small value
// type so it never needs heap allocation.
type Axial struct {
	Q, R int32
}

// ZeroAxial is the origin.
var ZeroAxial = Axial{0, 0}

// Neighbours holds the six unit vectors to adjacent hexes, in fixed order
// starting top-left and going counter-clockwise. The index of a vector in
// this array is its "edge index".
var Neighbours = [6]Axial{
	{1, 0},
	{1, -1},
	{0, -1},
	{-1, 0},
	{-1, 1},
	{0, 1},
}

func NewAxial(q, r int32) Axial { return Axial{Q: q, R: r} }

func (a Axial) Add(b Axial) Axial { return Axial{a.Q + b.Q, a.R + b.R} }
func (a Axial) Sub(b Axial) Axial { return Axial{a.Q - b.Q, a.R - b.R} }
func (a Axial) Mul(k int32) Axial { return Axial{a.Q * k, a.R * k} }

// Cube returns the equivalent cube coordinate (x, y, z) with x+y+z=0.
func (a Axial) Cube() (x, y, z int32) {
	x = a.Q
	z = a.R
	y = -x - z
	return
}

// CubeToAxial converts a cube coordinate back to axial, discarding y.
func CubeToAxial(x, _, z int32) Axial {
	return Axial{Q: x, R: z}
}

func absI32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// HexDistance returns the hex (Chebyshev-on-cube) distance between two
// axial points.
func (a Axial) HexDistance(b Axial) uint32 {
	ax, ay, az := a.Cube()
	bx, by, bz := b.Cube()
	dx := absI32(ax - bx)
	dy := absI32(ay - by)
	dz := absI32(az - bz)
	return uint32(maxI32(dx, maxI32(dy, dz)))
}

// HexNeighbour returns the i-th neighbour of a (i in [0,6)).
func (a Axial) HexNeighbour(i int) Axial {
	return a.Add(Neighbours[i])
}

// HexNeighbours returns all six neighbours of a, in edge-index order.
func (a Axial) HexNeighbours() [6]Axial {
	var out [6]Axial
	for i, n := range Neighbours {
		out[i] = a.Add(n)
	}
	return out
}

// NeighbourIndex returns the edge index of v if v is one of the six unit
// neighbour vectors, or (0, false) otherwise.
func NeighbourIndex(v Axial) (int, bool) {
	for i, n := range Neighbours {
		if n == v {
			return i, true
		}
	}
	return 0, false
}

// RotateRight rotates a point 60° clockwise around the origin.
func (a Axial) RotateRight() Axial {
	x, y, z := a.Cube()
	return CubeToAxial(-z, -x, -y)
}

// RotateLeft rotates a point 60° counter-clockwise around the origin.
func (a Axial) RotateLeft() Axial {
	x, y, z := a.Cube()
	return CubeToAxial(-y, -z, -x)
}

// RotateRightAround rotates a around an arbitrary center.
func (a Axial) RotateRightAround(center Axial) Axial {
	return a.Sub(center).RotateRight().Add(center)
}

// RotateLeftAround rotates a around an arbitrary center.
func (a Axial) RotateLeftAround(center Axial) Axial {
	return a.Sub(center).RotateLeft().Add(center)
}

// HexRound rounds a fractional axial coordinate (q, r) to the nearest valid
// hex, rounding in cube form.
func HexRound(q, r float64) Axial {
	x := q
	z := r
	y := -x - z

	rx := roundF(x)
	ry := roundF(y)
	rz := roundF(z)

	dx := absF(rx - x)
	dy := absF(ry - y)
	dz := absF(rz - z)

	if dx > dy && dx > dz {
		rx = -ry - rz
	} else if dy > dz {
		ry = -rx - rz
	} else {
		rz = -rx - ry
	}
	return CubeToAxial(int32(rx), int32(ry), int32(rz))
}

func roundF(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
