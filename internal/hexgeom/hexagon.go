package hexgeom

// Hexagon is a hex-shaped region: a center point plus an integer radius.
type Hexagon struct {
	Center Axial
	Radius int32
}

func NewHexagon(center Axial, radius int32) Hexagon {
	return Hexagon{Center: center, Radius: radius}
}

// Contains reports whether p lies inside the hexagon (inclusive of the edge).
func (h Hexagon) Contains(p Axial) bool {
	return h.Center.HexDistance(p) <= uint32(h.Radius)
}

// IterPoints calls visit once for every point interior to the hexagon,
// each point visited exactly once.
func (h Hexagon) IterPoints(visit func(Axial)) {
	for dq := -h.Radius; dq <= h.Radius; dq++ {
		rMin := maxI32(-h.Radius, -dq-h.Radius)
		rMax := minI32(h.Radius, -dq+h.Radius)
		for dr := rMin; dr <= rMax; dr++ {
			visit(Axial{Q: h.Center.Q + dq, R: h.Center.R + dr})
		}
	}
}

// Points returns all interior points as a slice.
func (h Hexagon) Points() []Axial {
	out := make([]Axial, 0, Diameter(h.Radius)*Diameter(h.Radius))
	h.IterPoints(func(a Axial) { out = append(out, a) })
	return out
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

// Diameter returns 2r+1, the side length of the bounding square of a
// hex region of the given radius.
func Diameter(radius int32) int {
	return int(2*radius + 1)
}

// EdgeTile is one tile on a hexagon's boundary edge, identified by its
// distance along the edge from the edge's starting corner.
type EdgeTile struct {
	Pos   Axial
	Index int
}

// IterEdge enumerates the tiles lying on the hexagon's boundary edge in
// direction dir (an edge index in [0,6)), starting offsetStart tiles in
// from one corner and stopping offsetEnd tiles before the other, so it
// yields exactly radius - offsetStart - offsetEnd tiles. This is the set
// of "bridge" tiles a RoomConnection describes.
func IterEdge(center Axial, radius int32, dir int, offsetStart, offsetEnd int32) ([]Axial, error) {
	count := radius - offsetStart - offsetEnd
	if count <= 0 {
		return nil, ErrEmptyEdge
	}
	// The edge starts at the corner center + Neighbours[dir]*radius and
	// runs along Neighbours[(dir+2)%6], towards the corner
	// center + Neighbours[(dir+1)%6]*radius.
	corner := center.Add(Neighbours[dir].Mul(radius))
	along := Neighbours[(dir+2)%6]

	out := make([]Axial, 0, count)
	for i := int32(0); i < count; i++ {
		step := offsetStart + i
		out = append(out, corner.Add(along.Mul(step)))
	}
	return out, nil
}

// ErrEmptyEdge is returned by IterEdge when the offsets consume the whole edge.
var ErrEmptyEdge = errEmptyEdgeT{}

type errEmptyEdgeT struct{}

func (errEmptyEdgeT) Error() string { return "hexgeom: edge has no tiles after offsets" }
