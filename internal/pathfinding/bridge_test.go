package pathfinding

import (
	"testing"

	"github.com/caolo-go/sim/internal/hexgeom"
)

func TestMirrorPositionRoundTrip(t *testing.T) {
	center := hexgeom.ZeroAxial
	radius := int32(5)

	hexgeom.Hexagon{Center: center, Radius: radius}.IterPoints(func(p hexgeom.Axial) {
		if p == center {
			return
		}
		m, err := mirrorPosition(p, center)
		if err != nil {
			// corner: skip, mirror is undefined there.
			return
		}
		back, err := mirrorPosition(m, center)
		if err != nil {
			t.Fatalf("mirror of %v (-> %v) should round-trip, got error: %v", p, m, err)
		}
		if back != p {
			t.Fatalf("mirror of mirror of %v = %v, want %v", p, back, p)
		}
	})
}

func TestMirrorPositionOfBridgeTileIsBijective(t *testing.T) {
	center := hexgeom.ZeroAxial
	radius := int32(4)
	tiles, err := hexgeom.IterEdge(center, radius, 0, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := make(map[hexgeom.Axial]bool, len(tiles))
	for _, tile := range tiles {
		m, err := mirrorPosition(tile, center)
		if err != nil {
			continue
		}
		if seen[m] {
			t.Fatalf("mirror of distinct bridge tiles collided at %v", m)
		}
		seen[m] = true
	}
}
