package spatial

import (
	"testing"

	"github.com/caolo-go/sim/internal/hexgeom"
)

func TestMortonKeyRoundTrip(t *testing.T) {
	cases := []struct{ x, y uint16 }{
		{0, 0}, {1, 0}, {0, 1}, {42, 69}, {0xffff, 0xffff}, {1234, 5678},
	}
	for _, c := range cases {
		k := NewMortonKey(c.x, c.y)
		x, y := k.AsPoint()
		if x != c.x || y != c.y {
			t.Fatalf("round trip (%d,%d): got (%d,%d)", c.x, c.y, x, y)
		}
	}
}

func TestMortonTableInsertGetRemove(t *testing.T) {
	tbl := NewMortonTable[string]()
	pts := []hexgeom.Axial{{Q: 0, R: 0}, {Q: 5, R: 5}, {Q: 2, R: 9}, {Q: 100, R: 3}}
	for i, p := range pts {
		tbl.Insert(p, string(rune('a'+i)))
	}
	if tbl.Len() != len(pts) {
		t.Fatalf("len = %d, want %d", tbl.Len(), len(pts))
	}
	for i, p := range pts {
		v, ok := tbl.Get(p)
		if !ok || v != string(rune('a'+i)) {
			t.Fatalf("Get(%v) = (%q, %v)", p, v, ok)
		}
	}
	tbl.Remove(pts[1])
	if tbl.ContainsKey(pts[1]) {
		t.Fatalf("expected %v removed", pts[1])
	}
	if tbl.Len() != len(pts)-1 {
		t.Fatalf("len after remove = %d, want %d", tbl.Len(), len(pts)-1)
	}
	// remaining points still resolve correctly after the swap-remove.
	for i, p := range pts {
		if i == 1 {
			continue
		}
		v, ok := tbl.Get(p)
		if !ok || v != string(rune('a'+i)) {
			t.Fatalf("after remove, Get(%v) = (%q, %v)", p, v, ok)
		}
	}
}

func TestMortonTableFindByRange(t *testing.T) {
	tbl := NewMortonTable[int]()
	center := hexgeom.Axial{Q: 50, R: 50}
	tbl.Insert(center, 0)
	for i, n := range center.HexNeighbours() {
		tbl.Insert(n, i+1)
	}
	tbl.Insert(hexgeom.Axial{Q: 0, R: 0}, -1) // far away

	found := make(map[hexgeom.Axial]int)
	tbl.FindByRange(center, 1, func(p hexgeom.Axial, v int) {
		found[p] = v
	})
	if len(found) != 7 {
		t.Fatalf("found %d points within radius 1, want 7", len(found))
	}
	if _, ok := found[hexgeom.Axial{Q: 0, R: 0}]; ok {
		t.Fatalf("far point unexpectedly included")
	}
}
