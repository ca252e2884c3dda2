package pathfinding

import (
	"sort"

	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/world"
)

// mirrorPosition reflects pos across the room boundary at center: translate
// to the origin, convert to cube coordinates, find the axis of maximum
// absolute value, swap the other two axes and negate all three, convert
// back and translate home (spec.md §4.6). A position where two axes share
// the largest absolute value (a room corner, or the center, or a tile on
// the line between them) has no single max axis; the reflection is
// undefined there and InvalidPos is returned.
func mirrorPosition(pos, center hexgeom.Axial) (hexgeom.Axial, error) {
	local := pos.Sub(center)
	x, y, z := local.Cube()

	ax, ay, az := absI64(int64(x)), absI64(int64(y)), absI64(int64(z))
	var mx, my, mz int32
	switch {
	case ax > ay && ax > az:
		mx, my, mz = -x, -z, -y
	case ay > ax && ay > az:
		mx, my, mz = -z, -y, -x
	case az > ax && az > ay:
		mx, my, mz = -y, -x, -z
	default:
		return hexgeom.ZeroAxial, newTransitErr(TransitInvalidPos, "position is a room corner")
	}

	return hexgeom.CubeToAxial(mx, my, mz).Add(center), nil
}

func absI64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// MaxTransitCandidates bounds the result of ResolveBridgeTransit.
const MaxTransitCandidates = 3

// ResolveBridgeTransit finds where a bot standing on a bridge tile of room
// should step to land in the neighbouring room: the mirror of its current
// tile across the boundary, then up to three empty tiles of the neighbouring
// room's bridge back towards room within hex distance 1 of that mirror
// point, closest first.
func ResolveBridgeTransit(w *world.World, room world.RoomID, pos hexgeom.Axial, mover world.EntityID) ([]hexgeom.Axial, error) {
	mirror, err := mirrorPosition(pos, w.RoomProps.Center)
	if err != nil {
		return nil, err
	}

	neighbourRoom, _, ok := connectionTowards(w, room, pos)
	if !ok {
		return nil, newTransitErr(TransitInvalidRoom, "tile is not on a connected bridge edge")
	}
	farConns, ok := w.RoomConnections.Get(neighbourRoom)
	if !ok {
		return nil, newTransitErr(TransitInvalidRoom, "neighbour room has no connections")
	}
	farEdge := edgeIndexOf(neighbourRoom, room)
	farConn := farConns.Edges[farEdge]
	if farConn == nil {
		return nil, newTransitErr(TransitInvalidRoom, "neighbour room has no bridge back on this edge")
	}

	tiles, err := hexgeom.IterEdge(w.RoomProps.Center, w.RoomProps.Radius,
		farEdge, farConn.OffsetStart, farConn.OffsetEnd)
	if err != nil {
		return nil, newTransitErr(TransitNotFound, err.Error())
	}

	var candidates []hexgeom.Axial
	for _, t := range tiles {
		if t.HexDistance(mirror) > 1 {
			continue
		}
		wp := world.WorldPosition{Room: neighbourRoom, Pos: t}
		if _, occupied := w.EntityByWorldPosition.Get(wp); occupied {
			continue
		}
		candidates = append(candidates, t)
	}
	if len(candidates) == 0 {
		return nil, newTransitErr(TransitNotFound, "no empty bridge tile near mirror position")
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].HexDistance(mirror) < candidates[j].HexDistance(mirror)
	})
	if len(candidates) > MaxTransitCandidates {
		candidates = candidates[:MaxTransitCandidates]
	}
	return candidates, nil
}

// connectionTowards finds the edge index and RoomConnection whose bridge
// tiles contain pos, returning the room on the far side.
func connectionTowards(w *world.World, room world.RoomID, pos hexgeom.Axial) (world.RoomID, *world.RoomConnection, bool) {
	conns, ok := w.RoomConnections.Get(room)
	if !ok {
		return hexgeom.ZeroAxial, nil, false
	}
	for i, c := range conns.Edges {
		if c == nil {
			continue
		}
		tiles, err := hexgeom.IterEdge(w.RoomProps.Center, w.RoomProps.Radius, i, c.OffsetStart, c.OffsetEnd)
		if err != nil {
			continue
		}
		for _, t := range tiles {
			if t == pos {
				return room.HexNeighbour(i), c, true
			}
		}
	}
	return hexgeom.ZeroAxial, nil, false
}

// edgeIndexOf returns the edge index on room pointing towards neighbour.
func edgeIndexOf(room, neighbour hexgeom.Axial) int {
	i, _ := hexgeom.NeighbourIndex(neighbour.Sub(room))
	return i
}
