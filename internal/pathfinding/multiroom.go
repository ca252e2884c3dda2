package pathfinding

import (
	"sort"

	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/world"
)

// MultiRoomResult is what FindPathMultiRoom hands back to the host API: a
// path to follow this tick, expressed the same "next step last" way as
// FindPathInRoom, plus whether the mover already stands on a bridge tile
// bound for the target room (in which case the caller should consult
// ResolveBridgeTransit instead of walking further).
type MultiRoomResult struct {
	Path     []hexgeom.Axial
	OnBridge bool
	NextRoom world.RoomID
}

// FindPathMultiRoom implements spec.md §4.6's multi-room routing: find the
// next room via overworld A*, enumerate that room's bridge tiles, and
// either confirm the mover is already on one or path to the closest empty
// one.
func FindPathMultiRoom(w *world.World, from world.WorldPosition, to world.RoomID, mover world.EntityID, budget int) (*MultiRoomResult, error) {
	nextRoom, err := FindNextRoom(w, from.Room, to, budget)
	if err != nil {
		return nil, err
	}

	conns, ok := w.RoomConnections.Get(from.Room)
	if !ok {
		return nil, newErr(ErrEdgeNotExists, "room has no connections")
	}
	edge, ok := hexgeom.NeighbourIndex(nextRoom.Sub(from.Room))
	if !ok {
		return nil, newErr(ErrEdgeNotExists, "next room is not adjacent")
	}
	conn := conns.Edges[edge]
	if conn == nil {
		return nil, newErr(ErrEdgeNotExists, "no connection on that edge")
	}

	tiles, err := hexgeom.IterEdge(w.RoomProps.Center, w.RoomProps.Radius, edge, conn.OffsetStart, conn.OffsetEnd)
	if err != nil {
		return nil, newErr(ErrEdgeNotExists, err.Error())
	}

	for _, t := range tiles {
		if t == from.Pos {
			return &MultiRoomResult{OnBridge: true, NextRoom: nextRoom}, nil
		}
	}

	type candidate struct {
		pos  hexgeom.Axial
		dist uint32
	}
	var candidates []candidate
	for _, t := range tiles {
		wp := world.WorldPosition{Room: from.Room, Pos: t}
		if _, occupied := w.EntityByWorldPosition.Get(wp); occupied {
			continue
		}
		candidates = append(candidates, candidate{pos: t, dist: from.Pos.HexDistance(t)})
	}
	if len(candidates) == 0 {
		return nil, newErr(ErrUnreachable, "no empty bridge tile on the way to next room")
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })

	var lastErr error
	for _, c := range candidates {
		path, err := FindPathInRoom(w, from.Room, from.Pos, c.pos, 0, mover, budget)
		if err != nil {
			lastErr = err
			continue
		}
		return &MultiRoomResult{Path: path, NextRoom: nextRoom}, nil
	}
	return nil, lastErr
}
