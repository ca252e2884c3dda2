package pathfinding

import (
	"container/heap"

	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/world"
)

// FindPathInRoom runs A* within a single room. Passable tiles are Plain or
// Bridge terrain not occupied by another entity; the goal tile may be
// occupied. distance lets the caller accept stopping within that many
// hexes of goal instead of reaching it exactly. The returned path excludes
// the starting tile and is ordered so the next step to take is the last
// element (spec.md §4.6 "output is the path in reverse").
func FindPathInRoom(w *world.World, room world.RoomID, start, goal hexgeom.Axial, distance uint32, mover world.EntityID, budget int) ([]hexgeom.Axial, error) {
	if start.HexDistance(goal) <= distance {
		return nil, nil
	}
	if !passable(w, room, goal, mover) && distance == 0 {
		return nil, newErr(ErrUnreachable, "goal tile not passable")
	}

	open := &openSet{}
	heap.Init(open)
	visited := make(map[hexgeom.Axial]*node, 64)

	startNode := &node{pos: start, gCost: 0, negFCost: -int64(start.HexDistance(goal)), inserted: 0}
	heap.Push(open, startNode)
	visited[start] = startNode

	expansions := 0
	counter := 1

	for open.Len() > 0 {
		if expansions >= budget {
			return nil, newErr(ErrTimeout, "node-expansion budget exhausted")
		}
		expansions++

		current := heap.Pop(open).(*node)
		if current.pos.HexDistance(goal) <= distance {
			return reconstructReversePath(visited, current), nil
		}

		for _, next := range current.pos.HexNeighbours() {
			if next != goal && !passable(w, room, next, mover) {
				continue
			}
			tentativeG := current.gCost + 1

			existing, seen := visited[next]
			if !seen {
				n := &node{
					pos:       next,
					gCost:     tentativeG,
					negFCost:  -int64(tentativeG + next.HexDistance(goal)),
					inserted:  counter,
					cameFrom:  current.pos,
					hasParent: true,
				}
				counter++
				visited[next] = n
				heap.Push(open, n)
			} else if tentativeG < existing.gCost {
				existing.gCost = tentativeG
				existing.negFCost = -int64(tentativeG + next.HexDistance(goal))
				existing.cameFrom = current.pos
				existing.hasParent = true
				if existing.index >= 0 {
					heap.Fix(open, existing.index)
				}
			}
		}
	}

	return nil, newErr(ErrUnreachable, "open set exhausted")
}

func passable(w *world.World, room world.RoomID, pos hexgeom.Axial, mover world.EntityID) bool {
	terrain, ok := w.TerrainByWorldPosition.Get(world.WorldPosition{Room: room, Pos: pos})
	if !ok || !terrain.Walkable() {
		return false
	}
	occupant, occupied := w.EntityByWorldPosition.Get(world.WorldPosition{Room: room, Pos: pos})
	return !occupied || occupant == mover
}

// reconstructReversePath walks cameFrom pointers from goal back to start,
// collecting goal first and the step adjacent to start last, then drops
// the starting tile itself since the mover is already there.
func reconstructReversePath(visited map[hexgeom.Axial]*node, goal *node) []hexgeom.Axial {
	var path []hexgeom.Axial
	for n := goal; n != nil; {
		path = append(path, n.pos)
		if !n.hasParent {
			break
		}
		n = visited[n.cameFrom]
	}
	if len(path) > 0 {
		path = path[:len(path)-1]
	}
	return path
}
