package pathfinding

import (
	"container/heap"

	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/world"
)

// FindNextRoom runs A* over the room-connection graph and returns only the
// next room to step into, per spec.md §4.6: the overworld layer never
// returns a full room path, since incremental movement only needs one hop
// at a time.
func FindNextRoom(w *world.World, from, to world.RoomID, budget int) (world.RoomID, error) {
	if from == to {
		return from, nil
	}
	if !w.RoomComponents.ContainsKey(from) {
		return hexgeom.ZeroAxial, newErr(ErrRoomNotExists, "from room does not exist")
	}
	if !w.RoomComponents.ContainsKey(to) {
		return hexgeom.ZeroAxial, newErr(ErrRoomNotExists, "to room does not exist")
	}

	open := &openSet{}
	heap.Init(open)
	visited := make(map[hexgeom.Axial]*node, 32)

	startNode := &node{pos: from, gCost: 0, negFCost: -int64(from.HexDistance(to))}
	heap.Push(open, startNode)
	visited[from] = startNode

	expansions := 0
	counter := 1

	for open.Len() > 0 {
		if expansions >= budget {
			return hexgeom.ZeroAxial, newErr(ErrTimeout, "node-expansion budget exhausted")
		}
		expansions++

		current := heap.Pop(open).(*node)
		if current.pos == to {
			return firstStepTowards(visited, current, from), nil
		}

		conns, ok := w.RoomConnections.Get(current.pos)
		if !ok {
			continue
		}
		for i, c := range conns.Edges {
			if c == nil {
				continue
			}
			next := current.pos.HexNeighbour(i)
			tentativeG := current.gCost + 1

			existing, seen := visited[next]
			if !seen {
				n := &node{
					pos:       next,
					gCost:     tentativeG,
					negFCost:  -int64(tentativeG + next.HexDistance(to)),
					inserted:  counter,
					cameFrom:  current.pos,
					hasParent: true,
				}
				counter++
				visited[next] = n
				heap.Push(open, n)
			} else if tentativeG < existing.gCost {
				existing.gCost = tentativeG
				existing.negFCost = -int64(tentativeG + next.HexDistance(to))
				existing.cameFrom = current.pos
				existing.hasParent = true
				if existing.index >= 0 {
					heap.Fix(open, existing.index)
				}
			}
		}
	}

	return hexgeom.ZeroAxial, newErr(ErrUnreachable, "no route between rooms")
}

// firstStepTowards walks cameFrom pointers from goal back to from and
// returns the room adjacent to from on that path — the one and only hop
// the overworld layer reports (spec.md §4.6 "returns only the next room").
func firstStepTowards(visited map[hexgeom.Axial]*node, goal *node, from hexgeom.Axial) hexgeom.Axial {
	chain := []hexgeom.Axial{goal.pos}
	for n := goal; n.hasParent; {
		n = visited[n.cameFrom]
		chain = append(chain, n.pos)
	}
	// chain runs [to, ..., from]; the element just before from is the
	// first room to step into.
	return chain[len(chain)-2]
}
