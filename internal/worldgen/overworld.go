// Package worldgen builds the overworld room layout: where rooms sit and
// how they connect. Ported from the original Rust simulation's
// map_generation/overworld.rs, using direct 6-neighbour walks in place of
// a MortonTable range query (MortonTable.FindByRange), since the source's
// neighbour_index filter discards every candidate beyond a room's
// immediate neighbours anyway.
package worldgen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/spatial"
	"github.com/caolo-go/sim/internal/world"
)

const sqrt3 = 1.7320508075688772

// Params controls the overworld's shape: radius rooms in every direction
// from the center, each room a hex disc of roomRadius, bridges of a
// length sampled uniformly in [minBridgeLen, maxBridgeLen].
type Params struct {
	Radius       int32
	RoomRadius   int32
	MinBridgeLen int32
	MaxBridgeLen int32
	Seed         uint64
}

// roomIDToAxial projects a room_id on the flat-top overworld hexagon into
// pointy-top world-tile space, verbatim from room_id_to_axial.
func roomIDToAxial(roomID hexgeom.Axial, gridSize int32) hexgeom.Axial {
	size := (float64(gridSize) + 1.0) * sqrt3

	x := size * (3.0 / 2.0 * float64(roomID.Q))
	y := size * (sqrt3/2.0*float64(roomID.Q) + sqrt3*float64(roomID.R))

	q := sqrt3/3.0*x - 1.0/3.0*y
	r := 2.0 / 3.0 * y

	return hexgeom.HexRound(q, r)
}

func sigmoid(f float64) float64 {
	return 1.0 / (1.0 + math.Exp(-f))
}

// Generate lays out every room in the overworld hexagon and wires
// connections between them, writing RoomComponent/RoomConnections entries
// directly into w's spatial tables.
func Generate(w *world.World, p Params) error {
	if p.Radius <= 0 {
		return fmt.Errorf("worldgen: radius must be positive, got %d", p.Radius)
	}
	rng := rand.New(rand.NewSource(int64(p.Seed)))
	// Center shifted to (radius, radius), matching the source exactly:
	// MortonTable keys are unsigned, so every room coordinate in bounds
	// must stay non-negative.
	center := hexgeom.Axial{Q: p.Radius, R: p.Radius}
	bounds := hexgeom.Hexagon{Center: center, Radius: p.Radius}

	w.RoomComponents = spatial.NewMortonTable[world.RoomComponent]()
	w.RoomConnections = spatial.NewMortonTable[world.RoomConnections]()
	w.RoomProps = world.RoomProperties{Radius: p.RoomRadius, Center: hexgeom.ZeroAxial}

	bounds.IterPoints(func(roomID hexgeom.Axial) {
		w.RoomComponents.Insert(roomID, world.RoomComponent{
			Offset: roomIDToAxial(roomID, p.RoomRadius),
			Seed:   rng.Uint64(),
		})
		w.RoomConnections.Insert(roomID, world.RoomConnections{})
	})

	weights := make(map[hexgeom.Axial]float64, w.RoomComponents.Len())
	bounds.IterPoints(func(roomID hexgeom.Axial) {
		weights[roomID] = sigmoid(rng.Float64()*10.0 - 4.0) // U(-4, 6)
	})

	bounds.IterPoints(func(roomID hexgeom.Axial) {
		updateRoomConnections(w, p, roomID, weights, rng)
	})

	return nil
}

func updateRoomConnections(w *world.World, p Params, point hexgeom.Axial, weights map[hexgeom.Axial]float64, rng *rand.Rand) {
	roll := rng.Float64()
	var toConnect [6]*hexgeom.Axial

	for _, n := range point.HexNeighbours() {
		weight, ok := weights[n]
		if !ok || roll > weight {
			continue
		}
		dir := n.Sub(point)
		if i, ok := hexgeom.NeighbourIndex(dir); ok {
			d := dir
			toConnect[i] = &d
		}
	}

	anyConnect := false
	for _, c := range toConnect {
		if c != nil {
			anyConnect = true
			break
		}
	}
	if !anyConnect {
		// Guarantee every room has at least one connection: pick the
		// heaviest-weighted neighbour.
		bestIdx, bestWeight := -1, -1.0
		neighbours := point.HexNeighbours()
		for i, n := range neighbours {
			weight, ok := weights[n]
			if !ok {
				continue
			}
			if weight > bestWeight {
				bestIdx, bestWeight = i, weight
			}
		}
		if bestIdx >= 0 {
			dir := neighbours[bestIdx].Sub(point)
			toConnect[bestIdx] = &dir
		}
	}

	conn, ok := w.RoomConnections.Get(point)
	if !ok {
		return
	}

	type newConn struct {
		idx  int
		dir  hexgeom.Axial
		conn world.RoomConnection
	}
	var created []newConn

	for i, c := range toConnect {
		if c == nil || conn.Edges[i] != nil {
			continue
		}
		bridgeLen := p.MinBridgeLen
		if p.MaxBridgeLen > p.MinBridgeLen {
			bridgeLen += int32(rng.Intn(int(p.MaxBridgeLen - p.MinBridgeLen + 1)))
		}
		padding := p.RoomRadius - bridgeLen
		if padding < 1 {
			padding = 1
		}
		offsetStart := int32(rng.Intn(int(padding)))
		offsetEnd := padding - offsetStart

		rc := world.RoomConnection{Direction: *c, OffsetStart: offsetStart, OffsetEnd: offsetEnd}
		conn.Edges[i] = &rc
		created = append(created, newConn{idx: i, dir: *c, conn: rc})
	}
	w.RoomConnections.Insert(point, conn)

	for _, nc := range created {
		neighbourPoint := point.Add(nc.dir)
		neighbourConn, ok := w.RoomConnections.Get(neighbourPoint)
		if !ok {
			continue
		}
		inverse := nc.dir.Mul(-1)
		i, ok := hexgeom.NeighbourIndex(inverse)
		if !ok {
			continue
		}
		offsetEnd := nc.conn.OffsetStart
		if offsetEnd < 1 {
			offsetEnd = 1
		}
		offsetEnd--
		offsetStart := nc.conn.OffsetEnd + 1

		mirrored := world.RoomConnection{Direction: inverse, OffsetStart: offsetStart, OffsetEnd: offsetEnd}
		neighbourConn.Edges[i] = &mirrored
		w.RoomConnections.Insert(neighbourPoint, neighbourConn)
	}
}
