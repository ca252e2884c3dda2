package pathfinding

import (
	"testing"

	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/world"
)

func newTestWorld(radius int32) *world.World {
	w := world.NewWorld(radius)
	w.RoomProps = world.RoomProperties{Radius: radius, Center: hexgeom.ZeroAxial}
	room := hexgeom.ZeroAxial
	hexgeom.Hexagon{Center: hexgeom.ZeroAxial, Radius: radius}.IterPoints(func(p hexgeom.Axial) {
		_ = w.TerrainByWorldPosition.Insert(world.WorldPosition{Room: room, Pos: p}, world.TerrainPlain)
	})
	return w
}

func TestFindPathInRoomAdjacentMove(t *testing.T) {
	w := newTestWorld(4)
	room := hexgeom.ZeroAxial
	start := hexgeom.Axial{Q: 0, R: 0}
	goal := start.HexNeighbour(0)

	path, err := FindPathInRoom(w, room, start, goal, 0, world.EntityID(0), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 1 || path[0] != goal {
		t.Fatalf("expected single-step path to %v, got %v", goal, path)
	}
}

func TestFindPathInRoomWallBlocksDirectRoute(t *testing.T) {
	w := newTestWorld(4)
	room := hexgeom.ZeroAxial
	start := hexgeom.Axial{Q: -2, R: 0}
	goal := hexgeom.Axial{Q: 2, R: 0}

	// Wall off every tile with Q==0 except the corner (0,-4), so the direct
	// route is blocked and the path must detour through that gap.
	hexgeom.Hexagon{Center: hexgeom.ZeroAxial, Radius: 4}.IterPoints(func(p hexgeom.Axial) {
		if p.Q == 0 && p.R > -4 {
			_ = w.TerrainByWorldPosition.Insert(world.WorldPosition{Room: room, Pos: p}, world.TerrainWall)
		}
	})

	path, err := FindPathInRoom(w, room, start, goal, 0, world.EntityID(0), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) == 0 || path[0] != goal {
		t.Fatalf("expected a path ending at %v, got %v", goal, path)
	}
	for _, p := range path {
		if terrain, _ := w.TerrainByWorldPosition.Get(world.WorldPosition{Room: room, Pos: p}); terrain == world.TerrainWall {
			t.Fatalf("path passes through a walled tile: %v", path)
		}
	}
}

func TestFindPathInRoomUnreachableWhenFullyWalled(t *testing.T) {
	w := newTestWorld(3)
	room := hexgeom.ZeroAxial
	start := hexgeom.Axial{Q: -1, R: 0}
	goal := hexgeom.Axial{Q: 1, R: 0}

	hexgeom.Hexagon{Center: hexgeom.ZeroAxial, Radius: 3}.IterPoints(func(p hexgeom.Axial) {
		if p.Q == 0 {
			_ = w.TerrainByWorldPosition.Insert(world.WorldPosition{Room: room, Pos: p}, world.TerrainWall)
		}
	})

	_, err := FindPathInRoom(w, room, start, goal, 0, world.EntityID(0), 1000)
	pe, ok := err.(*PathfindingError)
	if !ok || pe.Kind != ErrUnreachable {
		t.Fatalf("expected Unreachable, got %v", err)
	}
}

func TestFindPathInRoomRespectsOccupancy(t *testing.T) {
	w := newTestWorld(4)
	room := hexgeom.ZeroAxial
	start := hexgeom.Axial{Q: 0, R: 0}
	goal := start.HexNeighbour(0)

	blocker := w.InsertEntity()
	if err := w.PlaceEntity(blocker, world.WorldPosition{Room: room, Pos: goal}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// Goal itself may be occupied (spec.md §4.6); path should still resolve.
	path, err := FindPathInRoom(w, room, start, goal, 0, world.EntityID(0), 1000)
	if err != nil {
		t.Fatalf("unexpected error targeting occupied goal: %v", err)
	}
	if len(path) != 1 || path[0] != goal {
		t.Fatalf("expected single-step path to occupied goal, got %v", path)
	}
}

func TestFindPathInRoomStepBudgetTimesOut(t *testing.T) {
	w := newTestWorld(6)
	room := hexgeom.ZeroAxial
	start := hexgeom.Axial{Q: -5, R: 0}
	goal := hexgeom.Axial{Q: 5, R: 0}

	_, err := FindPathInRoom(w, room, start, goal, 0, world.EntityID(0), 1)
	pe, ok := err.(*PathfindingError)
	if !ok || pe.Kind != ErrTimeout {
		t.Fatalf("expected Timeout, got %v", err)
	}
}
