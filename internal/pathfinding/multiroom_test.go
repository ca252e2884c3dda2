package pathfinding

import (
	"testing"

	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/world"
)

func TestFindPathMultiRoomWalksToBridge(t *testing.T) {
	w, roomA, roomB := twoRoomWorld()
	start := world.WorldPosition{Room: roomA, Pos: hexgeom.Axial{Q: -3, R: 0}}

	result, err := FindPathMultiRoom(w, start, roomB, world.EntityID(0), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OnBridge {
		t.Fatalf("expected bot not yet on bridge")
	}
	if len(result.Path) == 0 {
		t.Fatalf("expected a non-empty path toward the bridge")
	}
	if result.NextRoom != roomB {
		t.Fatalf("expected next room %v, got %v", roomB, result.NextRoom)
	}
}

func TestFindPathMultiRoomOnBridgeNeedsNoPath(t *testing.T) {
	w, roomA, roomB := twoRoomWorld()

	tiles, err := hexgeom.IterEdge(w.RoomProps.Center, w.RoomProps.Radius, 0, 1, 1)
	if err != nil || len(tiles) == 0 {
		t.Fatalf("setup: no bridge tiles: %v", err)
	}
	start := world.WorldPosition{Room: roomA, Pos: tiles[0]}

	result, err := FindPathMultiRoom(w, start, roomB, world.EntityID(0), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.OnBridge {
		t.Fatalf("expected bot already on bridge")
	}
	if result.NextRoom != roomB {
		t.Fatalf("expected next room %v, got %v", roomB, result.NextRoom)
	}
}
