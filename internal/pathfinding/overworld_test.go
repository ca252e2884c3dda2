package pathfinding

import (
	"testing"

	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/world"
)

func twoRoomWorld() (*world.World, world.RoomID, world.RoomID) {
	w := world.NewWorld(4)
	roomA := hexgeom.ZeroAxial
	roomB := roomA.HexNeighbour(0)

	for _, r := range []world.RoomID{roomA, roomB} {
		w.RoomComponents.Insert(r, world.RoomComponent{})
		hexgeom.Hexagon{Center: hexgeom.ZeroAxial, Radius: 4}.IterPoints(func(p hexgeom.Axial) {
			_ = w.TerrainByWorldPosition.Insert(world.WorldPosition{Room: r, Pos: p}, world.TerrainPlain)
		})
	}

	connAB := &world.RoomConnection{OffsetStart: 1, OffsetEnd: 1}
	connsA := world.RoomConnections{}
	connsA.Edges[0] = connAB
	w.RoomConnections.Insert(roomA, connsA)

	connBA := &world.RoomConnection{OffsetStart: 1, OffsetEnd: 1}
	connsB := world.RoomConnections{}
	connsB.Edges[3] = connBA
	w.RoomConnections.Insert(roomB, connsB)

	return w, roomA, roomB
}

func TestFindNextRoomDirectNeighbour(t *testing.T) {
	w, roomA, roomB := twoRoomWorld()
	next, err := FindNextRoom(w, roomA, roomB, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != roomB {
		t.Fatalf("expected next room %v, got %v", roomB, next)
	}
}

func TestFindNextRoomSameRoomIsNoop(t *testing.T) {
	w, roomA, _ := twoRoomWorld()
	next, err := FindNextRoom(w, roomA, roomA, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != roomA {
		t.Fatalf("expected same room, got %v", next)
	}
}

func TestFindNextRoomUnknownRoomFails(t *testing.T) {
	w, roomA, _ := twoRoomWorld()
	_, err := FindNextRoom(w, roomA, hexgeom.Axial{Q: 99, R: 99}, 1000)
	pe, ok := err.(*PathfindingError)
	if !ok || pe.Kind != ErrRoomNotExists {
		t.Fatalf("expected RoomNotExists, got %v", err)
	}
}
