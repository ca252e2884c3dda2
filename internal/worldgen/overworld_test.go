package worldgen

import (
	"testing"

	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/world"
)

func TestGenerateConnectionsAreSymmetric(t *testing.T) {
	w := world.NewWorld(16)
	params := Params{Radius: 6, RoomRadius: 16, MinBridgeLen: 3, MaxBridgeLen: 12, Seed: 1234}
	if err := Generate(w, params); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if w.RoomComponents.Len() != w.RoomConnections.Len() {
		t.Fatalf("expected equal room and connection counts, got %d and %d", w.RoomComponents.Len(), w.RoomConnections.Len())
	}

	w.RoomConnections.Each(func(room hexgeom.Axial, conns world.RoomConnections) {
		for _, c := range conns.Edges {
			if c == nil {
				continue
			}
			neighbourPoint := room.Add(c.Direction)
			neighbourConns, ok := w.RoomConnections.Get(neighbourPoint)
			if !ok {
				t.Fatalf("room %v connects to %v, which has no connection record", room, neighbourPoint)
			}
			inverse := c.Direction.Mul(-1)
			i, ok := hexgeom.NeighbourIndex(inverse)
			if !ok {
				t.Fatalf("inverse direction %v is not a valid neighbour index", inverse)
			}
			pair := neighbourConns.Edges[i]
			if pair == nil {
				t.Fatalf("room %v has no return connection to %v", neighbourPoint, room)
			}
			if pair.Direction != inverse {
				t.Fatalf("expected return connection direction %v, got %v", inverse, pair.Direction)
			}
		}
	})
}

func TestGenerateEveryRoomHasAtLeastOneConnection(t *testing.T) {
	w := world.NewWorld(8)
	params := Params{Radius: 4, RoomRadius: 8, MinBridgeLen: 2, MaxBridgeLen: 5, Seed: 99}
	if err := Generate(w, params); err != nil {
		t.Fatalf("generate: %v", err)
	}

	w.RoomConnections.Each(func(room hexgeom.Axial, conns world.RoomConnections) {
		hasAny := false
		for _, c := range conns.Edges {
			if c != nil {
				hasAny = true
			}
		}
		if !hasAny {
			t.Fatalf("room %v has no connections", room)
		}
	})
}
