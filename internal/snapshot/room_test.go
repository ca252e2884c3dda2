package snapshot

import (
	"testing"

	"github.com/google/uuid"

	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/world"
)

func TestBuildRoomIncludesOwnedBotAndLogLine(t *testing.T) {
	w := world.NewWorld(4)
	hexgeom.Hexagon{Center: hexgeom.ZeroAxial, Radius: 4}.IterPoints(func(p hexgeom.Axial) {
		_ = w.TerrainByWorldPosition.Insert(world.WorldPosition{Room: hexgeom.ZeroAxial, Pos: p}, world.TerrainPlain)
	})
	owner := uuid.New()

	bot := w.InsertEntity()
	w.Bots.Set(bot, &world.Bot{})
	w.Owners.Set(bot, &world.OwnedEntity{UserID: owner})
	w.Hps.Set(bot, &world.Hp{Hp: 100, HpMax: 100})
	pos := world.WorldPosition{Room: hexgeom.ZeroAxial, Pos: hexgeom.Axial{Q: 2, R: -1}}
	if err := w.PlaceEntity(bot, pos); err != nil {
		t.Fatalf("place entity: %v", err)
	}
	w.Logs[world.LogKey{Entity: bot, Tick: 0}] = world.LogEntry{Text: "hello"}

	otherRoom := hexgeom.ZeroAxial.HexNeighbour(0)
	elsewhere := w.InsertEntity()
	w.Bots.Set(elsewhere, &world.Bot{})
	_ = w.PlaceEntity(elsewhere, world.WorldPosition{Room: otherRoom, Pos: hexgeom.ZeroAxial})

	snap := BuildRoom(w, hexgeom.ZeroAxial)

	if len(snap.Entities) != 1 {
		t.Fatalf("expected 1 entity in room, got %d", len(snap.Entities))
	}
	es := snap.Entities[0]
	if es.ID != bot || es.Kind != EntityKindBot || es.Pos != pos.Pos || es.Owner != owner {
		t.Fatalf("unexpected entity snapshot: %+v", es)
	}
	if !es.HasHp || es.Hp != 100 {
		t.Fatalf("expected hp 100, got %+v", es)
	}
	if len(snap.Logs) != 1 || snap.Logs[0].Text != "hello" {
		t.Fatalf("expected one log line, got %+v", snap.Logs)
	}
}
