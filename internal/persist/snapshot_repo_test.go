package persist

import (
	"testing"

	"github.com/google/uuid"

	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/world"
)

func TestWorldSnapshotRoundTrip(t *testing.T) {
	w := world.NewWorld(4)
	hexgeom.Hexagon{Center: hexgeom.ZeroAxial, Radius: 4}.IterPoints(func(p hexgeom.Axial) {
		_ = w.TerrainByWorldPosition.Insert(world.WorldPosition{Room: hexgeom.ZeroAxial, Pos: p}, world.TerrainPlain)
	})

	owner := uuid.New()
	bot := w.InsertEntity()
	w.Bots.Set(bot, &world.Bot{})
	w.Owners.Set(bot, &world.OwnedEntity{UserID: owner})
	w.Hps.Set(bot, &world.Hp{Hp: 80, HpMax: 100})
	w.Carries.Set(bot, &world.Carry{Carry: 5, CarryMax: 50})
	if err := w.PlaceEntity(bot, world.WorldPosition{Room: hexgeom.ZeroAxial, Pos: hexgeom.Axial{Q: 1, R: -1}}); err != nil {
		t.Fatalf("place entity: %v", err)
	}
	w.Time.Tick = 42

	dump := DumpWorld(w)
	blob, err := EncodeWorldSnapshot(dump)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeWorldSnapshot(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Tick != 42 {
		t.Fatalf("expected tick 42, got %d", decoded.Tick)
	}
	if len(decoded.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(decoded.Entities))
	}

	restored := world.NewWorld(4)
	hexgeom.Hexagon{Center: hexgeom.ZeroAxial, Radius: 4}.IterPoints(func(p hexgeom.Axial) {
		_ = restored.TerrainByWorldPosition.Insert(world.WorldPosition{Room: hexgeom.ZeroAxial, Pos: p}, world.TerrainPlain)
	})
	decoded.Restore(restored)

	if restored.Time.Tick != 42 {
		t.Fatalf("expected restored tick 42, got %d", restored.Time.Tick)
	}
	var found bool
	restored.Bots.Each(func(id world.EntityID, _ *world.Bot) {
		found = true
		hp, ok := restored.Hps.Get(id)
		if !ok || hp.Hp != 80 {
			t.Fatalf("expected restored hp 80, got %v, %v", hp, ok)
		}
		pos, ok := restored.Positions.Get(id)
		if !ok || pos.WorldPosition.Pos != (hexgeom.Axial{Q: 1, R: -1}) {
			t.Fatalf("expected restored position (1,-1), got %v, %v", pos, ok)
		}
		occupant, occupied := restored.EntityByWorldPosition.Get(world.WorldPosition{Room: hexgeom.ZeroAxial, Pos: hexgeom.Axial{Q: 1, R: -1}})
		if !occupied || occupant != id {
			t.Fatalf("expected spatial index to reflect restored bot, got %v, %v", occupant, occupied)
		}
	})
	if !found {
		t.Fatalf("expected one bot after restore")
	}
}
