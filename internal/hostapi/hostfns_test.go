package hostapi

import (
	"testing"

	"github.com/google/uuid"

	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/intent"
	"github.com/caolo-go/sim/internal/vm"
	"github.com/caolo-go/sim/internal/world"
)

func plainRoomWorld(radius int32) *world.World {
	w := world.NewWorld(radius)
	hexgeom.Hexagon{Center: hexgeom.ZeroAxial, Radius: radius}.IterPoints(func(p hexgeom.Axial) {
		_ = w.TerrainByWorldPosition.Insert(world.WorldPosition{Room: hexgeom.ZeroAxial, Pos: p}, world.TerrainPlain)
	})
	return w
}

func appendI64(buf []byte, n int64) []byte {
	u := uint64(n)
	for i := 0; i < 8; i++ {
		buf = append(buf, byte(u>>(8*i)))
	}
	return buf
}

func TestMoveBotToPositionEmitsMoveIntentOnAdjacentTile(t *testing.T) {
	w := plainRoomWorld(4)
	owner := uuid.New()
	bot := w.InsertEntity()
	w.Bots.Set(bot, &world.Bot{})
	w.Owners.Set(bot, &world.OwnedEntity{UserID: owner})
	_ = w.PlaceEntity(bot, world.WorldPosition{Room: hexgeom.ZeroAxial, Pos: hexgeom.Axial{Q: 0, R: 0}})

	ctx := NewContext(w, bot, owner, 1000)

	var prog []byte
	target := hexgeom.Axial{Q: 1, R: 0}
	prog = append(prog, byte(vm.OpScalarInt))
	prog = appendI64(prog, 0) // room q
	prog = append(prog, byte(vm.OpScalarInt))
	prog = appendI64(prog, 0) // room r
	prog = append(prog, byte(vm.OpScalarInt))
	prog = appendI64(prog, int64(target.Q))
	prog = append(prog, byte(vm.OpScalarInt))
	prog = appendI64(prog, int64(target.R))
	prog = append(prog, byte(vm.OpStringLit))
	prog = appendI64(prog, int64(len("move_bot_to_position")))
	prog = append(prog, []byte("move_bot_to_position")...)
	prog = append(prog, byte(vm.OpCall))
	prog = append(prog, byte(vm.OpExit))

	machine := vm.New[*Context](prog, nil, Table(), ctx, 100)
	reason, err := machine.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != vm.HaltExit {
		t.Fatalf("expected HaltExit, got %v", reason)
	}
	if len(machine.Stack()) != 1 || machine.Stack()[0] != vm.Int(int64(intent.Ok)) {
		t.Fatalf("expected [Ok], got %v", machine.Stack())
	}
	if len(ctx.Intents.Moves) != 1 || ctx.Intents.Moves[0].Target.Pos != target {
		t.Fatalf("expected one move intent to %v, got %v", target, ctx.Intents.Moves)
	}
}

func TestMineResourceRejectsWhenNotOwner(t *testing.T) {
	w := plainRoomWorld(4)
	owner := uuid.New()
	bot := w.InsertEntity()
	w.Bots.Set(bot, &world.Bot{})
	w.Owners.Set(bot, &world.OwnedEntity{UserID: owner})
	w.Carries.Set(bot, &world.Carry{Carry: 0, CarryMax: 10})
	_ = w.PlaceEntity(bot, world.WorldPosition{Room: hexgeom.ZeroAxial, Pos: hexgeom.Axial{Q: 0, R: 0}})

	res := w.InsertEntity()
	w.Resources.Set(res, &world.Resource{Kind: world.ResourceEnergy})
	w.Energies.Set(res, &world.Energy{Energy: 10, EnergyMax: 10})
	_ = w.PlaceEntity(res, world.WorldPosition{Room: hexgeom.ZeroAxial, Pos: hexgeom.Axial{Q: 1, R: 0}})

	ctx := NewContext(w, bot, uuid.New(), 1000) // wrong owner passed to context

	var prog []byte
	prog = append(prog, byte(vm.OpScalarInt))
	prog = appendI64(prog, int64(res))
	prog = append(prog, byte(vm.OpStringLit))
	prog = appendI64(prog, int64(len("mine_resource")))
	prog = append(prog, []byte("mine_resource")...)
	prog = append(prog, byte(vm.OpCall))
	prog = append(prog, byte(vm.OpExit))

	machine := vm.New[*Context](prog, nil, Table(), ctx, 100)
	_, err := machine.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(machine.Stack()) != 1 || machine.Stack()[0] != vm.Int(int64(intent.NotOwner)) {
		t.Fatalf("expected [NotOwner], got %v", machine.Stack())
	}
	if len(ctx.Intents.Mines) != 0 {
		t.Fatalf("expected no mine intent stashed on rejection")
	}
}
