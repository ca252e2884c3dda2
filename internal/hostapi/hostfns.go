package hostapi

import (
	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/intent"
	"github.com/caolo-go/sim/internal/vm"
	"github.com/caolo-go/sim/internal/world"
)

// Table returns the HostTable every bot script VM is constructed with:
// the fixed set of names spec.md §4.8 lists, bound to Context-closured
// implementations.
func Table() vm.HostTable[*Context] {
	return vm.HostTable[*Context]{
		"move_bot_to_position": moveBotToPosition,
		"approach_entity":      approachEntity,
		"melee_attack":         meleeAttack,
		"mine_resource":        mineResource,
		"unload":               unload,
		"say":                  say,
		"log":                  logCall,
	}
}

func popInt(v *vm.VM[*Context]) (int64, bool) {
	s, err := v.StackPop()
	if err != nil {
		return 0, false
	}
	n, ok := s.AsInt()
	return n, ok
}

func popString(v *vm.VM[*Context]) (string, bool) {
	s, err := v.StackPop()
	if err != nil || s.Tag != vm.TagPointer {
		return "", false
	}
	return v.Heap().GetString(s.Int)
}

func pushResult(v *vm.VM[*Context], r intent.OperationResult) {
	v.StackPush(vm.Int(int64(r)))
}

// popWorldPosition expects the script to have pushed room_q, room_r, q, r
// in that order, so they pop off the stack last-pushed-first: r, q,
// room_r, room_q.
func popWorldPosition(v *vm.VM[*Context]) (world.WorldPosition, bool) {
	r, ok := popInt(v)
	if !ok {
		return world.WorldPosition{}, false
	}
	q, ok := popInt(v)
	if !ok {
		return world.WorldPosition{}, false
	}
	roomR, ok := popInt(v)
	if !ok {
		return world.WorldPosition{}, false
	}
	roomQ, ok := popInt(v)
	if !ok {
		return world.WorldPosition{}, false
	}
	return world.WorldPosition{
		Room: hexgeom.Axial{Q: int32(roomQ), R: int32(roomR)},
		Pos:  hexgeom.Axial{Q: int32(q), R: int32(r)},
	}, true
}

// moveBotToPosition implements move_bot_to_position(room_q, room_r, q, r).
func moveBotToPosition(v *vm.VM[*Context]) error {
	c := v.Aux()
	goal, ok := popWorldPosition(v)
	if !ok {
		pushResult(v, intent.InvalidInput)
		return nil
	}
	pushResult(v, c.reach(goal))
	return nil
}

// approachEntity implements approach_entity(target_entity_id), resolving
// the target's current position and delegating to the same reach policy
// move_bot_to_position uses.
func approachEntity(v *vm.VM[*Context]) error {
	c := v.Aux()
	targetID, ok := popInt(v)
	if !ok {
		pushResult(v, intent.InvalidInput)
		return nil
	}
	target := world.EntityID(targetID)
	if !c.World.ECS.Alive(target) {
		pushResult(v, intent.InvalidTarget)
		return nil
	}
	pos, ok := c.World.Positions.Get(target)
	if !ok {
		pushResult(v, intent.InvalidTarget)
		return nil
	}
	pushResult(v, c.reach(pos.WorldPosition))
	return nil
}

// meleeAttack implements melee_attack(target_entity_id).
func meleeAttack(v *vm.VM[*Context]) error {
	c := v.Aux()
	targetID, ok := popInt(v)
	if !ok {
		pushResult(v, intent.InvalidInput)
		return nil
	}
	in := intent.MeleeIntent{Bot: c.Bot, Target: world.EntityID(targetID)}
	res := intent.ValidateMelee(c.World, c.Owner, in)
	if res == intent.Ok {
		c.Intents.Melees = append(c.Intents.Melees, in)
	}
	pushResult(v, res)
	return nil
}

// mineResource implements mine_resource(resource_entity_id).
func mineResource(v *vm.VM[*Context]) error {
	c := v.Aux()
	resID, ok := popInt(v)
	if !ok {
		pushResult(v, intent.InvalidInput)
		return nil
	}
	in := intent.MineIntent{Bot: c.Bot, Resource: world.EntityID(resID)}
	res := intent.ValidateMine(c.World, c.Owner, in)
	if res == intent.Ok {
		c.Intents.Mines = append(c.Intents.Mines, in)
	}
	pushResult(v, res)
	return nil
}

// unload implements unload(structure_entity_id, amount).
func unload(v *vm.VM[*Context]) error {
	c := v.Aux()
	amount, ok := popInt(v)
	if !ok {
		pushResult(v, intent.InvalidInput)
		return nil
	}
	structID, ok := popInt(v)
	if !ok {
		pushResult(v, intent.InvalidInput)
		return nil
	}
	in := intent.DropoffIntent{Bot: c.Bot, Structure: world.EntityID(structID), Amount: int32(amount)}
	res := intent.ValidateDropoff(c.World, c.Owner, in)
	if res == intent.Ok {
		c.Intents.Dropoffs = append(c.Intents.Dropoffs, in)
	}
	pushResult(v, res)
	return nil
}

// say implements say(text_ptr), truncating to world.SayMaxLen.
func say(v *vm.VM[*Context]) error {
	c := v.Aux()
	text, ok := popString(v)
	if !ok {
		pushResult(v, intent.InvalidInput)
		return nil
	}
	if len(text) > world.SayMaxLen {
		text = text[:world.SayMaxLen]
	}
	c.Intents.Says = append(c.Intents.Says, intent.SayIntent{Bot: c.Bot, Text: text})
	pushResult(v, intent.Ok)
	return nil
}

// logCall implements log(text_ptr).
func logCall(v *vm.VM[*Context]) error {
	c := v.Aux()
	text, ok := popString(v)
	if !ok {
		pushResult(v, intent.InvalidInput)
		return nil
	}
	c.Intents.Logs = append(c.Intents.Logs, intent.LogIntent{Bot: c.Bot, Text: text})
	pushResult(v, intent.Ok)
	return nil
}
