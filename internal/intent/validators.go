package intent

import "github.com/caolo-go/sim/internal/world"

// MineAmount is the maximum energy transferred by one mine intent per tick.
const MineAmount = 10

func ownerOf(w *world.World, e world.EntityID) (world.UserID, bool) {
	owned, ok := w.Owners.Get(e)
	if !ok {
		return world.UserID{}, false
	}
	return owned.UserID, true
}

func checkOwnership(w *world.World, e world.EntityID, caller world.UserID) OperationResult {
	if !w.ECS.Alive(e) {
		return InvalidTarget
	}
	owner, ok := ownerOf(w, e)
	if !ok || owner != caller {
		return NotOwner
	}
	return Ok
}

// ValidateMove implements the move validator from spec.md §4.7: bot
// exists, caller owns it, target within hex distance 1 and same room
// (unless in.Transit, which crosses a bridge into a neighbouring room and
// so is exempt from the same-room/distance check), target tile terrain is
// not Wall, target tile unoccupied. Wall, out-of-range/wrong-room and
// occupancy all report InvalidInput, matching the original's
// check_move_intent.
func ValidateMove(w *world.World, caller world.UserID, in MoveIntent) OperationResult {
	if res := checkOwnership(w, in.Bot, caller); res != Ok {
		return res
	}
	pos, ok := w.Positions.Get(in.Bot)
	if !ok {
		return InvalidTarget
	}
	if !in.Transit {
		if !pos.WorldPosition.SameRoom(in.Target) {
			return InvalidInput
		}
		if pos.WorldPosition.Pos.HexDistance(in.Target.Pos) > 1 {
			return InvalidInput
		}
	}
	terrain, ok := w.TerrainByWorldPosition.Get(in.Target)
	if !ok || terrain == world.TerrainWall || terrain == world.TerrainEmpty {
		return InvalidInput
	}
	if occupant, occupied := w.EntityByWorldPosition.Get(in.Target); occupied && occupant != in.Bot {
		return InvalidInput
	}
	return Ok
}

// ValidateMine checks the bot owns the mining entity, the resource is in
// range and not depleted, and the bot's carry has room.
func ValidateMine(w *world.World, caller world.UserID, in MineIntent) OperationResult {
	if res := checkOwnership(w, in.Bot, caller); res != Ok {
		return res
	}
	if !w.ECS.Alive(in.Resource) {
		return InvalidTarget
	}
	if _, ok := w.Resources.Get(in.Resource); !ok {
		return InvalidTarget
	}
	botPos, ok := w.Positions.Get(in.Bot)
	if !ok {
		return InvalidTarget
	}
	resPos, ok := w.Positions.Get(in.Resource)
	if !ok || !botPos.WorldPosition.SameRoom(resPos.WorldPosition) {
		return NotInRange
	}
	if botPos.WorldPosition.Pos.HexDistance(resPos.WorldPosition.Pos) > 1 {
		return NotInRange
	}
	energy, ok := w.Energies.Get(in.Resource)
	if !ok || energy.Energy <= 0 {
		return Empty
	}
	carry, ok := w.Carries.Get(in.Bot)
	if !ok || carry.Carry >= carry.CarryMax {
		return Full
	}
	return Ok
}

// ValidateDropoff checks the bot owns the carrying entity, the structure is
// in range and can accept resources, and amount is positive.
func ValidateDropoff(w *world.World, caller world.UserID, in DropoffIntent) OperationResult {
	if in.Amount <= 0 {
		return InvalidInput
	}
	if res := checkOwnership(w, in.Bot, caller); res != Ok {
		return res
	}
	if !w.ECS.Alive(in.Structure) {
		return InvalidTarget
	}
	if _, ok := w.Structures.Get(in.Structure); !ok {
		return InvalidTarget
	}
	botPos, ok := w.Positions.Get(in.Bot)
	if !ok {
		return InvalidTarget
	}
	structPos, ok := w.Positions.Get(in.Structure)
	if !ok || !botPos.WorldPosition.SameRoom(structPos.WorldPosition) {
		return NotInRange
	}
	if botPos.WorldPosition.Pos.HexDistance(structPos.WorldPosition.Pos) > 1 {
		return NotInRange
	}
	carry, ok := w.Carries.Get(in.Bot)
	if !ok || carry.Carry <= 0 {
		return Empty
	}
	target, ok := w.Carries.Get(in.Structure)
	if !ok || target.Carry >= target.CarryMax {
		return Full
	}
	return Ok
}

// ValidateMelee checks the bot owns the attacker, has a MeleeAttack
// component, and the target is alive and in range.
func ValidateMelee(w *world.World, caller world.UserID, in MeleeIntent) OperationResult {
	if res := checkOwnership(w, in.Bot, caller); res != Ok {
		return res
	}
	if _, ok := w.MeleeAttacks.Get(in.Bot); !ok {
		return OperationFailed
	}
	if !w.ECS.Alive(in.Target) {
		return InvalidTarget
	}
	botPos, ok := w.Positions.Get(in.Bot)
	if !ok {
		return InvalidTarget
	}
	targetPos, ok := w.Positions.Get(in.Target)
	if !ok || !botPos.WorldPosition.SameRoom(targetPos.WorldPosition) {
		return NotInRange
	}
	if botPos.WorldPosition.Pos.HexDistance(targetPos.WorldPosition.Pos) > 1 {
		return NotInRange
	}
	if _, ok := w.Hps.Get(in.Target); !ok {
		return InvalidTarget
	}
	return Ok
}

// ValidateSpawn checks the caller owns the spawning structure and that the
// structure has a Spawn component. The spawn queue's length is not limited.
func ValidateSpawn(w *world.World, caller world.UserID, in SpawnIntent) OperationResult {
	if res := checkOwnership(w, in.Structure, caller); res != Ok {
		return res
	}
	if _, ok := w.Spawns.Get(in.Structure); !ok {
		return OperationFailed
	}
	return Ok
}
