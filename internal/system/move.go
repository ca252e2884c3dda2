package system

import (
	"time"

	coresys "github.com/caolo-go/sim/internal/core/system"
	"github.com/caolo-go/sim/internal/intent"
	"github.com/caolo-go/sim/internal/world"
)

// MoveSystem applies move_intents. Phase 4 of the §4.9 order: intents are
// re-validated against the world as mutated so far this tick, so two bots
// racing for the same tile resolve by slice order (script-execution
// order) — the first mover wins, the rest silently keep their old
// position even though their OperationResult was Ok at enqueue time.
type MoveSystem struct {
	world *world.World
	in    *TickIntents
}

func NewMoveSystem(w *world.World, in *TickIntents) *MoveSystem {
	return &MoveSystem{world: w, in: in}
}

func (s *MoveSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MoveSystem) Update(_ time.Duration) {
	for _, in := range s.in.Moves {
		owner, ok := s.world.Owners.Get(in.Bot)
		if !ok {
			continue
		}
		if res := intent.ValidateMove(s.world, owner.UserID, in); res != intent.Ok {
			continue
		}
		_ = s.world.PlaceEntity(in.Bot, in.Target)
	}
}
