package system

import (
	"time"

	coresys "github.com/caolo-go/sim/internal/core/system"
	"github.com/caolo-go/sim/internal/intent"
	"github.com/caolo-go/sim/internal/world"
)

// DropoffSystem applies dropoff_intents. Phase 2 of the §4.9 order.
type DropoffSystem struct {
	world *world.World
	in    *TickIntents
}

func NewDropoffSystem(w *world.World, in *TickIntents) *DropoffSystem {
	return &DropoffSystem{world: w, in: in}
}

func (s *DropoffSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *DropoffSystem) Update(_ time.Duration) {
	s.world.DropoffEvents = replaceStore(s.world.DropoffEvents)
	for _, in := range s.in.Dropoffs {
		owner, ok := s.world.Owners.Get(in.Bot)
		if !ok {
			continue
		}
		if res := intent.ValidateDropoff(s.world, owner.UserID, in); res != intent.Ok {
			continue
		}
		carry, _ := s.world.Carries.Get(in.Bot)
		target, _ := s.world.Carries.Get(in.Structure)
		amount := min32(in.Amount, carry.Carry, target.CarryMax-target.Carry)
		if amount <= 0 {
			continue
		}
		carry.Carry -= amount
		target.Carry += amount
		s.world.DropoffEvents.Set(in.Bot, &world.DropoffEvent{Bot: in.Bot, Structure: in.Structure, Amount: amount})
	}
}
