package system

import (
	"time"

	coresys "github.com/caolo-go/sim/internal/core/system"
	"github.com/caolo-go/sim/internal/formula"
	"github.com/caolo-go/sim/internal/intent"
	"github.com/caolo-go/sim/internal/world"
)

// MineSystem applies mine_intents. Phase 1 of the §4.9 order (PhaseUpdate).
type MineSystem struct {
	world   *world.World
	in      *TickIntents
	formula *formula.Engine
}

func NewMineSystem(w *world.World, in *TickIntents) *MineSystem {
	return &MineSystem{world: w, in: in}
}

// NewMineSystemWithFormula wires a formula.Engine into yield resolution;
// its result is still capped at intent.MineAmount.
func NewMineSystemWithFormula(w *world.World, in *TickIntents, eng *formula.Engine) *MineSystem {
	return &MineSystem{world: w, in: in, formula: eng}
}

func (s *MineSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MineSystem) Update(_ time.Duration) {
	s.world.MineEvents = replaceStore(s.world.MineEvents)
	for _, in := range s.in.Mines {
		owner, ok := s.world.Owners.Get(in.Bot)
		if !ok {
			continue
		}
		if res := intent.ValidateMine(s.world, owner.UserID, in); res != intent.Ok {
			continue
		}
		energy, _ := s.world.Energies.Get(in.Resource)
		carry, _ := s.world.Carries.Get(in.Bot)
		carryRemaining := carry.CarryMax - carry.Carry

		var amount int32
		if s.formula != nil {
			amount = s.formula.CalcMineYield(formula.MineContext{
				EnergyAvailable: energy.Energy,
				CarryRemaining:  carryRemaining,
			})
			if amount > intent.MineAmount {
				amount = intent.MineAmount
			}
		} else {
			amount = min32(intent.MineAmount, energy.Energy, carryRemaining)
		}
		if amount <= 0 {
			continue
		}
		energy.Energy -= amount
		carry.Carry += amount
		s.world.MineEvents.Set(in.Bot, &world.MineEvent{Bot: in.Bot, Resource: in.Resource, Amount: amount})
	}
}

func min32(a, b, c int32) int32 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
