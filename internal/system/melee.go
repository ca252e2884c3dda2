package system

import (
	"time"

	coresys "github.com/caolo-go/sim/internal/core/system"
	"github.com/caolo-go/sim/internal/formula"
	"github.com/caolo-go/sim/internal/intent"
	"github.com/caolo-go/sim/internal/world"
)

// MeleeSystem applies melee_intents. Phase 3 of the §4.9 order. Deaths are
// not reaped here — Housekeeping sweeps Hp <= 0 after every system has had
// a chance to deal damage this tick.
type MeleeSystem struct {
	world   *world.World
	in      *TickIntents
	formula *formula.Engine
}

func NewMeleeSystem(w *world.World, in *TickIntents) *MeleeSystem {
	return &MeleeSystem{world: w, in: in}
}

// NewMeleeSystemWithFormula wires a formula.Engine into damage resolution;
// without one, attack.Strength is applied directly.
func NewMeleeSystemWithFormula(w *world.World, in *TickIntents, eng *formula.Engine) *MeleeSystem {
	return &MeleeSystem{world: w, in: in, formula: eng}
}

func (s *MeleeSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MeleeSystem) Update(_ time.Duration) {
	for _, in := range s.in.Melees {
		owner, ok := s.world.Owners.Get(in.Bot)
		if !ok {
			continue
		}
		if res := intent.ValidateMelee(s.world, owner.UserID, in); res != intent.Ok {
			continue
		}
		attack, _ := s.world.MeleeAttacks.Get(in.Bot)
		hp, _ := s.world.Hps.Get(in.Target)

		damage := attack.Strength
		if s.formula != nil {
			damage = s.formula.CalcMeleeDamage(formula.MeleeContext{
				AttackerStrength: attack.Strength,
				TargetHp:         hp.Hp,
				TargetHpMax:      hp.HpMax,
			})
		}

		hp.Hp -= damage
		if hp.Hp < 0 {
			hp.Hp = 0
		}
	}
}
