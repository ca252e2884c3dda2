package system

import (
	"time"

	coresys "github.com/caolo-go/sim/internal/core/system"
	"github.com/caolo-go/sim/internal/world"
)

// ScriptHistorySystem stamps which script ran for which entity this tick.
// Phase 7 of the §4.9 order.
type ScriptHistorySystem struct {
	world *world.World
	in    *TickIntents
}

func NewScriptHistorySystem(w *world.World, in *TickIntents) *ScriptHistorySystem {
	return &ScriptHistorySystem{world: w, in: in}
}

func (s *ScriptHistorySystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ScriptHistorySystem) Update(_ time.Duration) {
	for _, ex := range s.in.Executed {
		s.world.ScriptHistory[world.LogKey{Entity: ex.Bot, Tick: s.world.Time.Tick}] = world.ScriptHistoryEntry{Script: ex.Script}
	}
}
