package system

import (
	"time"

	"github.com/caolo-go/sim/internal/core/event"
	coresys "github.com/caolo-go/sim/internal/core/system"
	"github.com/caolo-go/sim/internal/formula"
	"github.com/caolo-go/sim/internal/world"
)

// WorldTimeSystem advances the tick counter. Step 9 of the §4.9 order,
// registered last so it only ever sees a world already settled by every
// earlier system this tick (invariant P5/I4).
type WorldTimeSystem struct {
	world *world.World
}

func NewWorldTimeSystem(w *world.World) *WorldTimeSystem {
	return &WorldTimeSystem{world: w}
}

func (s *WorldTimeSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *WorldTimeSystem) Update(_ time.Duration) {
	s.world.Time.Tick++
}

// NewTickRunner builds a coresys.Runner with every §4.9 system registered
// in the fixed order, relying on Runner.Tick's stable same-phase sort to
// preserve registration order within PhaseUpdate and PhaseCleanup.
func NewTickRunner(w *world.World, in *TickIntents) *coresys.Runner {
	r := coresys.NewRunner()
	r.Register(NewMineSystem(w, in))
	r.Register(NewDropoffSystem(w, in))
	r.Register(NewMeleeSystem(w, in))
	r.Register(NewMoveSystem(w, in))
	r.Register(NewPathCacheSystem(w, in))
	r.Register(NewLogSystem(w, in))
	r.Register(NewScriptHistorySystem(w, in))
	r.Register(NewHousekeepingSystem(w, in))
	r.Register(NewWorldTimeSystem(w))
	return r
}

// NewTickRunnerWithFormula is NewTickRunner, but resolves melee damage and
// mine yield through eng instead of the raw component values, and — when
// bus is non-nil — publishes EntityDied for every entity Housekeeping
// reaps this tick.
func NewTickRunnerWithFormula(w *world.World, in *TickIntents, eng *formula.Engine, bus *event.Bus) *coresys.Runner {
	r := coresys.NewRunner()
	r.Register(NewMineSystemWithFormula(w, in, eng))
	r.Register(NewDropoffSystem(w, in))
	r.Register(NewMeleeSystemWithFormula(w, in, eng))
	r.Register(NewMoveSystem(w, in))
	r.Register(NewPathCacheSystem(w, in))
	r.Register(NewLogSystem(w, in))
	r.Register(NewScriptHistorySystem(w, in))
	if bus != nil {
		r.Register(NewHousekeepingSystemWithBus(w, in, bus))
	} else {
		r.Register(NewHousekeepingSystem(w, in))
	}
	r.Register(NewWorldTimeSystem(w))
	return r
}
