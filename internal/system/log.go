package system

import (
	"time"

	coresys "github.com/caolo-go/sim/internal/core/system"
	"github.com/caolo-go/sim/internal/world"
)

// LogSystem applies log_intents and say_intents. Phase 6 of the §4.9
// order. Say isn't broken out as its own numbered step in spec.md §4.9,
// but shares log's write-only, no-validation shape, so it rides along in
// the same system.
type LogSystem struct {
	world *world.World
	in    *TickIntents
}

func NewLogSystem(w *world.World, in *TickIntents) *LogSystem {
	return &LogSystem{world: w, in: in}
}

func (s *LogSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *LogSystem) Update(_ time.Duration) {
	for _, in := range s.in.Logs {
		s.world.Logs[world.LogKey{Entity: in.Bot, Tick: s.world.Time.Tick}] = world.LogEntry{Text: in.Text}
	}
	for _, in := range s.in.Says {
		s.world.Says.Set(in.Bot, &world.Say{Text: in.Text})
	}
}
