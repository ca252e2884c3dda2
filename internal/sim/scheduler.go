// Package sim is the tick scheduler: one VM invocation per scripted bot,
// followed by the §4.9 intent-system pipeline, generalized from the
// teacher's core/system.Runner.Tick game-loop idiom to run a script phase
// ahead of the system phase every tick.
package sim

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/caolo-go/sim/internal/compiler"
	"github.com/caolo-go/sim/internal/core/event"
	"github.com/caolo-go/sim/internal/formula"
	"github.com/caolo-go/sim/internal/hostapi"
	"github.com/caolo-go/sim/internal/system"
	"github.com/caolo-go/sim/internal/vm"
	"github.com/caolo-go/sim/internal/world"
)

// Scheduler owns the world and the compiled-script cache, and drives one
// tick at a time.
type Scheduler struct {
	world      *world.World
	scripts    map[world.ScriptID]*compiler.CompiledProgram
	hosts      vm.HostTable[*hostapi.Context]
	stepBudget int
	pathBudget int
	formula    *formula.Engine
	bus        *event.Bus
	log        *zap.Logger
}

func New(w *world.World, stepBudget, pathBudget int, log *zap.Logger) *Scheduler {
	return &Scheduler{
		world:      w,
		scripts:    make(map[world.ScriptID]*compiler.CompiledProgram),
		hosts:      hostapi.Table(),
		stepBudget: stepBudget,
		pathBudget: pathBudget,
		log:        log,
	}
}

// WithFormula installs the melee/mine payout engine, returning s for
// chaining at construction time.
func (s *Scheduler) WithFormula(eng *formula.Engine) *Scheduler {
	s.formula = eng
	return s
}

// WithEventBus installs an event.Bus that EntityDied and
// ScriptExecutionFailed are published to, returning s for chaining.
func (s *Scheduler) WithEventBus(bus *event.Bus) *Scheduler {
	s.bus = bus
	return s
}

// LoadScript installs a compiled program into the cache, overwriting any
// previous version. Scripts are recompiled and reloaded out-of-band from
// the tick loop (player edits a script, an admin pushes a fix).
func (s *Scheduler) LoadScript(id world.ScriptID, prog *compiler.CompiledProgram) {
	s.scripts[id] = prog
}

// Tick runs one full simulation step: clear last tick's event components,
// run every scripted bot's VM, then apply the collected intents through
// the fixed §4.9 system pipeline.
func (s *Scheduler) Tick(dt time.Duration) {
	s.world.ClearTickEvents()
	if s.bus != nil {
		s.bus.SwapBuffers()
		s.bus.DispatchAll()
	}

	intents := &system.TickIntents{}

	var bots []world.EntityID
	s.world.Scripts.Each(func(id world.EntityID, _ *world.EntityScript) {
		bots = append(bots, id)
	})
	sort.Slice(bots, func(i, j int) bool { return bots[i] < bots[j] })

	for _, bot := range bots {
		s.runScript(bot, intents)
	}

	if s.formula != nil || s.bus != nil {
		system.NewTickRunnerWithFormula(s.world, intents, s.formula, s.bus).Tick(dt)
	} else {
		system.NewTickRunner(s.world, intents).Tick(dt)
	}
}

func (s *Scheduler) runScript(bot world.EntityID, intents *system.TickIntents) {
	es, ok := s.world.Scripts.Get(bot)
	if !ok {
		return
	}
	prog, ok := s.scripts[es.ScriptID]
	if !ok {
		s.log.Warn("no compiled program for script", zap.Uint64("bot", uint64(bot)))
		return
	}
	owner, ok := s.world.Owners.Get(bot)
	if !ok {
		return
	}

	ctx := hostapi.NewContext(s.world, bot, owner.UserID, s.pathBudget)
	machine := vm.New(prog.Bytecode, prog.Labels, s.hosts, ctx, s.stepBudget)
	if _, err := machine.Run(); err != nil {
		s.log.Warn("script execution failed",
			zap.Uint64("bot", uint64(bot)),
			zap.Error(err),
		)
		if s.bus != nil {
			event.Emit(s.bus, event.ScriptExecutionFailed{Bot: bot, Err: err.Error()})
		}
	}

	acc := ctx.Intents
	intents.Moves = append(intents.Moves, acc.Moves...)
	intents.Mines = append(intents.Mines, acc.Mines...)
	intents.Dropoffs = append(intents.Dropoffs, acc.Dropoffs...)
	intents.Melees = append(intents.Melees, acc.Melees...)
	intents.Spawns = append(intents.Spawns, acc.Spawns...)
	intents.CachePaths = append(intents.CachePaths, acc.CachePaths...)
	intents.MutPathCaches = append(intents.MutPathCaches, acc.MutPathCaches...)
	intents.Logs = append(intents.Logs, acc.Logs...)
	intents.Says = append(intents.Says, acc.Says...)
	intents.Executed = append(intents.Executed, system.ScriptExecution{Bot: bot, Script: es.ScriptID})
}
