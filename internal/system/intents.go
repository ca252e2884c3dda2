// Package system holds the per-tick intent systems (C9): one file per
// system, registered on a coresys.Runner in the fixed order spec.md §4.9
// requires. Each system consumes TickIntents, already collected from every
// bot script invocation this tick, and mutates the world.
package system

import (
	"github.com/caolo-go/sim/internal/core/ecs"
	"github.com/caolo-go/sim/internal/intent"
	"github.com/caolo-go/sim/internal/world"
)

// ScriptExecution records that Bot ran Script this tick, regardless of
// which intents (if any) it produced. The scheduler appends one entry per
// EntityScript invocation.
type ScriptExecution struct {
	Bot    world.EntityID
	Script world.ScriptID
}

// replaceStore swaps in a fresh, empty component store of the same type,
// satisfying invariant I5: event components are cleared before the system
// that owns them writes this tick's events.
func replaceStore[T any](*ecs.PtrComponentStore[T]) *ecs.PtrComponentStore[T] {
	return ecs.NewPtrComponentStore[T]()
}

// TickIntents is one tick's accepted intents, merged from every bot's
// hostapi.Accumulator before the system phase runs. Within each slice,
// order reflects script-execution order, which doubles as conflict
// arrival order for systems like move that must resolve races.
type TickIntents struct {
	Mines         []intent.MineIntent
	Dropoffs      []intent.DropoffIntent
	Melees        []intent.MeleeIntent
	Moves         []intent.MoveIntent
	CachePaths    []intent.CachePathIntent
	MutPathCaches []intent.MutPathCacheIntent
	Logs          []intent.LogIntent
	Says          []intent.SayIntent
	Spawns        []intent.SpawnIntent
	Executed      []ScriptExecution
}

// Reset empties every slice in place so the backing arrays can be reused
// next tick.
func (t *TickIntents) Reset() {
	t.Mines = t.Mines[:0]
	t.Dropoffs = t.Dropoffs[:0]
	t.Melees = t.Melees[:0]
	t.Moves = t.Moves[:0]
	t.CachePaths = t.CachePaths[:0]
	t.MutPathCaches = t.MutPathCaches[:0]
	t.Logs = t.Logs[:0]
	t.Says = t.Says[:0]
	t.Spawns = t.Spawns[:0]
	t.Executed = t.Executed[:0]
}
