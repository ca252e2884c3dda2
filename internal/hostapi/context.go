// Package hostapi binds VM host-call names to intent validators, the
// bridge described in spec.md §4.8: every call pops its arguments,
// validates a candidate intent against a read-only world snapshot, and on
// success stashes the intent in the calling script's accumulator. No host
// function mutates world state directly; that happens later, in the
// intent systems of §4.9.
package hostapi

import (
	"github.com/caolo-go/sim/internal/intent"
	"github.com/caolo-go/sim/internal/world"
)

// Accumulator collects one script invocation's accepted intents, merged
// into per-kind global buffers between the script and system phases.
type Accumulator struct {
	Moves         []intent.MoveIntent
	Mines         []intent.MineIntent
	Dropoffs      []intent.DropoffIntent
	Melees        []intent.MeleeIntent
	Spawns        []intent.SpawnIntent
	CachePaths    []intent.CachePathIntent
	MutPathCaches []intent.MutPathCacheIntent
	Logs          []intent.LogIntent
	Says          []intent.SayIntent
}

// Context is the VM's auxiliary value for a bot script invocation: a
// read-only handle onto the world, the identity of the executing bot and
// its owner, a pathfinding node-expansion budget, and the accumulator the
// host functions append accepted intents to.
type Context struct {
	World      *world.World
	Bot        world.EntityID
	Owner      world.UserID
	PathBudget int
	Intents    Accumulator
}

func NewContext(w *world.World, bot world.EntityID, owner world.UserID, pathBudget int) *Context {
	return &Context{World: w, Bot: bot, Owner: owner, PathBudget: pathBudget}
}

func (c *Context) botPosition() (world.WorldPosition, bool) {
	pos, ok := c.World.Positions.Get(c.Bot)
	if !ok {
		return world.WorldPosition{}, false
	}
	return pos.WorldPosition, true
}

// pathCache returns the bot's current PathCache, if any.
func (c *Context) pathCache() (*world.PathCache, bool) {
	return c.World.PathCaches.Get(c.Bot)
}
