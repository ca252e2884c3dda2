package intent

import "github.com/caolo-go/sim/internal/world"

// MoveIntent relocates Bot to Target, subject to the move validator's
// distance, terrain and occupancy checks. Transit marks a bridge crossing
// into Target.Room's neighbouring room, which skips the same-room/distance
// check since Target is by definition not in the bot's current room.
type MoveIntent struct {
	Bot     world.EntityID
	Target  world.WorldPosition
	Transit bool
}

// MineIntent takes resource from Resource into Bot's carry.
type MineIntent struct {
	Bot      world.EntityID
	Resource world.EntityID
}

// DropoffIntent transfers up to Amount from Bot's carry into Structure.
type DropoffIntent struct {
	Bot       world.EntityID
	Structure world.EntityID
	Amount    int32
}

// MeleeIntent applies Bot's melee strength as damage to Target.
type MeleeIntent struct {
	Bot    world.EntityID
	Target world.EntityID
}

// SpawnIntent enqueues a new bot for Structure to produce.
type SpawnIntent struct {
	Structure world.EntityID
	Owner     world.UserID
}

// CachePathAction enumerates what a MutPathCacheIntent does to a bot's
// PathCache.
type CachePathAction int8

const (
	CachePathPop CachePathAction = iota
	CachePathDel
)

// CachePathIntent installs a freshly computed path into Bot's PathCache.
type CachePathIntent struct {
	Bot    world.EntityID
	Target world.WorldPosition
	Path   []world.WorldPosition
}

// MutPathCacheIntent performs a side-effecting action (Pop the next step,
// or Del the whole cache) on Bot's PathCache.
type MutPathCacheIntent struct {
	Bot    world.EntityID
	Action CachePathAction
}

// LogIntent appends Text to Bot's log history for the tick it is applied.
type LogIntent struct {
	Bot  world.EntityID
	Text string
}

// SayIntent sets Bot's speech-bubble text for the tick it is applied.
type SayIntent struct {
	Bot  world.EntityID
	Text string
}
