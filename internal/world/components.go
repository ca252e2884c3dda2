package world

import "github.com/caolo-go/sim/internal/hexgeom"

// Bot is a tag component: the entity is movable and script-executing.
type Bot struct{}

// Structure is a tag component for immobile entities. A Structure carries
// exactly one of Spawn or a resource store (Resource/Carry), never both.
type Structure struct{}

// Spawn marks a structure able to produce new bots.
type Spawn struct {
	Spawning     *EntityID
	TimeToSpawn  uint8
}

// SpawnQueue holds the entities queued to spawn from a Spawn structure.
type SpawnQueue struct {
	Queue []EntityID
}

// Position is the authoritative location of a bot or structure. Invariant
// P1: at most one entity carries a given Position value at a time — the
// EntityByWorldPosition spatial index is the unique source of truth for
// that set.
type Position struct {
	WorldPosition WorldPosition
}

// OwnedEntity records which user controls an entity.
type OwnedEntity struct {
	UserID UserID
}

// EntityScript records which compiled script an entity runs each tick.
type EntityScript struct {
	ScriptID ScriptID
}

// Hp is hit points.
type Hp struct {
	Hp    int32
	HpMax int32
}

// Energy is a bot's or structure's stored energy resource.
type Energy struct {
	Energy    int32
	EnergyMax int32
}

// EnergyRegen is the per-tick energy regeneration rate.
type EnergyRegen struct {
	Amount int32
}

// Carry is a bot's resource-carrying capacity.
type Carry struct {
	Carry    int32
	CarryMax int32
}

// ResourceKind enumerates the resource payload a Resource entity holds.
type ResourceKind int8

const (
	ResourceEmpty ResourceKind = iota
	ResourceEnergy
)

// Resource marks a minable resource node and what it currently yields.
type Resource struct {
	Kind ResourceKind
}

// MeleeAttack is a bot's melee damage strength.
type MeleeAttack struct {
	Strength int32
}

// Decay ticks HP damage onto an entity at a fixed interval.
type Decay struct {
	HpAmount      int32
	Interval      uint32
	TimeRemaining uint32
}

// Respawning marks a depleted Resource entity counting down to
// reappearing on a fresh tile, per spec.md §4.9 housekeeping.
type Respawning struct {
	TimeRemaining uint32
}

// PathCacheLen bounds the number of steps a PathCache remembers.
const PathCacheLen = 64

// PathCache remembers the most recent path computed toward Target so
// repeated moves toward the same goal can skip pathfinding. Invariant P3:
// the cache is only valid while Target matches the bot's current goal.
type PathCache struct {
	Target WorldPosition
	Path   []WorldPosition // bounded to PathCacheLen, next step is the last element
}

// SayMaxLen bounds Say.Text.
const SayMaxLen = 64

// Say is the speech bubble text a bot last emitted.
type Say struct {
	Text string
}

// MineEvent is a per-tick event component recording that a bot mined a
// resource this tick. Cleared at the start of every tick before new
// events are written, satisfying invariant I5.
type MineEvent struct {
	Bot      EntityID
	Resource EntityID
	Amount   int32
}

// DropoffEvent is a per-tick event component recording a resource
// transfer from a bot to a structure this tick.
type DropoffEvent struct {
	Bot       EntityID
	Structure EntityID
	Amount    int32
}

// LogKey keys a LogEntry by the entity that produced it and the tick it
// was produced on.
type LogKey struct {
	Entity EntityID
	Tick   uint64
}

// LogEntry is one line of script-emitted log text, appended as scripts
// run `log` host calls.
type LogEntry struct {
	Text string
}

// ScriptHistoryEntry records which compiled script ran for an entity on a
// given tick, stamped by the script_history system (spec.md §4.9 step 7).
type ScriptHistoryEntry struct {
	Script ScriptID
}

// TileTerrainType enumerates what, if anything, occupies a terrain tile.
type TileTerrainType int8

const (
	TerrainEmpty TileTerrainType = iota
	TerrainPlain
	TerrainBridge
	TerrainWall
)

func (t TileTerrainType) Walkable() bool {
	return t == TerrainPlain || t == TerrainBridge
}

// RoomComponent is the per-room generation record: its world-space offset
// and the seed used to generate its terrain.
type RoomComponent struct {
	Offset hexgeom.Axial
	Seed   uint64
}

// RoomConnection describes a bridge from one room to a neighbour across
// one of the room's six edges.
type RoomConnection struct {
	Direction   hexgeom.Axial
	OffsetStart int32
	OffsetEnd   int32
}

// RoomConnections holds the (up to six) connections leaving a room, one
// slot per edge index; a nil entry means no connection on that edge.
type RoomConnections struct {
	Edges [6]*RoomConnection
}

// WorldTime is the singleton tick counter. Invariant P5/I4: it increases
// by exactly one per completed tick.
type WorldTime struct {
	Tick uint64
}

// GameConfig is the singleton tuning-parameter record.
type GameConfig struct {
	PathFindingLimit     uint32
	TickRateHint         uint32
	ResourceRespawnTicks uint32
	ResourceRespawnRange int32
	SpawnTicks           uint8
}

// RoomProperties is the singleton describing the shared geometry of every
// room in the world.
type RoomProperties struct {
	Radius int32
	Center hexgeom.Axial
}
