package world

import (
	"fmt"

	"github.com/caolo-go/sim/internal/core/ecs"
	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/spatial"
)

// RoomGrids is a per-room collection of dense hex grids, used for both
// EntityByWorldPosition and TerrainByWorldPosition (spec.md §3 "Spatial
// keys"). Each room gets its own grid sized to RoomProperties.Radius.
type RoomGrids[T any] struct {
	radius int32
	rooms  map[RoomID]*spatial.HexGrid[T]
}

func NewRoomGrids[T any](radius int32) *RoomGrids[T] {
	return &RoomGrids[T]{radius: radius, rooms: make(map[RoomID]*spatial.HexGrid[T])}
}

// EnsureRoom allocates a grid for room if it does not already exist.
func (g *RoomGrids[T]) EnsureRoom(room RoomID) *spatial.HexGrid[T] {
	grid, ok := g.rooms[room]
	if !ok {
		grid = spatial.NewHexGrid[T](g.radius)
		g.rooms[room] = grid
	}
	return grid
}

// At returns the grid for room, satisfying invariant P2 (callers that look
// up a position must first confirm the room exists).
func (g *RoomGrids[T]) At(room RoomID) (*spatial.HexGrid[T], bool) {
	grid, ok := g.rooms[room]
	return grid, ok
}

func (g *RoomGrids[T]) Get(pos WorldPosition) (T, bool) {
	var zero T
	grid, ok := g.rooms[pos.Room]
	if !ok {
		return zero, false
	}
	return grid.At(pos.Pos)
}

func (g *RoomGrids[T]) Insert(pos WorldPosition, val T) error {
	grid := g.EnsureRoom(pos.Room)
	_, err := grid.Insert(pos.Pos, val)
	return err
}

func (g *RoomGrids[T]) Remove(pos WorldPosition) {
	if grid, ok := g.rooms[pos.Room]; ok {
		grid.Remove(pos.Pos)
	}
}

func (g *RoomGrids[T]) ContainsKey(pos WorldPosition) bool {
	grid, ok := g.rooms[pos.Room]
	if !ok {
		return false
	}
	return grid.ContainsKey(pos.Pos) // note: bounds-only; pair with Get to test presence
}

func (g *RoomGrids[T]) QueryHex(room RoomID, region hexgeom.Hexagon, op func(hexgeom.Axial, T)) {
	if grid, ok := g.rooms[room]; ok {
		grid.QueryHex(region, op)
	}
}

// World is the top-level world store: entity/component tables keyed by
// entity id, the two spatial indices keyed by world/axial position, and
// the singleton records. It composes the generic ecs.World the same way
// the teacher's game server composes ecs.World with its own component
// stores, generalized here to also carry position-keyed and singleton
// tables.
type World struct {
	ECS *ecs.World

	Bots          *ecs.PtrComponentStore[Bot]
	Structures    *ecs.PtrComponentStore[Structure]
	Spawns        *ecs.PtrComponentStore[Spawn]
	SpawnQueues   *ecs.PtrComponentStore[SpawnQueue]
	Positions     *ecs.PtrComponentStore[Position]
	Owners        *ecs.PtrComponentStore[OwnedEntity]
	Scripts       *ecs.PtrComponentStore[EntityScript]
	Hps           *ecs.PtrComponentStore[Hp]
	Energies      *ecs.PtrComponentStore[Energy]
	EnergyRegens  *ecs.PtrComponentStore[EnergyRegen]
	Carries       *ecs.PtrComponentStore[Carry]
	Resources     *ecs.PtrComponentStore[Resource]
	MeleeAttacks  *ecs.PtrComponentStore[MeleeAttack]
	Decays        *ecs.PtrComponentStore[Decay]
	PathCaches    *ecs.PtrComponentStore[PathCache]
	Says          *ecs.PtrComponentStore[Say]
	MineEvents    *ecs.PtrComponentStore[MineEvent]
	DropoffEvents *ecs.PtrComponentStore[DropoffEvent]
	Respawnings   *ecs.PtrComponentStore[Respawning]

	Logs           map[LogKey]LogEntry
	ScriptHistory  map[LogKey]ScriptHistoryEntry

	EntityByWorldPosition *RoomGrids[EntityID]
	TerrainByWorldPosition *RoomGrids[TileTerrainType]
	RoomComponents  *spatial.MortonTable[RoomComponent]
	RoomConnections *spatial.MortonTable[RoomConnections]

	Time       WorldTime
	Config     GameConfig
	RoomProps  RoomProperties
}

// NewWorld allocates an empty world store. roomRadius sizes every room's
// dense hex grids (spec.md §3: each room's hex disc is bounded).
func NewWorld(roomRadius int32) *World {
	w := &World{
		ECS: ecs.NewWorld(),

		Bots:          ecs.NewPtrComponentStore[Bot](),
		Structures:    ecs.NewPtrComponentStore[Structure](),
		Spawns:        ecs.NewPtrComponentStore[Spawn](),
		SpawnQueues:   ecs.NewPtrComponentStore[SpawnQueue](),
		Positions:     ecs.NewPtrComponentStore[Position](),
		Owners:        ecs.NewPtrComponentStore[OwnedEntity](),
		Scripts:       ecs.NewPtrComponentStore[EntityScript](),
		Hps:           ecs.NewPtrComponentStore[Hp](),
		Energies:      ecs.NewPtrComponentStore[Energy](),
		EnergyRegens:  ecs.NewPtrComponentStore[EnergyRegen](),
		Carries:       ecs.NewPtrComponentStore[Carry](),
		Resources:     ecs.NewPtrComponentStore[Resource](),
		MeleeAttacks:  ecs.NewPtrComponentStore[MeleeAttack](),
		Decays:        ecs.NewPtrComponentStore[Decay](),
		PathCaches:    ecs.NewPtrComponentStore[PathCache](),
		Says:          ecs.NewPtrComponentStore[Say](),
		MineEvents:    ecs.NewPtrComponentStore[MineEvent](),
		DropoffEvents: ecs.NewPtrComponentStore[DropoffEvent](),
		Respawnings:   ecs.NewPtrComponentStore[Respawning](),

		Logs:          make(map[LogKey]LogEntry),
		ScriptHistory: make(map[LogKey]ScriptHistoryEntry),

		EntityByWorldPosition:  NewRoomGrids[EntityID](roomRadius),
		TerrainByWorldPosition: NewRoomGrids[TileTerrainType](roomRadius),
		RoomComponents:         spatial.NewMortonTable[RoomComponent](),
		RoomConnections:        spatial.NewMortonTable[RoomConnections](),

		RoomProps: RoomProperties{Radius: roomRadius},
	}

	for _, s := range []ecs.Removable{
		w.Bots, w.Structures, w.Spawns, w.SpawnQueues, w.Positions, w.Owners,
		w.Scripts, w.Hps, w.Energies, w.EnergyRegens, w.Carries, w.Resources,
		w.MeleeAttacks, w.Decays, w.PathCaches, w.Says, w.MineEvents, w.DropoffEvents,
		w.Respawnings,
	} {
		w.ECS.Registry().Register(s)
	}

	return w
}

// InsertEntity creates a new entity id. Callers attach components
// separately; this only reserves the identity (spec.md §3 "Lifecycles").
func (w *World) InsertEntity() EntityID {
	return w.ECS.CreateEntity()
}

// PlaceEntity records e's Position and publishes it into the spatial
// index, enforcing invariant P1 by refusing to place onto an occupied
// tile that isn't already e's own.
func (w *World) PlaceEntity(e EntityID, pos WorldPosition) error {
	if occupant, ok := w.EntityByWorldPosition.Get(pos); ok && occupant != e {
		return fmt.Errorf("world: tile %+v already occupied by %v", pos, occupant)
	}
	if old, ok := w.Positions.Get(e); ok {
		w.EntityByWorldPosition.Remove(old.WorldPosition)
	}
	w.Positions.Set(e, &Position{WorldPosition: pos})
	return w.EntityByWorldPosition.Insert(pos, e)
}

// DestroyEntity queues e for deferred destruction, flushed between system
// phases so iteration over component stores is never invalidated mid-phase.
func (w *World) DestroyEntity(e EntityID) {
	w.ECS.MarkForDestruction(e)
}

// FlushDestroyQueue removes all queued entities from every component
// store and the spatial index, then frees their ids.
func (w *World) FlushDestroyQueue() {
	for _, e := range w.ECS.PendingDestruction() {
		if pos, ok := w.Positions.Get(e); ok {
			w.EntityByWorldPosition.Remove(pos.WorldPosition)
		}
	}
	w.ECS.FlushDestroyQueue()
}

// RebuildEntityIndex rebuilds entity_by_world_position from the
// authoritative Position components, restoring invariant P1 after a tick
// of moves, spawns and deferred deletes (spec.md §4.9 housekeeping).
func (w *World) RebuildEntityIndex() {
	w.EntityByWorldPosition = NewRoomGrids[EntityID](w.RoomProps.Radius)
	w.Positions.Each(func(e EntityID, pos *Position) {
		_ = w.EntityByWorldPosition.Insert(pos.WorldPosition, e)
	})
}

// ClearTickEvents clears the per-tick event stores. Invariant I5: event
// components present at end of tick T are gone before tick T+1's scripts
// run, so this is called at the very start of the tick, before scripts run.
func (w *World) ClearTickEvents() {
	w.MineEvents = ecs.NewPtrComponentStore[MineEvent]()
	w.DropoffEvents = ecs.NewPtrComponentStore[DropoffEvent]()
}
