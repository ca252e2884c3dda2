// Package world is the C3 world store: the heterogeneous table collection
// keyed by entity id, world position, or singleton key, plus the
// component definitions that make up a bot and its surroundings.
package world

import (
	"github.com/google/uuid"

	"github.com/caolo-go/sim/internal/core/ecs"
	"github.com/caolo-go/sim/internal/hexgeom"
)

// EntityID is re-exported from the ecs package so callers only need to
// import one package for entity identity.
type EntityID = ecs.EntityID

// UserID identifies a player account. 128-bit UUID per spec.md §3.
type UserID = uuid.UUID

// ScriptID identifies a persisted script artifact. 128-bit UUID.
type ScriptID = uuid.UUID

// RoomID is the axial coordinate of a room in the overworld.
type RoomID = hexgeom.Axial

// WorldPosition locates a tile: a room plus a position inside that room's
// hex disc.
type WorldPosition struct {
	Room RoomID
	Pos  hexgeom.Axial
}

func (p WorldPosition) SameRoom(o WorldPosition) bool { return p.Room == o.Room }
