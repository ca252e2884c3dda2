// Package snapshot builds the per-tick, per-room view a network layer would
// marshal out to clients. This module only produces RoomSnapshot values; it
// has no transport of its own.
package snapshot

import (
	"sort"

	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/world"
)

// EntityKind classifies the entities surfaced in a snapshot.
type EntityKind uint8

const (
	EntityKindBot EntityKind = iota
	EntityKindStructure
	EntityKindResource
)

// EntitySnapshot is one entity's visible state, flattened out of whichever
// components it carries.
type EntitySnapshot struct {
	ID     world.EntityID
	Kind   EntityKind
	Pos    hexgeom.Axial
	Owner  world.UserID
	HasHp  bool
	Hp     int32
	HpMax  int32
	HasEnergy bool
	Energy    int32
	EnergyMax int32
	HasCarry bool
	Carry    int32
	CarryMax int32
	Say      string
}

// LogLine is one script log entry emitted this tick, keyed by its author.
type LogLine struct {
	Entity world.EntityID
	Text   string
}

// RoomSnapshot is everything a client watching one room needs to render the
// tick that just completed.
type RoomSnapshot struct {
	Room     hexgeom.Axial
	Tick     uint64
	Entities []EntitySnapshot
	Logs     []LogLine
}

// BuildRoom walks every store touching entities positioned in room and
// assembles a RoomSnapshot. Entities are returned sorted by ID so repeated
// snapshots of an unchanged world are byte-identical.
func BuildRoom(w *world.World, room hexgeom.Axial) RoomSnapshot {
	snap := RoomSnapshot{Room: room, Tick: w.Time.Tick}

	w.Positions.Each(func(id world.EntityID, pos *world.Position) {
		if pos.WorldPosition.Room != room {
			return
		}
		es := EntitySnapshot{ID: id, Pos: pos.WorldPosition.Pos}

		switch {
		case w.Bots.Has(id):
			es.Kind = EntityKindBot
		case w.Structures.Has(id):
			es.Kind = EntityKindStructure
		case w.Resources.Has(id):
			es.Kind = EntityKindResource
		}

		if owner, ok := w.Owners.Get(id); ok {
			es.Owner = owner.UserID
		}
		if hp, ok := w.Hps.Get(id); ok {
			es.HasHp, es.Hp, es.HpMax = true, hp.Hp, hp.HpMax
		}
		if energy, ok := w.Energies.Get(id); ok {
			es.HasEnergy, es.Energy, es.EnergyMax = true, energy.Energy, energy.EnergyMax
		}
		if carry, ok := w.Carries.Get(id); ok {
			es.HasCarry, es.Carry, es.CarryMax = true, carry.Carry, carry.CarryMax
		}
		if say, ok := w.Says.Get(id); ok {
			es.Say = say.Text
		}

		snap.Entities = append(snap.Entities, es)
	})

	for key, entry := range w.Logs {
		if key.Tick != w.Time.Tick {
			continue
		}
		pos, ok := w.Positions.Get(key.Entity)
		if !ok || pos.WorldPosition.Room != room {
			continue
		}
		snap.Logs = append(snap.Logs, LogLine{Entity: key.Entity, Text: entry.Text})
	}

	sort.Slice(snap.Entities, func(i, j int) bool { return snap.Entities[i].ID < snap.Entities[j].ID })
	sort.Slice(snap.Logs, func(i, j int) bool { return snap.Logs[i].Entity < snap.Logs[j].Entity })

	return snap
}
