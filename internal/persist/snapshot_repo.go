package persist

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/caolo-go/sim/internal/world"
)

// EntityDump is one entity's full component set, flattened for storage.
// Zero-value components with Has* = false were absent on the entity.
type EntityDump struct {
	ID world.EntityID

	IsBot, IsStructure, IsResource bool

	HasPosition bool
	Position    world.WorldPosition

	HasOwner bool
	Owner    world.UserID

	HasScript bool
	Script    world.ScriptID

	HasHp bool
	Hp    world.Hp

	HasEnergy bool
	Energy    world.Energy

	HasCarry bool
	Carry    world.Carry

	HasResource bool
	Resource    world.Resource

	HasDecay bool
	Decay    world.Decay
}

// WorldSnapshot is a full, self-contained dump of a World's mutable state,
// enough to reconstruct it on restart. This is the autosave durability
// layer (spec.md §6), distinct from snapshot.RoomSnapshot, which is the
// smaller per-room view a network layer would stream to clients.
type WorldSnapshot struct {
	Tick    uint64
	Config  world.GameConfig
	Room    world.RoomProperties
	Entities []EntityDump
}

// DumpWorld walks every entity with a Position and flattens its components
// into a WorldSnapshot, grounded on the teacher's State per-entity
// bookkeeping (internal/world/state.go), adapted from in-memory indices to
// a serializable record.
func DumpWorld(w *world.World) WorldSnapshot {
	snap := WorldSnapshot{Tick: w.Time.Tick, Config: w.Config, Room: w.RoomProps}

	w.Positions.Each(func(id world.EntityID, pos *world.Position) {
		d := EntityDump{ID: id, HasPosition: true, Position: pos.WorldPosition}
		d.IsBot = w.Bots.Has(id)
		d.IsStructure = w.Structures.Has(id)
		if owner, ok := w.Owners.Get(id); ok {
			d.HasOwner, d.Owner = true, owner.UserID
		}
		if script, ok := w.Scripts.Get(id); ok {
			d.HasScript, d.Script = true, script.ScriptID
		}
		if hp, ok := w.Hps.Get(id); ok {
			d.HasHp, d.Hp = true, *hp
		}
		if energy, ok := w.Energies.Get(id); ok {
			d.HasEnergy, d.Energy = true, *energy
		}
		if carry, ok := w.Carries.Get(id); ok {
			d.HasCarry, d.Carry = true, *carry
		}
		if res, ok := w.Resources.Get(id); ok {
			d.HasResource, d.IsResource, d.Resource = true, true, *res
		}
		if decay, ok := w.Decays.Get(id); ok {
			d.HasDecay, d.Decay = true, *decay
		}
		snap.Entities = append(snap.Entities, d)
	})

	return snap
}

// Restore replays a WorldSnapshot's entities into an empty World, the
// inverse of DumpWorld. Entities get freshly allocated ids rather than the
// ones they held at dump time — EntityPool has no id-pinning operation —
// which is safe here since EntityDump carries no entity-to-entity
// references, only UserID/ScriptID foreign keys.
func (snap WorldSnapshot) Restore(w *world.World) {
	w.Time.Tick = snap.Tick
	w.Config = snap.Config
	w.RoomProps = snap.Room

	for _, d := range snap.Entities {
		id := w.InsertEntity()
		if d.IsBot {
			w.Bots.Set(id, &world.Bot{})
		}
		if d.IsStructure {
			w.Structures.Set(id, &world.Structure{})
		}
		if d.HasOwner {
			w.Owners.Set(id, &world.OwnedEntity{UserID: d.Owner})
		}
		if d.HasScript {
			w.Scripts.Set(id, &world.EntityScript{ScriptID: d.Script})
		}
		if d.HasHp {
			hp := d.Hp
			w.Hps.Set(id, &hp)
		}
		if d.HasEnergy {
			energy := d.Energy
			w.Energies.Set(id, &energy)
		}
		if d.HasCarry {
			carry := d.Carry
			w.Carries.Set(id, &carry)
		}
		if d.HasResource {
			res := d.Resource
			w.Resources.Set(id, &res)
		}
		if d.HasDecay {
			decay := d.Decay
			w.Decays.Set(id, &decay)
		}
		if d.HasPosition {
			_ = w.PlaceEntity(id, d.Position)
		}
	}
	w.RebuildEntityIndex()
}

func EncodeWorldSnapshot(s WorldSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("encode world snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodeWorldSnapshot(data []byte) (WorldSnapshot, error) {
	var s WorldSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return WorldSnapshot{}, fmt.Errorf("decode world snapshot: %w", err)
	}
	return s, nil
}

// WorldSnapshotRepo persists autosaves of the world keyed by server id, one
// row per server holding the latest snapshot only.
type WorldSnapshotRepo struct {
	db *DB
}

func NewWorldSnapshotRepo(db *DB) *WorldSnapshotRepo {
	return &WorldSnapshotRepo{db: db}
}

func (r *WorldSnapshotRepo) Save(ctx context.Context, serverID int, snap WorldSnapshot) error {
	blob, err := EncodeWorldSnapshot(snap)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO world_snapshots (server_id, tick, blob)
		VALUES ($1, $2, $3)
		ON CONFLICT (server_id) DO UPDATE SET tick = $2, blob = $3
	`, serverID, snap.Tick, blob)
	if err != nil {
		return fmt.Errorf("save world snapshot for server %d: %w", serverID, err)
	}
	return nil
}

// Load returns the zero snapshot, false, nil if no autosave exists yet.
func (r *WorldSnapshotRepo) Load(ctx context.Context, serverID int) (WorldSnapshot, bool, error) {
	var blob []byte
	err := r.db.Pool.QueryRow(ctx, `SELECT blob FROM world_snapshots WHERE server_id = $1`, serverID).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return WorldSnapshot{}, false, nil
	}
	if err != nil {
		return WorldSnapshot{}, false, fmt.Errorf("load world snapshot for server %d: %w", serverID, err)
	}
	snap, err := DecodeWorldSnapshot(blob)
	if err != nil {
		return WorldSnapshot{}, false, err
	}
	return snap, true, nil
}
