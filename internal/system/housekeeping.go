package system

import (
	"math/rand"
	"sort"
	"time"

	"github.com/caolo-go/sim/internal/core/event"
	coresys "github.com/caolo-go/sim/internal/core/system"
	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/intent"
	"github.com/caolo-go/sim/internal/world"
)

// defaultBotHp and defaultBotCarry seed stats for bots created by spawn
// progression; GameConfig has no per-bot-class table in this core, so
// every spawned bot gets the same baseline.
const (
	defaultBotHp    = 100
	defaultBotCarry = 100
)

// HousekeepingSystem closes out a tick: decay, resource respawn, spawn
// progression, dead-entity reaping, deferred-delete flush and spatial
// index rebuild. Phase 8 of the §4.9 order.
type HousekeepingSystem struct {
	world *world.World
	in    *TickIntents
	bus   *event.Bus
}

func NewHousekeepingSystem(w *world.World, in *TickIntents) *HousekeepingSystem {
	return &HousekeepingSystem{world: w, in: in}
}

// NewHousekeepingSystemWithBus wires an event.Bus so reaped entities emit
// EntityDied for external subscribers (e.g. logging, notifications).
func NewHousekeepingSystemWithBus(w *world.World, in *TickIntents, bus *event.Bus) *HousekeepingSystem {
	return &HousekeepingSystem{world: w, in: in, bus: bus}
}

func (s *HousekeepingSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *HousekeepingSystem) Update(_ time.Duration) {
	s.applySpawnRequests()
	s.applyDecay()
	s.applyRespawns()
	s.progressSpawns()
	s.reapDead()
	s.world.FlushDestroyQueue()
	s.world.RebuildEntityIndex()
}

// applySpawnRequests turns this tick's validated SpawnIntents into queued
// bot entities: the entity is created now (so it has a stable id to
// reference) but stays off the spatial index until progressSpawns places
// it.
func (s *HousekeepingSystem) applySpawnRequests() {
	for _, in := range s.in.Spawns {
		owner, ok := s.world.Owners.Get(in.Structure)
		if !ok || owner.UserID != in.Owner {
			continue
		}
		if intent.ValidateSpawn(s.world, in.Owner, in) != intent.Ok {
			continue
		}
		bot := s.world.InsertEntity()
		s.world.Bots.Set(bot, &world.Bot{})
		s.world.Owners.Set(bot, &world.OwnedEntity{UserID: in.Owner})
		s.world.Hps.Set(bot, &world.Hp{Hp: defaultBotHp, HpMax: defaultBotHp})
		s.world.Carries.Set(bot, &world.Carry{CarryMax: defaultBotCarry})

		queue, ok := s.world.SpawnQueues.Get(in.Structure)
		if !ok {
			queue = &world.SpawnQueue{}
			s.world.SpawnQueues.Set(in.Structure, queue)
		}
		queue.Queue = append(queue.Queue, bot)
	}
}

// applyDecay ticks every Decay timer, applying HpAmount damage on
// expiry. Entities brought to 0 Hp are left for reapDead.
func (s *HousekeepingSystem) applyDecay() {
	type entry struct {
		id world.EntityID
		d  *world.Decay
	}
	var entries []entry
	s.world.Decays.Each(func(e world.EntityID, d *world.Decay) { entries = append(entries, entry{e, d}) })
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	for _, it := range entries {
		if it.d.TimeRemaining > 0 {
			it.d.TimeRemaining--
			continue
		}
		it.d.TimeRemaining = it.d.Interval
		hp, ok := s.world.Hps.Get(it.id)
		if !ok {
			continue
		}
		hp.Hp -= it.d.HpAmount
		if hp.Hp < 0 {
			hp.Hp = 0
		}
	}
}

// applyRespawns counts down depleted resources and relocates+refills them
// once the timer expires. A resource enters this state the tick its
// Energy first reaches zero.
func (s *HousekeepingSystem) applyRespawns() {
	type entry struct {
		id  world.EntityID
		res *world.Resource
	}
	var entries []entry
	s.world.Resources.Each(func(e world.EntityID, r *world.Resource) { entries = append(entries, entry{e, r}) })
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	for _, it := range entries {
		energy, ok := s.world.Energies.Get(it.id)
		if !ok {
			continue
		}
		respawning, pending := s.world.Respawnings.Get(it.id)
		if !pending {
			if energy.Energy > 0 {
				continue
			}
			s.world.Respawnings.Set(it.id, &world.Respawning{TimeRemaining: s.world.Config.ResourceRespawnTicks})
			continue
		}
		if respawning.TimeRemaining > 0 {
			respawning.TimeRemaining--
			continue
		}
		pos, ok := s.world.Positions.Get(it.id)
		if ok {
			if tile, found := findEmptyPlainTileNear(s.world, pos.WorldPosition, s.world.Config.ResourceRespawnRange); found {
				_ = s.world.PlaceEntity(it.id, tile)
			}
		}
		energy.Energy = energy.EnergyMax
		s.world.Respawnings.Remove(it.id)
	}
}

// progressSpawns advances each Spawn structure's timer, placing the head
// of its SpawnQueue into the world once TimeToSpawn reaches zero.
func (s *HousekeepingSystem) progressSpawns() {
	type entry struct {
		id world.EntityID
		sp *world.Spawn
	}
	var entries []entry
	s.world.Spawns.Each(func(e world.EntityID, sp *world.Spawn) { entries = append(entries, entry{e, sp}) })
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	for _, it := range entries {
		if it.sp.Spawning == nil {
			queue, ok := s.world.SpawnQueues.Get(it.id)
			if !ok || len(queue.Queue) == 0 {
				continue
			}
			next := queue.Queue[0]
			queue.Queue = queue.Queue[1:]
			it.sp.Spawning = &next
			it.sp.TimeToSpawn = uint8(s.world.Config.SpawnTicks)
			continue
		}
		if it.sp.TimeToSpawn > 0 {
			it.sp.TimeToSpawn--
			continue
		}
		bot := *it.sp.Spawning
		if pos, ok := s.world.Positions.Get(it.id); ok {
			if tile, found := findEmptyPlainTileNear(s.world, pos.WorldPosition, 2); found {
				_ = s.world.PlaceEntity(bot, tile)
			}
		}
		it.sp.Spawning = nil
	}
}

// reapDead destroys every entity whose Hp has reached zero.
func (s *HousekeepingSystem) reapDead() {
	var dead []world.EntityID
	s.world.Hps.Each(func(e world.EntityID, hp *world.Hp) {
		if hp.Hp <= 0 {
			dead = append(dead, e)
		}
	})
	sort.Slice(dead, func(i, j int) bool { return dead[i] < dead[j] })
	for _, e := range dead {
		s.world.DestroyEntity(e)
		if s.bus != nil {
			event.Emit(s.bus, event.EntityDied{EntityID: e})
		}
	}
}

// findEmptyPlainTileNear collects every unoccupied Plain tile within
// hexRange of origin and returns one chosen uniformly at random.
func findEmptyPlainTileNear(w *world.World, origin world.WorldPosition, hexRange int32) (world.WorldPosition, bool) {
	var candidates []hexgeom.Axial
	hexgeom.Hexagon{Center: origin.Pos, Radius: hexRange}.IterPoints(func(p hexgeom.Axial) {
		pos := world.WorldPosition{Room: origin.Room, Pos: p}
		terrain, ok := w.TerrainByWorldPosition.Get(pos)
		if !ok || terrain != world.TerrainPlain {
			return
		}
		if _, occupied := w.EntityByWorldPosition.Get(pos); occupied {
			return
		}
		candidates = append(candidates, p)
	})
	if len(candidates) == 0 {
		return world.WorldPosition{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Q != candidates[j].Q {
			return candidates[i].Q < candidates[j].Q
		}
		return candidates[i].R < candidates[j].R
	})
	pick := candidates[rand.Intn(len(candidates))]
	return world.WorldPosition{Room: origin.Room, Pos: pick}, true
}
