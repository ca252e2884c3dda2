package system

import (
	"time"

	coresys "github.com/caolo-go/sim/internal/core/system"
	"github.com/caolo-go/sim/internal/intent"
	"github.com/caolo-go/sim/internal/world"
)

// PathCacheSystem applies path_cache_intents. Phase 5 of the §4.9 order:
// install freshly computed paths, then apply the Pop/Del bookkeeping
// actions hostapi.reach emitted alongside a move.
type PathCacheSystem struct {
	world *world.World
	in    *TickIntents
}

func NewPathCacheSystem(w *world.World, in *TickIntents) *PathCacheSystem {
	return &PathCacheSystem{world: w, in: in}
}

func (s *PathCacheSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *PathCacheSystem) Update(_ time.Duration) {
	for _, in := range s.in.CachePaths {
		path := in.Path
		if len(path) > world.PathCacheLen {
			path = path[len(path)-world.PathCacheLen:]
		}
		s.world.PathCaches.Set(in.Bot, &world.PathCache{Target: in.Target, Path: path})
	}
	for _, in := range s.in.MutPathCaches {
		cache, ok := s.world.PathCaches.Get(in.Bot)
		if !ok {
			continue
		}
		switch in.Action {
		case intent.CachePathPop:
			if len(cache.Path) <= 1 {
				s.world.PathCaches.Remove(in.Bot)
			} else {
				cache.Path = cache.Path[:len(cache.Path)-1]
			}
		case intent.CachePathDel:
			s.world.PathCaches.Remove(in.Bot)
		}
	}
}
