package hostapi

import (
	"github.com/caolo-go/sim/internal/hexgeom"
	"github.com/caolo-go/sim/internal/intent"
	"github.com/caolo-go/sim/internal/pathfinding"
	"github.com/caolo-go/sim/internal/world"
)

// reach implements the shared move_bot_to_position / approach_entity
// policy from spec.md §4.8: consult the PathCache first, fall back to
// pathfinding, and hand bridge crossings to the transit resolver. It
// mutates nothing directly; a validated step becomes a MoveIntent (plus a
// PathCache bookkeeping intent) in c.Intents.
func (c *Context) reach(goal world.WorldPosition) intent.OperationResult {
	botPos, ok := c.botPosition()
	if !ok {
		return intent.InvalidTarget
	}
	if botPos == goal {
		return intent.Ok
	}

	if cache, ok := c.pathCache(); ok && cache.Target == goal && len(cache.Path) > 0 {
		nextStep := cache.Path[len(cache.Path)-1]
		move := intent.MoveIntent{Bot: c.Bot, Target: nextStep}
		if res := intent.ValidateMove(c.World, c.Owner, move); res == intent.Ok {
			c.Intents.Moves = append(c.Intents.Moves, move)
			c.Intents.MutPathCaches = append(c.Intents.MutPathCaches, intent.MutPathCacheIntent{Bot: c.Bot, Action: intent.CachePathPop})
			return intent.Ok
		}
		// stale cache: recompute below.
	}

	if botPos.SameRoom(goal) {
		path, err := pathfinding.FindPathInRoom(c.World, botPos.Room, botPos.Pos, goal.Pos, 0, c.Bot, c.PathBudget)
		if err != nil {
			return intent.PathNotFound
		}
		return c.commitPath(botPos.Room, goal, path)
	}

	result, err := pathfinding.FindPathMultiRoom(c.World, botPos, goal.Room, c.Bot, c.PathBudget)
	if err != nil {
		return intent.PathNotFound
	}
	if result.OnBridge {
		candidates, err := pathfinding.ResolveBridgeTransit(c.World, botPos.Room, botPos.Pos, c.Bot)
		if err != nil {
			return intent.PathNotFound
		}
		move := intent.MoveIntent{Bot: c.Bot, Target: world.WorldPosition{Room: result.NextRoom, Pos: candidates[0]}, Transit: true}
		if res := intent.ValidateMove(c.World, c.Owner, move); res != intent.Ok {
			return res
		}
		c.Intents.Moves = append(c.Intents.Moves, move)
		c.Intents.MutPathCaches = append(c.Intents.MutPathCaches, intent.MutPathCacheIntent{Bot: c.Bot, Action: intent.CachePathDel})
		return intent.Ok
	}
	return c.commitPath(botPos.Room, goal, result.Path)
}

// commitPath takes the next step off path (its last element), validates
// and stashes the move, and caches the remaining tail (bounded to
// world.PathCacheLen) toward goal for future ticks.
func (c *Context) commitPath(room world.RoomID, goal world.WorldPosition, path []hexgeom.Axial) intent.OperationResult {
	if len(path) == 0 {
		return intent.PathNotFound
	}
	nextStep := path[len(path)-1]
	tail := path[:len(path)-1]

	move := intent.MoveIntent{Bot: c.Bot, Target: world.WorldPosition{Room: room, Pos: nextStep}}
	if res := intent.ValidateMove(c.World, c.Owner, move); res != intent.Ok {
		return res
	}
	c.Intents.Moves = append(c.Intents.Moves, move)

	if len(tail) > 0 {
		if len(tail) > world.PathCacheLen {
			tail = tail[len(tail)-world.PathCacheLen:]
		}
		c.Intents.CachePaths = append(c.Intents.CachePaths, intent.CachePathIntent{Bot: c.Bot, Target: goal, Path: toWorldPositions(room, tail)})
	}
	return intent.Ok
}

func toWorldPositions(room world.RoomID, tiles []hexgeom.Axial) []world.WorldPosition {
	out := make([]world.WorldPosition, len(tiles))
	for i, t := range tiles {
		out[i] = world.WorldPosition{Room: room, Pos: t}
	}
	return out
}
