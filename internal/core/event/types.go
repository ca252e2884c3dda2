package event

import "github.com/caolo-go/sim/internal/core/ecs"

// Domain events emitted during a tick, readable by subscribers starting
// the following tick (Bus is double-buffered).

// EntityDied fires once per entity HousekeepingSystem reaps at Hp <= 0.
type EntityDied struct {
	EntityID ecs.EntityID
}

// ScriptExecutionFailed fires when a bot's VM program halts with an error
// instead of a clean exit.
type ScriptExecutionFailed struct {
	Bot ecs.EntityID
	Err string
}
