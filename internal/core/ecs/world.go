package ecs

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and a deferred destruction queue flushed by HousekeepingSystem each tick.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// PendingDestruction returns the entities queued for destruction, without
// clearing the queue. Callers that need to clean up spatial or other
// external state before the registry wipes components should read this
// first, then call FlushDestroyQueue.
func (w *World) PendingDestruction() []EntityID {
	return w.destroyQueue
}

// FlushDestroyQueue destroys all queued entities and clears their components.
// Called by HousekeepingSystem (via world.World.FlushDestroyQueue) at the
// end of each tick.
func (w *World) FlushDestroyQueue() {
	for _, id := range w.destroyQueue {
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
}
