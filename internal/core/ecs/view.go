package ecs

// View grants shared, read-only access to a single component store.
// Multiple Views over the same store may coexist.
type View[T any] struct {
	store *PtrComponentStore[T]
}

func NewView[T any](s *PtrComponentStore[T]) View[T] { return View[T]{store: s} }

func (v View[T]) Get(id EntityID) (*T, bool) { return v.store.Get(id) }
func (v View[T]) Has(id EntityID) bool       { return v.store.Has(id) }
func (v View[T]) Len() int                   { return v.store.Len() }
func (v View[T]) Each(fn func(EntityID, *T)) { v.store.Each(fn) }

// UnsafeView grants exclusive, mutating access to a single component
// store. The caller (a System) is responsible for declaring its view sets
// so that no two concurrently-scheduled systems take overlapping
// UnsafeViews — see system.Runner, which runs systems strictly
// sequentially and therefore does not need to enforce this itself.
type UnsafeView[T any] struct {
	store *PtrComponentStore[T]
}

func NewUnsafeView[T any](s *PtrComponentStore[T]) UnsafeView[T] { return UnsafeView[T]{store: s} }

func (v UnsafeView[T]) Get(id EntityID) (*T, bool) { return v.store.Get(id) }
func (v UnsafeView[T]) Has(id EntityID) bool       { return v.store.Has(id) }
func (v UnsafeView[T]) Set(id EntityID, c *T)      { v.store.Set(id, c) }
func (v UnsafeView[T]) Remove(id EntityID)         { v.store.Remove(id) }
func (v UnsafeView[T]) Len() int                   { return v.store.Len() }
func (v UnsafeView[T]) Each(fn func(EntityID, *T)) { v.store.Each(fn) }

// AsView narrows an UnsafeView down to a read-only View, for systems that
// need to pass their exclusive handle to a helper expecting shared access.
func (v UnsafeView[T]) AsView() View[T] { return View[T]{store: v.store} }
