package box3d

import "reflect"

/// B3Pool recycles transient scratch objects (triangle buffers, raw
/// manifold lists) so the per-step narrow phase does not churn the heap.
///
/// Entries are never returned explicitly. Each pooled object reports its own
/// validity through the predicate and Reclaim sweeps the checked-out entries,
/// moving the invalid ones into the recycle partition:
///
///	M_entries[0:M_invalidCount]       invalid, ready for reuse
///	M_entries[M_invalidCount:len]     valid, checked out
///
/// The partition index is the only authority; no entry is individually freed.
/// The pool is not safe for concurrent use. Parallel workers each own one.
type B3Pool[T any] struct {
	M_entries      []T
	M_invalidCount int

	M_factory       func() T
	M_isValid       func(T) bool
	M_growIncrement int
}

func MakeB3Pool[T any](factory func() T, isValid func(T) bool, growIncrement int) B3Pool[T] {
	B3Assert(factory != nil)
	B3Assert(isValid != nil)
	if growIncrement <= 0 {
		growIncrement = 16
	}

	return B3Pool[T]{
		M_entries:       make([]T, 0, growIncrement),
		M_factory:       factory,
		M_isValid:       isValid,
		M_growIncrement: growIncrement,
	}
}

func NewB3Pool[T any](factory func() T, isValid func(T) bool, growIncrement int) *B3Pool[T] {
	res := MakeB3Pool(factory, isValid, growIncrement)
	return &res
}

// Acquire hands out a recycled entry when one is available, otherwise a
// fresh one from the factory. The caller is responsible for making the
// returned object report itself valid until it is done with it.
func (pool *B3Pool[T]) Acquire() T {
	if pool.M_invalidCount > 0 {
		// The last invalid entry becomes the first valid one; the
		// partition boundary simply moves down.
		pool.M_invalidCount--
		return pool.M_entries[pool.M_invalidCount]
	}

	item := pool.M_factory()
	B3Assertf(!b3IsNil(item), "pool factory returned nil")

	if len(pool.M_entries) == cap(pool.M_entries) {
		grown := make([]T, len(pool.M_entries), cap(pool.M_entries)+pool.M_growIncrement)
		copy(grown, pool.M_entries)
		pool.M_entries = grown
	}
	pool.M_entries = append(pool.M_entries, item)

	return item
}

// Reclaim re-evaluates validity over the checked-out entries and moves the
// ones that became invalid to the invalid prefix.
func (pool *B3Pool[T]) Reclaim() {
	for i := pool.M_invalidCount; i < len(pool.M_entries); i++ {
		if pool.M_isValid(pool.M_entries[i]) {
			continue
		}
		pool.M_entries[i], pool.M_entries[pool.M_invalidCount] = pool.M_entries[pool.M_invalidCount], pool.M_entries[i]
		pool.M_invalidCount++
	}
}

func (pool B3Pool[T]) InvalidCount() int {
	return pool.M_invalidCount
}

func (pool B3Pool[T]) ValidCount() int {
	return len(pool.M_entries) - pool.M_invalidCount
}

func (pool B3Pool[T]) GetCount() int {
	return len(pool.M_entries)
}

func (pool B3Pool[T]) GetCapacity() int {
	return cap(pool.M_entries)
}

func b3IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
