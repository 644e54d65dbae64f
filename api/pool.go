// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines abstract pooling APIs: zero-copy allocators for frame index reuse.

package api

// ObjectPool provides generic pooling of Go objects allocated transiently.
// The frame pool implements ObjectPool[uint32] over its index free list.
type ObjectPool[T any] interface {
	// Get returns an available instance from pool
	Get() T

	// Put returns an instance for reuse
	Put(obj T)
}
