// Package api define types and interfaces between the pacer and the
// collector components it reads. Implementations shall be safe for
// concurrent calls; the pacer samples them once per phase setup and
// does not subscribe to live updates.
package api

// Heap accounting view of the collector's heap.
type Heap interface {
	// Used return the number of bytes currently allocated in the heap.
	Used() int64

	// Capacity return the total number of bytes the heap can hold.
	Capacity() int64
}

// FreeSet view of space available for new allocations.
type FreeSet interface {
	// Available return the number of bytes allocatable right now.
	Available() int64
}

// CollectionSet is the set of heap regions selected for evacuation
// in the current cycle.
type CollectionSet interface {
	// LiveData return the number of live bytes to be evacuated.
	LiveData() int64
}
