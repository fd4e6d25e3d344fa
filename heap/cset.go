package heap

import "fmt"
import "sync/atomic"

// CSet accounts live bytes across regions selected for evacuation.
// Implements api.CollectionSet. The collector includes regions while
// choosing the set and resets it when the cycle retires.
type CSet struct {
	// 64-bit aligned, atomic access.
	livedata int64
}

// NewCSet create an empty collection-set.
func NewCSet() *CSet {
	return &CSet{}
}

// Include account livebytes of live data from a newly picked region.
func (cs *CSet) Include(livebytes int64) {
	if livebytes < 0 {
		panic(fmt.Errorf("cset cannot include %v bytes", livebytes))
	}
	atomic.AddInt64(&cs.livedata, livebytes)
}

// LiveData implement api.CollectionSet interface.
func (cs *CSet) LiveData() int64 {
	return atomic.LoadInt64(&cs.livedata)
}

// Reset forget the current set, called when the cycle retires.
func (cs *CSet) Reset() {
	atomic.StoreInt64(&cs.livedata, 0)
}
