// Package heap supplies byte accounting models for the collector
// components the pacer reads: the heap itself, doubling as its free
// view, and the collection-set picked for evacuation. They account
// sizes, they do not hand out memory.
package heap

import "fmt"
import "sync/atomic"

import s "github.com/bnclabs/gosettings"
import humanize "github.com/dustin/go-humanize"

// Accounting tracks used bytes against a fixed capacity. Safe for
// concurrent Allocate and Free calls. Implements api.Heap and, via
// Available, api.FreeSet.
type Accounting struct {
	// 64-bit aligned, atomic access.
	used int64

	name      string
	capacity  int64
	logprefix string
}

// NewAccounting create a new accounting heap. Settings are documented
// by Defaultsettings().
func NewAccounting(name string, setts s.Settings) *Accounting {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	h := &Accounting{name: name, capacity: setts.Int64("capacity")}
	h.logprefix = fmt.Sprintf("HEAP [%v]", name)
	if h.capacity <= 0 {
		panic(fmt.Errorf("%v invalid capacity %v", h.logprefix, h.capacity))
	}
	return h
}

// Allocate account nbytes of fresh allocation. Fails, without mutating
// the accounts, if the allocation would exceed capacity.
func (h *Accounting) Allocate(nbytes int64) bool {
	if nbytes <= 0 {
		panic(fmt.Errorf("%v Allocate(%v)", h.logprefix, nbytes))
	}
	for {
		used := atomic.LoadInt64(&h.used)
		if used+nbytes > h.capacity {
			return false
		}
		if atomic.CompareAndSwapInt64(&h.used, used, used+nbytes) {
			return true
		}
	}
}

// Free return nbytes to the free view, typically when the collector
// reclaims garbage.
func (h *Accounting) Free(nbytes int64) {
	if nbytes <= 0 {
		panic(fmt.Errorf("%v Free(%v)", h.logprefix, nbytes))
	}
	if used := atomic.AddInt64(&h.used, -nbytes); used < 0 {
		panic(fmt.Errorf("%v freed %v bytes more than used", h.logprefix, -used))
	}
}

// Used implement api.Heap interface.
func (h *Accounting) Used() int64 {
	return atomic.LoadInt64(&h.used)
}

// Capacity implement api.Heap interface.
func (h *Accounting) Capacity() int64 {
	return h.capacity
}

// Available implement api.FreeSet interface.
func (h *Accounting) Available() int64 {
	return h.capacity - atomic.LoadInt64(&h.used)
}

// Utilization return the ratio of used bytes over capacity.
func (h *Accounting) Utilization() float64 {
	return float64(h.Used()) / float64(h.capacity)
}

// Logstring return a loggable summary of this heap's accounts.
func (h *Accounting) Logstring() string {
	used, avail := h.Used(), h.Available()
	fmsg := "%v used:%v capacity:%v available:%v"
	return fmt.Sprintf(
		fmsg, h.logprefix, humanize.Bytes(uint64(used)),
		humanize.Bytes(uint64(h.capacity)), humanize.Bytes(uint64(avail)))
}
