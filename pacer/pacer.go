// Package pacer throttles mutator allocation so that it does not
// outrun a concurrent collector's progress.
//
// During a concurrent cycle we do not know how large the collection
// set will be, nor the relative speed of each stage, so the pacer
// prices allocation pessimistically: the full remaining collector
// workload must be repaid out of the free space left in the current
// phase. Phase setup converts that workload into a per-word tax rate
// and a shared budget; every allocation claims its tax from the
// budget, and a mutator that finds the budget depleted is held back,
// up to a hard delay ceiling, waiting for the collector to make
// progress.
package pacer

import "fmt"
import "math"
import "sync/atomic"
import "time"

import "github.com/bnclabs/golog"
import "github.com/bnclabs/gopace/api"
import "github.com/bnclabs/gopace/lib"
import s "github.com/bnclabs/gosettings"

// Pacer single instance per collector, created at collector start-up.
// Mutator threads call PaceForAlloc concurrently with each other and
// with the control thread's SetupFor* calls; there is no lock anywhere
// on that path.
type Pacer struct {
	// 64-bit aligned, atomic access.
	budget     int64  // heap words, goes negative on forced claims
	taxrate    uint64 // float64 bits, published separately from budget
	phase      int64
	n_claimed  int64
	n_denied   int64
	n_paced    int64
	n_forced   int64
	n_restarts int64

	name     string
	heap     api.Heap
	fset     api.FreeSet
	cset     api.CollectionSet
	h_delays *lib.Pow2HistogramInt64

	// settings
	enabled    bool
	cycleslack int64
	idleslack  int64
	maxdelay   int64 // milliseconds
	setts      s.Settings
	logprefix  string
}

// NewPacer create a pacer reading heap, free view and collection-set
// snapshots from the supplied collaborators. Settings are documented
// by Defaultsettings().
func NewPacer(
	name string, heap api.Heap, fset api.FreeSet, cset api.CollectionSet,
	setts s.Settings) *Pacer {

	p := &Pacer{name: name, heap: heap, fset: fset, cset: cset}
	p.logprefix = fmt.Sprintf("PACE [%v]", name)
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	p.readsettings(setts)
	p.setts = setts

	p.h_delays = lib.NewPow2histogramInt64()
	p.phase = phaseidle
	atomic.StoreUint64(&p.taxrate, math.Float64bits(1.0))

	log.Infof("%v started ...\n", p.logprefix)
	return p
}

func (p *Pacer) readsettings(setts s.Settings) {
	p.enabled = setts.Bool("enable")
	p.cycleslack = setts.Int64("cycleslack")
	p.idleslack = setts.Int64("idleslack")
	p.maxdelay = setts.Int64("maxdelay")
	if p.cycleslack < 0 || p.cycleslack > 100 {
		panic(fmt.Errorf("%v cycleslack %v not a percent", p.logprefix, p.cycleslack))
	}
	if p.idleslack < 0 || p.idleslack > 100 {
		panic(fmt.Errorf("%v idleslack %v not a percent", p.logprefix, p.idleslack))
	}
	if p.maxdelay <= 0 {
		panic(fmt.Errorf("%v invalid maxdelay %v", p.logprefix, p.maxdelay))
	}
}

// Enabled return whether pacing is switched on. When false, every
// pacer operation other than Stats and PrintReport is a caller
// contract violation.
func (p *Pacer) Enabled() bool {
	return p.enabled
}

// Budget return the unclaimed allowance, in words, since the last
// phase setup. Negative values are overdraft from forced claims, to
// be repaid by the next setup.
func (p *Pacer) Budget() int64 {
	return atomic.LoadInt64(&p.budget)
}

// Taxrate return the most recently published cost per allocated word.
func (p *Pacer) Taxrate() float64 {
	return math.Float64frombits(atomic.LoadUint64(&p.taxrate))
}

// ClaimForAlloc claim words of allocation against the shared budget,
// return false if the budget cannot pay for it. Tax is never less
// than one word, even when the rate rounds below unity. With force
// the claim always goes through and the budget may overdraft. Lock
// free, never blocks, safe for any number of concurrent callers.
func (p *Pacer) ClaimForAlloc(words int64, force bool) bool {
	p.assertpacing()
	if words <= 0 {
		panic(fmt.Errorf("%v ClaimForAlloc(%v)", p.logprefix, words))
	}

	tax := int64(float64(words) * p.Taxrate())
	if tax < 1 {
		tax = 1
	}

	for {
		cur := atomic.LoadInt64(&p.budget)
		if cur < tax && force == false {
			atomic.AddInt64(&p.n_denied, 1)
			return false
		}
		if atomic.CompareAndSwapInt64(&p.budget, cur, cur-tax) {
			atomic.AddInt64(&p.n_claimed, 1)
			return true
		}
	}
}

// PaceForAlloc delay the calling mutator until words of allocation
// can be paid for. Returns once a claim goes through, or with a
// forced claim once the configured maximum delay is spent waiting for
// collector progress; it never fails. Call just before allocating.
func (p *Pacer) PaceForAlloc(words int64) {
	// fast path, claim right away.
	if p.ClaimForAlloc(words, false /*force*/) {
		return
	}

	atomic.AddInt64(&p.n_paced, 1)
	start := time.Now()

	for {
		// We could instead assist the collector, this suffices for now.
		time.Sleep(1 * time.Millisecond)

		ms := int64(time.Since(start) / time.Millisecond)
		if ms > p.maxdelay {
			// Spent the local time budget waiting for collector
			// progress. Allocate anyway, which may mean outpacing the
			// collector into a degenerated cycle. The overdraft is
			// repaid on the next phase setup.
			p.h_delays.Add(ms)
			atomic.AddInt64(&p.n_forced, 1)
			p.ClaimForAlloc(words, true /*force*/)
			return
		}
		if p.ClaimForAlloc(words, false /*force*/) {
			p.h_delays.Add(ms)
			return
		}
	}
}

// Replenish add words back to the shared budget. The control thread
// calls this as it acknowledges recent allocation during idle, and to
// repay overdraft it observes between cycles.
func (p *Pacer) Replenish(words int64) {
	p.assertpacing()
	if words <= 0 {
		panic(fmt.Errorf("%v Replenish(%v)", p.logprefix, words))
	}
	atomic.AddInt64(&p.budget, words)
}

// restartwith publish a fresh budget, in words, and the tax rate for
// the phase being entered. The new budget does not depend on the old
// value, but the slot is shared with concurrent claims, so it is
// published with a compare-and-swap loop; a plain store could race a
// claim's read-compute-swap and silently drop its decrement. The tax
// rate is published afterwards with a separate atomic store: a brief
// window where one of the two is stale is tolerated, at worst a claim
// pays the previous rate once, which the next restart corrects.
func (p *Pacer) restartwith(nontaxable int64, taxrate float64) {
	for {
		cur := atomic.LoadInt64(&p.budget)
		if atomic.CompareAndSwapInt64(&p.budget, cur, nontaxable) {
			break
		}
	}
	atomic.StoreUint64(&p.taxrate, math.Float64bits(taxrate))
	atomic.AddInt64(&p.n_restarts, 1)
}

// Validate pacer accounting invariants, panic on violation. Caller is
// responsible to make sure there are no in-flight PaceForAlloc calls.
func (p *Pacer) Validate() {
	n_paced := atomic.LoadInt64(&p.n_paced)
	n_forced := atomic.LoadInt64(&p.n_forced)
	if n_forced > n_paced {
		fmsg := "%v n_forced:%v > n_paced:%v"
		panic(fmt.Errorf(fmsg, p.logprefix, n_forced, n_paced))
	}
	if samples := p.h_delays.Samples(); samples != n_paced {
		fmsg := "%v expected %v delay samples, got %v"
		panic(fmt.Errorf(fmsg, p.logprefix, n_paced, samples))
	}
}

func (p *Pacer) assertpacing() {
	if p.enabled == false {
		panic(fmt.Errorf("%v pacing is not enabled", p.logprefix))
	}
}
