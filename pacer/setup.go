package pacer

import "fmt"
import "sync/atomic"

import "github.com/bnclabs/golog"
import "github.com/bnclabs/gopace/api"
import humanize "github.com/dustin/go-humanize"

// Collector phases, in cycle order. The control thread walks
// idle -> mark -> evac -> update-refs -> idle, calling the matching
// setup operation exactly once on each transition. Concurrent or
// out-of-order setup calls are caller contract violations.
const (
	phaseidle int64 = iota
	phasemark
	phaseevac
	phaseuprefs
)

// surcharge over-taxes every concurrent phase, trading mutator
// throughput for a margin against under-estimated live data growth.
const surcharge = float64(1.1)

// taxforcycle compute the non-taxable slack and the per-word tax rate
// that repays workload bytes out of the taxable part of free space,
// weighted by the number of phases left in the cycle. Slack is granted
// tax-free so small fluctuations don't pacify mutators.
func taxforcycle(
	workload, free, slackpercent int64, weight float64) (int64, float64) {

	nontaxable := free * slackpercent / 100
	taxable := free - nontaxable
	if taxable < 1 {
		taxable = 1
	}

	tax := float64(workload) / float64(taxable)
	tax *= weight
	if tax < 1 {
		tax = 1 // never allocate more than the collector reclaims
	}
	tax *= surcharge
	return nontaxable, tax
}

// SetupForMark price allocations for the concurrent mark phase. All
// of used space is assumed live, and mark being phase 1 of 3 the full
// three-phase cost is charged against this phase's free space.
func (p *Pacer) SetupForMark() {
	p.transition(phaseidle, phasemark)

	used, free := p.heap.Used(), p.fset.Available()
	nontaxable, tax := taxforcycle(used, free, p.cycleslack, 3)

	p.restartwith(nontaxable>>api.LogWordsize, tax)

	fmsg := "%v mark. used:%v free:%v non-taxable:%v tax-rate:%.1fx\n"
	log.Infof(
		fmsg, p.logprefix, humanize.Bytes(uint64(used)),
		humanize.Bytes(uint64(free)), humanize.Bytes(uint64(nontaxable)), tax)
}

// SetupForEvac price allocations for the evacuation phase, 2 of 3,
// repaying the collection-set's live data out of the remaining free
// space.
func (p *Pacer) SetupForEvac() {
	p.transition(phasemark, phaseevac)

	live, free := p.cset.LiveData(), p.fset.Available()
	nontaxable, tax := taxforcycle(live, free, p.cycleslack, 2)

	p.restartwith(nontaxable>>api.LogWordsize, tax)

	fmsg := "%v evacuation. cset:%v free:%v non-taxable:%v tax-rate:%.1fx\n"
	log.Infof(
		fmsg, p.logprefix, humanize.Bytes(uint64(live)),
		humanize.Bytes(uint64(free)), humanize.Bytes(uint64(nontaxable)), tax)
}

// SetupForUpdateRefs price allocations for the reference-update
// phase, the final one, claiming the entirety of remaining free space.
func (p *Pacer) SetupForUpdateRefs() {
	p.transition(phaseevac, phaseuprefs)

	used, free := p.heap.Used(), p.fset.Available()
	nontaxable, tax := taxforcycle(used, free, p.cycleslack, 1)

	p.restartwith(nontaxable>>api.LogWordsize, tax)

	fmsg := "%v update-refs. used:%v free:%v non-taxable:%v tax-rate:%.1fx\n"
	log.Infof(
		fmsg, p.logprefix, humanize.Bytes(uint64(used)),
		humanize.Bytes(uint64(free)), humanize.Bytes(uint64(nontaxable)), tax)
}

// SetupForIdle seed the allowance between cycles. There is no tax
// basis while no collection runs; the initial budget bootstraps the
// feedback loop with the control thread, which keeps adding budget,
// via Replenish, as it acknowledges allocation activity.
func (p *Pacer) SetupForIdle() {
	p.assertpacing()
	// legal from the tail of a finished cycle, and once on a fresh
	// pacer that has not published a budget yet.
	if !atomic.CompareAndSwapInt64(&p.phase, phaseuprefs, phaseidle) {
		fresh := atomic.LoadInt64(&p.phase) == phaseidle &&
			atomic.LoadInt64(&p.n_restarts) == 0
		if fresh == false {
			fmsg := "%v cannot enter idle phase from %v phase"
			panic(fmt.Errorf(fmsg, p.logprefix, p.Phase()))
		}
	}

	initial, tax := p.heap.Capacity()*p.idleslack/100, float64(1)

	p.restartwith(initial>>api.LogWordsize, tax)

	fmsg := "%v idle. initial:%v tax-rate:%.1fx\n"
	log.Infof(fmsg, p.logprefix, humanize.Bytes(uint64(initial)), tax)
}

// Phase return the phase this pacer was last set up for.
func (p *Pacer) Phase() string {
	return phasename(atomic.LoadInt64(&p.phase))
}

func (p *Pacer) transition(from, to int64) {
	p.assertpacing()
	if atomic.CompareAndSwapInt64(&p.phase, from, to) == false {
		fmsg := "%v cannot enter %v phase from %v phase"
		panic(fmt.Errorf(fmsg, p.logprefix, phasename(to), p.Phase()))
	}
}

func phasename(phase int64) string {
	switch phase {
	case phaseidle:
		return "idle"
	case phasemark:
		return "mark"
	case phaseevac:
		return "evacuation"
	case phaseuprefs:
		return "update-refs"
	}
	panic("unexpected phase") // should never reach here
}
