package pacer

import "math/rand"
import "sync"
import "sync/atomic"
import "testing"

import s "github.com/bnclabs/gosettings"

// no concurrent claim is ever lost: the final budget accounts for
// exactly the taxes of claims that succeeded.
func TestClaimConcur(t *testing.T) {
	p, _ := newtestpacer(nil)
	initial := int64(1 << 30)
	p.restartwith(initial, 1.0)

	var wg sync.WaitGroup
	var claimed int64

	nroutines, repeat := 32, 10000
	wg.Add(nroutines)
	for n := 0; n < nroutines; n++ {
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for i := 0; i < repeat; i++ {
				words := r.Int63n(64) + 1
				if p.ClaimForAlloc(words, false) {
					atomic.AddInt64(&claimed, words) // tax == words at 1x
				}
			}
		}(int64(n))
	}
	wg.Wait()

	if x := p.Budget(); x != initial-claimed {
		t.Errorf("expected %v, got %v", initial-claimed, x)
	}
}

// forced claims and replenishments interleave without losing updates,
// even while the budget is overdrafted.
func TestOverdraftConcur(t *testing.T) {
	p, _ := newtestpacer(nil)
	p.restartwith(0, 1.0)

	var wg sync.WaitGroup
	var claimed, replenished int64

	nroutines, repeat := 16, 10000
	wg.Add(nroutines + 1)
	for n := 0; n < nroutines; n++ {
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for i := 0; i < repeat; i++ {
				words := r.Int63n(16) + 1
				p.ClaimForAlloc(words, true)
				atomic.AddInt64(&claimed, words)
			}
		}(int64(n))
	}
	go func() {
		defer wg.Done()
		for i := 0; i < repeat; i++ {
			p.Replenish(8)
			atomic.AddInt64(&replenished, 8)
		}
	}()
	wg.Wait()

	if x := p.Budget(); x != replenished-claimed {
		t.Errorf("expected %v, got %v", replenished-claimed, x)
	}
}

// mutators pacing against a depleted budget all come back, normally
// or forced, and every slow-path entry records one delay sample.
func TestPaceConcur(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
	}

	p, _ := newtestpacer(s.Settings{"maxdelay": int64(5)})
	p.restartwith(100, 1.0)

	var wg sync.WaitGroup
	nroutines, repeat := 16, 20
	wg.Add(nroutines)
	for n := 0; n < nroutines; n++ {
		go func() {
			defer wg.Done()
			for i := 0; i < repeat; i++ {
				p.PaceForAlloc(8)
			}
		}()
	}
	wg.Wait()

	p.Validate()
	n_claimed := atomic.LoadInt64(&p.n_claimed)
	if x := int64(nroutines * repeat); n_claimed != x {
		t.Errorf("expected %v, got %v", x, n_claimed)
	}
}
