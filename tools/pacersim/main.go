// Simulate mutator threads allocating against a paced heap, while a
// control routine walks the collector's phase cycle. Useful to eyeball
// pacing behaviour under different heap sizes and mutator counts.
package main

import "flag"
import "fmt"
import "math/rand"
import "os"
import "sync"
import "time"

import "github.com/bnclabs/gopace/api"
import "github.com/bnclabs/gopace/heap"
import "github.com/bnclabs/gopace/pacer"
import s "github.com/bnclabs/gosettings"

var options struct {
	mutators int
	capacity int64
	alloc    [2]int64 // min,max allocation size in bytes
	cycles   int
	maxdelay int64
	seed     int64
}

func argParse() {
	flag.IntVar(&options.mutators, "mutators", 8,
		"number of concurrent mutator routines")
	flag.Int64Var(&options.capacity, "capacity", 64*1024*1024,
		"heap capacity in bytes")
	flag.Int64Var(&options.alloc[0], "minalloc", 64,
		"minimum allocation size in bytes")
	flag.Int64Var(&options.alloc[1], "maxalloc", 4096,
		"maximum allocation size in bytes")
	flag.IntVar(&options.cycles, "cycles", 4,
		"number of collection cycles to simulate")
	flag.Int64Var(&options.maxdelay, "maxdelay", 10,
		"maximum pacing delay in milliseconds")
	flag.Int64Var(&options.seed, "seed", 0,
		"random seed, 0 picks the current time")
	flag.Parse()

	if options.seed == 0 {
		options.seed = time.Now().UnixNano()
	}
}

func main() {
	argParse()

	h := heap.NewAccounting("sim", s.Settings{"capacity": options.capacity})
	cs := heap.NewCSet()
	p := pacer.NewPacer("sim", h, h, cs, s.Settings{
		"maxdelay": options.maxdelay,
	})
	p.SetupForIdle()

	finch := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(options.mutators)
	for n := 0; n < options.mutators; n++ {
		go mutator(p, h, int64(n)+options.seed, finch, &wg)
	}

	for cycle := 0; cycle < options.cycles; cycle++ {
		controlcycle(p, h, cs)
	}
	close(finch)
	wg.Wait()

	fmt.Println(h.Logstring())
	for k, v := range p.Stats() {
		fmt.Printf("%v: %v\n", k, v)
	}
	fmt.Println()
	p.PrintReport(os.Stdout)
}

// mutator allocate paced random-sized blocks until the control routine
// winds the simulation down.
func mutator(
	p *pacer.Pacer, h *heap.Accounting, seed int64,
	finch chan struct{}, wg *sync.WaitGroup) {

	defer wg.Done()

	r := rand.New(rand.NewSource(seed))
	min, max := options.alloc[0], options.alloc[1]
	for {
		select {
		case <-finch:
			return
		default:
		}
		nbytes := min + r.Int63n(max-min+1)
		words := nbytes >> api.LogWordsize
		if words < 1 {
			words = 1
		}
		p.PaceForAlloc(words)
		h.Allocate(nbytes)
	}
}

// controlcycle drive one idle -> mark -> evac -> update-refs cycle,
// replenishing during idle and reclaiming a slice of used space as the
// cycle retires.
func controlcycle(p *pacer.Pacer, h *heap.Accounting, cs *heap.CSet) {
	// idle, acknowledge recent allocation for a while.
	for i := 0; i < 20; i++ {
		time.Sleep(5 * time.Millisecond)
		p.Replenish((options.capacity / 100) >> api.LogWordsize)
	}

	p.SetupForMark()
	time.Sleep(50 * time.Millisecond)

	// pick half of used space, with 60% live data.
	used := h.Used()
	cs.Include(used / 2 * 60 / 100)
	p.SetupForEvac()
	time.Sleep(30 * time.Millisecond)

	p.SetupForUpdateRefs()
	time.Sleep(30 * time.Millisecond)

	// cycle retires: reclaim the garbage in the collection set.
	if garbage := used/2 - cs.LiveData(); garbage > 0 {
		h.Free(garbage)
	}
	cs.Reset()
	p.SetupForIdle()
}
