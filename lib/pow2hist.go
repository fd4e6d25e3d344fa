package lib

import "fmt"
import "math/bits"
import "sort"
import "strconv"
import "strings"
import "sync/atomic"

// maximum number of power-of-two levels an int64 sample can land in.
const numlevels = 64

// Pow2HistogramInt64 statistical histogram with power-of-two buckets,
// safe for concurrent updates. A sample lands at level floor(log2(s)),
// so level c counts samples in the interval [2^c, 2^(c+1)), with
// level 0 holding samples less than 2. Samples accumulate for the
// lifetime of the histogram, there is no reset.
type Pow2HistogramInt64 struct {
	// stats, all fields 64-bit aligned and atomically accessed.
	n        int64
	sum      int64
	maxval   int64
	minlevel int64
	maxlevel int64
	levels   [numlevels]int64
}

// NewPow2histogramInt64 return a new histogram object.
func NewPow2histogramInt64() *Pow2HistogramInt64 {
	return &Pow2HistogramInt64{minlevel: numlevels - 1}
}

// Add a sample to this histogram. Safe for concurrent callers.
func (h *Pow2HistogramInt64) Add(sample int64) {
	if sample < 0 {
		panic(fmt.Errorf("cannot add negative sample %v", sample))
	}
	level := int64(0)
	if sample > 1 {
		level = int64(bits.Len64(uint64(sample))) - 1
	}
	atomic.AddInt64(&h.levels[level], 1)
	atomic.AddInt64(&h.n, 1)
	atomic.AddInt64(&h.sum, sample)
	for {
		minlevel := atomic.LoadInt64(&h.minlevel)
		if level >= minlevel {
			break
		} else if atomic.CompareAndSwapInt64(&h.minlevel, minlevel, level) {
			break
		}
	}
	for {
		maxlevel := atomic.LoadInt64(&h.maxlevel)
		if level <= maxlevel {
			break
		} else if atomic.CompareAndSwapInt64(&h.maxlevel, maxlevel, level) {
			break
		}
	}
	for {
		maxval := atomic.LoadInt64(&h.maxval)
		if sample <= maxval {
			break
		} else if atomic.CompareAndSwapInt64(&h.maxval, maxval, sample) {
			break
		}
	}
}

// Minlevel return the smallest level holding a sample. Valid only
// after at least one sample is added.
func (h *Pow2HistogramInt64) Minlevel() int64 {
	return atomic.LoadInt64(&h.minlevel)
}

// Maxlevel return the largest level holding a sample.
func (h *Pow2HistogramInt64) Maxlevel() int64 {
	return atomic.LoadInt64(&h.maxlevel)
}

// Level return the number of samples held at level c.
func (h *Pow2HistogramInt64) Level(c int64) int64 {
	return atomic.LoadInt64(&h.levels[c])
}

// Samples return total number of samples in the set.
func (h *Pow2HistogramInt64) Samples() int64 {
	return atomic.LoadInt64(&h.n)
}

// Sum return the sum of all sample values.
func (h *Pow2HistogramInt64) Sum() int64 {
	return atomic.LoadInt64(&h.sum)
}

// Max return maximum value from sample.
func (h *Pow2HistogramInt64) Max() int64 {
	return atomic.LoadInt64(&h.maxval)
}

// Mean return the average value of all samples.
func (h *Pow2HistogramInt64) Mean() int64 {
	n := atomic.LoadInt64(&h.n)
	if n == 0 {
		return 0
	}
	return int64(float64(atomic.LoadInt64(&h.sum)) / float64(n))
}

// Stats return a map of sample count per non-empty level, keyed by
// the level's lower bound.
func (h *Pow2HistogramInt64) Stats() map[string]int64 {
	m := make(map[string]int64)
	for c := int64(0); c < numlevels; c++ {
		count := atomic.LoadInt64(&h.levels[c])
		if count == 0 {
			continue
		}
		from := int64(0)
		if c > 0 {
			from = int64(1) << uint(c)
		}
		m[strconv.Itoa(int(from))] = count
	}
	return m
}

// Fullstats includes samples,sum,max,mean in the Stats().
func (h *Pow2HistogramInt64) Fullstats() map[string]interface{} {
	hmap := make(map[string]interface{})
	for k, v := range h.Stats() {
		hmap[k] = v
	}
	return map[string]interface{}{
		"samples":   h.Samples(),
		"sum":       h.Sum(),
		"max":       h.Max(),
		"mean":      h.Mean(),
		"histogram": hmap,
	}
}

// Logstring return Fullstats as loggable string.
func (h *Pow2HistogramInt64) Logstring() string {
	stats, keys := h.Fullstats(), []string{}
	// everything except histogram
	for k := range stats {
		if k == "histogram" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ss := []string{}
	for _, key := range keys {
		ss = append(ss, fmt.Sprintf(`"%v": %v`, key, stats[key]))
	}
	// sort histogram levels numerically
	hkeys := []int{}
	histogram := stats["histogram"].(map[string]interface{})
	for k := range histogram {
		n, _ := strconv.Atoi(k)
		hkeys = append(hkeys, n)
	}
	sort.Ints(hkeys)
	hs := []string{}
	for _, k := range hkeys {
		ks := strconv.Itoa(k)
		hs = append(hs, fmt.Sprintf(`"%v": %v`, ks, histogram[ks]))
	}
	s := "{" + strings.Join(hs, ",") + "}"
	ss = append(ss, fmt.Sprintf(`"histogram": %v`, s))
	return "{" + strings.Join(ss, ",") + "}"
}
