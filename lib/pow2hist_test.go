package lib

import "math/rand"
import "strings"
import "sync"
import "testing"

func TestPow2histAdd(t *testing.T) {
	samples := []int64{0, 1, 2, 3, 4, 1023, 1024}
	levels := []int64{0, 0, 1, 1, 2, 9, 10}

	h := NewPow2histogramInt64()
	for _, sample := range samples {
		h.Add(sample)
	}
	counts := map[int64]int64{0: 2, 1: 2, 2: 1, 9: 1, 10: 1}
	for i, sample := range samples {
		c := levels[i]
		if x := h.Level(c); x != counts[c] {
			t.Errorf("sample %v level %v: expected %v, got %v", sample, c, counts[c], x)
		}
	}
	if x := h.Samples(); x != int64(len(samples)) {
		t.Errorf("expected %v, got %v", len(samples), x)
	}
	if x := h.Minlevel(); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	}
	if x := h.Maxlevel(); x != 10 {
		t.Errorf("expected %v, got %v", 10, x)
	}
	if x := h.Max(); x != 1024 {
		t.Errorf("expected %v, got %v", 1024, x)
	}
	if x := h.Sum(); x != 2057 {
		t.Errorf("expected %v, got %v", 2057, x)
	}
	if x := h.Mean(); x != 293 {
		t.Errorf("expected %v, got %v", 293, x)
	}
}

func TestPow2histLevels(t *testing.T) {
	h := NewPow2histogramInt64()
	for sample := int64(2); sample < 4096; sample++ {
		h.Add(sample)
	}
	// each level c holds exactly 2^c of the samples in [2, 4096)
	for c := int64(1); c <= 11; c++ {
		width := int64(1) << uint(c)
		if x := h.Level(c); x != width {
			t.Errorf("level %v: expected %v, got %v", c, width, x)
		}
	}
	if x := h.Level(0); x != 0 {
		t.Errorf("expected %v, got %v", 0, x)
	}

	// panic case
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic")
			}
		}()
		h.Add(-1)
	}()
}

func TestPow2histStats(t *testing.T) {
	h := NewPow2histogramInt64()
	for _, sample := range []int64{0, 1, 5, 6, 7, 100} {
		h.Add(sample)
	}
	stats := h.Stats()
	ref := map[string]int64{"0": 2, "4": 3, "64": 1}
	if len(stats) != len(ref) {
		t.Errorf("expected %v, got %v", ref, stats)
	}
	for k, v := range ref {
		if x := stats[k]; x != v {
			t.Errorf("key %v: expected %v, got %v", k, v, x)
		}
	}

	fullstats := h.Fullstats()
	if x := fullstats["samples"].(int64); x != 6 {
		t.Errorf("expected %v, got %v", 6, x)
	}
	logstring := h.Logstring()
	for _, item := range []string{`"samples": 6`, `"max": 100`, `"64": 1`} {
		if strings.Contains(logstring, item) == false {
			t.Errorf("expected %q in %q", item, logstring)
		}
	}
}

func TestPow2histConcur(t *testing.T) {
	h := NewPow2histogramInt64()

	var wg sync.WaitGroup
	nroutines, repeat := 8, 10000
	wg.Add(nroutines)
	for n := 0; n < nroutines; n++ {
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for i := 0; i < repeat; i++ {
				h.Add(r.Int63n(2048))
			}
		}(int64(n))
	}
	wg.Wait()

	if x := h.Samples(); x != int64(nroutines*repeat) {
		t.Errorf("expected %v, got %v", nroutines*repeat, x)
	}
	total := int64(0)
	for c := h.Minlevel(); c <= h.Maxlevel(); c++ {
		total += h.Level(c)
	}
	if x := h.Samples(); total != x {
		t.Errorf("expected %v, got %v", x, total)
	}
}

func BenchmarkPow2histAdd(b *testing.B) {
	h := NewPow2histogramInt64()
	for i := 0; i < b.N; i++ {
		h.Add(int64(i % 1024))
	}
}
