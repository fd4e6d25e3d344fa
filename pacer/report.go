package pacer

import "fmt"
import "io"

// PrintReport write the configured pacing ceiling and the observed
// delay histogram onto w.
func (p *Pacer) PrintReport(w io.Writer) {
	fmt.Fprintf(w, "ALLOCATION PACING:\n\n")

	fmt.Fprintf(w, "Max pacing delay is set for %v ms.\n\n", p.maxdelay)

	fmt.Fprintf(w, "Higher delay would prevent application outpacing the collector, but it\n")
	fmt.Fprintf(w, "will hide collector latencies from the pause times. Pacing affects the\n")
	fmt.Fprintf(w, "individual threads, and so it would also be invisible to the usual\n")
	fmt.Fprintf(w, "profiling tools, but would add up to end-to-end application latency.\n")
	fmt.Fprintf(w, "Raise max pacing delay with care.\n\n")

	fmt.Fprintf(w, "Actual pacing delays histogram:\n\n")
	fmt.Fprintf(w, "%10v - %10v %12v\n", "From", "To", "Count")
	if p.h_delays.Samples() == 0 {
		return
	}
	for c := p.h_delays.Minlevel(); c <= p.h_delays.Maxlevel(); c++ {
		from := int64(0)
		if c > 0 {
			from = int64(1) << uint(c-1)
		}
		to := int64(1) << uint(c)
		fmt.Fprintf(w, "%7v ms - %7v ms: %12v\n", from, to, p.h_delays.Level(c))
	}
}
