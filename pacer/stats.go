package pacer

import "sync/atomic"

// Stats return pacing counters and the delay histogram for this
// pacer.
//
// "budget", "taxrate", "phase" the shared pacing state as of this
// call; "n_claimed", "n_denied" claim outcomes; "n_paced" mutators
// held back on the slow path; "n_forced" claims pushed through at the
// delay ceiling; "n_restarts" phase setups; "h_delays" the observed
// delay distribution, in milliseconds.
func (p *Pacer) Stats() map[string]interface{} {
	stats := make(map[string]interface{})
	stats["budget"] = atomic.LoadInt64(&p.budget)
	stats["taxrate"] = p.Taxrate()
	stats["phase"] = p.Phase()
	stats["n_claimed"] = atomic.LoadInt64(&p.n_claimed)
	stats["n_denied"] = atomic.LoadInt64(&p.n_denied)
	stats["n_paced"] = atomic.LoadInt64(&p.n_paced)
	stats["n_forced"] = atomic.LoadInt64(&p.n_forced)
	stats["n_restarts"] = atomic.LoadInt64(&p.n_restarts)
	stats["h_delays"] = p.h_delays.Fullstats()
	return stats
}
