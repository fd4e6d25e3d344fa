package pacer

import s "github.com/bnclabs/gosettings"

// Pacing configurable parameters and default settings.
//
// "enable" (bool, default: true)
//		Throttle mutator allocation against collector progress.
//		Calling any pacer operation other than Stats and PrintReport
//		on a disabled pacer is a contract violation and panics.
//
// "cycleslack" (int64, default: 10)
//		Percent of free space granted tax-free on each concurrent
//		phase, absorbing small fluctuations before throttling starts.
//
// "idleslack" (int64, default: 2)
//		Percent of heap capacity granted as the initial allowance
//		while no collection is running.
//
// "maxdelay" (int64, default: 10)
//		Ceiling, in milliseconds, on the delay a single allocation
//		can be paced for; past it the claim is forced through.
func Defaultsettings() s.Settings {
	return s.Settings{
		"enable":     true,
		"cycleslack": int64(10),
		"idleslack":  int64(2),
		"maxdelay":   int64(10),
	}
}
