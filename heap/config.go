package heap

import s "github.com/bnclabs/gosettings"
import "github.com/cloudfoundry/gosigar"

// Heap configurable parameters and default settings.
//
// "capacity" (int64, default: free system memory)
//		Maximum number of bytes the heap can hold.
func Defaultsettings() s.Settings {
	_, _, free := getsysmem()
	return s.Settings{
		"capacity": int64(free),
	}
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	mem.Get()
	return mem.Total, mem.Used, mem.Free
}
