package monitor

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ResourceUsage is the process and host memory sampled at the end of a run
type ResourceUsage struct {
	RSSBytes             uint64
	AllocMB              int64
	Goroutines           int
	SystemMemUsedPercent float64
}

// GetResourceUsage samples the current process and host
func GetResourceUsage() ResourceUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage := ResourceUsage{
		AllocMB:    int64(m.Alloc / 1024 / 1024),
		Goroutines: runtime.NumGoroutine(),
	}
	if rss, err := residentMemory(); err == nil {
		usage.RSSBytes = rss
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemUsedPercent = vmStat.UsedPercent
	}
	return usage
}

// residentMemory returns the resident set size of this process
func residentMemory() (uint64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return info.RSS, nil
}
