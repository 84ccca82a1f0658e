package cpu

// contentionPct is ready time as a percentage of CPU time. Without CPU time
// there is nothing to compare against, so the ratio is 0 rather than +Inf.
func contentionPct(readyMs, cpuMs float64) float64 {
	if cpuMs <= 0 {
		return 0
	}
	return readyMs / cpuMs * 100
}
