package types

// DefaultTopK controls how many top processes a ranking returns when the caller does not say.
const DefaultTopK = 5

// DefaultDocument is the telemetry file name used when the caller does not name one.
const DefaultDocument = "sys_perf.json"

// ContentionThresholdPct is the minimum ready/CPU ratio (inclusive) for a process to count as contended.
const ContentionThresholdPct = 25.0

// UnknownProcess names CPU samples that carry no ProcessName.
const UnknownProcess = "Unknown"

// Identity keys repeated observations of one process across buckets.
type Identity struct {
	Name string
	PID  int64
}

// CPUAggregate accumulates CPU and ready time for one process across all buckets.
type CPUAggregate struct {
	ProcessName      string  `json:"ProcessName"`
	ProcessID        int64   `json:"ProcessId"`
	TotalCPUTimeMs   float64 `json:"TotalCpuTimeMs"`
	TotalReadyTimeMs float64 `json:"TotalReadyTimeMs"`
	ContentionPct    float64 `json:"ContentionPct"`
	Samples          int     `json:"Samples"`
}

// Identity returns the merge key of the aggregate.
func (a CPUAggregate) Identity() Identity {
	return Identity{Name: a.ProcessName, PID: a.ProcessID}
}

// MemoryAggregate tracks the working-set and commit footprint of one process.
// Only PeakWorkingSetSizeMiB and Snapshots are merged; the remaining fields
// keep the values of the first observation.
type MemoryAggregate struct {
	ProcessName           string  `json:"ProcessName"`
	ProcessID             int64   `json:"ProcessId"`
	PeakWorkingSetSizeMiB float64 `json:"PeakWorkingSetSizeMiB"`
	AvgWorkingSetSizeMiB  float64 `json:"AvgWorkingSetSizeMiB"`
	PeakCommitSizeMiB     float64 `json:"PeakCommitSizeMiB"`
	AvgCommitSizeMiB      float64 `json:"AvgCommitSizeMiB"`
	Snapshots             int64   `json:"Snapshots"`
}

// Identity returns the merge key of the aggregate.
func (a MemoryAggregate) Identity() Identity {
	return Identity{Name: a.ProcessName, PID: a.ProcessID}
}
