// Package cpu folds per-bucket CPU samples into per-process contention figures.
package cpu

import (
	"github.com/srodi/hotspot-report/pkg/telemetry"
	"github.com/srodi/hotspot-report/pkg/types"
)

// Aggregate merges every CPU sample of doc by process identity. CPU and ready
// time are summed and ContentionPct is recomputed from the totals on each
// merge. The result keeps the order in which identities were first seen.
func Aggregate(doc *telemetry.Document) []types.CPUAggregate {
	index := make(map[types.Identity]int)
	var aggs []types.CPUAggregate

	for _, bucket := range doc.Buckets {
		for _, sample := range bucket.CPU {
			id := types.Identity{Name: sample.ProcessName, PID: sample.ProcessID}
			if i, ok := index[id]; ok {
				agg := &aggs[i]
				agg.TotalCPUTimeMs += sample.CPUTimeMs
				agg.TotalReadyTimeMs += sample.ReadyTimeMs
				agg.Samples++
				agg.ContentionPct = contentionPct(agg.TotalReadyTimeMs, agg.TotalCPUTimeMs)
				continue
			}

			index[id] = len(aggs)
			aggs = append(aggs, types.CPUAggregate{
				ProcessName:      sample.ProcessName,
				ProcessID:        sample.ProcessID,
				TotalCPUTimeMs:   sample.CPUTimeMs,
				TotalReadyTimeMs: sample.ReadyTimeMs,
				ContentionPct:    contentionPct(sample.ReadyTimeMs, sample.CPUTimeMs),
				Samples:          1,
			})
		}
	}

	return aggs
}

// Contended returns the aggregates whose ContentionPct is at least thresholdPct,
// preserving their order.
func Contended(aggs []types.CPUAggregate, thresholdPct float64) []types.CPUAggregate {
	filtered := make([]types.CPUAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.ContentionPct >= thresholdPct {
			filtered = append(filtered, agg)
		}
	}
	return filtered
}
