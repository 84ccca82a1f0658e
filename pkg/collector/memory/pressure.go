// Package memory folds per-bucket memory metric maps into per-process
// working-set peaks.
package memory

import (
	"github.com/srodi/hotspot-report/pkg/telemetry"
	"github.com/srodi/hotspot-report/pkg/types"
)

// Aggregate merges every memory entry of doc by the identity parsed from its
// key. Entries without a working-set peak are skipped. Across duplicates the
// peak is a running maximum and snapshot counts are summed; the average and
// commit figures stay as first observed. The result keeps first-seen order.
func Aggregate(doc *telemetry.Document) []types.MemoryAggregate {
	index := make(map[types.Identity]int)
	var aggs []types.MemoryAggregate

	for _, bucket := range doc.Buckets {
		for _, entry := range bucket.Memory {
			sample := entry.Sample
			if !sample.HasPeakWorkingSet {
				continue
			}

			id := ParseProcessKey(entry.Key)
			if i, ok := index[id]; ok {
				agg := &aggs[i]
				agg.PeakWorkingSetSizeMiB = max(agg.PeakWorkingSetSizeMiB, sample.PeakWorkingSetSizeMiB)
				agg.Snapshots += sample.SnapshotCount
				continue
			}

			index[id] = len(aggs)
			aggs = append(aggs, types.MemoryAggregate{
				ProcessName:           id.Name,
				ProcessID:             id.PID,
				PeakWorkingSetSizeMiB: sample.PeakWorkingSetSizeMiB,
				AvgWorkingSetSizeMiB:  sample.AvgWorkingSetSizeMiB,
				PeakCommitSizeMiB:     sample.PeakCommitSizeMiB,
				AvgCommitSizeMiB:      sample.AvgCommitSizeMiB,
				Snapshots:             sample.SnapshotCount,
			})
		}
	}

	return aggs
}
