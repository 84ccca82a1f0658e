package memory

import (
	"testing"

	"github.com/srodi/hotspot-report/pkg/telemetry"
	"github.com/srodi/hotspot-report/pkg/types"
)

func entry(key string, peak, avg, peakCommit, avgCommit float64, snapshots int64) telemetry.MemoryEntry {
	return telemetry.MemoryEntry{Key: key, Sample: telemetry.MemorySample{
		HasPeakWorkingSet:     true,
		PeakWorkingSetSizeMiB: peak,
		AvgWorkingSetSizeMiB:  avg,
		PeakCommitSizeMiB:     peakCommit,
		AvgCommitSizeMiB:      avgCommit,
		SnapshotCount:         snapshots,
	}}
}

func docWithMemory(buckets ...[]telemetry.MemoryEntry) *telemetry.Document {
	doc := &telemetry.Document{}
	for _, entries := range buckets {
		doc.Buckets = append(doc.Buckets, telemetry.Bucket{Memory: entries})
	}
	return doc
}

func TestAggregateTracksPeakAndKeepsFirstAverages(t *testing.T) {
	doc := docWithMemory(
		[]telemetry.MemoryEntry{entry("OUTLOOK.EXE (24212)", 300, 250, 400, 350, 3)},
		nil,
		[]telemetry.MemoryEntry{entry("OUTLOOK.EXE (24212)", 500, 480, 900, 850, 2)},
		[]telemetry.MemoryEntry{entry("OUTLOOK.EXE (24212)", 100, 90, 100, 90, 1)},
	)

	aggs := Aggregate(doc)
	if len(aggs) != 1 {
		t.Fatalf("expected one aggregate, got %+v", aggs)
	}
	want := types.MemoryAggregate{
		ProcessName:           "OUTLOOK.EXE",
		ProcessID:             24212,
		PeakWorkingSetSizeMiB: 500,
		AvgWorkingSetSizeMiB:  250,
		PeakCommitSizeMiB:     400,
		AvgCommitSizeMiB:      350,
		Snapshots:             6,
	}
	if aggs[0] != want {
		t.Fatalf("expected %+v, got %+v", want, aggs[0])
	}
}

func TestAggregateSkipsNonProcessEntries(t *testing.T) {
	doc := docWithMemory([]telemetry.MemoryEntry{
		{Key: "TotalCommitMiB", Sample: telemetry.MemorySample{}},
		entry("svchost", 12, 0, 0, 0, 1),
	})
	aggs := Aggregate(doc)
	if len(aggs) != 1 || aggs[0].ProcessName != "svchost" || aggs[0].ProcessID != 0 {
		t.Fatalf("expected only svchost, got %+v", aggs)
	}
}

func TestAggregateMergesOnParsedIdentity(t *testing.T) {
	doc := docWithMemory(
		[]telemetry.MemoryEntry{entry("db (42)", 10, 0, 0, 0, 1), entry("db (43)", 20, 0, 0, 0, 1)},
		[]telemetry.MemoryEntry{entry("db ( 42 )", 15, 0, 0, 0, 1)},
	)
	aggs := Aggregate(doc)
	if len(aggs) != 2 {
		t.Fatalf("expected two identities, got %+v", aggs)
	}
	if aggs[0].ProcessID != 42 || aggs[0].PeakWorkingSetSizeMiB != 15 || aggs[0].Snapshots != 2 {
		t.Fatalf("expected db/42 merged, got %+v", aggs[0])
	}
	if aggs[1].ProcessID != 43 {
		t.Fatalf("expected db/43 second, got %+v", aggs[1])
	}
}

func TestAggregatePeakNeverDecreases(t *testing.T) {
	peaks := []float64{5, 9, 3, 9, 12, 1}
	var buckets [][]telemetry.MemoryEntry
	for _, p := range peaks {
		buckets = append(buckets, []telemetry.MemoryEntry{entry("p (1)", p, 0, 0, 0, 0)})
	}

	last := 0.0
	for i := 1; i <= len(buckets); i++ {
		aggs := Aggregate(docWithMemory(buckets[:i]...))
		if aggs[0].PeakWorkingSetSizeMiB < last {
			t.Fatalf("peak decreased after %d samples: %.1f < %.1f", i, aggs[0].PeakWorkingSetSizeMiB, last)
		}
		last = aggs[0].PeakWorkingSetSizeMiB
	}
	if last != 12 {
		t.Fatalf("expected final peak 12, got %.1f", last)
	}
}
