// Package telemetry loads per-bucket process telemetry documents.
//
// A document looks like
//
//	{"buckets": [{"LowLevelMetric": {
//	    "CpuMetric": {"Processes": [{"ProcessName": "svc.exe", "ProcessId": 10, "CpuTimeMs": 100, "ReadyTimeMs": 20}]},
//	    "MemoryMetric": {"OUTLOOK.EXE (24212)": {"PeakWorkingSetSizeMiB": 512, "SnapshotCount": 4}}}}]}
//
// Every section is optional. Decoding is best effort below the root: a bucket,
// sample or memory entry with an unexpected shape is dropped and counted in
// Document.Skipped, the rest of the document is still usable.
package telemetry

import "fmt"

// Document is one parsed telemetry file. It is never mutated after Parse returns.
type Document struct {
	Path        string
	Fingerprint uint64
	Buckets     []Bucket
	// Skipped counts buckets, sections and entries dropped for having the wrong shape.
	Skipped int
}

// FingerprintHex renders the xxhash64 of the raw document bytes.
func (d *Document) FingerprintHex() string {
	return fmt.Sprintf("%016x", d.Fingerprint)
}

// Bucket is one time window. Either section may be empty.
type Bucket struct {
	CPU    []CPUSample
	Memory []MemoryEntry
}

// CPUSample is one process row of a bucket's CPU section.
// A missing ProcessName decodes as types.UnknownProcess, missing numbers as 0.
type CPUSample struct {
	ProcessName string
	ProcessID   int64
	CPUTimeMs   float64
	ReadyTimeMs float64
}

// MemoryEntry keeps the raw key of a memory section entry next to its sample,
// in document order.
type MemoryEntry struct {
	Key    string
	Sample MemorySample
}

// MemorySample holds the per-process memory counters of one bucket.
// Entries without PeakWorkingSetSizeMiB are totals or other non-process rows;
// HasPeakWorkingSet is false for them and the other fields are not decoded.
type MemorySample struct {
	HasPeakWorkingSet     bool
	PeakWorkingSetSizeMiB float64
	AvgWorkingSetSizeMiB  float64
	PeakCommitSizeMiB     float64
	AvgCommitSizeMiB      float64
	SnapshotCount         int64
}
