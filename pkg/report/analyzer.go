// Package report ranks the per-process aggregates built from a telemetry
// document and shapes them into results for callers.
package report

import (
	"github.com/go-logr/logr"

	"github.com/srodi/hotspot-report/pkg/collector/cpu"
	"github.com/srodi/hotspot-report/pkg/collector/memory"
	"github.com/srodi/hotspot-report/pkg/telemetry"
	"github.com/srodi/hotspot-report/pkg/types"
)

const (
	noContentionMessage = "No processes found with CPU contention >= 25%"
	noMemoryMessage     = "No processes found with memory usage data"
	cpuFailurePrefix    = "Failed to process performance data: "
	memoryFailurePrefix = "Failed to process memory performance data: "
)

// DocumentLoader obtains one parsed document per call.
type DocumentLoader interface {
	Load(path string) (*telemetry.Document, error)
}

// Analyzer answers ranking questions about telemetry documents. It keeps no
// per-call state, so one Analyzer can serve concurrent callers.
type Analyzer struct {
	loader DocumentLoader
	log    logr.Logger
}

// NewAnalyzer wires an Analyzer to its document source.
func NewAnalyzer(loader DocumentLoader, log logr.Logger) *Analyzer {
	return &Analyzer{loader: loader, log: log.WithName("analyzer")}
}

// RankCPUContention returns up to topN processes whose ready time is at least
// 25% of their CPU time, most contended first.
func (a *Analyzer) RankCPUContention(path string, topN int) Result[types.CPUAggregate] {
	doc, err := a.loader.Load(path)
	if err != nil {
		a.log.Error(err, "cpu contention ranking failed", "path", path)
		return Result[types.CPUAggregate]{Err: cpuFailurePrefix + err.Error()}
	}
	a.logSkipped(doc)

	aggs := cpu.Aggregate(doc)
	contended := cpu.Contended(aggs, types.ContentionThresholdPct)
	top := TopN(contended, topN, func(agg types.CPUAggregate) float64 { return agg.ContentionPct })
	a.log.V(1).Info("ranked cpu contention",
		"path", doc.Path, "fingerprint", doc.FingerprintHex(),
		"processes", len(aggs), "contended", len(contended), "returned", len(top))

	result := Result[types.CPUAggregate]{Records: top, DocumentFingerprint: doc.FingerprintHex()}
	if len(top) == 0 {
		result.Message = noContentionMessage
	}
	return result
}

// RankMemoryPressure returns up to topN processes with the largest working-set
// peaks, largest first.
func (a *Analyzer) RankMemoryPressure(path string, topN int) Result[types.MemoryAggregate] {
	doc, err := a.loader.Load(path)
	if err != nil {
		a.log.Error(err, "memory pressure ranking failed", "path", path)
		return Result[types.MemoryAggregate]{Err: memoryFailurePrefix + err.Error()}
	}
	a.logSkipped(doc)

	aggs := memory.Aggregate(doc)
	top := TopN(aggs, topN, func(agg types.MemoryAggregate) float64 { return agg.PeakWorkingSetSizeMiB })
	a.log.V(1).Info("ranked memory pressure",
		"path", doc.Path, "fingerprint", doc.FingerprintHex(),
		"processes", len(aggs), "returned", len(top))

	result := Result[types.MemoryAggregate]{Records: top, DocumentFingerprint: doc.FingerprintHex()}
	if len(top) == 0 {
		result.Message = noMemoryMessage
	}
	return result
}

func (a *Analyzer) logSkipped(doc *telemetry.Document) {
	if doc.Skipped > 0 {
		a.log.V(2).Info("skipped malformed records", "path", doc.Path, "count", doc.Skipped)
	}
}
