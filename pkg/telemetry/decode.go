package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/srodi/hotspot-report/pkg/types"
)

// Field names are matched exactly; encoding/json struct decoding would also
// accept differently cased keys.
const (
	bucketsField        = "buckets"
	lowLevelMetricField = "LowLevelMetric"
	cpuMetricField      = "CpuMetric"
	memoryMetricField   = "MemoryMetric"
	processesField      = "Processes"
	processNameField    = "ProcessName"
	processIDField      = "ProcessId"
	cpuTimeField        = "CpuTimeMs"
	readyTimeField      = "ReadyTimeMs"
	peakWorkingSetField = "PeakWorkingSetSizeMiB"
	avgWorkingSetField  = "AvgWorkingSetSizeMiB"
	peakCommitField     = "PeakCommitSizeMiB"
	avgCommitField      = "AvgCommitSizeMiB"
	snapshotCountField  = "SnapshotCount"
)

var (
	errNotObject   = errors.New("document root is not a JSON object")
	errNotIntegral = errors.New("number is not integral")
)

// Parse decodes a whole telemetry document. It fails only when data is not
// valid JSON or its root is not an object; anomalies further down are skipped.
func Parse(data []byte) (*Document, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errNotObject
	}

	doc := &Document{Fingerprint: xxhash.Sum64(data)}
	raw := root[bucketsField]
	if isNull(raw) {
		return doc, nil
	}
	var buckets []json.RawMessage
	if err := json.Unmarshal(raw, &buckets); err != nil {
		doc.Skipped++
		return doc, nil
	}

	doc.Buckets = make([]Bucket, 0, len(buckets))
	for _, raw := range buckets {
		bucket, skipped, ok := decodeBucket(raw)
		doc.Skipped += skipped
		if !ok {
			doc.Skipped++
			continue
		}
		doc.Buckets = append(doc.Buckets, bucket)
	}
	return doc, nil
}

// decodeObject returns the members of a JSON object. ok is false for any
// other value, null included.
func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func decodeBucket(raw json.RawMessage) (Bucket, int, bool) {
	var bucket Bucket
	fields, ok := decodeObject(raw)
	if !ok {
		return bucket, 0, false
	}
	if isNull(fields[lowLevelMetricField]) {
		return bucket, 0, true
	}
	low, ok := decodeObject(fields[lowLevelMetricField])
	if !ok {
		return bucket, 0, false
	}

	skipped := 0
	if section := low[cpuMetricField]; !isNull(section) {
		samples, n, ok := decodeCPUSection(section)
		skipped += n
		if !ok {
			skipped++
		}
		bucket.CPU = samples
	}
	if section := low[memoryMetricField]; !isNull(section) {
		entries, n, ok := decodeMemorySection(section)
		skipped += n
		if !ok {
			skipped++
		}
		bucket.Memory = entries
	}
	return bucket, skipped, true
}

func decodeCPUSection(raw json.RawMessage) ([]CPUSample, int, bool) {
	metric, ok := decodeObject(raw)
	if !ok {
		return nil, 0, false
	}
	if isNull(metric[processesField]) {
		return nil, 0, true
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(metric[processesField], &rows); err != nil {
		return nil, 0, false
	}

	samples := make([]CPUSample, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		sample, ok := decodeCPUSample(row)
		if !ok {
			skipped++
			continue
		}
		samples = append(samples, sample)
	}
	return samples, skipped, true
}

func decodeCPUSample(raw json.RawMessage) (CPUSample, bool) {
	fields, ok := decodeObject(raw)
	if !ok {
		return CPUSample{}, false
	}
	sample := CPUSample{ProcessName: types.UnknownProcess}
	err := errors.Join(
		decodeField(fields, processNameField, &sample.ProcessName),
		decodeIntegral(fields, processIDField, &sample.ProcessID),
		decodeField(fields, cpuTimeField, &sample.CPUTimeMs),
		decodeField(fields, readyTimeField, &sample.ReadyTimeMs),
	)
	if err != nil {
		return CPUSample{}, false
	}
	return sample, true
}

// decodeMemorySection walks the section object token by token so entries keep
// document order. A key repeated within one object keeps its first position
// and its last value.
func decodeMemorySection(raw json.RawMessage) ([]MemoryEntry, int, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, 0, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, 0, false
	}

	var keys []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, 0, false
		}
		key, ok := tok.(string)
		if !ok {
			return nil, 0, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, 0, false
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = value
	}

	entries := make([]MemoryEntry, 0, len(keys))
	skipped := 0
	for _, key := range keys {
		sample, ok := decodeMemorySample(values[key])
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, MemoryEntry{Key: key, Sample: sample})
	}
	return entries, skipped, true
}

func decodeMemorySample(raw json.RawMessage) (MemorySample, bool) {
	fields, ok := decodeObject(raw)
	if !ok {
		return MemorySample{}, false
	}
	peak, ok := fields[peakWorkingSetField]
	if !ok {
		return MemorySample{}, true
	}
	if isNull(peak) {
		return MemorySample{}, false
	}

	sample := MemorySample{HasPeakWorkingSet: true}
	err := errors.Join(
		decodeField(fields, peakWorkingSetField, &sample.PeakWorkingSetSizeMiB),
		decodeField(fields, avgWorkingSetField, &sample.AvgWorkingSetSizeMiB),
		decodeField(fields, peakCommitField, &sample.PeakCommitSizeMiB),
		decodeField(fields, avgCommitField, &sample.AvgCommitSizeMiB),
		decodeIntegral(fields, snapshotCountField, &sample.SnapshotCount),
	)
	if err != nil {
		return MemorySample{}, false
	}
	return sample, true
}

// decodeField leaves dst unchanged when name is absent or null.
func decodeField[T any](fields map[string]json.RawMessage, name string, dst *T) error {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// decodeIntegral accepts any JSON number without a fractional part, so 10 and
// 10.0 both decode as 10. dst is unchanged when name is absent or null.
func decodeIntegral(fields map[string]json.RawMessage, name string, dst *int64) error {
	var f float64
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("%s=%v: %w", name, f, errNotIntegral)
	}
	*dst = int64(f)
	return nil
}

func isNull(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || string(raw) == "null"
}
