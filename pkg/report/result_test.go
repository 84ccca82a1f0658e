package report

import (
	"encoding/json"
	"testing"

	"github.com/srodi/hotspot-report/pkg/types"
)

func TestResultShapes(t *testing.T) {
	cases := []struct {
		name     string
		result   Result[types.CPUAggregate]
		status   Status
		expected string
	}{
		{
			name:     "error",
			result:   Result[types.CPUAggregate]{Err: "boom", Message: "ignored"},
			status:   StatusError,
			expected: `[{"Error":"boom"}]`,
		},
		{
			name:     "empty",
			result:   Result[types.CPUAggregate]{Message: "nothing"},
			status:   StatusEmpty,
			expected: `[{"Message":"nothing"}]`,
		},
		{
			name: "rows",
			result: Result[types.CPUAggregate]{Records: []types.CPUAggregate{{
				ProcessName: "svc.exe", ProcessID: 10, TotalCPUTimeMs: 150, TotalReadyTimeMs: 40, ContentionPct: 25, Samples: 2,
			}}},
			status:   StatusOK,
			expected: `[{"ProcessName":"svc.exe","ProcessId":10,"TotalCpuTimeMs":150,"TotalReadyTimeMs":40,"ContentionPct":25,"Samples":2}]`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.result.Status(); got != tc.status {
				t.Fatalf("expected status %s, got %s", tc.status, got)
			}
			data, err := json.Marshal(tc.result)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			if string(data) != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, data)
			}
		})
	}
}

func TestMemoryResultFieldNames(t *testing.T) {
	res := Result[types.MemoryAggregate]{Records: []types.MemoryAggregate{{
		ProcessName: "OUTLOOK.EXE", ProcessID: 24212, PeakWorkingSetSizeMiB: 1.5, Snapshots: 3,
	}}}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	expected := `[{"ProcessName":"OUTLOOK.EXE","ProcessId":24212,"PeakWorkingSetSizeMiB":1.5,"AvgWorkingSetSizeMiB":0,"PeakCommitSizeMiB":0,"AvgCommitSizeMiB":0,"Snapshots":3}]`
	if string(data) != expected {
		t.Fatalf("expected %s, got %s", expected, data)
	}
}
