package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const perfDoc = `{"buckets": [{"LowLevelMetric": {
  "CpuMetric": {"Processes": [
    {"ProcessName": "svc.exe", "ProcessId": 10, "CpuTimeMs": 100, "ReadyTimeMs": 20},
    {"ProcessName": "svc.exe", "ProcessId": 10, "CpuTimeMs": 50, "ReadyTimeMs": 20},
    {"ProcessName": "idle", "ProcessId": 0, "CpuTimeMs": 0, "ReadyTimeMs": 5}
  ]},
  "MemoryMetric": {
    "OUTLOOK.EXE (24212)": {"PeakWorkingSetSizeMiB": 300, "SnapshotCount": 2},
    "svchost": {"PeakWorkingSetSizeMiB": 40}
  }
}}]}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeDoc(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sys_perf.json"), []byte(perfDoc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return dir
}

func TestCPUCommandPrintsJSON(t *testing.T) {
	dir := writeDoc(t)
	out, err := execute(t, "cpu", "--base-dir", dir)
	if err != nil {
		t.Fatalf("cpu: %v", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(rows) != 1 || rows[0]["ProcessName"] != "svc.exe" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestMemoryCommandHonorsTop(t *testing.T) {
	dir := writeDoc(t)
	out, err := execute(t, "memory", "sys_perf.json", "--base-dir", dir, "--top", "1")
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(rows) != 1 || rows[0]["ProcessName"] != "OUTLOOK.EXE" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestMissingDocumentFails(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "cpu", "--base-dir", dir)
	if !errors.Is(err, errReportFailed) {
		t.Fatalf("expected errReportFailed, got %v", err)
	}
	if !strings.Contains(out, `"Error": "Failed to process performance data: `) {
		t.Fatalf("expected error record, got %s", out)
	}
}

func TestTerminalOutputRendersTable(t *testing.T) {
	orig := isTerminal
	isTerminal = func(io.Writer) bool { return true }
	defer func() { isTerminal = orig }()

	dir := writeDoc(t)
	out, err := execute(t, "cpu", "--base-dir", dir, "-n", "3")
	if err != nil {
		t.Fatalf("cpu: %v", err)
	}
	for _, want := range []string{"[Top 3 CPU contention] sys_perf.json", "CONTENTION(%)", "svc.exe", "26.67"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "cpu", "--base-dir", dir, "--json")
	if err != nil {
		t.Fatalf("cpu --json: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "[") {
		t.Fatalf("--json should bypass the table, got %s", out)
	}
}

func TestStdioCommandAnswersOnStdout(t *testing.T) {
	dir := writeDoc(t)
	root := newRootCmd()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"rank_cpu_contention"}}` + "\n"))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"stdio", "--base-dir", dir})
	if err := root.Execute(); err != nil {
		t.Fatalf("stdio: %v", err)
	}

	var resp struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
	}
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v\n%s", err, out.String())
	}
	if resp.Result.IsError || len(resp.Result.Content) != 1 || !strings.Contains(resp.Result.Content[0].Text, "svc.exe") {
		t.Fatalf("unexpected response: %s", out.String())
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	t.Setenv("HOTSPOT_TOP_N", "-1")
	_, err := execute(t, "cpu")
	if err == nil || errors.Is(err, errReportFailed) {
		t.Fatalf("expected a configuration error, got %v", err)
	}
}
