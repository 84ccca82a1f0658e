// Package tools exposes the rankings as named, JSON-argument tools shared by
// every transport.
package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/srodi/hotspot-report/pkg/report"
	"github.com/srodi/hotspot-report/pkg/types"
)

// Canonical tool names and the names the first tool server used.
const (
	RankCPUContention  = "rank_cpu_contention"
	RankMemoryPressure = "rank_memory_pressure"

	legacyCPUName    = "get_top_cpu_processes"
	legacyMemoryName = "get_top_memory_processes"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid arguments")
)

// Ranker is the analysis surface the tools call into.
type Ranker interface {
	RankCPUContention(path string, topN int) report.Result[types.CPUAggregate]
	RankMemoryPressure(path string, topN int) report.Result[types.MemoryAggregate]
}

// Defaults fill arguments the caller leaves out.
type Defaults struct {
	FilePath string
	TopN     int
}

// Args are the arguments every tool accepts.
type Args struct {
	FilePath string
	TopN     int
}

// Argument names, matched exactly.
const (
	argFilePath = "file_path"
	argTopN     = "top_n"
)

// Descriptor describes one tool to clients.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type tool struct {
	desc Descriptor
	call func(Args) report.Outcome
}

// Registry resolves tool names, decodes arguments and runs the tool.
type Registry struct {
	defaults Defaults
	tools    map[string]*tool
	aliases  map[string]string
}

// NewRegistry registers the CPU and memory rankings backed by ranker.
func NewRegistry(ranker Ranker, defaults Defaults) *Registry {
	r := &Registry{
		defaults: defaults,
		tools:    make(map[string]*tool),
		aliases:  make(map[string]string),
	}
	r.register(RankCPUContention,
		"Rank processes by CPU contention: ready time as a percentage of CPU time, merged across buckets. Only processes at or above 25% are returned.",
		func(a Args) report.Outcome { return ranker.RankCPUContention(a.FilePath, a.TopN) },
		legacyCPUName)
	r.register(RankMemoryPressure,
		"Rank processes by peak working set size (MiB) across all buckets.",
		func(a Args) report.Outcome { return ranker.RankMemoryPressure(a.FilePath, a.TopN) },
		legacyMemoryName)
	return r
}

func (r *Registry) register(name, description string, call func(Args) report.Outcome, aliases ...string) {
	r.tools[name] = &tool{
		desc: Descriptor{
			Name:        name,
			Description: description,
			InputSchema: r.inputSchema(),
		},
		call: call,
	}
	for _, alias := range aliases {
		r.aliases[alias] = name
	}
}

func (r *Registry) inputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			argFilePath: map[string]any{
				"type":        "string",
				"description": "Telemetry document, relative to the server's base directory.",
				"default":     r.defaults.FilePath,
			},
			argTopN: map[string]any{
				"type":        "integer",
				"description": "Maximum number of processes to return.",
				"default":     r.defaults.TopN,
			},
		},
	}
}

// List returns the canonical tools sorted by name.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.desc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Aliases returns the other names a canonical tool answers to, sorted.
func (r *Registry) Aliases(name string) []string {
	var out []string
	for alias, canonical := range r.aliases {
		if canonical == name {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// Resolve maps a tool name or alias to its canonical name.
func (r *Registry) Resolve(name string) (string, error) {
	if _, ok := r.tools[name]; ok {
		return name, nil
	}
	if canonical, ok := r.aliases[name]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
}

// DecodeArgs parses a JSON object of tool arguments. Empty input, null and
// missing members take the registry defaults.
func (r *Registry) DecodeArgs(raw json.RawMessage) (Args, error) {
	args := Args{FilePath: r.defaults.FilePath, TopN: r.defaults.TopN}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return args, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Args{}, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if err := errors.Join(
		decodeArg(fields, argFilePath, &args.FilePath),
		decodeArg(fields, argTopN, &args.TopN),
	); err != nil {
		return Args{}, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return args, nil
}

// decodeArg leaves dst at its default when name is absent or null.
func decodeArg[T any](fields map[string]json.RawMessage, name string, dst *T) error {
	raw, ok := fields[name]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Call runs the named tool. Errors are reserved for unknown tools and
// undecodable arguments; analysis failures are part of the Outcome.
func (r *Registry) Call(name string, raw json.RawMessage) (report.Outcome, error) {
	canonical, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	args, err := r.DecodeArgs(raw)
	if err != nil {
		return nil, err
	}
	return r.tools[canonical].call(args), nil
}
