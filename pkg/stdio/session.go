// Package stdio serves the ranking tools to MCP clients as line-delimited
// JSON-RPC over a pair of streams, normally the process's stdin and stdout.
package stdio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/go-logr/logr"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/srodi/hotspot-report/pkg/report"
	"github.com/srodi/hotspot-report/pkg/tools"
)

const serverName = "hotspot-report"

// Session is an MCP tool server backed by a tools.Registry. Canonical tools
// and their aliases are all listed.
type Session struct {
	mcp *server.MCPServer
	log logr.Logger
}

// New registers every tool of registry, aliases included.
func New(registry *tools.Registry, log logr.Logger, version string) (*Session, error) {
	s := &Session{
		mcp: server.NewMCPServer(serverName, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		log: log.WithName("stdio"),
	}

	for _, desc := range registry.List() {
		schema, err := json.Marshal(desc.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("encoding input schema of %s: %w", desc.Name, err)
		}
		handler := s.toolHandler(registry, desc.Name)
		s.mcp.AddTool(mcp.NewToolWithRawSchema(desc.Name, desc.Description, schema), handler)
		for _, alias := range registry.Aliases(desc.Name) {
			s.mcp.AddTool(mcp.NewToolWithRawSchema(alias, fmt.Sprintf("Alias of %s. %s", desc.Name, desc.Description), schema), handler)
		}
	}
	return s, nil
}

// toolHandler reports unusable arguments and failed loads as tool results with
// isError set; the text is always the JSON result sequence or the argument error.
func (s *Session) toolHandler(registry *tools.Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(req.GetRawArguments())
		if err != nil {
			return nil, fmt.Errorf("re-encoding arguments: %w", err)
		}

		out, err := registry.Call(name, args)
		if err != nil {
			s.log.V(1).Info("tool call rejected", "tool", req.Params.Name, "err", err.Error())
			return mcp.NewToolResultError(err.Error()), nil
		}
		text, err := json.Marshal(out)
		if err != nil {
			return nil, err
		}
		s.log.V(1).Info("tool call", "tool", req.Params.Name, "status", out.Status())

		res := mcp.NewToolResultText(string(text))
		res.IsError = out.Status() == report.StatusError
		return res, nil
	}
}

// Serve answers requests read from in on out until in reaches EOF (nil) or
// ctx is cancelled (ctx.Err()). A read blocked on an idle stream does not
// delay cancellation.
func (s *Session) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(logWriter{s.log}, "", 0))

	s.log.V(1).Info("session started")
	err := stdio.Listen(ctx, in, out)
	s.log.V(1).Info("session ended", "err", err)
	return err
}

// logWriter forwards the SDK's *log.Logger output to logr.
type logWriter struct {
	log logr.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.log.Info(strings.TrimSpace(string(p)))
	return len(p), nil
}
