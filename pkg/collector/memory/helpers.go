package memory

import (
	"strconv"
	"strings"

	"github.com/srodi/hotspot-report/pkg/types"
)

// ParseProcessKey splits a memory section key such as "OUTLOOK.EXE (24212)"
// into name and PID. Keys without both parentheses are names with PID 0; a
// parenthesised part that is not an integer also yields PID 0.
func ParseProcessKey(raw string) types.Identity {
	open := strings.IndexByte(raw, '(')
	if open < 0 || !strings.Contains(raw, ")") {
		return types.Identity{Name: raw}
	}

	id := types.Identity{Name: strings.TrimSpace(raw[:open])}
	inner := raw[open+1:]
	if next := strings.IndexByte(inner, '('); next >= 0 {
		inner = inner[:next]
	}
	if end := strings.IndexByte(inner, ')'); end >= 0 {
		inner = inner[:end]
	}
	if pid, err := strconv.ParseInt(strings.TrimSpace(inner), 10, 64); err == nil {
		id.PID = pid
	}
	return id
}
