// Package ui renders ranking results for terminals.
package ui

import "strings"

const (
	reset      = "\033[0m"
	bold       = "\033[1m"
	dim        = "\033[2m"
	flame      = "\033[38;5;208m"
	honey      = "\033[38;5;214m"
	amber      = "\033[38;5;178m"
	seafoam    = "\033[38;5;49m"
	cobalt     = "\033[38;5;33m"
	alertRed   = "\033[38;5;203m"
	noticeGray = "\033[38;5;244m"
)

const tagline = "telemetry contention & memory pressure"

// Banner renders a one-line colored wordmark followed by the tagline.
func Banner() string {
	var b strings.Builder
	gradient := []string{flame, honey, amber, seafoam, cobalt}

	b.WriteString(bold)
	for i, r := range "hotspot" {
		b.WriteString(gradient[i%len(gradient)])
		b.WriteRune(r)
	}
	b.WriteString(reset + noticeGray + " report" + reset)
	b.WriteString(dim + "  ·  " + tagline + reset + "\n\n")
	return b.String()
}
