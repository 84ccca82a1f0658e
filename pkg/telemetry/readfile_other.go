//go:build !linux
// +build !linux

package telemetry

import "os"

func readDocument(path string) ([]byte, error) {
	return os.ReadFile(path)
}
