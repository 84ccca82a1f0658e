//go:build linux
// +build linux

package telemetry

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// readDocument reads the whole file once, front to back, and tells the kernel so.
func readDocument(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Advisory only; tmpfs and some FUSE mounts reject it.
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)

	return io.ReadAll(f)
}
