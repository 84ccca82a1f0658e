package ui

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/srodi/hotspot-report/pkg/report"
	"github.com/srodi/hotspot-report/pkg/types"
)

// CPUTable writes the CPU contention ranking as an aligned table, or the
// result's message or error line when it carries no records.
func CPUTable(w io.Writer, res report.Result[types.CPUAggregate]) error {
	if done, err := writeNotice(w, res.Status(), res.Message, res.Err); done {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPID\tPROCESS\tCPU(ms)\tREADY(ms)\tCONTENTION(%)\tSAMPLES")
	for i, row := range res.Records {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%.2f\t%.2f\t%.2f\t%d\n",
			i+1, row.ProcessID, row.ProcessName, row.TotalCPUTimeMs, row.TotalReadyTimeMs, row.ContentionPct, row.Samples)
	}
	return tw.Flush()
}

// MemoryTable writes the memory pressure ranking like CPUTable.
func MemoryTable(w io.Writer, res report.Result[types.MemoryAggregate]) error {
	if done, err := writeNotice(w, res.Status(), res.Message, res.Err); done {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPID\tPROCESS\tPEAK WS(MiB)\tAVG WS(MiB)\tPEAK COMMIT(MiB)\tAVG COMMIT(MiB)\tSNAPSHOTS")
	for i, row := range res.Records {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%d\n",
			i+1, row.ProcessID, row.ProcessName, row.PeakWorkingSetSizeMiB, row.AvgWorkingSetSizeMiB,
			row.PeakCommitSizeMiB, row.AvgCommitSizeMiB, row.Snapshots)
	}
	return tw.Flush()
}

func writeNotice(w io.Writer, status report.Status, message, errMsg string) (bool, error) {
	switch status {
	case report.StatusError:
		_, err := fmt.Fprintf(w, "%s[x] %s%s\n", alertRed, errMsg, reset)
		return true, err
	case report.StatusEmpty:
		_, err := fmt.Fprintf(w, "%s[-] %s%s\n", noticeGray, message, reset)
		return true, err
	}
	return false, nil
}
