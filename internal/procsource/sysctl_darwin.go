//go:build darwin

package procsource

import (
	"context"

	"golang.org/x/sys/unix"

	"github.com/dkoosis/pstree/pkg/proctree"
)

// Default returns the source for this platform.
func Default() Source {
	return Sysctl{}
}

// Sysctl reads the kernel process table through the kern.proc.all sysctl.
type Sysctl struct{}

// Snapshot implements Source.
func (Sysctl) Snapshot(ctx context.Context) ([]proctree.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	procs, err := unix.SysctlKinfoProcSlice("kern.proc.all")
	if err != nil {
		return nil, unavailable(err, "sysctl kern.proc.all")
	}

	records := make([]proctree.Record, 0, len(procs))
	for i := range procs {
		kp := &procs[i]
		if kp.Proc.P_pid <= 0 {
			continue
		}
		records = append(records, proctree.Record{
			PID:  int(kp.Proc.P_pid),
			PPID: int(kp.Eproc.Ppid),
			Name: unix.ByteSliceToString(kp.Proc.P_comm[:]),
		})
	}

	sortByPID(records)
	return records, nil
}
