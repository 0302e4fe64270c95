//go:build !linux && !darwin

package procsource

import (
	"context"
	"runtime"

	"go.trai.ch/zerr"

	"github.com/dkoosis/pstree/pkg/proctree"
)

// Default returns the source for this platform.
func Default() Source {
	return unsupported{}
}

type unsupported struct{}

func (unsupported) Snapshot(context.Context) ([]proctree.Record, error) {
	return nil, unavailable(zerr.New("no process table reader for "+runtime.GOOS), "snapshot")
}
