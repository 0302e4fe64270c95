// Package procsource enumerates the processes running on this host.
//
// A Source returns one snapshot per call. Records come back sorted by pid
// so that identical process tables give identical trees.
package procsource

import (
	"cmp"
	"context"
	"slices"

	"go.trai.ch/zerr"

	"github.com/dkoosis/pstree/pkg/proctree"
)

// ErrUnavailable means the process table could not be read at all.
var ErrUnavailable = zerr.New("process source unavailable")

// Source produces a snapshot of the process table.
type Source interface {
	Snapshot(ctx context.Context) ([]proctree.Record, error)
}

// Static is a fixed process table.
type Static []proctree.Record

// Snapshot returns a copy of the table.
func (s Static) Snapshot(ctx context.Context) ([]proctree.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s), nil
}

func unavailable(err error, op string) error {
	wrapped := zerr.Wrap(ErrUnavailable, op+": "+err.Error())
	return zerr.With(wrapped, "op", op)
}

func sortByPID(records []proctree.Record) {
	slices.SortStableFunc(records, func(a, b proctree.Record) int {
		return cmp.Compare(a.PID, b.PID)
	})
}
