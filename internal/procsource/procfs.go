package procsource

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"

	"go.trai.ch/zerr"

	"github.com/dkoosis/pstree/pkg/proctree"
)

// ErrMalformedStat is returned by ParseStat.
var ErrMalformedStat = zerr.New("malformed stat line")

// ctxCheckEvery is how many directory entries are scanned between
// cancellation checks.
const ctxCheckEvery = 256

// ProcFS reads a procfs mount such as /proc.
type ProcFS struct {
	Root string
}

// Snapshot scans Root for pid directories and parses each stat file.
// Processes that exit during the scan, or whose stat cannot be parsed, are
// left out.
func (p ProcFS) Snapshot(ctx context.Context) ([]proctree.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(p.Root)
	if err != nil {
		return nil, unavailable(err, "read "+p.Root)
	}

	records := make([]proctree.Record, 0, len(entries))
	for i, e := range entries {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if !e.IsDir() {
			continue
		}
		if _, err := strconv.Atoi(e.Name()); err != nil {
			continue
		}

		data, err := os.ReadFile(filepath.Join(p.Root, e.Name(), "stat"))
		if err != nil {
			continue
		}
		rec, err := ParseStat(data)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}

	sortByPID(records)
	return records, nil
}

// ParseStat extracts pid, ppid and command name from the contents of a
// /proc/<pid>/stat file. The command sits in parentheses and may itself
// contain spaces and parentheses, so the last ')' ends it.
func ParseStat(data []byte) (proctree.Record, error) {
	open := bytes.IndexByte(data, '(')
	closing := bytes.LastIndexByte(data, ')')
	if open <= 0 || closing < open {
		return proctree.Record{}, malformed("no command field", "")
	}

	pid, err := strconv.Atoi(string(bytes.TrimSpace(data[:open])))
	if err != nil {
		return proctree.Record{}, malformed("bad pid", string(data[:open]))
	}

	// After the command: state ppid pgrp ...
	fields := bytes.Fields(data[closing+1:])
	if len(fields) < 2 {
		return proctree.Record{}, malformed("missing ppid", "")
	}
	ppid, err := strconv.Atoi(string(fields[1]))
	if err != nil {
		return proctree.Record{}, malformed("bad ppid", string(fields[1]))
	}

	return proctree.Record{
		PID:  pid,
		PPID: ppid,
		Name: string(data[open+1 : closing]),
	}, nil
}

func malformed(reason, field string) error {
	err := zerr.Wrap(ErrMalformedStat, reason)
	if field != "" {
		err = zerr.With(err, "field", field)
	}
	return err
}
