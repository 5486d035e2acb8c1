// Package runtimeflags parses the generated program's startup flags
// (spec.md §6's "Runtime CLI flags"): a small hand-rolled table over
// argv, in the same style as the teacher's cmd/sentra/main.go command
// table, rather than a heavyweight flag-parsing framework.
package runtimeflags

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"coolc/internal/errors"
	"coolc/internal/gc"
)

// DefaultHeapSize is used when MaxHeapSize is not given.
const DefaultHeapSize = 1 << 20 // 1Mb

// Config is the parsed result of one argv: the GC algorithm and heap
// size, plus the print/trace switches.
type Config struct {
	PrintGCStatistics   bool
	PrintAllocatedObjects bool
	Trace                 []string // every "+Trace*" flag seen, suffix only ("GC", "Alloc", ...)
	GCAlgo                gc.Algorithm
	MaxHeapSize           uint64
}

// Parse consumes every recognised flag from args and returns the
// remaining positional arguments alongside the resolved Config.
func Parse(args []string) (Config, []string, error) {
	cfg := Config{GCAlgo: gc.AlgoMarkSweep, MaxHeapSize: DefaultHeapSize}
	var rest []string

	for _, arg := range args {
		switch {
		case arg == "+PrintGCStatistics":
			cfg.PrintGCStatistics = true
		case arg == "+PrintAllocatedObjects":
			cfg.PrintAllocatedObjects = true
		case strings.HasPrefix(arg, "+Trace"):
			cfg.Trace = append(cfg.Trace, strings.TrimPrefix(arg, "+Trace"))
		case strings.HasPrefix(arg, "GCAlgo="):
			algo, err := parseAlgo(strings.TrimPrefix(arg, "GCAlgo="))
			if err != nil {
				return cfg, nil, err
			}
			cfg.GCAlgo = algo
		case strings.HasPrefix(arg, "MaxHeapSize="):
			v := strings.TrimPrefix(arg, "MaxHeapSize=")
			// Kb/Mb/Gb are binary multiples (1Kb = 1024 bytes); humanize
			// reads them as decimal, so spell them as Kib/Mib/Gib.
			if l := strings.ToLower(v); strings.HasSuffix(l, "kb") || strings.HasSuffix(l, "mb") || strings.HasSuffix(l, "gb") {
				v = v[:len(v)-1] + "ib"
			}
			size, err := humanize.ParseBytes(v)
			if err != nil {
				return cfg, nil, errors.New(errors.RuntimeAbort, "", 0, "invalid MaxHeapSize: %v", err)
			}
			cfg.MaxHeapSize = size
		default:
			rest = append(rest, arg)
		}
	}
	return cfg, rest, nil
}

// parseAlgo resolves GCAlgo=<N> to a gc.Algorithm, per spec.md §6's
// table: 0 zero, 1 mark-sweep, 2 threaded MC, 3 compressor, 4
// semispace. (MARK_COMPACT_LISP2 has no numeric slot in spec.md's
// table; it remains selectable only by constructing gc.Algorithm
// directly.)
func parseAlgo(s string) (gc.Algorithm, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.RuntimeAbort, "", 0, "invalid GCAlgo: %q", s)
	}
	switch n {
	case 0:
		return gc.AlgoZero, nil
	case 1:
		return gc.AlgoMarkSweep, nil
	case 2:
		return gc.AlgoThreadedMC, nil
	case 3:
		return gc.AlgoCompressor, nil
	case 4:
		return gc.AlgoSemispaceCopy, nil
	default:
		return 0, errors.New(errors.RuntimeAbort, "", 0, "unknown GCAlgo index %d", n)
	}
}
