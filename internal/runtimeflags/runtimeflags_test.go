package runtimeflags

import (
	"testing"

	"coolc/internal/gc"
)

func TestParseRecognisesEveryFlag(t *testing.T) {
	cfg, rest, err := Parse([]string{
		"+PrintGCStatistics", "GCAlgo=4", "MaxHeapSize=2Mb", "+TraceGC", "program.cl",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.PrintGCStatistics {
		t.Fatalf("expected PrintGCStatistics to be set")
	}
	if cfg.GCAlgo != gc.AlgoSemispaceCopy {
		t.Fatalf("GCAlgo = %v, want SEMISPACE_COPY", cfg.GCAlgo)
	}
	if cfg.MaxHeapSize != 2*1024*1024 {
		t.Fatalf("MaxHeapSize = %d, want 2Mb", cfg.MaxHeapSize)
	}
	if len(cfg.Trace) != 1 || cfg.Trace[0] != "GC" {
		t.Fatalf("Trace = %v, want [GC]", cfg.Trace)
	}
	if len(rest) != 1 || rest[0] != "program.cl" {
		t.Fatalf("rest = %v, want [program.cl]", rest)
	}
}

func TestParseDefaultsWhenNoFlagsGiven(t *testing.T) {
	cfg, rest, err := Parse([]string{"program.cl"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxHeapSize != DefaultHeapSize {
		t.Fatalf("MaxHeapSize = %d, want default %d", cfg.MaxHeapSize, DefaultHeapSize)
	}
	if cfg.GCAlgo != gc.AlgoMarkSweep {
		t.Fatalf("GCAlgo = %v, want MARK_SWEEP default", cfg.GCAlgo)
	}
	if len(rest) != 1 || rest[0] != "program.cl" {
		t.Fatalf("rest = %v", rest)
	}
}

func TestParseRejectsUnknownGCAlgo(t *testing.T) {
	if _, _, err := Parse([]string{"GCAlgo=99"}); err == nil {
		t.Fatalf("expected an error for an unknown GCAlgo index")
	}
}

func TestParseRejectsMalformedHeapSize(t *testing.T) {
	if _, _, err := Parse([]string{"MaxHeapSize=not-a-size"}); err == nil {
		t.Fatalf("expected an error for a malformed MaxHeapSize")
	}
}
