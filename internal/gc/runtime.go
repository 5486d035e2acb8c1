package gc

import (
	"coolc/internal/errors"
	"coolc/internal/runtimeobj"
)

// Algorithm names one of spec.md §4.8's collector strategies, the
// value a runtimeflags.Config's GCAlgo setting resolves to.
type Algorithm int

const (
	AlgoZero Algorithm = iota
	AlgoMarkSweep
	AlgoMarkCompactLisp2
	AlgoThreadedMC
	AlgoCompressor
	AlgoSemispaceCopy
)

func (a Algorithm) String() string {
	switch a {
	case AlgoZero:
		return "ZERO"
	case AlgoMarkSweep:
		return "MARK_SWEEP"
	case AlgoMarkCompactLisp2:
		return "MARK_COMPACT_LISP2"
	case AlgoThreadedMC:
		return "THREADED_MC"
	case AlgoCompressor:
		return "COMPRESSOR"
	case AlgoSemispaceCopy:
		return "SEMISPACE_COPY"
	default:
		return "UNKNOWN"
	}
}

// NewCollector resolves an Algorithm to its Collector, sharing one
// Marker across the collectors that need one.
func NewCollector(algo Algorithm, marker Marker) Collector {
	if marker == nil {
		marker = LIFOMarker{}
	}
	switch algo {
	case AlgoMarkSweep:
		return MarkSweepCollector{Marker: marker}
	case AlgoMarkCompactLisp2:
		return MarkCompactLisp2Collector{Marker: marker}
	case AlgoThreadedMC:
		return ThreadedCompactor{Marker: marker}
	case AlgoCompressor:
		return Compressor{Marker: marker}
	case AlgoSemispaceCopy:
		return SemispaceCopyCollector{}
	default:
		return ZeroCollector{}
	}
}

// Runtime ties together a heap, its allocator and collector, the
// stack walker supplying roots, and the well-known tags the marker
// needs for the special-type optimisation. It is the single object a
// running program's emitted allocation/GC calls route through.
type Runtime struct {
	Heap      *Heap
	Allocator Allocator
	Collector Collector
	Walker    StackWalker
	Tags      runtimeobj.WellKnownTags

	Stats []Stats
}

// NewRuntime builds a Runtime for one GC algorithm, picking the
// allocator spec.md §4.8 pairs it with: semispace collection needs a
// bump-pointer SemispaceAllocator over a split heap; every other
// strategy uses the free-chunk-walking NextFitAllocator over one
// contiguous heap.
func NewRuntime(heapSize int, algo Algorithm, walker StackWalker, tags runtimeobj.WellKnownTags) *Runtime {
	r := &Runtime{Walker: walker, Tags: tags, Collector: NewCollector(algo, LIFOMarker{})}
	if algo == AlgoSemispaceCopy {
		r.Heap = NewSemispaceHeap(heapSize / 2)
		r.Allocator = SemispaceAllocator{}
	} else {
		r.Heap = NewHeap(heapSize)
		r.Allocator = NextFitAllocator{}
	}
	return r
}

// Allocate hands back a fresh object's offset, tag and dispatch table
// already written. On first failure it runs one collection cycle and
// retries; a second failure aborts per spec.md §4.8 ("the allocator
// collects and retries once; a second failure is fatal").
func (r *Runtime) Allocate(tag int32, fieldCount int, dispatchTable uint64) (int, error) {
	if off, ok := r.Allocator.Allocate(r.Heap, tag, fieldCount, dispatchTable); ok {
		return off, nil
	}

	roots := r.Walker.Roots()
	newHeap, newRoots, stats, err := r.Collector.Collect(r.Heap, roots, r.Tags)
	r.Stats = append(r.Stats, stats)
	if err != nil {
		return 0, err
	}
	r.Walker.Relocate(roots, newRoots)
	r.Heap = newHeap

	if off, ok := r.Allocator.Allocate(r.Heap, tag, fieldCount, dispatchTable); ok {
		return off, nil
	}
	return 0, errors.New(errors.AllocationFailure, "", 0,
		"heap exhausted after collection: requested %d fields under %s", fieldCount, algorithmNameOf(r.Collector))
}

func algorithmNameOf(c Collector) string {
	switch c.(type) {
	case MarkSweepCollector:
		return "MARK_SWEEP"
	case MarkCompactLisp2Collector:
		return "MARK_COMPACT_LISP2"
	case ThreadedCompactor:
		return "THREADED_MC"
	case Compressor:
		return "COMPRESSOR"
	case SemispaceCopyCollector:
		return "SEMISPACE_COPY"
	default:
		return "ZERO"
	}
}
