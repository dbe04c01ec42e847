// Package metrics holds gtos-lite's process-local counters. The upstream
// client wires these into an InfluxDB reporter (see Config); this module's
// Non-goals exclude an observability backend, but the counters themselves
// are carried and surfaced over GET /state, in the same get/increment
// shape as the upstream Config/meter style.
package metrics

import "sync/atomic"

// Registry holds every counter the node maintains across its lifetime.
type Registry struct {
	blocksProduced    int64
	blocksExecuted    int64
	extrinsicsApplied int64
	extrinsicsSkipped int64
	dispatchFailures  map[string]*int64
}

// NewRegistry returns a zeroed Registry with a counter slot for each known
// pallet name.
func NewRegistry(pallets ...string) *Registry {
	r := &Registry{dispatchFailures: make(map[string]*int64, len(pallets))}
	for _, p := range pallets {
		var v int64
		r.dispatchFailures[p] = &v
	}
	return r
}

func (r *Registry) IncBlocksProduced()    { atomic.AddInt64(&r.blocksProduced, 1) }
func (r *Registry) IncBlocksExecuted()    { atomic.AddInt64(&r.blocksExecuted, 1) }
func (r *Registry) IncExtrinsicsApplied() { atomic.AddInt64(&r.extrinsicsApplied, 1) }
func (r *Registry) IncExtrinsicsSkipped() { atomic.AddInt64(&r.extrinsicsSkipped, 1) }

// IncDispatchFailure records a failed dispatch against pallet. Unknown
// pallet names are recorded under "unknown" rather than dropped.
func (r *Registry) IncDispatchFailure(pallet string) {
	ctr, ok := r.dispatchFailures[pallet]
	if !ok {
		ctr, ok = r.dispatchFailures["unknown"]
		if !ok {
			return
		}
	}
	atomic.AddInt64(ctr, 1)
}

// Snapshot is a point-in-time, read-only copy of every counter.
type Snapshot struct {
	BlocksProduced    int64
	BlocksExecuted    int64
	ExtrinsicsApplied int64
	ExtrinsicsSkipped int64
	DispatchFailures  map[string]int64
	ProcessCPUTimeCS  int64 // hundredths of a second
}

// Snapshot reads every counter without blocking writers.
func (r *Registry) Snapshot() Snapshot {
	failures := make(map[string]int64, len(r.dispatchFailures))
	for pallet, ctr := range r.dispatchFailures {
		failures[pallet] = atomic.LoadInt64(ctr)
	}
	return Snapshot{
		BlocksProduced:    atomic.LoadInt64(&r.blocksProduced),
		BlocksExecuted:    atomic.LoadInt64(&r.blocksExecuted),
		ExtrinsicsApplied: atomic.LoadInt64(&r.extrinsicsApplied),
		ExtrinsicsSkipped: atomic.LoadInt64(&r.extrinsicsSkipped),
		DispatchFailures:  failures,
		ProcessCPUTimeCS:  getProcessCPUTime(),
	}
}
