// Package slotauthor implements the wall-clock-aligned slot ticker and the
// deterministic round-robin authorship rule (§4.9, §4.10), grounded in the
// teacher's consensus/dpos in-turn/out-of-turn rotation but replacing
// stake-weighted validator snapshots with a plain sorted peer set.
package slotauthor

import (
	"sort"
	"time"

	"github.com/tos-network/gtos-lite/types"
)

// SlotSeconds is the fixed slot length.
const SlotSeconds = 20

// Slot is a slot index: floor(unix_seconds / SlotSeconds).
type Slot uint64

// SlotAt returns the slot index containing the given wall-clock time.
func SlotAt(t time.Time) Slot {
	return Slot(t.Unix() / SlotSeconds)
}

// Ticker emits one tick per slot, aligned so that every tick's wall-clock
// time is an exact multiple of SlotSeconds. The first tick is delayed by
// SlotSeconds - (now % SlotSeconds), or not at all when now is already a
// multiple of SlotSeconds, so that nodes started at different times
// converge on the same cadence.
type Ticker struct {
	C       <-chan Slot
	stop    chan struct{}
	nowFn   func() time.Time
	afterFn func(time.Duration) <-chan time.Time
}

// NewTicker starts a Ticker against the real wall clock.
func NewTicker() *Ticker {
	return newTicker(time.Now, time.After)
}

func newTicker(nowFn func() time.Time, afterFn func(time.Duration) <-chan time.Time) *Ticker {
	c := make(chan Slot)
	t := &Ticker{C: c, stop: make(chan struct{}), nowFn: nowFn, afterFn: afterFn}
	go t.run(c)
	return t
}

func (t *Ticker) run(c chan<- Slot) {
	for {
		now := t.nowFn()
		rem := SlotSeconds - (now.Unix() % SlotSeconds)
		if rem == SlotSeconds {
			rem = 0
		}
		select {
		case <-t.afterFn(time.Duration(rem) * time.Second):
		case <-t.stop:
			return
		}
		slot := SlotAt(t.nowFn())
		select {
		case c <- slot:
		case <-t.stop:
			return
		}
		// Wait one second before recomputing alignment, so the clock has
		// moved past this slot's boundary second and one slot never yields
		// two ticks.
		select {
		case <-t.afterFn(time.Second):
		case <-t.stop:
			return
		}
	}
}

// Stop halts the ticker. Safe to call once.
func (t *Ticker) Stop() { close(t.stop) }

// NewManualTicker returns a Ticker whose C channel is driven entirely by
// the caller, for node-loop tests that need to fire specific slots without
// waiting on the wall clock.
func NewManualTicker() (*Ticker, chan<- Slot) {
	c := make(chan Slot)
	return &Ticker{C: c, stop: make(chan struct{})}, c
}

// Author computes the deterministic leader for slot among the peer set
// (which must already exclude no one — callers pass peers ∪ {self}).
// Sorting is lexicographic on raw AccountId bytes so every node agrees.
func Author(peers []types.AccountId, slot Slot) types.AccountId {
	sorted := make([]types.AccountId, len(peers))
	copy(sorted, peers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	idx := int(uint64(slot) % uint64(len(sorted)))
	return sorted[idx]
}

// ShouldAuthor reports whether self is the author for slot, given the
// currently connected peer set (self not included in peers). Per the
// safety rule in §4.10/§5, a node with zero peers never produces — a
// single isolated node cannot safely claim to be the sole leader.
func ShouldAuthor(self types.AccountId, peers []types.AccountId, slot Slot) bool {
	if len(peers) == 0 {
		return false
	}
	all := append(append([]types.AccountId{}, peers...), self)
	return Author(all, slot) == self
}
