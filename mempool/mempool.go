// Package mempool implements the pending-extrinsic pool: a capacity-bounded,
// insertion-ordered queue with dispatch-valid draining (§4.7). The
// per-signer pending count is cached with an LRU the way the teacher's
// consensus/dpos engine caches recent-signer lookups (recents/signatures
// ARC caches), and the included-set membership test in retain() is done
// with a real set type instead of a hand-rolled map-as-set.
package mempool

import (
	"errors"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	mapset "github.com/deckarep/golang-set"

	"github.com/tos-network/gtos-lite/types"
)

// ErrMempoolFull is returned by Submit when the pool is at capacity.
var ErrMempoolFull = errors.New("mempool: full")

const pendingCountCacheSize = 4096

// Pool is the pending-extrinsic pool.
type Pool struct {
	mu       sync.Mutex
	capacity int
	entries  []types.UncheckedExtrinsic
	counts   *lru.Cache // AccountId -> int, invalidated eagerly on any mutation
}

// New returns an empty Pool bounded to capacity entries.
func New(capacity int) *Pool {
	c, _ := lru.New(pendingCountCacheSize)
	return &Pool{capacity: capacity, counts: c}
}

// Submit appends ext to the pool, failing with ErrMempoolFull if the pool
// is already at capacity. An extrinsic whose (signer, nonce) key already
// sits in the pool is a duplicate — re-gossiped or resubmitted — and is
// dropped silently rather than appended a second time.
func (p *Pool) Submit(ext types.UncheckedExtrinsic) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := ext.Key()
	for _, e := range p.entries {
		if e.Key() == key {
			return nil
		}
	}
	if len(p.entries) >= p.capacity {
		return ErrMempoolFull
	}
	p.entries = append(p.entries, ext)
	p.counts.Remove(ext.Signer)
	return nil
}

// PendingCount returns the number of pool entries signed by account.
func (p *Pool) PendingCount(account types.AccountId) uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.counts.Get(account); ok {
		return v.(uint32)
	}
	var n uint32
	for _, e := range p.entries {
		if e.Signer == account {
			n++
		}
	}
	p.counts.Add(account, n)
	return n
}

// StartingNonce is the pallet-level lookup the caller supplies to
// drain_for_block so that contiguity can be checked against on-chain state
// without the mempool importing the system pallet directly.
type StartingNonce func(signer types.AccountId) (types.Nonce, error)

// DrainForBlock selects up to max extrinsics in dispatch-valid order
// (§4.7), removes them from the pool, and returns them. Entries are
// grouped by signer; within a group they are sorted by nonce ascending and
// only a contiguous run starting at startingNonce(signer) is taken — a gap
// stops that signer's run. Signer groups are ordered by signer bytes so two
// peers draining the same snapshot produce the same block.
func (p *Pool) DrainForBlock(max int, startingNonce StartingNonce) ([]types.UncheckedExtrinsic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	bySigner := make(map[types.AccountId][]types.UncheckedExtrinsic)
	for _, e := range p.entries {
		bySigner[e.Signer] = append(bySigner[e.Signer], e)
	}

	signers := make([]types.AccountId, 0, len(bySigner))
	for s := range bySigner {
		signers = append(signers, s)
	}
	sort.Slice(signers, func(i, j int) bool { return signers[i].Less(signers[j]) })

	var selected []types.UncheckedExtrinsic
	taken := make(map[types.ExtrinsicKey]bool)

	for _, signer := range signers {
		if len(selected) >= max {
			break
		}
		group := bySigner[signer]
		sort.Slice(group, func(i, j int) bool { return group[i].Nonce < group[j].Nonce })

		want, err := startingNonce(signer)
		if err != nil {
			return nil, err
		}
		for _, e := range group {
			if len(selected) >= max {
				break
			}
			if e.Nonce != want {
				break // gap: stop this signer's run
			}
			selected = append(selected, e)
			taken[e.Key()] = true
			want++
		}
	}

	if len(taken) > 0 {
		remaining := p.entries[:0:0]
		for _, e := range p.entries {
			if !taken[e.Key()] {
				remaining = append(remaining, e)
			} else {
				p.counts.Remove(e.Signer)
			}
		}
		p.entries = remaining
	}

	return selected, nil
}

// Retain removes every pool entry whose (signer, nonce) key is in
// includedKeys — called after executing a remotely received block so its
// extrinsics are evicted from every other node's pool.
func (p *Pool) Retain(includedKeys []types.ExtrinsicKey) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(includedKeys) == 0 {
		return
	}
	included := mapset.NewThreadUnsafeSet()
	for _, k := range includedKeys {
		included.Add(k)
	}
	remaining := p.entries[:0:0]
	for _, e := range p.entries {
		if included.Contains(e.Key()) {
			p.counts.Remove(e.Signer)
			continue
		}
		remaining = append(remaining, e)
	}
	p.entries = remaining
}

// Len reports the current number of pool entries.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// PendingNonce returns the "pending nonce" for account: the on-chain nonce
// plus the number of extrinsics from that account still sitting in the
// pool — the value GET /nonce/:account reports (§4.14), letting a client
// fire off several transactions without waiting for block confirmation.
func PendingNonce(onChain types.Nonce, pool *Pool, account types.AccountId) types.Nonce {
	return onChain + types.Nonce(pool.PendingCount(account))
}
