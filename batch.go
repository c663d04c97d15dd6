package merkletree

import (
	"hash"
	"runtime"
	"sync"
)

// BatchHasher computes leaf digests for many blobs in parallel, for
// bulk ingestion into a Tree or CompactTree via AddLeafHash. Leaf
// hashes are pure functions of their own data, so they parallelize
// freely; the append itself stays sequential and cheap.
type BatchHasher struct {
	maxWorkers int
	hasherPool sync.Pool
}

// NewBatchHasher returns a BatchHasher whose workers each hash with
// their own instance from newBase. Panics if newBase is nil.
func NewBatchHasher(newBase func() hash.Hash) *BatchHasher {
	if newBase == nil {
		panic("merkletree: nil base hasher constructor")
	}
	return &BatchHasher{
		maxWorkers: runtime.NumCPU(),
		hasherPool: sync.Pool{
			New: func() interface{} {
				return NewTreeHasher(newBase())
			},
		},
	}
}

// smallBatch is the size below which goroutine overhead outweighs the
// parallelism.
const smallBatch = 8

// HashLeaves returns the leaf digests of the given blobs, in input
// order. Small batches are hashed serially.
func (b *BatchHasher) HashLeaves(leaves [][]byte) [][]byte {
	digests := make([][]byte, len(leaves))
	if len(leaves) == 0 {
		return digests
	}

	if len(leaves) <= smallBatch {
		th := b.hasherPool.Get().(*TreeHasher)
		defer b.hasherPool.Put(th)
		for i, leaf := range leaves {
			digests[i] = th.HashLeaf(leaf)
		}
		return digests
	}

	numWorkers := b.maxWorkers
	if numWorkers > len(leaves) {
		numWorkers = len(leaves)
	}

	indexes := make(chan int, len(leaves))
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// A local hasher per worker; TreeHasher is not safe for
			// concurrent use.
			th := b.hasherPool.Get().(*TreeHasher)
			defer b.hasherPool.Put(th)
			for i := range indexes {
				digests[i] = th.HashLeaf(leaves[i])
			}
		}()
	}

	for i := range leaves {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return digests
}
