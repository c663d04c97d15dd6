package merkletree_test

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treelog/merkletree"
)

func TestBatchHasherMatchesSerial(t *testing.T) {
	hasher := merkletree.NewSHA256TreeHasher()
	batch := merkletree.NewBatchHasher(func() hash.Hash { return sha256.New() })

	for _, size := range []int{0, 1, 5, 8, 9, 100} {
		blobs := make([][]byte, size)
		for i := range blobs {
			blobs[i] = []byte(fmt.Sprintf("blob-%d", i))
		}
		digests := batch.HashLeaves(blobs)
		require.Len(t, digests, size)
		for i := range blobs {
			assert.Equal(t, hasher.HashLeaf(blobs[i]), digests[i], "size %d index %d", size, i)
		}
	}
}

func TestBatchHasherFeedsTree(t *testing.T) {
	batch := merkletree.NewBatchHasher(func() hash.Hash { return sha256.New() })
	blobs := make([][]byte, 50)
	for i := range blobs {
		blobs[i] = []byte{byte(i), byte(i * 7)}
	}

	serial := merkletree.New(merkletree.NewSHA256TreeHasher())
	for _, b := range blobs {
		serial.AddLeaf(b)
	}

	bulk := merkletree.New(merkletree.NewSHA256TreeHasher(), merkletree.InitialCapacity(len(blobs)))
	for _, d := range batch.HashLeaves(blobs) {
		bulk.AddLeafHash(d)
	}

	assert.Equal(t, serial.CurrentRoot(), bulk.CurrentRoot())
}

func TestBatchHasherNilConstructor(t *testing.T) {
	require.Panics(t, func() { merkletree.NewBatchHasher(nil) })
}
