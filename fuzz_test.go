package merkletree_test

import (
	"math/rand"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	"github.com/treelog/merkletree"
)

// The reference implementations below compute roots, paths and
// consistency proofs directly from the recursive definitions, with no
// caching or lazy evaluation. The tree is checked against them on
// randomized inputs and randomized query orders; since the tree
// evaluates lazily, the order of queries is significant.

// splitPoint returns the largest power of two strictly less than n.
func splitPoint(n int) int {
	k := 1
	for k < n {
		k <<= 1
	}
	return k >> 1
}

func referenceRoot(inputs [][]byte, th *merkletree.TreeHasher) []byte {
	switch len(inputs) {
	case 0:
		return th.EmptyRoot()
	case 1:
		return th.HashLeaf(inputs[0])
	}
	k := splitPoint(len(inputs))
	return th.HashChildren(
		referenceRoot(inputs[:k], th),
		referenceRoot(inputs[k:], th),
	)
}

// referencePath takes a 0-based leaf index within inputs.
func referencePath(leaf int, inputs [][]byte, th *merkletree.TreeHasher) [][]byte {
	n := len(inputs)
	if n == 1 {
		return nil
	}
	k := splitPoint(n)
	if leaf < k {
		return append(referencePath(leaf, inputs[:k], th), referenceRoot(inputs[k:], th))
	}
	return append(referencePath(leaf-k, inputs[k:], th), referenceRoot(inputs[:k], th))
}

func referenceConsistency(first int, inputs [][]byte, startOfTree bool, th *merkletree.TreeHasher) [][]byte {
	n := len(inputs)
	if first == n {
		if startOfTree {
			return nil
		}
		return [][]byte{referenceRoot(inputs, th)}
	}
	k := splitPoint(n)
	if first <= k {
		return append(
			referenceConsistency(first, inputs[:k], startOfTree, th),
			referenceRoot(inputs[k:], th),
		)
	}
	return append(
		referenceConsistency(first-k, inputs[k:], false, th),
		referenceRoot(inputs[:k], th),
	)
}

// randomBlobs generates deterministic pseudo-random leaf data,
// including empty blobs.
func randomBlobs(t *testing.T, n int, seed int64) [][]byte {
	t.Helper()
	blobs := make([][]byte, n)
	f := fuzz.NewWithSeed(seed).NilChance(0.05).NumElements(0, 64)
	for i := range blobs {
		var b []byte
		f.Fuzz(&b)
		blobs[i] = b
	}
	return blobs
}

func TestRootFuzz(t *testing.T) {
	if testing.Short() {
		t.Skip("TestRootFuzz skipped in short mode.")
	}
	const maxSize = 128
	hasher := merkletree.NewSHA256TreeHasher()
	blobs := randomBlobs(t, maxSize, 1)
	rng := rand.New(rand.NewSource(1))

	for size := 1; size <= maxSize; size++ {
		tree := merkletree.New(merkletree.NewSHA256TreeHasher())
		for _, b := range blobs[:size] {
			tree.AddLeaf(b)
		}
		for q := 0; q < 8; q++ {
			snapshot := rng.Intn(size + 1)
			require.Equal(t, referenceRoot(blobs[:snapshot], hasher), tree.RootAtSnapshot(snapshot),
				"size %d snapshot %d", size, snapshot)
		}
	}
}

func TestPathFuzz(t *testing.T) {
	if testing.Short() {
		t.Skip("TestPathFuzz skipped in short mode.")
	}
	const maxSize = 128
	hasher := merkletree.NewSHA256TreeHasher()
	blobs := randomBlobs(t, maxSize, 2)
	rng := rand.New(rand.NewSource(2))

	for size := 1; size <= maxSize; size++ {
		tree := merkletree.New(merkletree.NewSHA256TreeHasher())
		for _, b := range blobs[:size] {
			tree.AddLeaf(b)
		}
		for q := 0; q < 8; q++ {
			snapshot := rng.Intn(size + 1)
			leaf := rng.Intn(snapshot + 1)
			got := tree.PathToRootAtSnapshot(leaf, snapshot)
			if leaf == 0 || snapshot == 0 {
				require.Nil(t, got)
				continue
			}
			require.Equal(t, referencePath(leaf-1, blobs[:snapshot], hasher), got,
				"size %d leaf %d snapshot %d", size, leaf, snapshot)
		}
	}
}

func TestConsistencyFuzz(t *testing.T) {
	if testing.Short() {
		t.Skip("TestConsistencyFuzz skipped in short mode.")
	}
	const maxSize = 128
	hasher := merkletree.NewSHA256TreeHasher()
	blobs := randomBlobs(t, maxSize, 3)
	rng := rand.New(rand.NewSource(3))

	for size := 1; size <= maxSize; size++ {
		tree := merkletree.New(merkletree.NewSHA256TreeHasher())
		for _, b := range blobs[:size] {
			tree.AddLeaf(b)
		}
		for q := 0; q < 8; q++ {
			snapshot2 := rng.Intn(size + 1)
			snapshot1 := rng.Intn(snapshot2 + 1)
			got := tree.SnapshotConsistency(snapshot1, snapshot2)
			if snapshot1 == 0 || snapshot1 >= snapshot2 {
				require.Nil(t, got)
				continue
			}
			require.Equal(t, referenceConsistency(snapshot1, blobs[:snapshot2], true, hasher), got,
				"size %d consistency %d -> %d", size, snapshot1, snapshot2)
		}
	}
}
