package merkletree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treelog/merkletree"
)

func TestCompactTreeEmpty(t *testing.T) {
	compact := merkletree.NewCompact(merkletree.NewSHA256TreeHasher())
	full := merkletree.New(merkletree.NewSHA256TreeHasher())

	assert.Equal(t, 0, compact.LeafCount())
	assert.Equal(t, 0, compact.LevelCount())
	assert.Equal(t, 32, compact.NodeSize())
	assert.Equal(t, full.CurrentRoot(), compact.CurrentRoot())
}

// The compact tree must agree with the full tree on every root and
// every size-derived count, for every size.
func TestCompactTreeMatchesFullTree(t *testing.T) {
	const maxSize = 256
	compact := merkletree.NewCompact(merkletree.NewSHA256TreeHasher())
	full := merkletree.New(merkletree.NewSHA256TreeHasher())

	for i := 0; i < maxSize; i++ {
		blob := []byte{byte(i), byte(i >> 4)}
		require.Equal(t, full.AddLeaf(blob), compact.AddLeaf(blob))
		require.Equal(t, full.LeafCount(), compact.LeafCount())
		require.Equal(t, full.LevelCount(), compact.LevelCount(), "size %d", i+1)
		require.Equal(t, full.CurrentRoot(), compact.CurrentRoot(), "size %d", i+1)
	}
}

func TestCompactTreeAddLeafHash(t *testing.T) {
	hasher := merkletree.NewSHA256TreeHasher()
	byData := merkletree.NewCompact(merkletree.NewSHA256TreeHasher())
	byHash := merkletree.NewCompact(merkletree.NewSHA256TreeHasher())

	for i := 0; i < 11; i++ {
		blob := []byte{byte(i)}
		byData.AddLeaf(blob)
		byHash.AddLeafHash(hasher.HashLeaf(blob))
	}
	assert.Equal(t, byData.CurrentRoot(), byHash.CurrentRoot())
}

// CurrentRoot must not consume the stored subtree roots: appending
// after a root query has to keep producing correct roots.
func TestCompactTreeRootIdempotent(t *testing.T) {
	compact := merkletree.NewCompact(merkletree.NewSHA256TreeHasher())
	full := merkletree.New(merkletree.NewSHA256TreeHasher())

	for i := 0; i < 20; i++ {
		blob := []byte{byte(i)}
		compact.AddLeaf(blob)
		full.AddLeaf(blob)
		first := compact.CurrentRoot()
		require.Equal(t, first, compact.CurrentRoot())
		require.Equal(t, full.CurrentRoot(), first)
	}
}
