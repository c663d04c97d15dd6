package merkletree

import "math/bits"

// CompactTree is an append-only Merkle tree that keeps only O(log n)
// state: the roots of the maximal complete subtrees of the leaves
// appended so far, one per set bit of the leaf count. It produces the
// same roots as Tree for the same leaves and hasher, but answers no
// snapshot or proof queries -- use Tree for those. Useful when a
// process only needs to maintain the running root of a large log.
//
// Like Tree, a CompactTree is not safe for concurrent use.
type CompactTree struct {
	hasher *TreeHasher
	// roots[i] is the root of a complete subtree of 2^i leaves, or nil
	// when the leaf count has no such component. Appending a leaf adds
	// a 1-leaf subtree and merges equal-sized subtrees upward, exactly
	// like binary increment with carries.
	roots [][]byte
	size  int
}

// NewCompact returns an empty CompactTree bound to the given
// TreeHasher. Panics if hasher is nil.
func NewCompact(hasher *TreeHasher) *CompactTree {
	if hasher == nil {
		panic("merkletree: nil tree hasher")
	}
	return &CompactTree{hasher: hasher}
}

// LeafCount returns the number of leaves appended so far.
func (t *CompactTree) LeafCount() int {
	return t.size
}

// LevelCount returns the number of levels of the tree, with the same
// convention as Tree.LevelCount.
func (t *CompactTree) LevelCount() int {
	if t.size == 0 {
		return 0
	}
	return bits.Len(uint(t.size-1)) + 1
}

// NodeSize returns the size of a node digest in bytes.
func (t *CompactTree) NodeSize() int {
	return t.hasher.Size()
}

// AddLeaf hashes the given data blob and appends the resulting digest.
// Returns the position of the new leaf, counting from 1.
func (t *CompactTree) AddLeaf(data []byte) int {
	return t.AddLeafHash(t.hasher.HashLeaf(data))
}

// AddLeafHash appends an already computed leaf digest.
func (t *CompactTree) AddLeafHash(leafHash []byte) int {
	carry := leafHash
	for i := range t.roots {
		if t.roots[i] == nil {
			t.roots[i] = carry
			carry = nil
			break
		}
		carry = t.hasher.HashChildren(t.roots[i], carry)
		t.roots[i] = nil
	}
	if carry != nil {
		t.roots = append(t.roots, carry)
	}
	t.size++
	return t.size
}

// CurrentRoot folds the stored subtree roots from the smallest subtree
// upward and returns the root of the whole tree. The fold direction
// matches the promoted-duplicate rule of the full tree: a lone right
// fringe is absorbed into the larger subtree on its left unchanged.
// Returns the hasher's empty-tree digest if no leaves have been added.
func (t *CompactTree) CurrentRoot() []byte {
	if t.size == 0 {
		return t.hasher.EmptyRoot()
	}
	var root []byte
	for i := range t.roots {
		if t.roots[i] == nil {
			continue
		}
		if root == nil {
			root = t.roots[i]
			continue
		}
		root = t.hasher.HashChildren(t.roots[i], root)
	}
	return root
}
