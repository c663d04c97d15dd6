package merkletree

// Appender is the write surface shared by Tree and CompactTree: append
// leaves and read the running root.
type Appender interface {
	// AddLeaf hashes data and appends the digest; returns the 1-based
	// position of the new leaf.
	AddLeaf(data []byte) int
	// AddLeafHash appends a precomputed leaf digest.
	AddLeafHash(leafHash []byte) int
	// LeafCount returns the number of leaves appended so far.
	LeafCount() int
	// LevelCount returns the number of levels of the evaluated tree.
	LevelCount() int
	// NodeSize returns the digest size in bytes.
	NodeSize() int
	// CurrentRoot returns the root over all appended leaves, or the
	// empty-tree digest when no leaves exist.
	CurrentRoot() []byte
}

// Prover is the query surface only the full Tree implements: roots of
// historical snapshots, audit paths and consistency proofs. Invalid or
// future arguments yield nil results, never panics.
type Prover interface {
	RootAtSnapshot(snapshot int) []byte
	PathToCurrentRoot(leaf int) [][]byte
	PathToRootAtSnapshot(leaf, snapshot int) [][]byte
	SnapshotConsistency(snapshot1, snapshot2 int) [][]byte
}

var (
	_ Appender = (*Tree)(nil)
	_ Appender = (*CompactTree)(nil)
	_ Prover   = (*Tree)(nil)
)
