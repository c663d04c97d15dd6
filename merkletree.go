package merkletree

// Tree is an append-only binary Merkle hash tree over a sequence of
// opaque data blobs, per the Certificate Transparency log construction
// (RFC 6962). It commits incrementally to new entries, answers root
// queries for the current tree and for any historical snapshot, and
// builds inclusion (audit) paths and consistency proofs between
// snapshots.
//
// The tree is evaluated lazily: AddLeaf only appends the leaf digest,
// and the levels above are brought up to date when a root or proof is
// queried. Because of that, queries mutate internal cached state, so a
// Tree is not safe for concurrent use -- including concurrent reads.
type Tree struct {
	hasher *TreeHasher

	// levels[0] holds one digest per appended leaf, in append order;
	// levels[i+1] holds the parents of levels[i]. The parent of
	// levels[i][j] and levels[i][j+1] (j even) sits at levels[i+1][j/2].
	// When levels[i][j] is the last node of its level with no right
	// sibling, the parent slot holds a copy of it instead:
	// levels[i+1][j/2] = levels[i][j].
	//
	// A tree with 5 leaves a0..a4 is therefore stored as
	//
	//	levels[3]: | root |
	//	levels[2]: | h20  | a4  |
	//	levels[1]: | h10  | h11 | a4 |
	//	levels[0]: | a0   | a1  | a2 | a3 | a4 |
	//
	// Since the tree only grows from the right, every stored node
	// except possibly the last one of each level is final. The last
	// node may be a promoted copy that is only valid for the snapshot
	// at which it was last evaluated; leavesProcessed tracks that
	// snapshot.
	levels [][][]byte

	// Number of leaves propagated up to the root so far.
	leavesProcessed int

	// Level count for the fully evaluated current tree. Maintained on
	// append so that LevelCount never has to trigger evaluation.
	levelCount int

	leafCapacity int
}

// Options configure a Tree at construction time.
type Options struct {
	// InitialCapacity pre-sizes the leaf level for callers that know
	// roughly how many leaves they will append.
	InitialCapacity int
}

// Option configures a Tree.
type Option func(*Options)

// InitialCapacity pre-allocates space for n leaf digests.
func InitialCapacity(n int) Option {
	return func(o *Options) {
		o.InitialCapacity = n
	}
}

// New returns an empty Tree bound to the given TreeHasher, which it
// owns exclusively from here on. Panics if hasher is nil.
func New(hasher *TreeHasher, setters ...Option) *Tree {
	if hasher == nil {
		panic("merkletree: nil tree hasher")
	}
	opts := Options{
		InitialCapacity: 128,
	}
	for _, setter := range setters {
		setter(&opts)
	}
	return &Tree{
		hasher:       hasher,
		leafCapacity: opts.InitialCapacity,
	}
}

// Index of the parent node in the level above.
func parent(node int) int {
	return node >> 1
}

// True if the node is a right child; false if it is the left (or only)
// child of its parent.
func isRightChild(node int) bool {
	return node&1 == 1
}

// Index of the node's sibling in the same level.
func sibling(node int) int {
	if isRightChild(node) {
		return node - 1
	}
	return node + 1
}

// A k-level tree holds up to 2^(k-1) leaves, so the level count grows
// exactly when the leaf count overflows a power of two.
func isPowerOfTwoPlusOne(leafCount int) bool {
	if leafCount == 0 {
		return false
	}
	if leafCount == 1 {
		return true
	}
	return (leafCount-1)&(leafCount-2) == 0
}

// LeafCount returns the number of leaves appended so far.
func (t *Tree) LeafCount() int {
	if len(t.levels) == 0 {
		return 0
	}
	return len(t.levels[0])
}

// LevelCount returns the number of levels of the fully evaluated tree:
// 0 for an empty tree, 1 for a single leaf, and ceil(log2(n))+1 for n
// leaves. It reflects every leaf appended so far even if the upper
// levels have not been evaluated yet.
func (t *Tree) LevelCount() int {
	return t.levelCount
}

// NodeSize returns the size of a node digest in bytes.
func (t *Tree) NodeSize() int {
	return t.hasher.Size()
}

// LeafHash returns the stored digest of the leaf-th leaf. Indexing
// starts at 1. Returns nil if leaf is 0 or exceeds the leaf count.
func (t *Tree) LeafHash(leaf int) []byte {
	if leaf <= 0 || leaf > t.LeafCount() {
		return nil
	}
	return t.levels[0][leaf-1]
}

// HashLeaf returns the digest the given data would get as a leaf,
// without appending it to the tree.
func (t *Tree) HashLeaf(data []byte) []byte {
	return t.hasher.HashLeaf(data)
}

// AddLeaf hashes the given data blob and appends the resulting digest
// to the tree. Only the leaf level is touched; the levels above are
// evaluated lazily on the next root or proof query. Returns the
// position of the new leaf, counting from 1, which equals the new leaf
// count.
func (t *Tree) AddLeaf(data []byte) int {
	return t.AddLeafHash(t.hasher.HashLeaf(data))
}

// AddLeafHash appends an already computed leaf digest to the tree. The
// caller is responsible for having produced it with the same
// domain-separated hasher this tree uses.
func (t *Tree) AddLeafHash(leafHash []byte) int {
	if len(t.levels) == 0 {
		t.levels = append(t.levels, make([][]byte, 0, t.leafCapacity))
		// The first leaf hash is also the first root.
		t.leavesProcessed = 1
	}
	t.levels[0] = append(t.levels[0], leafHash)
	leafCount := t.LeafCount()
	if isPowerOfTwoPlusOne(leafCount) {
		t.levelCount++
	}
	return leafCount
}

// CurrentRoot brings the tree up to date for the current leaf count and
// returns the root digest. Returns the hasher's empty-tree digest if no
// leaves have been added.
func (t *Tree) CurrentRoot() []byte {
	return t.RootAtSnapshot(t.LeafCount())
}

// RootAtSnapshot returns the root of the tree as it was when it held
// the first snapshot leaves. Snapshot 0 is the empty tree. Returns nil
// if the snapshot is in the future.
func (t *Tree) RootAtSnapshot(snapshot int) []byte {
	if snapshot == 0 {
		return t.hasher.EmptyRoot()
	}
	if snapshot < 0 || snapshot > t.LeafCount() {
		return nil
	}
	if snapshot >= t.leavesProcessed {
		return t.updateToSnapshot(snapshot)
	}
	// The tree has been evaluated past this snapshot already; the
	// cached nodes on the right edge are no longer valid for it.
	root, _ := t.recomputePastSnapshot(snapshot, 0, false)
	return root
}

// PathToCurrentRoot returns the audit path from the leaf-th leaf to the
// current root: the sibling digests ordered from the leaf's own sibling
// up to, but not including, the root. Indexing starts at 1. Returns nil
// if leaf is 0 or exceeds the leaf count.
func (t *Tree) PathToCurrentRoot(leaf int) [][]byte {
	return t.PathToRootAtSnapshot(leaf, t.LeafCount())
}

// PathToRootAtSnapshot returns the audit path from the leaf-th leaf to
// the root of the given snapshot, ordered from the leaf's sibling
// upward and excluding the root itself. Returns nil if leaf is 0, leaf
// exceeds the snapshot, or the snapshot is in the future.
func (t *Tree) PathToRootAtSnapshot(leaf, snapshot int) [][]byte {
	if leaf <= 0 || leaf > snapshot || snapshot > t.LeafCount() {
		return nil
	}
	return t.pathFromNodeToRootAtSnapshot(leaf-1, 0, snapshot)
}

// SnapshotConsistency returns the consistency proof showing that the
// first snapshot1 leaves of snapshot2's tree are exactly the leaves
// committed to by snapshot1's root. Returns nil if snapshot1 is 0,
// snapshot1 >= snapshot2, or snapshot2 is in the future.
func (t *Tree) SnapshotConsistency(snapshot1, snapshot2 int) [][]byte {
	if snapshot1 <= 0 || snapshot1 >= snapshot2 || snapshot2 > t.LeafCount() {
		return nil
	}

	level := 0
	// Rightmost node in snapshot1.
	node := snapshot1 - 1
	// Climb to the root of the largest complete subtree snapshot1's
	// last leaf sits in. Everything left of that node is identical in
	// both snapshots and needs no recording.
	for isRightChild(node) {
		node = parent(node)
		level++
	}

	if snapshot2 > t.leavesProcessed {
		// Bring the tree sufficiently up to date.
		t.updateToSnapshot(snapshot2)
	}

	var proof [][]byte
	// Record the node, unless it is already the root of snapshot1. A
	// node reached by the climb above roots a complete subtree, so its
	// cached value is final and valid for every later snapshot.
	if node != 0 {
		proof = append(proof, t.levels[level][node])
	}

	return append(proof, t.pathFromNodeToRootAtSnapshot(node, level, snapshot2)...)
}

// pathFromNodeToRootAtSnapshot returns the path from the node at the
// given index and level (both 0-based) to the root of the snapshot's
// tree, excluding the root.
func (t *Tree) pathFromNodeToRootAtSnapshot(node, level, snapshot int) [][]byte {
	if snapshot == 0 {
		return nil
	}
	// Index of the last node at this level in the snapshot's tree.
	lastNode := (snapshot - 1) >> uint(level)
	if level >= t.levelCount || node > lastNode || snapshot > t.LeafCount() {
		return nil
	}

	if snapshot > t.leavesProcessed {
		// Bring the tree sufficiently up to date.
		t.updateToSnapshot(snapshot)
	}

	var path [][]byte
	// Move up, recording the sibling of the current node at each level.
	for lastNode != 0 {
		sib := sibling(node)
		if sib < lastNode {
			// The sibling is fully left of the snapshot's edge, so its
			// cached value is correct for this snapshot.
			path = append(path, t.levels[level][sib])
		} else if sib == lastNode {
			// The sibling is the last node of the level for this
			// snapshot, so it may be a stale promoted copy; recompute
			// its value as of the snapshot.
			_, recomputed := t.recomputePastSnapshot(snapshot, level, true)
			path = append(path, recomputed)
		}
		// Else the sibling does not exist in the snapshot's tree and
		// the parent is a promoted copy of the node itself; record
		// nothing at this level.

		node = parent(node)
		lastNode = parent(lastNode)
		level++
	}

	return path
}

// updateToSnapshot evaluates the tree up to the given snapshot, which
// must not precede leavesProcessed nor exceed the leaf count, and
// returns its root. Stale promoted duplicates left over from earlier
// evaluations are overwritten on the way up.
func (t *Tree) updateToSnapshot(snapshot int) []byte {
	if snapshot == 0 {
		return t.hasher.EmptyRoot()
	}
	if snapshot == t.leavesProcessed {
		// Nothing new to evaluate.
		return t.levels[len(t.levels)-1][0]
	}

	level := 0
	// Index of the first node to process at the current level.
	firstNode := t.leavesProcessed
	// Index of the last node.
	lastNode := snapshot - 1

	// Process level by level until we converge to a single node.
	for lastNode != 0 {
		if len(t.levels) <= level+1 {
			t.levels = append(t.levels, nil)
		} else if len(t.levels[level+1]) == parent(firstNode)+1 {
			// The leftmost parent at the level above already exists,
			// but it may be a stale promoted duplicate; drop it so it
			// gets recomputed.
			t.levels[level+1] = t.levels[level+1][:len(t.levels[level+1])-1]
		}

		// Compute the parents of the new nodes at the current level,
		// starting at a left child and consuming pairs.
		for j := firstNode &^ 1; j < lastNode; j += 2 {
			t.levels[level+1] = append(t.levels[level+1],
				t.hasher.HashChildren(t.levels[level][j], t.levels[level][j+1]))
		}
		// If the last node of the level is a left child with no
		// sibling, promote its digest one level up by copy.
		if !isRightChild(lastNode) {
			t.levels[level+1] = append(t.levels[level+1], t.levels[level][lastNode])
		}

		firstNode = parent(firstNode)
		lastNode = parent(lastNode)
		level++
	}

	t.leavesProcessed = snapshot
	return t.levels[len(t.levels)-1][0]
}

// recomputePastSnapshot returns the root of a snapshot the tree has
// already been evaluated past, without trusting the cached nodes on the
// snapshot's right edge. Only the fringe along the path of the
// snapshot's last leaf has to be rehashed; every node left of that path
// is final. If wantNode is set, the rightmost node of the snapshot's
// tree at nodeLevel is captured in the same pass and returned alongside
// the root.
func (t *Tree) recomputePastSnapshot(snapshot, nodeLevel int, wantNode bool) (root, node []byte) {
	level := 0
	// Index of the rightmost node at the current level for this
	// snapshot.
	lastNode := snapshot - 1

	if snapshot == t.leavesProcessed {
		// Nothing to recompute.
		if wantNode && len(t.levels) > nodeLevel {
			if nodeLevel > 0 {
				lastLevel := t.levels[nodeLevel]
				node = lastLevel[len(lastLevel)-1]
			} else {
				// Leaf level: the last processed leaf itself.
				node = t.levels[0][lastNode]
			}
		}
		return t.levels[len(t.levels)-1][0], node
	}

	// Climb while the last node is a right child: its left sibling and
	// parent exist in the snapshot and equal the cached values.
	for isRightChild(lastNode) {
		if wantNode && nodeLevel == level {
			node = t.levels[level][lastNode]
		}
		lastNode = parent(lastNode)
		level++
	}

	// lastNode is now a left child with no right sibling in the
	// snapshot's tree; from here on its ancestors have to be rebuilt.
	subtreeRoot := t.levels[level][lastNode]
	if wantNode && nodeLevel == level {
		node = subtreeRoot
	}

	for lastNode != 0 {
		if isRightChild(lastNode) {
			subtreeRoot = t.hasher.HashChildren(t.levels[level][lastNode-1], subtreeRoot)
		}
		// Else the parent is a promoted copy of the current node and
		// contributes no hashing.
		lastNode = parent(lastNode)
		level++
		if wantNode && nodeLevel == level {
			node = subtreeRoot
		}
	}

	return subtreeRoot, node
}
