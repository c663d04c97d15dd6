package merkletree

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/treelog/merkletree/pb"
)

var (
	// ErrNilProof is returned when decoding a nil protobuf message.
	ErrNilProof = errors.New("nil proof")
	// ErrProofSize is returned when a decoded proof carries sizes that
	// cannot describe a valid proof.
	ErrProofSize = errors.New("invalid proof size fields")
)

// InclusionProof is an audit path proving that one leaf is included in
// the tree of TreeSize leaves. Path holds the sibling digests ordered
// from the leaf's own sibling up to, but not including, the root.
// LeafIndex counts from 1, matching Tree.PathToRootAtSnapshot.
type InclusionProof struct {
	LeafIndex uint64
	TreeSize  uint64
	Path      [][]byte
}

// NewInclusionProof wraps an audit path produced by
// Tree.PathToRootAtSnapshot or Tree.PathToCurrentRoot.
func NewInclusionProof(leaf, treeSize int, path [][]byte) InclusionProof {
	return InclusionProof{
		LeafIndex: uint64(leaf),
		TreeSize:  uint64(treeSize),
		Path:      path,
	}
}

// Verify replays the audit path starting from the leaf digest of data
// and reports whether it reproduces root, consuming the whole path in
// the process. At each level the position bits of the leaf decide the
// combine order: a right child absorbs the sibling from the left, a
// left child from the right, and levels where the snapshot's edge has
// no sibling are skipped.
func (p InclusionProof) Verify(th *TreeHasher, data, root []byte) bool {
	if p.LeafIndex == 0 || p.LeafIndex > p.TreeSize {
		return false
	}

	node := p.LeafIndex - 1
	lastNode := p.TreeSize - 1
	nodeHash := th.HashLeaf(data)
	path := p.Path

	for lastNode != 0 {
		if node&1 == 1 {
			if len(path) == 0 {
				return false
			}
			nodeHash = th.HashChildren(path[0], nodeHash)
			path = path[1:]
		} else if node < lastNode {
			if len(path) == 0 {
				return false
			}
			nodeHash = th.HashChildren(nodeHash, path[0])
			path = path[1:]
		}
		// Else the sibling does not exist and the parent is a promoted
		// copy of the node itself.
		node >>= 1
		lastNode >>= 1
	}

	return len(path) == 0 && bytes.Equal(nodeHash, root)
}

// ToProto converts the proof to its wire representation.
func (p InclusionProof) ToProto() *pb.InclusionProof {
	return &pb.InclusionProof{
		LeafIndex: p.LeafIndex,
		TreeSize:  p.TreeSize,
		Path:      p.Path,
	}
}

// InclusionProofFromProto converts a wire proof back. It rejects nil
// messages and size fields that cannot describe a valid proof; the
// path itself is checked by Verify.
func InclusionProofFromProto(msg *pb.InclusionProof) (InclusionProof, error) {
	if msg == nil {
		return InclusionProof{}, ErrNilProof
	}
	if msg.LeafIndex == 0 || msg.LeafIndex > msg.TreeSize {
		return InclusionProof{}, fmt.Errorf("%w: leaf %d, tree size %d",
			ErrProofSize, msg.LeafIndex, msg.TreeSize)
	}
	return InclusionProof{
		LeafIndex: msg.LeafIndex,
		TreeSize:  msg.TreeSize,
		Path:      msg.Path,
	}, nil
}

// ConsistencyProof proves that the first FirstSize leaves of the tree
// of SecondSize leaves are exactly the leaves committed to by the
// FirstSize-leaf root.
type ConsistencyProof struct {
	FirstSize  uint64
	SecondSize uint64
	Path       [][]byte
}

// NewConsistencyProof wraps a proof produced by
// Tree.SnapshotConsistency.
func NewConsistencyProof(snapshot1, snapshot2 int, path [][]byte) ConsistencyProof {
	return ConsistencyProof{
		FirstSize:  uint64(snapshot1),
		SecondSize: uint64(snapshot2),
		Path:       path,
	}
}

// Verify reports whether the proof links firstRoot to secondRoot: it
// rebuilds both roots from the proof nodes and compares. When
// FirstSize is a power of two the first tree is a complete subtree of
// the second and the proof does not repeat its root, so the walk is
// seeded with firstRoot itself; otherwise the first proof node seeds
// it.
func (p ConsistencyProof) Verify(th *TreeHasher, firstRoot, secondRoot []byte) bool {
	if p.FirstSize == 0 || p.FirstSize >= p.SecondSize {
		return false
	}

	node := p.FirstSize - 1
	lastNode := p.SecondSize - 1
	// Climb to the root of the largest complete subtree the first
	// tree's last leaf sits in, mirroring proof construction.
	for node&1 == 1 {
		node >>= 1
		lastNode >>= 1
	}

	path := p.Path
	var hash1, hash2 []byte
	if p.FirstSize&(p.FirstSize-1) == 0 {
		// The first tree is complete; its root is not in the proof.
		hash1, hash2 = firstRoot, firstRoot
	} else {
		if len(path) == 0 {
			return false
		}
		hash1, hash2 = path[0], path[0]
		path = path[1:]
	}

	for lastNode != 0 {
		if node&1 == 1 {
			if len(path) == 0 {
				return false
			}
			hash1 = th.HashChildren(path[0], hash1)
			hash2 = th.HashChildren(path[0], hash2)
			path = path[1:]
		} else if node < lastNode {
			if len(path) == 0 {
				return false
			}
			// Only the second tree extends to the right of the edge.
			hash2 = th.HashChildren(hash2, path[0])
			path = path[1:]
		}
		node >>= 1
		lastNode >>= 1
	}

	return len(path) == 0 &&
		bytes.Equal(hash1, firstRoot) &&
		bytes.Equal(hash2, secondRoot)
}

// ToProto converts the proof to its wire representation.
func (p ConsistencyProof) ToProto() *pb.ConsistencyProof {
	return &pb.ConsistencyProof{
		FirstSize:  p.FirstSize,
		SecondSize: p.SecondSize,
		Path:       p.Path,
	}
}

// ConsistencyProofFromProto converts a wire proof back.
func ConsistencyProofFromProto(msg *pb.ConsistencyProof) (ConsistencyProof, error) {
	if msg == nil {
		return ConsistencyProof{}, ErrNilProof
	}
	if msg.FirstSize == 0 || msg.FirstSize >= msg.SecondSize {
		return ConsistencyProof{}, fmt.Errorf("%w: first size %d, second size %d",
			ErrProofSize, msg.FirstSize, msg.SecondSize)
	}
	return ConsistencyProof{
		FirstSize:  msg.FirstSize,
		SecondSize: msg.SecondSize,
		Path:       msg.Path,
	}, nil
}
