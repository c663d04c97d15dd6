package merkletree

import (
	"crypto/sha256"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
)

const (
	// LeafPrefix is the domain separation prefix for leaf hashes.
	LeafPrefix = 0
	// NodePrefix is the domain separation prefix for inner node hashes.
	NodePrefix = 1
)

// TreeHasher computes the domain-separated hashes the tree is built
// from, per the Certificate Transparency construction (RFC 6962):
// leaves are hashed as H(0x00 || data) and inner nodes as
// H(0x01 || left || right). The distinct prefixes prevent an attacker
// from presenting an inner node as a leaf or vice versa.
//
// A TreeHasher exclusively owns its base hasher and is not safe for
// concurrent use.
type TreeHasher struct {
	baseHasher hash.Hash
	emptyRoot  []byte
}

// NewTreeHasher wraps the given base hash function. Panics if
// baseHasher is nil; everything else in this package assumes a usable
// hasher is present.
func NewTreeHasher(baseHasher hash.Hash) *TreeHasher {
	if baseHasher == nil {
		panic("merkletree: nil base hasher")
	}
	return &TreeHasher{baseHasher: baseHasher}
}

// NewSHA256TreeHasher returns a TreeHasher over SHA-256, the hash
// function used by RFC 6962 logs.
func NewSHA256TreeHasher() *TreeHasher {
	return NewTreeHasher(sha256.New())
}

// NewBlake2bTreeHasher returns a TreeHasher over unkeyed BLAKE2b-256.
func NewBlake2bTreeHasher() *TreeHasher {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(fmt.Sprintf("merkletree: creating BLAKE2b hasher: %v", err))
	}
	return NewTreeHasher(h)
}

// Size returns the number of bytes in a digest produced by this hasher.
func (th *TreeHasher) Size() int {
	return th.baseHasher.Size()
}

// EmptyRoot returns the root of an empty tree: the bare hash of the
// empty string, with no domain prefix. The digest is constant for a
// given base hasher, so it is computed once and cached.
func (th *TreeHasher) EmptyRoot() []byte {
	if th.emptyRoot == nil {
		th.baseHasher.Reset()
		th.emptyRoot = th.baseHasher.Sum(nil)
	}
	return append([]byte(nil), th.emptyRoot...)
}

// HashLeaf computes the digest of a leaf: H(LeafPrefix || leaf).
func (th *TreeHasher) HashLeaf(leaf []byte) []byte {
	h := th.baseHasher
	h.Reset()
	// A single Write of the prefixed data is a little faster than
	// separate Writes on the underlying hash.
	data := make([]byte, 0, 1+len(leaf))
	data = append(data, LeafPrefix)
	data = append(data, leaf...)
	h.Write(data)
	return h.Sum(nil)
}

// HashChildren computes the digest of an inner node:
// H(NodePrefix || left || right).
func (th *TreeHasher) HashChildren(left, right []byte) []byte {
	h := th.baseHasher
	h.Reset()
	data := make([]byte, 0, 1+len(left)+len(right))
	data = append(data, NodePrefix)
	data = append(data, left...)
	data = append(data, right...)
	h.Write(data)
	return h.Sum(nil)
}
