// Package merkletree implements the append-only binary Merkle hash
// tree of the Certificate Transparency logs (RFC 6962).
//
// A Tree commits to a growing sequence of opaque data blobs. Appends
// are cheap: only the leaf digest is stored, and the inner levels are
// evaluated lazily when a root or proof is requested. The tree answers
// root queries for any historical snapshot (a snapshot is simply a
// leaf count), builds audit paths proving that a leaf is included in a
// snapshot, and builds consistency proofs showing that one snapshot's
// leaves are a prefix of a later snapshot's.
//
// Hashing is delegated to a TreeHasher, which applies the RFC 6962
// domain separation (0x00 for leaves, 0x01 for inner nodes) over an
// injected hash.Hash. Proofs can be verified with
// InclusionProof.Verify and ConsistencyProof.Verify, and serialized
// through the pb subpackage.
//
// None of the types in this package are safe for concurrent use; in
// particular Tree queries mutate internal cached state, so even
// read-only-looking calls must be serialized by the caller.
package merkletree
